package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/radiko/internal/adapters/socket"
	"github.com/corey/radiko/internal/app"
)

var configSave bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the resolved configuration (defaults, .radiko/config.yaml, .env, environment) and daemon status. No daemon required.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configSave, "save", false, "Write the resolved configuration to .radiko/config.yaml")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	paths := app.NewPaths(cfg.Workspace)
	sockPath := socket.SocketPath(cfg.Workspace)

	client := socket.NewClient(sockPath)
	daemonStatus := paint(colorYellow, "✗ not running")
	if client.Ping() {
		daemonStatus = paint(colorGreen, "✓ running")
	}

	limit := "unbounded"
	if cfg.StateLimit > 0 {
		limit = fmt.Sprintf("%d", cfg.StateLimit)
	}
	def := cfg.DefaultLexicon
	if def == "" {
		def = "(only stored lexicon)"
	}

	fmt.Println(paint(colorBold, "⚡ radiko config"))
	fmt.Printf("  Workspace:    %s\n", cfg.Workspace)
	fmt.Printf("  Config file:  %s\n", paths.Config)
	fmt.Printf("  DB:           %s\n", cfg.DBPath)
	fmt.Printf("  Lexicon dir:  %s\n", cfg.LexiconDir)
	fmt.Printf("  Watch:        %t\n", cfg.Watch)
	fmt.Printf("  Default:      %s\n", def)
	fmt.Printf("  State limit:  %s\n", limit)
	fmt.Printf("  Log level:    %s\n", cfg.LogLevel)
	fmt.Printf("  Socket:       %s\n", sockPath)
	fmt.Printf("  Daemon:       %s\n", daemonStatus)

	if configSave {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("⚡ wrote %s\n", paths.Config)
	}
	return nil
}
