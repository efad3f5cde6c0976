package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/radiko/internal/app"
)

var (
	workspaceFlag string
	verboseFlag   bool
	colorFlag     string
	noColorFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "radiko",
	Short: "Morpheme segmentation",
	Long:  "Splits words into prefixes, roots and suffixes against a lexicon, in-process or through a workspace daemon.",

	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		useColor = resolveColor(colorFlag, noColorFlag)
	},
}

// workspaceRoot returns the workspace root (cwd unless --workspace is set).
func workspaceRoot() string {
	dir := workspaceFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

func loadConfig() (app.Config, error) {
	cfg, err := app.LoadConfig(workspaceRoot())
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func cliLogger() *zap.Logger {
	return app.NewCLILogger(verboseFlag)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace root (default: current directory)")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "Log to stderr")
	pf.StringVar(&colorFlag, "color", "auto", "Color output: auto, always, never")
	pf.BoolVar(&noColorFlag, "no-color", false, "Disable color output")

	rootCmd.AddCommand(decomposeCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(lexiconsCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}
