package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/radiko/internal/adapters/socket"
	"github.com/corey/radiko/internal/app"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the radiko daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon (runs in the foreground)",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	root := workspaceRoot()
	sockPath := socket.SocketPath(root)

	// Check if already running
	client := socket.NewClient(sockPath)
	if client.Ping() {
		fmt.Println("⚡ daemon already running")
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	paths := app.NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create .radiko dirs: %w", err)
	}

	log, err := app.NewDaemonLogger(paths.DaemonLog, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(cfg, log)
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("cannot start: %s", diagnoseDBLock(root))
		}
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		return err
	}
	if err := os.WriteFile(paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		log.Warn("write pid file", zap.Error(err))
	}
	defer paths.CleanEphemeral()

	fmt.Printf("⚡ radiko daemon started at %s\n", sockPath)

	// Wait for a signal or a remote shutdown request
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-a.Server.ShutdownCh():
	}

	fmt.Println("\n⚡ shutting down...")
	return a.Stop()
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	sockPath := socket.SocketPath(workspaceRoot())
	client := socket.NewClient(sockPath)

	if !client.Ping() {
		fmt.Println("⚡ daemon is not running")
		return nil
	}

	if err := client.Shutdown(); err != nil {
		return err
	}

	// Wait briefly for the socket to go away.
	for i := 0; i < 20 && client.Ping(); i++ {
		time.Sleep(50 * time.Millisecond)
	}

	fmt.Println("⚡ daemon stopped")
	return nil
}
