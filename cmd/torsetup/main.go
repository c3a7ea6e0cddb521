package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hardenlabs/torsetup/internal/config"
	"github.com/hardenlabs/torsetup/internal/setup"
	"github.com/hardenlabs/torsetup/internal/ui"
	"github.com/hardenlabs/torsetup/internal/utils"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// CLI flags
	configPath string
	logFile    string

	// Global root command
	rootCmd = &cobra.Command{
		Use:   "torsetup",
		Short: "An interactive Tor and Proxychains setup tool",
		Long: `torsetup is a terminal menu for setting up anonymous browsing on Debian-based
systems: it installs Tor and proxychains, writes the proxychains configuration,
manages the Tor service, and verifies that traffic really leaves through Tor.

Examples:
  # Interactive menu
  torsetup

  # Run a single step non-interactively
  torsetup install
  torsetup verify

  # Custom settings and a log file
  torsetup --config ./torsetup.yaml --log-file ./torsetup.log`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run:           runMenu,
	}
)

func main() {
	// Flags shared by the menu and the action subcommands
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: $XDG_CONFIG_HOME/torsetup/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file (default: logs are discarded to avoid interfering with TUI)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("torsetup %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built: %s\n", date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initializeLogger creates a logger with the appropriate output destination
func initializeLogger(logFile string) (*utils.Logger, error) {
	if logFile == "" {
		// When no log file is specified, discard logs to avoid interfering with TUI
		// The TUI provides visual status updates, so logging to stdout would corrupt the display
		return utils.NewLoggerWithOutput(utils.LevelInfo, io.Discard), nil
	}

	// Create logger with file output
	logger, err := utils.NewLoggerWithFile(utils.LevelInfo, logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}

	return logger, nil
}

func runMenu(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := initializeLogger(logFile)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting torsetup (service %q, socks %s)", cfg.TorService, cfg.SocksAddress)

	// Create the setup manager and begin daemon status probes
	manager := setup.NewManager(cfg, logger)
	manager.StartMonitor()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize and start TUI
	tui := ui.NewTUI(manager)
	if err := tui.Start(); err != nil {
		logger.Error("Failed to start TUI: %v", err)
		os.Exit(1)
	}

	// Wait for shutdown signal or TUI quit
	select {
	case <-sigChan:
		logger.Info("Received shutdown signal, stopping...")
	case <-tui.GetQuitChannel():
		logger.Info("TUI quit, stopping...")
	}

	// Stop the TUI first so the terminal is restored, then the manager
	if err := tui.Stop(); err != nil {
		logger.Error("Error stopping TUI: %v", err)
	}
	manager.Stop()

	// Close log file if it was opened
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
	}
}
