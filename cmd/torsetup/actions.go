package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hardenlabs/torsetup/internal/config"
	"github.com/hardenlabs/torsetup/internal/setup"
	"github.com/hardenlabs/torsetup/internal/ui"
)

func init() {
	actionCommands := []struct {
		use   string
		short string
		label string
	}{
		{"install", "Install Tor and proxychains with APT", setup.LabelInstall},
		{"configure", "Write the proxychains configuration", setup.LabelConfigure},
		{"start", "Start the Tor service and wait out the bootstrap delay", setup.LabelStart},
		{"stop", "Stop the Tor service", setup.LabelStop},
		{"verify", "Check that traffic exits through Tor", setup.LabelVerify},
	}

	for _, ac := range actionCommands {
		label := ac.label
		rootCmd.AddCommand(&cobra.Command{
			Use:   ac.use,
			Short: ac.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAction(label)
			},
		})
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the Tor service state and SOCKS reachability",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	})
}

// runAction executes one menu action non-interactively, streaming its
// events to stdout with the same colors the TUI uses.
func runAction(label string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initializeLogger(logFile)
	if err != nil {
		return err
	}
	defer logger.Close()

	manager := setup.NewManager(cfg, logger)
	defer manager.Stop()

	entry, ok := manager.Entry(label)
	if !ok || entry.Run == nil {
		return fmt.Errorf("unknown action %q", label)
	}

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received shutdown signal, cancelling action...")
		cancel()
	}()

	// Print events until the terminal Done marker arrives
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case event := <-manager.Events():
				if event.Done {
					return
				}
				if event.Message != "" {
					fmt.Println(ui.SeverityStyle(event.Severity).Render(event.Message))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	err = manager.Execute(ctx, entry)
	<-done
	return err
}

// runStatus prints one daemon probe and exits.
func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initializeLogger(logFile)
	if err != nil {
		return err
	}
	defer logger.Close()

	manager := setup.NewManager(cfg, logger)
	defer manager.Stop()

	state := manager.Probe()

	socks := ui.SeverityStyle(setup.SeverityFailure).Render("not listening")
	if state.SocksReachable {
		socks = ui.SeverityStyle(setup.SeveritySuccess).Render("listening")
	}

	fmt.Printf("Tor service: %s %s\n", ui.GetStateIndicator(state.State), ui.GetStateStyle(state.State).Render(state.State))
	fmt.Printf("SOCKS %s: %s\n", cfg.SocksAddress, socks)
	fmt.Printf("Checked at: %s\n", state.CheckedAt.Format(time.RFC1123))
	return nil
}
