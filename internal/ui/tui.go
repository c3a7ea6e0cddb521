package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hardenlabs/torsetup/internal/setup"
)

// TUI represents the terminal user interface
type TUI struct {
	program  *tea.Program
	model    *Model
	ctx      context.Context
	cancel   context.CancelFunc
	quitChan chan bool
}

// NewTUI creates a new terminal user interface driving the setup manager
func NewTUI(manager *setup.Manager) *TUI {
	ctx, cancel := context.WithCancel(context.Background())

	model := NewModel(manager.Entries(), manager.Events(), manager.States(), manager)
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	return &TUI{
		program:  program,
		model:    model,
		ctx:      ctx,
		cancel:   cancel,
		quitChan: make(chan bool, 1),
	}
}

// Start begins the TUI event loop
func (t *TUI) Start() error {
	// Start the program in a goroutine and track it
	go func() {
		if _, err := t.program.Run(); err != nil {
			// Don't log error - it might be a normal quit
		}
		// Signal that TUI has quit
		select {
		case t.quitChan <- true:
		default:
		}
	}()

	// Give the TUI a moment to initialize
	time.Sleep(50 * time.Millisecond)

	return nil
}

// Stop gracefully shuts down the TUI
func (t *TUI) Stop() error {
	t.cancel()
	if t.program != nil {
		t.program.Quit()

		// Give the program a moment to quit gracefully
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

// GetQuitChannel returns a channel that signals when the TUI quits
func (t *TUI) GetQuitChannel() <-chan bool {
	return t.quitChan
}
