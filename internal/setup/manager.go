package setup

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hardenlabs/torsetup/internal/config"
	"github.com/hardenlabs/torsetup/internal/utils"
)

// ErrBusy is returned when an action is dispatched while another is running.
var ErrBusy = errors.New("an action is already running")

// statusProbeTimeout bounds the systemctl call made by the status probe.
const statusProbeTimeout = 5 * time.Second

// socksProbeTimeout bounds the TCP reachability check of the SOCKS port.
const socksProbeTimeout = 2 * time.Second

// Manager executes setup actions one at a time and reports their progress
// as events. It also polls the Tor daemon on an interval for the status
// header.
type Manager struct {
	config  *config.Config
	logger  *utils.Logger
	runner  utils.Runner
	elevate func(name string, args []string) (string, []string)
	fetch   func(ctx context.Context, url string) (string, error)

	ctx    context.Context
	cancel context.CancelFunc

	mutex   sync.Mutex
	running bool

	statusTicker *time.Ticker
	eventChan    chan Event
	stateChan    chan DaemonState
}

// NewManager creates a manager wired to the real system.
func NewManager(cfg *config.Config, logger *utils.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	verifier := NewVerifier(cfg.SocksAddress, cfg.VerifyTimeout)

	return &Manager{
		config:    cfg,
		logger:    logger,
		runner:    utils.ExecRunner{},
		elevate:   utils.Elevate,
		fetch:     verifier.Fetch,
		ctx:       ctx,
		cancel:    cancel,
		eventChan: make(chan Event, 64),
		stateChan: make(chan DaemonState, 1),
	}
}

// Events returns the channel carrying action progress events.
func (m *Manager) Events() <-chan Event {
	return m.eventChan
}

// States returns the channel carrying daemon status snapshots.
func (m *Manager) States() <-chan DaemonState {
	return m.stateChan
}

// Execute runs one entry to completion, emitting its events along the way.
// It returns ErrBusy if another action is still running and nil immediately
// for the Exit entry. The terminal Done event is always emitted for entries
// that ran.
func (m *Manager) Execute(ctx context.Context, entry MenuEntry) error {
	if entry.Run == nil {
		return nil
	}

	m.mutex.Lock()
	if m.running {
		m.mutex.Unlock()
		return ErrBusy
	}
	m.running = true
	m.mutex.Unlock()

	defer func() {
		m.mutex.Lock()
		m.running = false
		m.mutex.Unlock()
	}()

	m.logger.Info("Running action: %s", entry.Label)
	err := entry.Run(ctx)
	if err != nil {
		m.logger.Error("Action %s failed: %v", entry.Label, err)
	} else {
		m.logger.Info("Action %s finished", entry.Label)
	}

	m.emit(Event{Action: entry.Label, Done: true})
	return err
}

// Dispatch runs the entry in the background under the manager's context.
// Failures surface through events, so the error is only logged.
func (m *Manager) Dispatch(entry MenuEntry) {
	go func() {
		_ = m.Execute(m.ctx, entry)
	}()
}

// StartMonitor begins periodic daemon status probes.
func (m *Manager) StartMonitor() {
	m.statusTicker = time.NewTicker(m.config.StatusInterval)

	go func() {
		defer m.statusTicker.Stop()

		// Prime the header before the first tick fires
		m.publishState(m.probeDaemon())

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-m.statusTicker.C:
				m.publishState(m.probeDaemon())
			}
		}
	}()
}

// Stop cancels the manager context, halting monitoring and any running
// action's external commands.
func (m *Manager) Stop() {
	m.cancel()
	m.logger.Info("Setup manager stopped")
}

// Probe performs one daemon status check.
func (m *Manager) Probe() DaemonState {
	return m.probeDaemon()
}

// probeDaemon asks systemd for the unit state and checks the SOCKS port.
// systemctl is-active exits non-zero for inactive units while still printing
// the state, so a command error with output is a valid answer.
func (m *Manager) probeDaemon() DaemonState {
	ctx, cancel := context.WithTimeout(m.ctx, statusProbeTimeout)
	defer cancel()

	state := "unknown"
	output, err := m.runner.Run(ctx, "systemctl", "is-active", m.config.TorService)
	if line := firstLine(output); line != "" {
		state = line
	} else if err != nil {
		m.logger.Debug("Status probe failed: %v", err)
	}

	return DaemonState{
		State:          state,
		SocksReachable: utils.CheckEndpointConnectivity(m.config.SocksAddress, socksProbeTimeout),
		CheckedAt:      time.Now(),
	}
}

// publishState sends a status snapshot (non-blocking)
func (m *Manager) publishState(state DaemonState) {
	select {
	case m.stateChan <- state:
	default:
		// Channel is full, skip this update
	}
}

// emit delivers an event unless shutdown has begun.
func (m *Manager) emit(ev Event) {
	select {
	case m.eventChan <- ev:
	case <-m.ctx.Done():
	}
}

func (m *Manager) emitInfo(action, message string) {
	m.emit(Event{Action: action, Severity: SeverityInfo, Message: message})
}

func (m *Manager) emitSuccess(action, message string) {
	m.emit(Event{Action: action, Severity: SeveritySuccess, Message: message})
}

func (m *Manager) emitFailure(action, message string) {
	m.emit(Event{Action: action, Severity: SeverityFailure, Message: message})
}

func (m *Manager) emitDetail(action, message string) {
	m.emit(Event{Action: action, Severity: SeverityDetail, Message: message})
}

// runElevated executes an external command with sudo prepended as needed,
// reporting failure and captured output through events.
func (m *Manager) runElevated(ctx context.Context, action, name string, args ...string) error {
	cmd, cmdArgs := m.elevate(name, args)
	m.logger.Debug("Executing: %s %s", cmd, strings.Join(cmdArgs, " "))

	output, err := m.runner.Run(ctx, cmd, cmdArgs...)
	if err != nil {
		m.emitFailure(action, err.Error())
		if output != "" {
			m.emitDetail(action, output)
		}
		return err
	}

	if output != "" {
		m.logger.Debug("Command output: %s", output)
	}
	return nil
}

// sleepCtx waits for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// firstLine trims s and cuts it at the first newline.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
