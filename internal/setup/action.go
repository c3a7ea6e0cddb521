package setup

import (
	"context"
	"time"
)

// Menu labels, in display order.
const (
	LabelInstall   = "Install Tor and Proxychains"
	LabelConfigure = "Configure Proxychains"
	LabelStart     = "Start Tor"
	LabelStop      = "Stop Tor"
	LabelVerify    = "Verify Tor Connection"
	LabelExit      = "Exit"
)

// Severity classifies an event line for presentation.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityFailure
	SeverityDetail
)

// String returns the lowercase name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityFailure:
		return "failure"
	case SeverityDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Event is one line of progress from a running action. An event with Done
// set marks the end of an action run and carries no message.
type Event struct {
	Action   string
	Severity Severity
	Message  string
	Done     bool
}

// MenuEntry is one selectable row of the menu. A nil Run marks the Exit
// entry, which the UI handles itself.
type MenuEntry struct {
	Label string
	Run   func(ctx context.Context) error
}

// DaemonState is a point-in-time snapshot of the Tor daemon, display only.
// It never gates an action.
type DaemonState struct {
	State          string // systemd unit state: "active", "inactive", "failed", "unknown"
	SocksReachable bool
	CheckedAt      time.Time
}
