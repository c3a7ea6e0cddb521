package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hardenlabs/torsetup/internal/setup"
)

// ActionDispatcher launches a menu action without blocking the UI loop.
type ActionDispatcher interface {
	Dispatch(entry setup.MenuEntry)
}

const defaultMaxEvents = 50

// Model represents the main TUI model
type Model struct {
	// Data
	entries    []setup.MenuEntry
	events     []setup.Event
	daemon     setup.DaemonState
	lastUpdate time.Time

	// Manager reference for dispatching actions
	dispatcher ActionDispatcher

	// UI state
	selectedIndex int
	busy          bool
	activeAction  string

	// Display settings
	width       int
	height      int
	maxEvents   int
	refreshRate time.Duration
	unlockDelay time.Duration

	// Channels
	eventChan <-chan setup.Event
	stateChan <-chan setup.DaemonState
}

// ActionEventMsg carries one progress event from a running action
type ActionEventMsg setup.Event

// DaemonStateMsg carries the latest daemon probe result
type DaemonStateMsg setup.DaemonState

// TickMsg represents a timer tick
type TickMsg time.Time

// unlockMsg re-enables the menu after the post-action pause
type unlockMsg struct{}

// NewModel creates a new TUI model
func NewModel(entries []setup.MenuEntry, eventChan <-chan setup.Event, stateChan <-chan setup.DaemonState, dispatcher ActionDispatcher) *Model {
	return &Model{
		entries:       entries,
		events:        make([]setup.Event, 0, defaultMaxEvents),
		selectedIndex: 0,
		maxEvents:     defaultMaxEvents,
		refreshRate:   250 * time.Millisecond,
		unlockDelay:   time.Second,
		eventChan:     eventChan,
		stateChan:     stateChan,
		dispatcher:    dispatcher,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenForActionEvents(),
		m.listenForDaemonState(),
		m.tickEvery(),
	)
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ActionEventMsg:
		event := setup.Event(msg)
		if event.Message != "" {
			m.appendEvent(event)
		}
		cmds := []tea.Cmd{m.listenForActionEvents()}
		if event.Done {
			// Hold the menu locked briefly so the final line is read
			// before input is accepted again.
			cmds = append(cmds, m.unlockAfterDelay())
		}
		return m, tea.Batch(cmds...)

	case unlockMsg:
		m.busy = false
		m.activeAction = ""
		return m, nil

	case DaemonStateMsg:
		m.daemon = setup.DaemonState(msg)
		m.lastUpdate = time.Now()
		return m, m.listenForDaemonState()

	case TickMsg:
		return m, tea.Batch(
			m.listenForActionEvents(),
			m.listenForDaemonState(),
			m.tickEvery(),
		)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	sections := []string{
		m.renderHeader(),
		"",
		m.renderMenu(),
	}

	if output := m.renderOutput(); output != "" {
		sections = append(sections, "", output)
	}

	sections = append(sections, "", m.renderFooter())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return containerStyle.
		Width(m.width - 4).
		Render(content)
}

// handleKeyPress processes keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if !m.busy && m.selectedIndex > 0 {
			m.selectedIndex--
		}

	case "down", "j":
		if !m.busy && m.selectedIndex < len(m.entries)-1 {
			m.selectedIndex++
		}

	case "enter", " ":
		return m.handleSelect()
	}

	return m, nil
}

// handleSelect runs the highlighted entry, or quits on the exit entry.
func (m *Model) handleSelect() (tea.Model, tea.Cmd) {
	if m.busy || len(m.entries) == 0 {
		return m, nil
	}

	entry := m.entries[m.selectedIndex]
	if entry.Run == nil {
		return m, tea.Quit
	}

	m.busy = true
	m.activeAction = entry.Label
	m.dispatcher.Dispatch(entry)
	return m, nil
}

// appendEvent adds an event to the output pane, keeping it bounded.
func (m *Model) appendEvent(event setup.Event) {
	m.events = append(m.events, event)
	if len(m.events) > m.maxEvents {
		m.events = m.events[len(m.events)-m.maxEvents:]
	}
}

// renderHeader renders the title, instructions and daemon status line
func (m *Model) renderHeader() string {
	title := titleStyle.Render("Anonymity Setup Tool")
	instructions := helpStyle.Render("Use arrow keys to navigate and Enter to select.")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		instructions,
		m.renderDaemonStatus(),
	)
}

// renderDaemonStatus renders one line summarizing the last probe
func (m *Model) renderDaemonStatus() string {
	if m.daemon.CheckedAt.IsZero() {
		return helpStyle.Render("Tor service: checking...")
	}

	socks := failureStyle.Render("SOCKS not listening")
	if m.daemon.SocksReachable {
		socks = successStyle.Render("SOCKS listening")
	}

	state := GetStateStyle(m.daemon.State).Render(m.daemon.State)

	return headerStyle.Render(
		fmt.Sprintf("Tor service: %s %s  •  %s", GetStateIndicator(m.daemon.State), state, socks),
	)
}

// renderMenu renders the entry list with the selection highlighted
func (m *Model) renderMenu() string {
	rows := make([]string, 0, len(m.entries))
	for i, entry := range m.entries {
		label := truncateString(entry.Label, m.width-8)
		rows = append(rows, FormatMenuRow(label, i == m.selectedIndex))
	}
	return strings.Join(rows, "\n")
}

// renderOutput renders the bounded pane of action events
func (m *Model) renderOutput() string {
	if len(m.events) == 0 {
		return ""
	}

	visible := m.visibleEvents()
	lines := make([]string, 0, len(visible))
	for _, event := range visible {
		for _, raw := range strings.Split(event.Message, "\n") {
			line := truncateString(raw, m.width-6)
			lines = append(lines, SeverityStyle(event.Severity).Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

// visibleEvents returns the tail of the event log that fits the window.
func (m *Model) visibleEvents() []setup.Event {
	limit := m.height - len(m.entries) - 9
	if limit < 3 {
		limit = 3
	}
	if len(m.events) <= limit {
		return m.events
	}
	return m.events[len(m.events)-limit:]
}

// renderFooter renders the footer with help text
func (m *Model) renderFooter() string {
	if m.busy {
		return footerStyle.Render(fmt.Sprintf("%s running...  •  [q] Quit", m.activeAction))
	}

	help := []string{
		"[↑↓] Navigate",
		"[Enter] Select",
		"[q] Quit",
	}

	return footerStyle.Render(strings.Join(help, "  "))
}

// truncateString truncates a string to fit within the specified width
func truncateString(s string, width int) string {
	// Handle invalid width values
	if width <= 0 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		// Ensure we don't exceed string length
		if len(s) < width {
			return s
		}
		return s[:width]
	}
	return s[:width-3] + "..."
}

// listenForActionEvents listens for progress events from the manager
func (m *Model) listenForActionEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case event := <-m.eventChan:
			return ActionEventMsg(event)
		default:
			return nil
		}
	}
}

// listenForDaemonState listens for daemon probe results
func (m *Model) listenForDaemonState() tea.Cmd {
	return func() tea.Msg {
		select {
		case state := <-m.stateChan:
			return DaemonStateMsg(state)
		default:
			return nil
		}
	}
}

// tickEvery returns a command that ticks at the refresh rate
func (m *Model) tickEvery() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// unlockAfterDelay returns a command that re-enables the menu.
func (m *Model) unlockAfterDelay() tea.Cmd {
	return tea.Tick(m.unlockDelay, func(time.Time) tea.Msg {
		return unlockMsg{}
	})
}
