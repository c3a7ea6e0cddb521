package setup

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Entries returns the menu in display order. The Exit entry has a nil Run.
func (m *Manager) Entries() []MenuEntry {
	return []MenuEntry{
		{Label: LabelInstall, Run: m.runInstall},
		{Label: LabelConfigure, Run: m.runConfigure},
		{Label: LabelStart, Run: m.runStartTor},
		{Label: LabelStop, Run: m.runStopTor},
		{Label: LabelVerify, Run: m.runVerify},
		{Label: LabelExit},
	}
}

// Entry returns the menu entry with the given label.
func (m *Manager) Entry(label string) (MenuEntry, bool) {
	for _, entry := range m.Entries() {
		if entry.Label == label {
			return entry, true
		}
	}
	return MenuEntry{}, false
}

// runInstall refreshes the package index and installs the configured
// packages. Both steps must exit zero.
func (m *Manager) runInstall(ctx context.Context) error {
	m.emitInfo(LabelInstall, "Updating package list and installing Tor and Proxychains...")

	if err := m.runElevated(ctx, LabelInstall, "apt", "update"); err != nil {
		return err
	}

	args := append([]string{"install", "-y"}, m.config.Packages...)
	if err := m.runElevated(ctx, LabelInstall, "apt", args...); err != nil {
		return err
	}

	m.emitSuccess(LabelInstall, "Installation complete.")
	return nil
}

// runConfigure writes the proxychains configuration. The target lives under
// /etc, so the rendered content is staged in a temp file and moved into
// place with install(1) under elevation.
func (m *Manager) runConfigure(ctx context.Context) error {
	m.emitInfo(LabelConfigure, "Configuring Proxychains...")

	content, err := RenderProxychainsConfig(m.config)
	if err != nil {
		m.emitFailure(LabelConfigure, err.Error())
		return err
	}

	tmp, err := os.CreateTemp("", "proxychains-*.conf")
	if err != nil {
		err = fmt.Errorf("failed to stage proxychains config: %w", err)
		m.emitFailure(LabelConfigure, err.Error())
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		err = fmt.Errorf("failed to write staged config: %w", err)
		m.emitFailure(LabelConfigure, err.Error())
		return err
	}
	if err := tmp.Close(); err != nil {
		err = fmt.Errorf("failed to write staged config: %w", err)
		m.emitFailure(LabelConfigure, err.Error())
		return err
	}

	if err := m.runElevated(ctx, LabelConfigure, "install", "-m", "0644", tmp.Name(), m.config.ProxychainsPath); err != nil {
		return err
	}

	m.emitSuccess(LabelConfigure, "Proxychains configuration complete.")
	return nil
}

// runStartTor starts the service and then waits out the bootstrap delay.
// No health check happens here; the daemon is assumed up once the delay
// passes, and the verify action is the real test.
func (m *Manager) runStartTor(ctx context.Context) error {
	m.emitInfo(LabelStart, "Starting Tor service...")

	if err := m.runElevated(ctx, LabelStart, "systemctl", "start", m.config.TorService); err != nil {
		return err
	}

	if err := sleepCtx(ctx, m.config.StartupWait); err != nil {
		m.emitFailure(LabelStart, err.Error())
		return err
	}

	m.emitSuccess(LabelStart, "Tor service started.")
	return nil
}

// runStopTor stops the service.
func (m *Manager) runStopTor(ctx context.Context) error {
	m.emitInfo(LabelStop, "Stopping Tor service...")

	if err := m.runElevated(ctx, LabelStop, "systemctl", "stop", m.config.TorService); err != nil {
		return err
	}

	m.emitSuccess(LabelStop, "Tor service stopped.")
	return nil
}

// runVerify fetches the check page through the SOCKS proxy and looks for
// the confirmation phrase. A page without the phrase reports failure along
// with the body it did get.
func (m *Manager) runVerify(ctx context.Context) error {
	m.emitInfo(LabelVerify, "Verifying Tor connection...")

	ctx, cancel := context.WithTimeout(ctx, m.config.VerifyTimeout)
	defer cancel()

	body, err := m.fetch(ctx, m.config.CheckURL)
	if err != nil {
		err = fmt.Errorf("failed to reach %s through the proxy: %w", m.config.CheckURL, err)
		m.emitFailure(LabelVerify, err.Error())
		return err
	}

	if !strings.Contains(body, TorConfirmationPhrase) {
		m.emitFailure(LabelVerify, "Tor configuration failed.")
		if trimmed := strings.TrimSpace(body); trimmed != "" {
			m.emitDetail(LabelVerify, trimmed)
		}
		return ErrVerificationFailed
	}

	m.emitSuccess(LabelVerify, "Tor is successfully configured!")
	return nil
}
