package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// Defaults mirror a stock Tor install on a Debian-family system.
const (
	// DefaultTorService is the systemd unit controlling the Tor daemon.
	DefaultTorService = "tor"

	// DefaultProxychainsPath is where proxychains-ng reads its configuration.
	DefaultProxychainsPath = "/etc/proxychains4.conf"

	// DefaultSocksAddress is the Tor daemon's standard SOCKS5 listen address.
	// 127.0.0.1 rather than localhost avoids IPv6 resolution surprises.
	DefaultSocksAddress = "127.0.0.1:9050"

	// DefaultCheckURL serves the Tor Project's connectivity confirmation page.
	DefaultCheckURL = "https://check.torproject.org/"

	// DefaultStartupWait gives the daemon time to build its first circuit
	// after systemctl returns.
	DefaultStartupWait = 10 * time.Second

	// DefaultVerifyTimeout bounds the verification request. Tor round trips
	// are slow, so a generous timeout avoids false negatives.
	DefaultVerifyTimeout = 120 * time.Second

	// DefaultStatusInterval is how often the daemon status probe runs.
	DefaultStatusInterval = 5 * time.Second

	// DefaultTCPReadTimeoutMs and DefaultTCPConnectTimeoutMs are the
	// proxychains socket timeouts, in milliseconds as proxychains expects.
	DefaultTCPReadTimeoutMs    = 15000
	DefaultTCPConnectTimeoutMs = 8000
)

// DefaultPackages are the APT packages the install action pulls in.
func DefaultPackages() []string {
	return []string{"tor", "proxychains4"}
}

// Config represents the main configuration structure
type Config struct {
	TorService          string        `yaml:"torService"`
	Packages            []string      `yaml:"packages"`
	ProxychainsPath     string        `yaml:"proxychainsPath"`
	SocksAddress        string        `yaml:"socksAddress"`
	CheckURL            string        `yaml:"checkURL"`
	StartupWait         time.Duration `yaml:"startupWait"`
	VerifyTimeout       time.Duration `yaml:"verifyTimeout"`
	StatusInterval      time.Duration `yaml:"statusInterval"`
	TCPReadTimeoutMs    int           `yaml:"tcpReadTimeoutMs"`
	TCPConnectTimeoutMs int           `yaml:"tcpConnectTimeoutMs"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
// A default run behaves identically to having no config file at all.
func DefaultConfig() *Config {
	return &Config{
		TorService:          DefaultTorService,
		Packages:            DefaultPackages(),
		ProxychainsPath:     DefaultProxychainsPath,
		SocksAddress:        DefaultSocksAddress,
		CheckURL:            DefaultCheckURL,
		StartupWait:         DefaultStartupWait,
		VerifyTimeout:       DefaultVerifyTimeout,
		StatusInterval:      DefaultStatusInterval,
		TCPReadTimeoutMs:    DefaultTCPReadTimeoutMs,
		TCPConnectTimeoutMs: DefaultTCPConnectTimeoutMs,
	}
}

// Validate checks that the configuration can actually drive the tool.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TorService) == "" {
		return fmt.Errorf("torService must not be empty")
	}
	if len(c.Packages) == 0 {
		return fmt.Errorf("packages must list at least one package")
	}
	for _, pkg := range c.Packages {
		if strings.TrimSpace(pkg) == "" {
			return fmt.Errorf("packages must not contain empty entries")
		}
	}
	if strings.TrimSpace(c.ProxychainsPath) == "" {
		return fmt.Errorf("proxychainsPath must not be empty")
	}
	host, port, err := net.SplitHostPort(c.SocksAddress)
	if err != nil {
		return fmt.Errorf("invalid socksAddress %q: %w", c.SocksAddress, err)
	}
	if host == "" || port == "" {
		return fmt.Errorf("socksAddress %q must be host:port", c.SocksAddress)
	}
	u, err := url.Parse(c.CheckURL)
	if err != nil {
		return fmt.Errorf("invalid checkURL %q: %w", c.CheckURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("checkURL %q must be http or https", c.CheckURL)
	}
	if u.Host == "" {
		return fmt.Errorf("checkURL %q has no host", c.CheckURL)
	}
	if c.StartupWait < 0 {
		return fmt.Errorf("startupWait must not be negative")
	}
	if c.VerifyTimeout <= 0 {
		return fmt.Errorf("verifyTimeout must be positive")
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("statusInterval must be positive")
	}
	if c.TCPReadTimeoutMs <= 0 {
		return fmt.Errorf("tcpReadTimeoutMs must be positive")
	}
	if c.TCPConnectTimeoutMs <= 0 {
		return fmt.Errorf("tcpConnectTimeoutMs must be positive")
	}
	return nil
}

// SocksHostPort splits the configured SOCKS address. Validate has already
// checked the format, so errors here only happen on an unvalidated Config.
func (c *Config) SocksHostPort() (string, string, error) {
	host, port, err := net.SplitHostPort(c.SocksAddress)
	if err != nil {
		return "", "", fmt.Errorf("invalid socksAddress %q: %w", c.SocksAddress, err)
	}
	return host, port, nil
}
