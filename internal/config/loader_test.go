package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TorService != "tor" {
		t.Errorf("TorService = %q, want %q", cfg.TorService, "tor")
	}
	if len(cfg.Packages) != 2 || cfg.Packages[0] != "tor" || cfg.Packages[1] != "proxychains4" {
		t.Errorf("Packages = %v, want [tor proxychains4]", cfg.Packages)
	}
	if cfg.ProxychainsPath != "/etc/proxychains4.conf" {
		t.Errorf("ProxychainsPath = %q, want /etc/proxychains4.conf", cfg.ProxychainsPath)
	}
	if cfg.SocksAddress != "127.0.0.1:9050" {
		t.Errorf("SocksAddress = %q, want 127.0.0.1:9050", cfg.SocksAddress)
	}
	if cfg.CheckURL != "https://check.torproject.org/" {
		t.Errorf("CheckURL = %q, want https://check.torproject.org/", cfg.CheckURL)
	}
	if cfg.StartupWait != 10*time.Second {
		t.Errorf("StartupWait = %v, want 10s", cfg.StartupWait)
	}
	if cfg.TCPReadTimeoutMs != 15000 || cfg.TCPConnectTimeoutMs != 8000 {
		t.Errorf("proxychains timeouts = %d/%d, want 15000/8000",
			cfg.TCPReadTimeoutMs, cfg.TCPConnectTimeoutMs)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config failed validation: %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	want := filepath.Join("torsetup", "config.yaml")
	if !strings.HasSuffix(path, want) {
		t.Errorf("DefaultConfigPath() = %q, want suffix %q", path, want)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	path := writeTempConfig(t, `torService: "tor@custom"
startupWait: 1s
tcpReadTimeoutMs: 20000
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected successful load, got error: %v", err)
	}

	// Overridden fields take the file values.
	if cfg.TorService != "tor@custom" {
		t.Errorf("TorService = %q, want tor@custom", cfg.TorService)
	}
	if cfg.StartupWait != 1*time.Second {
		t.Errorf("StartupWait = %v, want 1s", cfg.StartupWait)
	}
	if cfg.TCPReadTimeoutMs != 20000 {
		t.Errorf("TCPReadTimeoutMs = %d, want 20000", cfg.TCPReadTimeoutMs)
	}

	// Untouched fields keep their defaults.
	if cfg.SocksAddress != DefaultSocksAddress {
		t.Errorf("SocksAddress = %q, want default %q", cfg.SocksAddress, DefaultSocksAddress)
	}
	if cfg.TCPConnectTimeoutMs != DefaultTCPConnectTimeoutMs {
		t.Errorf("TCPConnectTimeoutMs = %d, want default %d",
			cfg.TCPConnectTimeoutMs, DefaultTCPConnectTimeoutMs)
	}
	if len(cfg.Packages) != 2 {
		t.Errorf("Packages = %v, want defaults", cfg.Packages)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing explicit config file, got nil")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "torService: [[[not yaml")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected parse error, got nil")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := writeTempConfig(t, `socksAddress: "no-port-here"`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty service name",
			mutate:  func(c *Config) { c.TorService = "  " },
			wantErr: true,
		},
		{
			name:    "no packages",
			mutate:  func(c *Config) { c.Packages = nil },
			wantErr: true,
		},
		{
			name:    "blank package entry",
			mutate:  func(c *Config) { c.Packages = []string{"tor", ""} },
			wantErr: true,
		},
		{
			name:    "empty proxychains path",
			mutate:  func(c *Config) { c.ProxychainsPath = "" },
			wantErr: true,
		},
		{
			name:    "socks address without port",
			mutate:  func(c *Config) { c.SocksAddress = "127.0.0.1" },
			wantErr: true,
		},
		{
			name:    "check URL with bad scheme",
			mutate:  func(c *Config) { c.CheckURL = "ftp://check.torproject.org/" },
			wantErr: true,
		},
		{
			name:    "check URL without host",
			mutate:  func(c *Config) { c.CheckURL = "https://" },
			wantErr: true,
		},
		{
			name:    "negative startup wait",
			mutate:  func(c *Config) { c.StartupWait = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero verify timeout",
			mutate:  func(c *Config) { c.VerifyTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero status interval",
			mutate:  func(c *Config) { c.StatusInterval = 0 },
			wantErr: true,
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.TCPReadTimeoutMs = 0 },
			wantErr: true,
		},
		{
			name:    "negative connect timeout",
			mutate:  func(c *Config) { c.TCPConnectTimeoutMs = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSocksHostPort(t *testing.T) {
	cfg := DefaultConfig()
	host, port, err := cfg.SocksHostPort()
	if err != nil {
		t.Fatalf("SocksHostPort() error: %v", err)
	}
	if host != "127.0.0.1" || port != "9050" {
		t.Errorf("SocksHostPort() = %q:%q, want 127.0.0.1:9050", host, port)
	}
}
