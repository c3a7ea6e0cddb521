package setup

import (
	"fmt"

	"github.com/hardenlabs/torsetup/internal/config"
)

// proxychainsTemplate is the full file proxychains-ng needs to route
// through a single local SOCKS5 proxy: dynamic chaining, DNS through the
// proxy, socket timeouts in milliseconds, and the one-entry proxy list.
const proxychainsTemplate = `dynamic_chain
proxy_dns
tcp_read_time_out %d
tcp_connect_time_out %d

[ProxyList]
socks5 %s %s
`

// RenderProxychainsConfig renders the proxychains configuration for cfg.
func RenderProxychainsConfig(cfg *config.Config) (string, error) {
	host, port, err := cfg.SocksHostPort()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(proxychainsTemplate,
		cfg.TCPReadTimeoutMs, cfg.TCPConnectTimeoutMs, host, port), nil
}
