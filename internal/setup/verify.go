package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// TorConfirmationPhrase is the sentence check.torproject.org serves to
// clients that arrive through Tor.
const TorConfirmationPhrase = "Congratulations. This browser is configured to use Tor."

// maxVerifyBodySize bounds how much of the check page is read.
const maxVerifyBodySize = 2 * 1024 * 1024

// ErrVerificationFailed means the check page loaded but did not confirm
// the connection came through Tor.
var ErrVerificationFailed = errors.New("check page did not confirm Tor")

// Verifier fetches pages through a local SOCKS5 proxy.
type Verifier struct {
	SocksAddress string
	Timeout      time.Duration

	// dial replaces the SOCKS dialer in tests.
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewVerifier returns a Verifier pointed at the given SOCKS5 address.
// No connection is made until Fetch.
func NewVerifier(socksAddress string, timeout time.Duration) *Verifier {
	return &Verifier{
		SocksAddress: socksAddress,
		Timeout:      timeout,
	}
}

// Fetch retrieves url through the SOCKS proxy and returns the body.
// The proxy handles name resolution, so a DNS leak cannot bypass Tor.
func (v *Verifier) Fetch(ctx context.Context, url string) (string, error) {
	dial := v.dial
	if dial == nil {
		// nil auth: Tor's SOCKS port does not require authentication
		dialer, err := proxy.SOCKS5("tcp", v.SocksAddress, nil, proxy.Direct)
		if err != nil {
			return "", fmt.Errorf("failed to create SOCKS5 dialer for %s: %w", v.SocksAddress, err)
		}
		dial = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	transport := &http.Transport{
		DialContext: dial,
		// One request per verification, keep no circuit-bound connections
		DisableKeepAlives: true,
	}
	client := &http.Client{
		Transport: transport,
		Timeout:   v.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVerifyBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	return string(body), nil
}
