package utils

import (
	"net"
	"time"
)

// CheckEndpointConnectivity reports whether something is accepting TCP
// connections at the given host:port address.
func CheckEndpointConnectivity(address string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
