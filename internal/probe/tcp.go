package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// TCPProbe tests raw TCP reachability of an ip:port pair.
type TCPProbe struct {
	Timeout time.Duration
}

// IsReachable reports whether a TCP connection to ip:port succeeds within
// the timeout. Any dial failure is neutral false.
func (p *TCPProbe) IsReachable(ctx context.Context, ip string, port int) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = constants.TCPTimeout
	}

	dialer := &net.Dialer{Timeout: timeout}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
