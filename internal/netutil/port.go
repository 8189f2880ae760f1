// Package netutil provides the TCP port checks used to decide whether an
// instance port is available.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"syscall"
	"time"
)

// DefaultProbeAddress is used when no bind address is configured.
const DefaultProbeAddress = "127.0.0.1"

// PortState is the outcome of a port probe.
type PortState int

const (
	// PortFree means nothing answered and the port can be bound.
	PortFree PortState = iota
	// PortInUse means something accepted a connection on the port.
	PortInUse
	// PortDenied means binding the port needs more privilege.
	PortDenied
)

func (s PortState) String() string {
	switch s {
	case PortFree:
		return "free"
	case PortInUse:
		return "in use"
	case PortDenied:
		return "permission denied"
	}
	return "unknown"
}

// ProbePort checks a local TCP port. A successful connect means the port is
// in use. When nothing answers, the port is bound briefly to tell a free
// port from one that requires super user access.
func ProbePort(ctx context.Context, address string, port int, timeout time.Duration) (PortState, error) {
	if address == "" {
		address = DefaultProbeAddress
	}
	target := net.JoinHostPort(address, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: timeout}
	if conn, err := dialer.DialContext(ctx, "tcp", target); err == nil {
		_ = conn.Close()
		return PortInUse, nil
	}

	ln, err := net.Listen("tcp", target)
	if err != nil {
		switch {
		case errors.Is(err, syscall.EACCES), errors.Is(err, os.ErrPermission):
			return PortDenied, nil
		case errors.Is(err, syscall.EADDRINUSE):
			return PortInUse, nil
		}
		return PortFree, fmt.Errorf("bind test on %s: %w", target, err)
	}
	_ = ln.Close()
	return PortFree, nil
}
