package platform

import (
	"context"
	"errors"
	"time"

	"github.com/dsforge/dsinstall/internal/util/retry"
)

// DefaultStartTimeout bounds a start request that carries no timeout.
const DefaultStartTimeout = 2 * time.Minute

// ErrTimeout is returned when a polled service never settled.
var ErrTimeout = errors.New("service did not settle in time")

// ServiceState is the coarse state of a registered service.
type ServiceState int

const (
	ServicePending ServiceState = iota
	ServiceRunning
	ServiceStopped
)

// pollUntil calls check every interval until it reports true, bounded by
// timeout. Exhaustion yields ErrTimeout.
func pollUntil(ctx context.Context, timeout, interval time.Duration, check func() (bool, error)) error {
	if timeout <= 0 {
		timeout = DefaultStartTimeout
	}
	if interval <= 0 {
		interval = time.Second
	}
	attempts := int(timeout / interval)
	if attempts < 1 {
		attempts = 1
	}
	err := retry.Poll(ctx, func(context.Context) (bool, error) {
		return check()
	},
		retry.WithMaxRetries(attempts),
		retry.WithInitialDelay(interval),
		retry.WithMaxDelay(interval),
		retry.WithMultiplier(1),
	)
	if errors.Is(err, retry.ErrNotReady) {
		return ErrTimeout
	}
	return err
}

// waitForService polls query until the service runs or stops.
func waitForService(ctx context.Context, timeout, interval time.Duration, query func() (ServiceState, error)) (ServiceState, error) {
	state := ServicePending
	err := pollUntil(ctx, timeout, interval, func() (bool, error) {
		st, err := query()
		if err != nil {
			return false, err
		}
		state = st
		return st != ServicePending, nil
	})
	if err != nil {
		return ServicePending, err
	}
	return state, nil
}
