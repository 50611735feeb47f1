package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned by [Open] when a Redis or MongoDB backend
// does not answer its ping.
var ErrUnavailable = errors.New("cache backend unavailable")

// Ping schedule for remote backends. A service started next to its
// Redis or MongoDB container usually wins the race by a second or two.
var (
	pingAttempts = 3
	pingDelay    = time.Second
)

// waitReady calls ping until it succeeds, doubling the pause between
// attempts. The last failure is reported wrapped in ErrUnavailable.
func waitReady(ctx context.Context, backend string, ping func(context.Context) error) error {
	delay := pingDelay
	var err error
	for i := range pingAttempts {
		if err = ping(ctx); err == nil {
			return nil
		}
		if i == pingAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, backend, err)
}
