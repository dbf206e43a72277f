// Package retry provides a fixed-interval retry policy for flaky page
// interactions. Elements rendered by the timeline frequently appear a beat
// after the post itself, so a short bounded retry loop is the normal way to
// touch them.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy retries an operation a fixed number of times with a constant pause
// between attempts.
type Policy struct {
	Attempts int
	Backoff  time.Duration

	// Sleep is swapped out in tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// Element interactions settle within a few seconds when they settle at all.
var DefaultElement = Policy{Attempts: 5, Backoff: time.Second}

// Login confirmation polls slower since a human may still be typing.
var Login = Policy{Attempts: 3, Backoff: 5 * time.Second}

// Do runs op until it succeeds, the attempts run out, or ctx is canceled.
// The last error is returned wrapped with the attempt count.
func (p Policy) Do(ctx context.Context, op func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = op(); lastErr == nil {
			return nil
		}
		if i < attempts-1 {
			sleep(p.Backoff)
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}
