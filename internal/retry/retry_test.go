package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	var slept int
	p := Policy{Attempts: 5, Backoff: time.Second, Sleep: func(time.Duration) { slept++ }}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, slept, "no sleep when first attempt succeeds")
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	var slept []time.Duration
	p := Policy{Attempts: 5, Backoff: time.Second, Sleep: func(d time.Duration) { slept = append(slept, d) }}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, slept)
}

func TestDoExhaustsAttempts(t *testing.T) {
	var slept int
	p := Policy{Attempts: 5, Backoff: time.Second, Sleep: func(time.Duration) { slept++ }}

	sentinel := errors.New("element not found")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return sentinel
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 4, slept, "no sleep after the final attempt")
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{Attempts: 5, Backoff: time.Second, Sleep: func(time.Duration) { cancel() }}

	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return errors.New("fail")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	p := Policy{Sleep: func(time.Duration) {}}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
