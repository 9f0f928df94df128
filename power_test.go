package flightlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelOneWay(t *testing.T) {
	var s Sentinel
	assert.False(t, s.ShutdownSignaled())
	s.SignalShutdown()
	assert.True(t, s.ShutdownSignaled())
	s.SignalShutdown()
	assert.True(t, s.ShutdownSignaled())
}

func TestSimLineDetach(t *testing.T) {
	l := NewSimLine()
	assert.False(t, l.Detached())

	l.Trigger()
	select {
	case _, ok := <-l.Edges():
		assert.True(t, ok)
	default:
		t.Fatal("expected a pending edge")
	}

	l.Detach()
	l.Detach() // idempotent
	assert.True(t, l.Detached())

	// A bouncing rail after detach must not deliver anything.
	l.Trigger()
	_, ok := <-l.Edges()
	assert.False(t, ok)
}

func TestWatchPowerSetsFlagOnly(t *testing.T) {
	line := NewSimLine()
	var s Sentinel

	done := make(chan error, 1)
	go func() {
		done <- watchPower(context.Background(), line, &s)
	}()

	line.Trigger()
	require.NoError(t, <-done)
	assert.True(t, s.ShutdownSignaled())
}

func TestWatchPowerContextCancel(t *testing.T) {
	line := NewSimLine()
	var s Sentinel

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchPower(ctx, line, &s)
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not return on cancellation")
	}
	assert.False(t, s.ShutdownSignaled())
}
