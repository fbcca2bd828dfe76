package datacheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultTestScheduler_RunOnce tests the scheduler in run-once mode
func TestDefaultTestScheduler_RunOnce(t *testing.T) {
	logger := log.New()
	callCount := 0

	scheduler := &DefaultTestScheduler{
		interval: 100 * time.Millisecond,
		runOnce:  true,
		logger:   logger,
		done:     make(chan struct{}),
	}

	scheduler.RegisterCallback(func() error {
		callCount++
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := scheduler.Start(ctx)
	require.NoError(t, err)

	// In run-once mode, the callback should be called exactly once immediately
	assert.Equal(t, 1, callCount, "Expected callback to be called exactly once")

	// Wait a bit to make sure no more calls happen
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, callCount, "Expected callback to be called exactly once")
}

// TestDefaultTestScheduler_Periodic tests the scheduler in periodic mode
func TestDefaultTestScheduler_Periodic(t *testing.T) {
	logger := log.New()

	callChan := make(chan struct{}, 10)
	expectedCalls := 3

	scheduler := &DefaultTestScheduler{
		interval: 10 * time.Millisecond,
		runOnce:  false,
		logger:   logger,
		done:     make(chan struct{}),
	}

	scheduler.RegisterCallback(func() error {
		callChan <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := scheduler.Start(ctx)
	require.NoError(t, err)

	for i := 0; i < expectedCalls; i++ {
		select {
		case <-callChan:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for callback %d", i+1)
		}
	}

	require.NoError(t, scheduler.Stop())
	require.NoError(t, scheduler.WaitForShutdown(context.Background()))
}

func TestDefaultTestScheduler_CallbackError(t *testing.T) {
	logger := log.New()

	scheduler := NewDefaultTestScheduler(time.Hour, true, logger)
	scheduler.RegisterCallback(func() error {
		return errors.New("boom")
	})

	// In run-once mode, the callback error propagates from Start.
	err := scheduler.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestDefaultTestScheduler_NoCallback(t *testing.T) {
	scheduler := NewDefaultTestScheduler(time.Hour, true, log.New())
	err := scheduler.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "callback must be registered")
}

func TestDefaultTestScheduler_AlreadyStopped(t *testing.T) {
	scheduler := NewDefaultTestScheduler(time.Hour, true, log.New())
	scheduler.RegisterCallback(func() error { return nil })

	require.NoError(t, scheduler.Start(context.Background()))
	require.NoError(t, scheduler.Stop())
	assert.True(t, scheduler.Stopped())

	// Second stop is a no-op
	require.NoError(t, scheduler.Stop())
}
