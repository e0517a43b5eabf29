package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		assert.True(t, d.Trigger(func() { calls.Add(1) }))
	}
	assert.True(t, d.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestDebouncerRunsLatestCall(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var got atomic.Int32
	for i := int32(1); i <= 3; i++ {
		v := i
		d.Trigger(func() { got.Store(v) })
	}
	assert.Eventually(t, func() bool { return got.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	assert.False(t, d.Trigger(func() { calls.Add(1) }))
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestDebouncerCancelKeepsItUsable(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	assert.False(t, d.Pending())

	d.Trigger(func() { calls.Add(10) })
	assert.Eventually(t, func() bool { return calls.Load() == 10 }, time.Second, 5*time.Millisecond)
}

func TestNewDebouncerDefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDebounceDelay, NewDebouncer(0).delay)
}
