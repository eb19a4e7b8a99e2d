package watchdog

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiresWhenUnfed(t *testing.T) {
	var fired atomic.Bool
	w := New(
		WithExpiry(10*time.Millisecond),
		WithExpireFunc(func() { fired.Store(true) }),
	)
	defer w.Stop()

	assert.Eventually(t, fired.Load, time.Second, time.Millisecond)
}

func TestFeedingDefersExpiry(t *testing.T) {
	var fired atomic.Bool
	w := New(
		WithExpiry(50*time.Millisecond),
		WithExpireFunc(func() { fired.Store(true) }),
	)
	defer w.Stop()

	for i := 0; i < 10; i++ {
		time.Sleep(10 * time.Millisecond)
		w.Feed()
	}
	assert.False(t, fired.Load())
}

func TestStopDisarms(t *testing.T) {
	var fired atomic.Bool
	w := New(
		WithExpiry(10*time.Millisecond),
		WithExpireFunc(func() { fired.Store(true) }),
	)
	w.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}
