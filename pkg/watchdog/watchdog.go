// Package watchdog guards the free-running loops in the backend.  A
// loop feeds its watchdog every cycle; if feeding stops for longer
// than the expiry window the watchdog fires its expire function,
// which for this process means a fail-stop exit.
package watchdog

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// ExpireFunc is called when the watchdog goes unfed past its expiry.
type ExpireFunc func()

// Watchdog tracks the time since it was last fed.
type Watchdog struct {
	l hclog.Logger

	name string
	t    *time.Timer

	expireFunc ExpireFunc
	expiry     time.Duration
}

// Option changes settings on the watchdog.
type Option func(*Watchdog)

// New returns an armed watchdog.  The clock starts immediately.
func New(opts ...Option) *Watchdog {
	w := &Watchdog{
		l:          hclog.NewNullLogger(),
		name:       "watchdog",
		expireFunc: func() {},
		expiry:     time.Second * 10,
	}
	for _, o := range opts {
		o(w)
	}
	w.t = time.AfterFunc(w.expiry, w.expire)
	return w
}

// Feed resets the expiry clock for another full window.
func (w *Watchdog) Feed() {
	w.t.Reset(w.expiry)
}

// Stop disarms the watchdog permanently.
func (w *Watchdog) Stop() {
	w.t.Stop()
}

func (w *Watchdog) expire() {
	w.l.Error("Watchdog expired", "name", w.name)
	w.t.Stop()
	w.expireFunc()
}

// WithExpireFunc sets what happens when the watchdog goes unfed.
// Not setting this rather defeats the point of having one.
func WithExpireFunc(f ExpireFunc) Option { return func(w *Watchdog) { w.expireFunc = f } }

// WithExpiry sets how long one feeding lasts.
func WithExpiry(d time.Duration) Option { return func(w *Watchdog) { w.expiry = d } }

// WithName names the watchdog for log attribution.
func WithName(n string) Option { return func(w *Watchdog) { w.name = n } }

// WithLogger provides a logging instance so an expiry is attributable
// to the loop that starved it.
func WithLogger(l hclog.Logger) Option { return func(w *Watchdog) { w.l = l.Named("watchdog") } }
