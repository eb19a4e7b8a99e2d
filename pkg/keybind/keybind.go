// Package keybind installs global key hooks that work even when the
// UI window does not have focus.  Key presses synthesize messages
// straight onto the relay, bypassing the authoritative state.
package keybind

import (
	"github.com/hashicorp/go-hclog"
	"golang.design/x/hotkey"

	"github.com/domilx/Conductor/pkg/relay"
)

// Binder owns the installed platform key hooks.
type Binder struct {
	l   hclog.Logger
	pub relay.Publisher

	hooks []*hotkey.Hotkey
	stop  chan struct{}
}

// Option enables variadic configuration of the binder.
type Option func(*Binder)

// WithLogger configures the parent logging interface.
func WithLogger(l hclog.Logger) Option {
	return func(b *Binder) { b.l = l.Named("keybind") }
}

// WithPublisher installs the relay the synthesized messages go out
// through.
func WithPublisher(p relay.Publisher) Option {
	return func(b *Binder) { b.pub = p }
}

// New returns a binder with no hooks installed yet.
func New(opts ...Option) *Binder {
	b := &Binder{
		l:   hclog.NewNullLogger(),
		pub: relay.NewNullStreamer(),
	}

	for _, o := range opts {
		o(b)
	}
	return b
}

// Bind attempts to install the global hooks and reports whether the
// platform accepted them.  Failure is not fatal; the returned flag is
// forwarded to the UI so it can fall back to its own key handling.
func (b *Binder) Bind() bool {
	bindings := []struct {
		key hotkey.Key
		fn  func()
	}{
		{hotkey.KeySpace, b.sendEstop},
		{hotkey.KeyReturn, b.sendDisable},
	}

	// The listeners capture the stop channel as a parameter so a
	// later Unbind cannot race their select loops.
	stop := make(chan struct{})
	b.stop = stop

	for _, binding := range bindings {
		hk := hotkey.New(nil, binding.key)
		if err := hk.Register(); err != nil {
			b.l.Warn("Could not install key hook", "error", err)
			b.Unbind()
			return false
		}
		b.hooks = append(b.hooks, hk)
		go b.listen(hk.Keydown(), stop, binding.fn)
	}

	b.l.Info("Native key bindings active")
	return true
}

// Unbind removes any installed hooks.  Called at process exit and on
// a partial installation failure.
func (b *Binder) Unbind() {
	if b.stop != nil {
		close(b.stop)
		b.stop = nil
	}
	for _, hk := range b.hooks {
		if err := hk.Unregister(); err != nil {
			b.l.Warn("Error removing key hook", "error", err)
		}
	}
	b.hooks = nil
}

func (b *Binder) listen(keydown <-chan hotkey.Event, stop <-chan struct{}, fn func()) {
	for {
		select {
		case <-stop:
			return
		case <-keydown:
			fn()
		}
	}
}

func (b *Binder) sendEstop() {
	b.l.Warn("Emergency stop key pressed")
	b.pub.PublishEstop()
}

func (b *Binder) sendDisable() {
	b.l.Info("Disable key pressed")
	b.pub.PublishEnable(false)
}
