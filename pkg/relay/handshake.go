package relay

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Handshake is a single-use, single-value rendezvous that delivers a
// relay stream from the component that created it to the component
// that needs to send through it.  Wait blocks without a timeout:
// until the relay exists no message has a destination, so there is
// nothing useful to do but wait.
type Handshake struct {
	l    hclog.Logger
	ch   chan *Stream
	once sync.Once
}

// NewHandshake returns a handshake ready for exactly one delivery.
func NewHandshake(l hclog.Logger) *Handshake {
	return &Handshake{
		l:  l.Named("handshake"),
		ch: make(chan *Stream, 1),
	}
}

// Complete publishes the stream.  Only the first call has any effect;
// later calls are logged and discarded so a duplicate delivery can
// never replace an endpoint that is already bound.
func (h *Handshake) Complete(s *Stream) {
	delivered := false
	h.once.Do(func() {
		h.ch <- s
		delivered = true
	})
	if !delivered {
		h.l.Warn("Duplicate handshake delivery discarded")
	}
}

// Wait blocks until Complete has been called and returns the stream.
func (h *Handshake) Wait() *Stream {
	return <-h.ch
}
