package relay

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestHandshakeDeliversFirstValueOnly(t *testing.T) {
	hs := NewHandshake(hclog.NewNullLogger())
	first := NewStream()
	second := NewStream()

	hs.Complete(first)
	hs.Complete(second)

	assert.Same(t, first, hs.Wait())
}

func TestHandshakeBlocksUntilComplete(t *testing.T) {
	hs := NewHandshake(hclog.NewNullLogger())
	s := NewStream()

	got := make(chan *Stream)
	go func() { got <- hs.Wait() }()

	select {
	case <-got:
		t.Fatal("Wait returned before Complete")
	case <-time.After(50 * time.Millisecond):
	}

	hs.Complete(s)
	select {
	case delivered := <-got:
		assert.Same(t, s, delivered)
	case <-time.After(time.Second):
		t.Fatal("Wait never returned after Complete")
	}
}
