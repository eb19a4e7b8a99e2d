package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/coder/websocket"
)

// This relay implementation is a refactor of the chat server example
// from
// https://github.com/coder/websocket/blob/master/internal/examples/chat/chat.go

// Stream binds all the components of a message relay endpoint.  It
// fans every published message out to all currently subscribed UI
// clients and routes inbound client frames to the command sink.
type Stream struct {
	l hclog.Logger

	maxUndelivered int

	sink CommandSink

	subscribersMutex sync.Mutex
	subscribers      map[*subscriber]struct{}
	retained         map[MessageType][]byte
}

// retainedOrder fixes the replay order for retained messages so a new
// subscriber always learns the backend capabilities before anything
// that depends on them.
var retainedOrder = []MessageType{
	MessageTypeCapabilities,
	MessageTypeTeamNumber,
	MessageTypeConsoleAddr,
}

// subscriber represents a single connected UI client.
// Messages are sent on the msgs channel and if the client
// cannot keep up with the messages, closeSlow is called.
type subscriber struct {
	msgs      chan []byte
	closeSlow func()
}

// NewStream returns a relay stream ready to accept subscribers.
func NewStream(opts ...Option) *Stream {
	s := &Stream{
		l:              hclog.NewNullLogger(),
		maxUndelivered: 16,
		subscribers:    make(map[*subscriber]struct{}),
		retained:       make(map[MessageType][]byte),
	}

	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler implements the http.Handler interface so that the stream
// can be plugged into a webserver.
func (s *Stream) Handler(w http.ResponseWriter, r *http.Request) {
	err := s.subscribe(w, r)
	if errors.Is(err, context.Canceled) {
		return
	}
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		s.l.Warn("Error handling subscription request", "error", err)
		return
	}
}

// subscribe subscribes the given WebSocket to all published messages.
// It creates a subscriber with a buffered msgs chan to give some room
// to slower connections and then registers the subscriber.  A
// secondary goroutine reads inbound frames and dispatches them to the
// command sink; the write loop runs until the connection drops or a
// write fails.
func (s *Stream) subscribe(w http.ResponseWriter, r *http.Request) error {
	var mu sync.Mutex
	var c *websocket.Conn
	var closed bool
	sub := &subscriber{
		msgs: make(chan []byte, s.maxUndelivered),
		closeSlow: func() {
			mu.Lock()
			defer mu.Unlock()
			closed = true
			if c != nil {
				c.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with messages")
			}
		},
	}
	s.addSubscriber(sub)
	defer s.deleteSubscriber(sub)

	c2, err := websocket.Accept(w, r, nil)
	if err != nil {
		return err
	}
	mu.Lock()
	if closed {
		mu.Unlock()
		return net.ErrClosed
	}
	c = c2
	mu.Unlock()
	defer c.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			_, data, err := c.Read(ctx)
			if err != nil {
				return
			}
			s.dispatch(data)
		}
	}()

	for {
		select {
		case msg := <-sub.msgs:
			err := writeTimeout(ctx, time.Second*5, c, msg)
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatch decodes a single inbound frame and hands it to the command
// sink.  Frames that don't decode, carry an unknown type, or arrive
// while no sink is registered are logged and dropped.
func (s *Stream) dispatch(data []byte) {
	if s.sink == nil {
		s.l.Warn("Inbound message with no command sink registered")
		return
	}

	hdr := struct{ Type MessageType }{}
	if err := json.Unmarshal(data, &hdr); err != nil {
		s.l.Warn("Bad inbound message", "error", err)
		return
	}

	switch hdr.Type {
	case MessageTypeTeamNumber:
		m := MessageTeamNumber{}
		if err := json.Unmarshal(data, &m); err != nil {
			s.l.Warn("Bad team number message", "error", err)
			return
		}
		if err := s.sink.ApplyTeamNumber(m.TeamNumber); err != nil {
			s.l.Warn("Rejected team number", "team", m.TeamNumber, "error", err)
		}
	case MessageTypeEnable:
		m := MessageEnable{}
		if err := json.Unmarshal(data, &m); err != nil {
			s.l.Warn("Bad enable message", "error", err)
			return
		}
		s.sink.ApplyEnabled(m.Enabled)
	case MessageTypeEstop:
		s.sink.ApplyEstop()
	default:
		s.l.Warn("Inbound message of unhandled type", "type", hdr.Type)
	}
}

// publish fans the msg out to all subscribers.  It never blocks and
// so messages to slow subscribers are dropped.
func (s *Stream) publish(msg []byte) {
	s.subscribersMutex.Lock()
	defer s.subscribersMutex.Unlock()

	for sub := range s.subscribers {
		select {
		case sub.msgs <- msg:
		default:
			go sub.closeSlow()
		}
	}
}

// retain records msg as the current value for its type and fans it
// out.  Clients connect whenever a browser loads the page, which can
// be long after startup, so the one-shot messages are replayed to
// every subscriber at registration time.
func (s *Stream) retain(t MessageType, msg []byte) {
	s.subscribersMutex.Lock()
	s.retained[t] = msg
	for sub := range s.subscribers {
		select {
		case sub.msgs <- msg:
		default:
			go sub.closeSlow()
		}
	}
	s.subscribersMutex.Unlock()
}

// addSubscriber registers a subscriber, queueing the retained
// messages ahead of anything published afterwards.
func (s *Stream) addSubscriber(sub *subscriber) {
	s.subscribersMutex.Lock()
	for _, t := range retainedOrder {
		msg, ok := s.retained[t]
		if !ok {
			continue
		}
		select {
		case sub.msgs <- msg:
		default:
		}
	}
	s.subscribers[sub] = struct{}{}
	s.subscribersMutex.Unlock()
}

// deleteSubscriber deletes the given subscriber.
func (s *Stream) deleteSubscriber(sub *subscriber) {
	s.subscribersMutex.Lock()
	delete(s.subscribers, sub)
	s.subscribersMutex.Unlock()
}

func writeTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.Write(ctx, websocket.MessageText, msg)
}
