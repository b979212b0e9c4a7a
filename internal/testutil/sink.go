package testutil

import (
	"context"
	"errors"
	"sync"
)

type SentMessage struct {
	To   string
	Body string
}

// FakeSink records notifications; every send is also pushed to Sent.
type FakeSink struct {
	mu   sync.Mutex
	all  []SentMessage
	Sent chan SentMessage
	Fail bool
}

func NewFakeSink() *FakeSink {
	return &FakeSink{Sent: make(chan SentMessage, 64)}
}

func (s *FakeSink) Send(ctx context.Context, to, body string) error {
	msg := SentMessage{To: to, Body: body}
	s.mu.Lock()
	s.all = append(s.all, msg)
	fail := s.Fail
	s.mu.Unlock()

	select {
	case s.Sent <- msg:
	default:
	}
	if fail {
		return errors.New("gateway unavailable")
	}
	return nil
}

func (s *FakeSink) Messages() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMessage, len(s.all))
	copy(out, s.all)
	return out
}
