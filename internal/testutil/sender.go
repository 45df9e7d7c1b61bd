package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/roadwatch/roadwatch/internal/email"
)

// StubSender records every message it is asked to send.
// Set Err to make every call fail, or Block to hold calls until it is closed.
type StubSender struct {
	mu       sync.Mutex
	messages []email.Message
	Err      error
	Block    chan struct{}
	Started  chan struct{}
}

// NewStubSender returns a StubSender that succeeds
func NewStubSender() *StubSender {
	return &StubSender{}
}

// Send implements email.Sender
func (s *StubSender) Send(ctx context.Context, msg email.Message) (*email.Receipt, error) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	block, started, err := s.Block, s.Started, s.Err
	s.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &email.Receipt{
		Provider:  "stub",
		MessageID: "stub-message",
		Accepted:  append([]string(nil), msg.To...),
		SentAt:    time.Now().UTC(),
	}, nil
}

// Calls returns the number of Send calls
func (s *StubSender) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Messages returns a copy of the recorded messages
func (s *StubSender) Messages() []email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.Message(nil), s.messages...)
}
