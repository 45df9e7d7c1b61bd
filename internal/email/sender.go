package email

import (
	"context"
	"fmt"
	"time"
)

// Sender is the interface that all mail transports must implement.
// A Sender performs exactly one delivery attempt per call.
type Sender interface {
	// Send delivers msg to every address in msg.To.
	Send(ctx context.Context, msg Message) (*Receipt, error)
}

// Message represents an email message to be sent.
type Message struct {
	FromAddress string   // sender mailbox
	FromName    string   // sender display name
	To          []string // recipient email addresses
	Subject     string   // email subject
	HTMLBody    string   // HTML email body
	TextBody    string   // plain-text fallback body
}

// From returns the formatted From header value
func (m Message) From() string {
	if m.FromName == "" {
		return m.FromAddress
	}
	return fmt.Sprintf("%q <%s>", m.FromName, m.FromAddress)
}

// Receipt is the transport's answer to a successful Send.
type Receipt struct {
	Provider  string    `json:"provider"`
	MessageID string    `json:"messageId"`
	Accepted  []string  `json:"accepted"`
	SentAt    time.Time `json:"sentAt"`
}
