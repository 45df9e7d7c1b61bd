package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the configuration for the SMTP sender.
type SMTPConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	SSL                bool
	InsecureSkipVerify bool
	// SenderAddress is used when a message carries no From address.
	SenderAddress string
	SenderName    string
}

// SMTPSender implements Sender over plain SMTP using gomail.
type SMTPSender struct {
	dialer        *gomail.Dialer
	senderAddress string
	senderName    string
	// send is replaced in tests
	send func(m *gomail.Message) error
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("smtp: port is required")
	}
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("smtp: sender address is required")
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// gomail already turns SSL on for port 465
	if cfg.SSL {
		d.SSL = true
	}
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true, ServerName: cfg.Host}
	}

	s := &SMTPSender{
		dialer:        d,
		senderAddress: cfg.SenderAddress,
		senderName:    cfg.SenderName,
	}
	s.send = func(m *gomail.Message) error {
		return s.dialer.DialAndSend(m)
	}
	return s, nil
}

// Host returns the SMTP host
func (s *SMTPSender) Host() string {
	return s.dialer.Host
}

// Send sends an email via SMTP. The context is checked before dialing;
// gomail itself does not support cancellation.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("smtp: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}

	fromAddr, fromName := msg.FromAddress, msg.FromName
	if fromAddr == "" {
		fromAddr, fromName = s.senderAddress, s.senderName
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), s.dialer.Host)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", fromAddr, fromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	if err := s.send(m); err != nil {
		return nil, fmt.Errorf("smtp: failed to send email: %w", err)
	}

	return &Receipt{
		Provider:  "smtp",
		MessageID: messageID,
		Accepted:  append([]string(nil), msg.To...),
		SentAt:    time.Now().UTC(),
	}, nil
}
