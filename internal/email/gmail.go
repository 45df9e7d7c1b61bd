package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailConfig holds the configuration for the Gmail email sender.
type GmailConfig struct {
	// CredentialsJSON is the OAuth2 service account credentials JSON.
	CredentialsJSON string
	// ClientID, ClientSecret and RefreshToken are used instead of
	// CredentialsJSON for personal accounts.
	ClientID     string
	ClientSecret string
	RefreshToken string
	// SenderAddress is the email address emails are sent from.
	SenderAddress string
	// SenderName is the display name for the sender.
	SenderName string
}

// GmailSender implements Sender using the Gmail API.
type GmailSender struct {
	service       *gmail.Service
	senderAddress string
	senderName    string
}

// NewGmailSender creates a new GmailSender. Service account credentials
// (with domain-wide delegation) take precedence over a refresh token.
func NewGmailSender(ctx context.Context, cfg GmailConfig) (*GmailSender, error) {
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}

	var opt option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		jwtConfig, err := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), gmail.GmailSendScope)
		if err != nil {
			return nil, fmt.Errorf("gmail: failed to parse credentials: %w", err)
		}
		// Impersonate the sender mailbox
		jwtConfig.Subject = cfg.SenderAddress
		opt = option.WithHTTPClient(jwtConfig.Client(ctx))
	case cfg.RefreshToken != "":
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailSendScope},
		}
		opt = option.WithHTTPClient(oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}))
	default:
		return nil, fmt.Errorf("gmail: credentials JSON or refresh token is required")
	}

	svc, err := gmail.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &GmailSender{
		service:       svc,
		senderAddress: cfg.SenderAddress,
		senderName:    cfg.SenderName,
	}, nil
}

// Send sends an email via the Gmail API.
func (g *GmailSender) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("gmail: no recipients")
	}
	if msg.FromAddress == "" {
		msg.FromAddress, msg.FromName = g.senderAddress, g.senderName
	}

	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(buildMIME(msg))),
	}

	sent, err := g.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to send email: %w", err)
	}

	return &Receipt{
		Provider:  "gmail",
		MessageID: sent.Id,
		Accepted:  append([]string(nil), msg.To...),
		SentAt:    time.Now().UTC(),
	}, nil
}

const mimeBoundary = "boundary_roadwatch_alert"

// buildMIME renders msg as an RFC 5322 message
func buildMIME(msg Message) string {
	headers := []string{
		"From: " + msg.From(),
		"To: " + strings.Join(msg.To, ", "),
		"Subject: " + mimeSubject(msg.Subject),
		"MIME-Version: 1.0",
	}

	var parts []string
	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		// Multipart alternative (HTML + text)
		parts = append(headers,
			"Content-Type: multipart/alternative; boundary="+mimeBoundary,
			"",
			"--"+mimeBoundary,
			"Content-Type: text/plain; charset=UTF-8",
			"Content-Transfer-Encoding: 8bit",
			"",
			msg.TextBody,
			"",
			"--"+mimeBoundary,
			"Content-Type: text/html; charset=UTF-8",
			"Content-Transfer-Encoding: 8bit",
			"",
			msg.HTMLBody,
			"",
			"--"+mimeBoundary+"--",
		)
	case msg.HTMLBody != "":
		parts = append(headers,
			"Content-Type: text/html; charset=UTF-8",
			"",
			msg.HTMLBody,
		)
	default:
		parts = append(headers,
			"Content-Type: text/plain; charset=UTF-8",
			"",
			msg.TextBody,
		)
	}

	return strings.Join(parts, "\r\n")
}

// mimeSubject encodes non-ASCII subjects (the alert subject carries an emoji)
func mimeSubject(subject string) string {
	for _, r := range subject {
		if r > 127 {
			return "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte(subject)) + "?="
		}
	}
	return subject
}
