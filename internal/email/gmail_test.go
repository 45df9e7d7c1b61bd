package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMIME(t *testing.T) {
	msg := Message{
		FromAddress: "alerts@example.com",
		FromName:    "Accident Notifier",
		To:          []string{"a@example.com", "b@example.com"},
		Subject:     "Plain",
		HTMLBody:    "<p>html</p>",
		TextBody:    "text",
	}

	raw := buildMIME(msg)

	assert.Contains(t, raw, "From: \"Accident Notifier\" <alerts@example.com>\r\n")
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: Plain\r\n")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "<p>html</p>")
	assert.True(t, strings.HasSuffix(raw, "--"+mimeBoundary+"--"))
}

func TestBuildMIME_SinglePart(t *testing.T) {
	raw := buildMIME(Message{FromAddress: "x@example.com", To: []string{"a@example.com"}, HTMLBody: "<b>x</b>"})
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
	assert.NotContains(t, raw, "multipart")

	raw = buildMIME(Message{FromAddress: "x@example.com", To: []string{"a@example.com"}, TextBody: "x"})
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
}

func TestMIMESubject(t *testing.T) {
	assert.Equal(t, "Accident Alert", mimeSubject("Accident Alert"))
	assert.True(t, strings.HasPrefix(mimeSubject("🚨 Accident Alert"), "=?UTF-8?B?"))
}

func TestNewGmailSender_Validation(t *testing.T) {
	_, err := NewGmailSender(context.Background(), GmailConfig{})
	assert.Error(t, err)

	_, err = NewGmailSender(context.Background(), GmailConfig{SenderAddress: "a@example.com"})
	assert.Error(t, err)

	_, err = NewGmailSender(context.Background(), GmailConfig{SenderAddress: "a@example.com", CredentialsJSON: "not json"})
	assert.Error(t, err)
}
