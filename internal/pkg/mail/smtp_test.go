package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	from string
	to   []string
	raw  string
}

func newTestSMTP(t *testing.T, sendErr error) (*SMTP, *captured) {
	t.Helper()

	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@example.com"})
	require.NoError(t, err)

	c := &captured{}
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		c.addr, c.from, c.to, c.raw = addr, from, to, string(msg)
		return sendErr
	}

	return s, c
}

func TestNewSMTP_RequiresHostPort(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "localhost"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)
}

func TestSMTP_SendText(t *testing.T) {
	s, c := newTestSMTP(t, nil)

	err := s.Send(context.Background(), Message{
		To:       []string{"a@example.com"},
		Bcc:      []string{"audit@example.com"},
		Subject:  "Your login code",
		TextBody: "123456",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:1025", c.addr)
	assert.Equal(t, "noreply@example.com", c.from)
	assert.Equal(t, []string{"a@example.com", "audit@example.com"}, c.to)
	assert.Contains(t, c.raw, "Subject: Your login code\r\n")
	assert.Contains(t, c.raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.NotContains(t, c.raw, "audit@example.com")
	assert.True(t, strings.HasSuffix(c.raw, "\r\n\r\n123456"))
}

func TestSMTP_SendMultipart(t *testing.T) {
	s, c := newTestSMTP(t, nil)

	err := s.Send(context.Background(), Message{
		To:       []string{"a@example.com"},
		TextBody: "plain",
		HTMLBody: "<b>html</b>",
	})
	require.NoError(t, err)

	assert.Contains(t, c.raw, "multipart/alternative; boundary=otpauth-")
	assert.Contains(t, c.raw, "Content-Type: text/plain; charset=UTF-8\r\n\r\nplain")
	assert.Contains(t, c.raw, "Content-Type: text/html; charset=UTF-8\r\n\r\n<b>html</b>")
}

func TestSMTP_SendErrors(t *testing.T) {
	t.Run("no recipients", func(t *testing.T) {
		s, _ := newTestSMTP(t, nil)
		assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrSMTPNoRecipients)
	})

	t.Run("no sender", func(t *testing.T) {
		s, _ := newTestSMTP(t, nil)
		s.defaultFrom = ""
		assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@example.com"}}), ErrSMTPNoSender)
	})

	t.Run("header injection", func(t *testing.T) {
		s, _ := newTestSMTP(t, nil)
		err := s.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "hi\r\nBcc: x@example.com"})
		assert.ErrorIs(t, err, ErrHeaderInjection)
	})

	t.Run("transport", func(t *testing.T) {
		boom := errors.New("connection refused")
		s, _ := newTestSMTP(t, boom)
		assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@example.com"}}), boom)
	})

	t.Run("canceled", func(t *testing.T) {
		s, _ := newTestSMTP(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, s.Send(ctx, Message{To: []string{"a@example.com"}}), context.Canceled)
	})
}
