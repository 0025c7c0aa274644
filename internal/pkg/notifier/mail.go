package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/shandysiswandi/otpauth/internal/pkg/mail"
)

// Mail emails the code.
type Mail struct {
	mail    mail.Mail
	content Content
}

func NewMail(m mail.Mail, content Content) *Mail {
	return &Mail{mail: m, content: content}
}

func (m *Mail) Send(ctx context.Context, subject, code string) (bool, error) {
	if !strings.Contains(subject, "@") {
		return false, fmt.Errorf("%w: %s is not an email address", ErrUnsupportedSubject, subject)
	}

	err := m.mail.Send(ctx, mail.Message{
		To:       []string{subject},
		Subject:  m.content.Subject(),
		TextBody: m.content.Text(code),
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
