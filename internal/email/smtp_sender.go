package email

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/referiq/backend/internal/config"
	"github.com/referiq/backend/internal/models"
)

// StatusUpdater transitions a referral's status after a successful dispatch.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id, status string) error
}

// SMTPSender dispatches email directly through an SMTP relay. Unlike the
// function provider there is no external collaborator to flip the referral
// status, so the sender performs the pending->sent transition itself after a
// successful dispatch. Failures leave the status untouched.
type SMTPSender struct {
	cfg      config.EmailConfig
	statuses StatusUpdater
}

// NewSMTPSender constructs a direct SMTP sender.
func NewSMTPSender(cfg config.EmailConfig, statuses StatusUpdater) *SMTPSender {
	return &SMTPSender{cfg: cfg, statuses: statuses}
}

// Send dispatches the message and marks the referral sent.
func (s *SMTPSender) Send(ctx context.Context, req SendRequest) (string, error) {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	if req.RecipientName != "" {
		m.SetAddressHeader("To", req.RecipientEmail, req.RecipientName)
	} else {
		m.SetHeader("To", req.RecipientEmail)
	}
	m.SetHeader("Subject", req.Subject)
	m.SetBody("text/html", req.HTMLContent)

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	messageID := uuid.NewString()

	if s.statuses != nil {
		if err := s.statuses.UpdateStatus(ctx, req.ReferralID, models.StatusSent); err != nil {
			// The mail is already out; report the id and the bookkeeping failure.
			return messageID, fmt.Errorf("mark referral sent: %w", err)
		}
	}

	return messageID, nil
}

var _ Sender = (*SMTPSender)(nil)
