// Package email renders and delivers the transactional emails of the back
// office: account lifecycle mails for mentors and teachers, and follow-up
// reminders for the staff.
package email

import (
	"context"

	"eprofos_admin_backend/platform/config"
)

// NewSender builds the configured Sender. When email is disabled the
// NoopSender is returned so callers never need a nil check.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

// Sender delivers transactional emails. Account flows treat delivery
// failures as warnings, so implementations must not panic on transient
// errors.
type Sender interface {
	SendMentorWelcomeEmail(ctx context.Context, toEmail, firstName, verifyURL string) error
	SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error
	SendTeacherWelcomeEmail(ctx context.Context, toEmail, firstName string) error
	SendAccountStatusEmail(ctx context.Context, toEmail, firstName string, active bool) error
	SendFollowUpReminderEmail(ctx context.Context, toEmail, prospectName string, dueDate string) error
}

// NoopSender discards every email. Used in tests and local development
// without an SMTP server.
type NoopSender struct{}

func (NoopSender) SendMentorWelcomeEmail(ctx context.Context, toEmail, firstName, verifyURL string) error {
	return nil
}

func (NoopSender) SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error {
	return nil
}

func (NoopSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	return nil
}

func (NoopSender) SendTeacherWelcomeEmail(ctx context.Context, toEmail, firstName string) error {
	return nil
}

func (NoopSender) SendAccountStatusEmail(ctx context.Context, toEmail, firstName string, active bool) error {
	return nil
}

func (NoopSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, prospectName string, dueDate string) error {
	return nil
}

var _ Sender = NoopSender{}
