package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendMentorWelcomeEmail(ctx context.Context, toEmail, firstName, verifyURL string) error {
	content, err := renderEmailTemplate("mentor_welcome.html", mentorWelcomeEmailData{
		baseEmailData: baseEmailData{
			Title:    "Bienvenue sur EPROFOS",
			Heading:  "Bienvenue sur EPROFOS",
			CTALabel: "Confirmer mon adresse e-mail",
			CTAURL:   verifyURL,
		},
		FirstName: firstName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectMentorWelcome, content)
}

func (s *SMTPSender) SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error {
	content, err := renderEmailTemplate("verification.html", verificationEmailData{
		baseEmailData: baseEmailData{
			Title:    "Vérifiez votre adresse e-mail",
			Heading:  "Vérifiez votre adresse e-mail",
			CTALabel: "Vérifier mon adresse",
			CTAURL:   verifyURL,
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectVerification, content)
}

func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	content, err := renderEmailTemplate("password_reset.html", passwordResetEmailData{
		baseEmailData: baseEmailData{
			Title:    "Réinitialisation de votre mot de passe",
			Heading:  "Réinitialisation de votre mot de passe",
			CTALabel: "Choisir un nouveau mot de passe",
			CTAURL:   resetURL,
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPasswordReset, content)
}

func (s *SMTPSender) SendTeacherWelcomeEmail(ctx context.Context, toEmail, firstName string) error {
	content, err := renderEmailTemplate("teacher_welcome.html", teacherWelcomeEmailData{
		baseEmailData: baseEmailData{
			Title:   "Bienvenue dans l'équipe pédagogique",
			Heading: "Bienvenue dans l'équipe pédagogique",
		},
		FirstName: firstName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectTeacherWelcome, content)
}

func (s *SMTPSender) SendAccountStatusEmail(ctx context.Context, toEmail, firstName string, active bool) error {
	subject := subjectAccountDisabled
	heading := "Compte désactivé"
	if active {
		subject = subjectAccountActivated
		heading = "Compte activé"
	}
	content, err := renderEmailTemplate("account_status.html", accountStatusEmailData{
		baseEmailData: baseEmailData{
			Title:   heading,
			Heading: heading,
		},
		FirstName: firstName,
		Active:    active,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, prospectName string, dueDate string) error {
	subject := fmt.Sprintf(subjectFollowUpFmt, prospectName)
	content, err := renderEmailTemplate("follow_up_reminder.html", followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Relance prospect",
			Heading: "Relance prospect",
		},
		ProspectName: prospectName,
		DueDate:      dueDate,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

var _ Sender = (*SMTPSender)(nil)
