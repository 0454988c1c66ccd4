package email

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

const otpExpiryMinutes = 10

type EmailService struct {
	client       *resend.Client
	from         string
	fromName     string
	templatesDir string
	logger       *zap.SugaredLogger
}

func NewEmailService(logger *zap.SugaredLogger) *EmailService {
	return &EmailService{
		client:       resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:         os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName:     os.Getenv("EMAIL_FROM_NAME"),
		templatesDir: "pkg/email/templates",
		logger:       logger,
	}
}

// SendOTPEmail delivers the email-verification code issued at registration
// or on resend.
func (s *EmailService) SendOTPEmail(to, otp string) error {
	templateData := map[string]interface{}{
		"Email":         to,
		"OTP":           otp,
		"ExpiryMinutes": otpExpiryMinutes,
		"Year":          time.Now().Year(),
	}

	html, err := s.parseTemplate("otp-email.html", templateData)
	if err != nil {
		s.logger.Errorw("failed to parse otp template", "email", to, "error", err)
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "Your Verification Code",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Errorw("failed to send otp email", "email", to, "error", err)
		return err
	}

	s.logger.Infow("sent otp email", "email", to, "id", resp.Id)
	return nil
}

// SendPasswordResetEmail delivers the password-reset code.
func (s *EmailService) SendPasswordResetEmail(to, otp string) error {
	templateData := map[string]interface{}{
		"Email":         to,
		"OTP":           otp,
		"ExpiryMinutes": otpExpiryMinutes,
		"Year":          time.Now().Year(),
	}

	html, err := s.parseTemplate("password-reset-email.html", templateData)
	if err != nil {
		s.logger.Errorw("failed to parse password reset template", "email", to, "error", err)
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "Your Password Reset Code",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Errorw("failed to send password reset email", "email", to, "error", err)
		return err
	}

	s.logger.Infow("sent password reset email", "email", to, "id", resp.Id)
	return nil
}

func (s *EmailService) parseTemplate(templateName string, data interface{}) (string, error) {
	templatePath := filepath.Join(s.templatesDir, templateName)

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}

	return body.String(), nil
}
