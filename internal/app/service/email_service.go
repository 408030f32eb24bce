package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/viptalca/viptalca-backend/config"
	"github.com/viptalca/viptalca-backend/pkg/email"
	"github.com/viptalca/viptalca-backend/pkg/logger"
)

// ErrEmailDisabled is returned when SMTP is switched off. Callers treat it
// as a dispatch failure so a registration is never reported as emailed when
// no email went out.
var ErrEmailDisabled = errors.New("email sending disabled")

// EmailService composes and dispatches the transactional emails of the site.
type EmailService interface {
	SendVipConfirmationEmail(to, nombre, confirmURL string) error
	SendPasswordResetEmail(to, resetURL string) error
}

type emailService struct {
	sender  email.Sender
	cfg     config.EmailConfig
	enabled bool
}

func NewEmailService(sender email.Sender, cfg config.EmailConfig) EmailService {
	return &emailService{
		sender:  sender,
		cfg:     cfg,
		enabled: cfg.Enabled,
	}
}

type vipConfirmationEmailInput struct {
	Nombre     string
	ConfirmURL string
}

type passwordResetEmailInput struct {
	ResetURL string
}

func (s *emailService) SendVipConfirmationEmail(to, nombre, confirmURL string) error {
	if !s.enabled {
		logger.Warn("Email sending disabled, VIP confirmation email not dispatched", map[string]interface{}{
			"to":          to,
			"confirm_url": confirmURL,
		})
		return ErrEmailDisabled
	}

	sendInput := email.SendEmailInput{
		To:      to,
		Subject: "Confirma tu registro como Tienda VIP",
	}

	templatePath := filepath.Join(s.cfg.TemplatesDir, s.cfg.Templates.VipConfirmation)
	templateInput := vipConfirmationEmailInput{Nombre: nombre, ConfirmURL: confirmURL}
	if err := sendInput.GenerateBodyFromHTML(templatePath, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	return s.sender.Send(sendInput)
}

func (s *emailService) SendPasswordResetEmail(to, resetURL string) error {
	if !s.enabled {
		logger.Warn("Email sending disabled, password reset email not dispatched", map[string]interface{}{
			"to":        to,
			"reset_url": resetURL,
		})
		return ErrEmailDisabled
	}

	sendInput := email.SendEmailInput{
		To:      to,
		Subject: "Restablece tu contraseña",
	}

	templatePath := filepath.Join(s.cfg.TemplatesDir, s.cfg.Templates.PasswordReset)
	templateInput := passwordResetEmailInput{ResetURL: resetURL}
	if err := sendInput.GenerateBodyFromHTML(templatePath, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	return s.sender.Send(sendInput)
}
