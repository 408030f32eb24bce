package service

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/pkg/email"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"github.com/viptalca/viptalca-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrVipRegistrationNotFound = errors.New("vip registration not found")
	ErrVipTokenExpired         = errors.New("vip confirmation token has expired")
	ErrVipEmailDispatchFailed  = errors.New("vip confirmation email dispatch failed")
)

// VipValidationError reports a rejected submission field. The registration
// is not persisted and no email is sent when validation fails.
type VipValidationError struct {
	Field   string
	Message string
}

func (e *VipValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Message)
}

// VipRegistrationInput is a new-store submission.
type VipRegistrationInput struct {
	Nombre        string
	Rut           string
	Email         string
	Direccion     string
	Telefono      string
	Observaciones string
}

// ConfirmResult is the outcome of a confirmation attempt that reached a
// terminal success state.
type ConfirmResult struct {
	Registration     *model.VipStoreRegistration
	AlreadyConfirmed bool
}

type VipRegistrationService interface {
	// Register validates the submission, persists a pending registration
	// with a fresh 48h token and emails the confirmation link. The email
	// failing after the row is persisted returns ErrVipEmailDispatchFailed
	// with the row kept, so dispatch can be retried out of band.
	Register(input VipRegistrationInput) (*model.VipStoreRegistration, error)
	// Confirm resolves a confirmation token: unknown token, expired token
	// and already-confirmed are terminal outcomes; a pending unexpired
	// registration is promoted into a VIP tienda.
	Confirm(token string) (*ConfirmResult, error)
	ListRegistrations() ([]model.VipStoreRegistration, error)
}

type vipRegistrationService struct {
	db           *gorm.DB
	vipRepo      repository.VipRegistrationRepository
	tiendaRepo   repository.TiendaRepository
	emailService EmailService
	baseURL      string
}

func NewVipRegistrationService(
	db *gorm.DB,
	vipRepo repository.VipRegistrationRepository,
	tiendaRepo repository.TiendaRepository,
	emailService EmailService,
	baseURL string,
) VipRegistrationService {
	return &vipRegistrationService{
		db:           db,
		vipRepo:      vipRepo,
		tiendaRepo:   tiendaRepo,
		emailService: emailService,
		baseURL:      baseURL,
	}
}

func validateRegistrationInput(input VipRegistrationInput) error {
	if input.Nombre == "" {
		return &VipValidationError{Field: "nombre", Message: "el nombre es obligatorio"}
	}
	if input.Rut == "" {
		return &VipValidationError{Field: "rut", Message: "el RUT es obligatorio"}
	}
	if input.Email == "" {
		return &VipValidationError{Field: "email", Message: "el email es obligatorio"}
	}
	if !email.IsEmailValid(input.Email) {
		return &VipValidationError{Field: "email", Message: "el email no es válido"}
	}
	return nil
}

func (s *vipRegistrationService) Register(input VipRegistrationInput) (*model.VipStoreRegistration, error) {
	logger.Info("Processing VIP store registration", map[string]interface{}{
		"nombre": input.Nombre,
		"email":  input.Email,
	})

	if err := validateRegistrationInput(input); err != nil {
		logger.Warn("VIP registration rejected by validation", map[string]interface{}{
			"nombre": input.Nombre,
			"email":  input.Email,
			"error":  err.Error(),
		})
		return nil, err
	}

	now := time.Now()
	registration := &model.VipStoreRegistration{
		Token:         uuid.NewString(),
		Nombre:        input.Nombre,
		Rut:           util.FormatRut(input.Rut),
		Email:         input.Email,
		Direccion:     input.Direccion,
		Telefono:      input.Telefono,
		Observaciones: input.Observaciones,
		ExpiresAt:     now.Add(model.VipRegistrationExpiry),
	}

	if err := s.vipRepo.Create(registration); err != nil {
		logger.Error("Failed to persist VIP registration", err, map[string]interface{}{
			"nombre": input.Nombre,
			"email":  input.Email,
		})
		return nil, err
	}

	confirmURL := s.confirmationURL(registration.Token)
	if err := s.emailService.SendVipConfirmationEmail(registration.Email, registration.Nombre, confirmURL); err != nil {
		// The registration row stays persisted; the caller may retry the
		// email out of band within the 48h window.
		logger.Error("Failed to dispatch VIP confirmation email", err, map[string]interface{}{
			"registration_id": registration.ID,
			"email":           registration.Email,
		})
		return registration, ErrVipEmailDispatchFailed
	}

	logger.Info("VIP registration created and confirmation email sent", map[string]interface{}{
		"registration_id": registration.ID,
		"email":           registration.Email,
		"expires_at":      registration.ExpiresAt,
	})

	return registration, nil
}

func (s *vipRegistrationService) confirmationURL(token string) string {
	return fmt.Sprintf("%s/confirm-vip-store?token=%s", s.baseURL, url.QueryEscape(token))
}

func (s *vipRegistrationService) Confirm(token string) (*ConfirmResult, error) {
	logger.Info("Processing VIP registration confirmation")

	registration, err := s.vipRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("VIP confirmation with unknown token", nil)
			return nil, ErrVipRegistrationNotFound
		}
		logger.Error("Failed to look up VIP registration by token", err, nil)
		return nil, err
	}

	// Confirmed takes precedence over expired: a link that already worked
	// keeps reporting success even after the window closes.
	if registration.ConfirmedAt != nil {
		logger.Info("VIP registration already confirmed", map[string]interface{}{
			"registration_id": registration.ID,
			"confirmed_at":    registration.ConfirmedAt,
		})
		return &ConfirmResult{Registration: registration, AlreadyConfirmed: true}, nil
	}

	now := time.Now()
	if now.After(registration.ExpiresAt) {
		logger.Warn("VIP confirmation with expired token", map[string]interface{}{
			"registration_id": registration.ID,
			"expires_at":      registration.ExpiresAt,
		})
		return nil, ErrVipTokenExpired
	}

	// The conditional confirmed_at update is the commit point: only the
	// request that flips it inserts the tienda, and a failed insert rolls
	// the flip back so the link stays retryable.
	alreadyConfirmed := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := s.vipRepo.ConfirmWithTx(tx, token, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			alreadyConfirmed = true
			return nil
		}

		tienda := &model.Tienda{
			Nombre:    registration.Nombre,
			Rut:       registration.Rut,
			Email:     registration.Email,
			Direccion: registration.Direccion,
			Telefono:  registration.Telefono,
			Vip:       true,
			Activa:    true,
		}
		return s.tiendaRepo.CreateWithTx(tx, tienda)
	})
	if err != nil {
		logger.Error("Failed to confirm VIP registration", err, map[string]interface{}{
			"registration_id": registration.ID,
		})
		return nil, err
	}

	if alreadyConfirmed {
		// A concurrent request won the conditional update.
		refreshed, err := s.vipRepo.FindByToken(token)
		if err != nil {
			return nil, err
		}
		return &ConfirmResult{Registration: refreshed, AlreadyConfirmed: true}, nil
	}

	registration.ConfirmedAt = &now

	logger.Info("VIP store registered successfully", map[string]interface{}{
		"registration_id": registration.ID,
		"nombre":          registration.Nombre,
	})

	return &ConfirmResult{Registration: registration}, nil
}

func (s *vipRegistrationService) ListRegistrations() ([]model.VipStoreRegistration, error) {
	return s.vipRepo.ListAll()
}
