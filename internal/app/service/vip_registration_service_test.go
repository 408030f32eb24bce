package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/internal/db"
	"gorm.io/gorm"
)

// recordingEmailService captures outgoing emails instead of sending them.
type recordingEmailService struct {
	confirmations []recordedConfirmation
	resets        []string
	failNext      bool
}

type recordedConfirmation struct {
	To         string
	Nombre     string
	ConfirmURL string
}

func (r *recordingEmailService) SendVipConfirmationEmail(to, nombre, confirmURL string) error {
	if r.failNext {
		r.failNext = false
		return errors.New("smtp connection refused")
	}
	r.confirmations = append(r.confirmations, recordedConfirmation{To: to, Nombre: nombre, ConfirmURL: confirmURL})
	return nil
}

func (r *recordingEmailService) SendPasswordResetEmail(to, resetURL string) error {
	if r.failNext {
		r.failNext = false
		return errors.New("smtp connection refused")
	}
	r.resets = append(r.resets, resetURL)
	return nil
}

func setupVipServiceTest(t *testing.T) (VipRegistrationService, *gorm.DB, *recordingEmailService) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	vipRepo := repository.NewVipRegistrationRepository(testDB)
	tiendaRepo := repository.NewTiendaRepository(testDB)
	emails := &recordingEmailService{}

	vipService := NewVipRegistrationService(testDB, vipRepo, tiendaRepo, emails, "https://viptalca.cl")
	return vipService, testDB, emails
}

func validInput() VipRegistrationInput {
	return VipRegistrationInput{
		Nombre:        "Tienda Sur",
		Rut:           "11.111.111-1",
		Email:         "sur@mail.com",
		Direccion:     "Av. Sur 100",
		Telefono:      "+56911111111",
		Observaciones: "Horario extendido",
	}
}

func TestVipRegistrationService_Register(t *testing.T) {
	vipService, testDB, emails := setupVipServiceTest(t)

	before := time.Now()
	registration, err := vipService.Register(validInput())
	require.NoError(t, err)
	require.NotNil(t, registration)

	assert.NotEmpty(t, registration.Token)
	assert.Nil(t, registration.ConfirmedAt)
	assert.Equal(t, "Tienda Sur", registration.Nombre)
	assert.Equal(t, "11.111.111-1", registration.Rut)

	// Expiry is 48 hours from submission
	assert.WithinDuration(t, before.Add(48*time.Hour), registration.ExpiresAt, 5*time.Second)

	var count int64
	require.NoError(t, testDB.Model(&model.VipStoreRegistration{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.Len(t, emails.confirmations, 1)
	assert.Equal(t, "sur@mail.com", emails.confirmations[0].To)
	assert.Equal(t, "Tienda Sur", emails.confirmations[0].Nombre)
	assert.Contains(t, emails.confirmations[0].ConfirmURL, "/confirm-vip-store?token="+registration.Token)
	assert.True(t, strings.HasPrefix(emails.confirmations[0].ConfirmURL, "https://viptalca.cl"))
}

func TestVipRegistrationService_Register_Validation(t *testing.T) {
	vipService, testDB, emails := setupVipServiceTest(t)

	tests := []struct {
		name   string
		mutate func(*VipRegistrationInput)
		field  string
	}{
		{
			name:   "Missing nombre",
			mutate: func(in *VipRegistrationInput) { in.Nombre = "" },
			field:  "nombre",
		},
		{
			name:   "Missing rut",
			mutate: func(in *VipRegistrationInput) { in.Rut = "" },
			field:  "rut",
		},
		{
			name:   "Missing email",
			mutate: func(in *VipRegistrationInput) { in.Email = "" },
			field:  "email",
		},
		{
			name:   "Malformed email",
			mutate: func(in *VipRegistrationInput) { in.Email = "not-an-email" },
			field:  "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			registration, err := vipService.Register(input)
			assert.Nil(t, registration)

			var validationErr *VipValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}

	// Rejected submissions leave no trace
	var count int64
	require.NoError(t, testDB.Model(&model.VipStoreRegistration{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, emails.confirmations)
}

func TestVipRegistrationService_Register_EmailFailureKeepsRow(t *testing.T) {
	vipService, testDB, emails := setupVipServiceTest(t)

	emails.failNext = true
	registration, err := vipService.Register(validInput())
	assert.ErrorIs(t, err, ErrVipEmailDispatchFailed)
	require.NotNil(t, registration)

	// The registration survives for an out-of-band retry
	var count int64
	require.NoError(t, testDB.Model(&model.VipStoreRegistration{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVipRegistrationService_Confirm(t *testing.T) {
	vipService, testDB, _ := setupVipServiceTest(t)

	registration, err := vipService.Register(validInput())
	require.NoError(t, err)

	result, err := vipService.Confirm(registration.Token)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.AlreadyConfirmed)
	require.NotNil(t, result.Registration.ConfirmedAt)

	var tienda model.Tienda
	require.NoError(t, testDB.First(&tienda).Error)
	assert.Equal(t, "Tienda Sur", tienda.Nombre)
	assert.Equal(t, "11.111.111-1", tienda.Rut)
	assert.Equal(t, "sur@mail.com", tienda.Email)
	assert.Equal(t, "Av. Sur 100", tienda.Direccion)
	assert.Equal(t, "+56911111111", tienda.Telefono)
	assert.True(t, tienda.Vip)
	assert.True(t, tienda.Activa)

	var stored model.VipStoreRegistration
	require.NoError(t, testDB.Where("token = ?", registration.Token).First(&stored).Error)
	require.NotNil(t, stored.ConfirmedAt)
	assert.Equal(t, model.VipStatusConfirmada, stored.Status(time.Now()))
}

func TestVipRegistrationService_Confirm_UnknownToken(t *testing.T) {
	vipService, testDB, _ := setupVipServiceTest(t)

	result, err := vipService.Confirm("no-such-token")
	assert.ErrorIs(t, err, ErrVipRegistrationNotFound)
	assert.Nil(t, result)

	var count int64
	require.NoError(t, testDB.Model(&model.Tienda{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVipRegistrationService_Confirm_ExpiredToken(t *testing.T) {
	vipService, testDB, _ := setupVipServiceTest(t)

	registration, err := vipService.Register(validInput())
	require.NoError(t, err)

	// Push the registration past its window
	require.NoError(t, testDB.Model(&model.VipStoreRegistration{}).
		Where("token = ?", registration.Token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	result, err := vipService.Confirm(registration.Token)
	assert.ErrorIs(t, err, ErrVipTokenExpired)
	assert.Nil(t, result)

	var count int64
	require.NoError(t, testDB.Model(&model.Tienda{}).Count(&count).Error)
	assert.Zero(t, count)

	var stored model.VipStoreRegistration
	require.NoError(t, testDB.Where("token = ?", registration.Token).First(&stored).Error)
	assert.Nil(t, stored.ConfirmedAt)
	assert.Equal(t, model.VipStatusExpirada, stored.Status(time.Now()))
}

func TestVipRegistrationService_Confirm_Idempotent(t *testing.T) {
	vipService, testDB, _ := setupVipServiceTest(t)

	registration, err := vipService.Register(validInput())
	require.NoError(t, err)

	first, err := vipService.Confirm(registration.Token)
	require.NoError(t, err)
	assert.False(t, first.AlreadyConfirmed)

	second, err := vipService.Confirm(registration.Token)
	require.NoError(t, err)
	assert.True(t, second.AlreadyConfirmed)
	assert.Equal(t, first.Registration.ConfirmedAt.Unix(), second.Registration.ConfirmedAt.Unix())

	// Still exactly one tienda
	var count int64
	require.NoError(t, testDB.Model(&model.Tienda{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVipRegistrationService_Confirm_ConfirmedBeatsExpired(t *testing.T) {
	vipService, testDB, _ := setupVipServiceTest(t)

	registration, err := vipService.Register(validInput())
	require.NoError(t, err)

	_, err = vipService.Confirm(registration.Token)
	require.NoError(t, err)

	// The window closing after confirmation does not flip the outcome
	require.NoError(t, testDB.Model(&model.VipStoreRegistration{}).
		Where("token = ?", registration.Token).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	result, err := vipService.Confirm(registration.Token)
	require.NoError(t, err)
	assert.True(t, result.AlreadyConfirmed)
}

func TestVipRegistrationService_Confirm_TiendaLimitKeepsRegistrationPending(t *testing.T) {
	vipService, testDB, _ := setupVipServiceTest(t)

	for i := 0; i < model.MaxTiendas; i++ {
		require.NoError(t, testDB.Create(&model.Tienda{
			Nombre: fmt.Sprintf("Tienda %d", i+1),
			Rut:    fmt.Sprintf("76.000.00%d-K", i),
			Email:  fmt.Sprintf("tienda%d@mail.com", i+1),
			Activa: true,
		}).Error)
	}

	registration, err := vipService.Register(validInput())
	require.NoError(t, err)

	result, err := vipService.Confirm(registration.Token)
	assert.ErrorIs(t, err, repository.ErrTiendaLimitReached)
	assert.Nil(t, result)

	// The failed insert rolled the confirmation back
	var stored model.VipStoreRegistration
	require.NoError(t, testDB.Where("token = ?", registration.Token).First(&stored).Error)
	assert.Nil(t, stored.ConfirmedAt)
	assert.Equal(t, model.VipStatusPendiente, stored.Status(time.Now()))

	var count int64
	require.NoError(t, testDB.Model(&model.Tienda{}).Count(&count).Error)
	assert.Equal(t, int64(model.MaxTiendas), count)
}
