package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/internal/db"
	"github.com/viptalca/viptalca-backend/pkg/util"
	"gorm.io/gorm"
)

func setupPasswordResetTest(t *testing.T) (PasswordResetService, *gorm.DB, *recordingEmailService) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	resetRepo := repository.NewPasswordResetRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	emails := &recordingEmailService{}

	resetService := NewPasswordResetService(resetRepo, userRepo, emails, "https://viptalca.cl")
	return resetService, testDB, emails
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	resetService, testDB, emails := setupPasswordResetTest(t)

	createTestUser(t, testDB, "admin@viptalca.cl", "oldpassword", model.RoleAdmin)

	require.NoError(t, resetService.RequestReset("admin@viptalca.cl"))

	require.Len(t, emails.resets, 1)
	assert.Contains(t, emails.resets[0], "https://viptalca.cl/restablecer-contrasena?token=")

	var reset model.PasswordReset
	require.NoError(t, testDB.First(&reset).Error)
	assert.Equal(t, "admin@viptalca.cl", reset.Email)
	assert.False(t, reset.Used)
	assert.WithinDuration(t, time.Now().Add(ResetTokenExpiry), reset.ExpiresAt, 5*time.Second)
}

func TestPasswordResetService_RequestReset_UnknownEmailStaysSilent(t *testing.T) {
	resetService, testDB, emails := setupPasswordResetTest(t)

	// Succeeds without revealing the address is unregistered
	require.NoError(t, resetService.RequestReset("nobody@viptalca.cl"))

	assert.Empty(t, emails.resets)
	var count int64
	require.NoError(t, testDB.Model(&model.PasswordReset{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	resetService, testDB, emails := setupPasswordResetTest(t)

	user := createTestUser(t, testDB, "admin@viptalca.cl", "oldpassword", model.RoleAdmin)
	require.NoError(t, resetService.RequestReset(user.Email))
	require.Len(t, emails.resets, 1)

	token := extractToken(t, emails.resets[0])

	require.NoError(t, resetService.ResetPassword(token, "newpassword456"))

	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.True(t, util.VerifyPassword(updated.PasswordHash, "newpassword456"))
	assert.False(t, util.VerifyPassword(updated.PasswordHash, "oldpassword"))

	// A consumed token cannot be replayed
	assert.ErrorIs(t, resetService.ResetPassword(token, "anotherpassword"), ErrResetTokenUsed)
}

func TestPasswordResetService_ResetPassword_InvalidToken(t *testing.T) {
	resetService, _, _ := setupPasswordResetTest(t)

	assert.ErrorIs(t, resetService.ResetPassword("bogus-token", "newpassword"), ErrInvalidResetToken)
}

func TestPasswordResetService_ResetPassword_ExpiredToken(t *testing.T) {
	resetService, testDB, emails := setupPasswordResetTest(t)

	user := createTestUser(t, testDB, "admin@viptalca.cl", "oldpassword", model.RoleAdmin)
	require.NoError(t, resetService.RequestReset(user.Email))
	token := extractToken(t, emails.resets[0])

	require.NoError(t, testDB.Model(&model.PasswordReset{}).
		Where("token = ?", token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	assert.ErrorIs(t, resetService.ResetPassword(token, "newpassword"), ErrResetTokenExpired)
}

func extractToken(t *testing.T, resetURL string) string {
	t.Helper()
	idx := strings.Index(resetURL, "token=")
	require.NotEqual(t, -1, idx)
	return resetURL[idx+len("token="):]
}
