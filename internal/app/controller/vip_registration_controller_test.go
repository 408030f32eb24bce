package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/internal/app/service"
	"github.com/viptalca/viptalca-backend/internal/db"
	"gorm.io/gorm"
)

// stubEmailService records sent emails without dispatching anything.
type stubEmailService struct {
	confirmURLs []string
}

func (s *stubEmailService) SendVipConfirmationEmail(to, nombre, confirmURL string) error {
	s.confirmURLs = append(s.confirmURLs, confirmURL)
	return nil
}

func (s *stubEmailService) SendPasswordResetEmail(to, resetURL string) error {
	return nil
}

func setupVipControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *stubEmailService) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	vipRepo := repository.NewVipRegistrationRepository(testDB)
	tiendaRepo := repository.NewTiendaRepository(testDB)
	emails := &stubEmailService{}

	vipService := service.NewVipRegistrationService(testDB, vipRepo, tiendaRepo, emails, "http://localhost:8080")
	ctrl := NewVipRegistrationController(vipService)

	router := gin.New()
	router.POST("/api/v1/vip-registrations", ctrl.Register)
	router.GET("/confirm-vip-store", ctrl.Confirm)

	return router, testDB, emails
}

func postRegistration(t *testing.T, router *gin.Engine, reqBody VipRegistrationRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/vip-registrations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVipRegistrationController_Register_Success(t *testing.T) {
	router, testDB, emails := setupVipControllerTest(t)

	w := postRegistration(t, router, VipRegistrationRequest{
		Nombre: "Tienda Sur",
		Rut:    "11.111.111-1",
		Email:  "sur@mail.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "sur@mail.com", response["email"])
	assert.Contains(t, response, "expires_at")

	var registration model.VipStoreRegistration
	require.NoError(t, testDB.First(&registration).Error)
	assert.NotEmpty(t, registration.Token)

	require.Len(t, emails.confirmURLs, 1)
	assert.Contains(t, emails.confirmURLs[0], registration.Token)
}

func TestVipRegistrationController_Register_MissingFields(t *testing.T) {
	router, testDB, emails := setupVipControllerTest(t)

	tests := []struct {
		name string
		body VipRegistrationRequest
	}{
		{
			name: "Missing nombre",
			body: VipRegistrationRequest{Rut: "11.111.111-1", Email: "sur@mail.com"},
		},
		{
			name: "Missing rut",
			body: VipRegistrationRequest{Nombre: "Tienda Sur", Email: "sur@mail.com"},
		},
		{
			name: "Missing email",
			body: VipRegistrationRequest{Nombre: "Tienda Sur", Rut: "11.111.111-1"},
		},
		{
			name: "Malformed email",
			body: VipRegistrationRequest{Nombre: "Tienda Sur", Rut: "11.111.111-1", Email: "nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postRegistration(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	var count int64
	require.NoError(t, testDB.Model(&model.VipStoreRegistration{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, emails.confirmURLs)
}

func confirmRequest(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVipRegistrationController_Confirm_MissingToken(t *testing.T) {
	router, _, _ := setupVipControllerTest(t)

	w := confirmRequest(t, router, "/confirm-vip-store")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Enlace inválido")
}

func TestVipRegistrationController_Confirm_UnknownToken(t *testing.T) {
	router, _, _ := setupVipControllerTest(t)

	w := confirmRequest(t, router, "/confirm-vip-store?token=no-such-token")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Solicitud no encontrada")
}

func TestVipRegistrationController_Confirm_Expired(t *testing.T) {
	router, testDB, _ := setupVipControllerTest(t)

	postRegistration(t, router, VipRegistrationRequest{
		Nombre: "Tienda Sur",
		Rut:    "11.111.111-1",
		Email:  "sur@mail.com",
	})

	var registration model.VipStoreRegistration
	require.NoError(t, testDB.First(&registration).Error)
	require.NoError(t, testDB.Model(&registration).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	w := confirmRequest(t, router, "/confirm-vip-store?token="+registration.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Enlace expirado")
}

func TestVipRegistrationController_Confirm_SuccessAndIdempotent(t *testing.T) {
	router, testDB, _ := setupVipControllerTest(t)

	postRegistration(t, router, VipRegistrationRequest{
		Nombre: "Tienda Sur",
		Rut:    "11.111.111-1",
		Email:  "sur@mail.com",
	})

	var registration model.VipStoreRegistration
	require.NoError(t, testDB.First(&registration).Error)

	w := confirmRequest(t, router, "/confirm-vip-store?token="+registration.Token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Registro confirmado")

	var tienda model.Tienda
	require.NoError(t, testDB.First(&tienda).Error)
	assert.True(t, tienda.Vip)
	assert.True(t, tienda.Activa)

	// Reusing the link reports success without creating anything new
	w = confirmRequest(t, router, "/confirm-vip-store?token="+registration.Token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ya fue registrada")

	var count int64
	require.NoError(t, testDB.Model(&model.Tienda{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
