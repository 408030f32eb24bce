package controller

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/viptalca/viptalca-backend/internal/app/service"
	apperrors "github.com/viptalca/viptalca-backend/internal/errors"
	"github.com/viptalca/viptalca-backend/internal/middleware"
)

type VipRegistrationController struct {
	vipService service.VipRegistrationService
}

func NewVipRegistrationController(vipService service.VipRegistrationService) *VipRegistrationController {
	return &VipRegistrationController{vipService: vipService}
}

type VipRegistrationRequest struct {
	Nombre        string `json:"nombre" binding:"required"`
	Rut           string `json:"rut" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Direccion     string `json:"direccion"`
	Telefono      string `json:"telefono"`
	Observaciones string `json:"observaciones"`
}

// Register accepts a public VIP store registration submission
// POST /api/v1/vip-registrations
func (ctrl *VipRegistrationController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VipRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid VIP registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Nombre, RUT y email son obligatorios")
		return
	}

	registration, err := ctrl.vipService.Register(service.VipRegistrationInput{
		Nombre:        req.Nombre,
		Rut:           req.Rut,
		Email:         req.Email,
		Direccion:     req.Direccion,
		Telefono:      req.Telefono,
		Observaciones: req.Observaciones,
	})
	if err != nil {
		var validationErr *service.VipValidationError
		switch {
		case errors.As(err, &validationErr):
			apperrors.RespondWithValidationError(c, map[string]string{
				validationErr.Field: validationErr.Message,
			})
		case errors.Is(err, service.ErrVipEmailDispatchFailed):
			// The registration was persisted; only the email failed.
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.VipEmailDispatchFailed,
				"Tu solicitud fue registrada pero no pudimos enviar el correo de confirmación. Intenta nuevamente más tarde.")
		default:
			log.Error("VIP registration failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.VipRegistrationPersistErr,
				"No pudimos registrar tu solicitud. Intenta nuevamente más tarde.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"email":      registration.Email,
		"message":    "Solicitud registrada. Revisa tu correo para confirmar el registro.",
		"expires_at": registration.ExpiresAt,
	})
}

// Confirm resolves a confirmation link from the email
// GET /confirm-vip-store?token=<T>
func (ctrl *VipRegistrationController) Confirm(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token := c.Query("token")
	if token == "" {
		renderConfirmPage(c, http.StatusBadRequest, confirmPageData{
			Title:   "Enlace inválido",
			Message: "El enlace de confirmación no contiene un token. Usa el enlace que recibiste por correo.",
		})
		return
	}

	result, err := ctrl.vipService.Confirm(token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVipRegistrationNotFound):
			renderConfirmPage(c, http.StatusNotFound, confirmPageData{
				Title:   "Solicitud no encontrada",
				Message: "No encontramos ninguna solicitud asociada a este enlace.",
			})
		case errors.Is(err, service.ErrVipTokenExpired):
			renderConfirmPage(c, http.StatusBadRequest, confirmPageData{
				Title:   "Enlace expirado",
				Message: "Este enlace de confirmación ha expirado. El plazo para confirmar es de 48 horas. Envía una nueva solicitud de registro.",
			})
		default:
			log.Error("VIP confirmation failed", err, nil)
			renderConfirmPage(c, http.StatusInternalServerError, confirmPageData{
				Title:   "Error inesperado",
				Message: "Ocurrió un error al procesar tu confirmación. Intenta nuevamente más tarde.",
			})
		}
		return
	}

	if result.AlreadyConfirmed {
		renderConfirmPage(c, http.StatusOK, confirmPageData{
			Title:   "Registro ya confirmado",
			Message: "Tu tienda ya fue registrada anteriormente. No necesitas hacer nada más.",
			Nombre:  result.Registration.Nombre,
		})
		return
	}

	renderConfirmPage(c, http.StatusOK, confirmPageData{
		Title:   "¡Registro confirmado!",
		Message: "Tu tienda ha sido registrada como Tienda VIP. Te contactaremos a la brevedad.",
		Nombre:  result.Registration.Nombre,
	})
}

// ListRegistrations returns every VIP registration with its derived status
// GET /api/v1/admin/vip-registrations
func (ctrl *VipRegistrationController) ListRegistrations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	registrations, err := ctrl.vipService.ListRegistrations()
	if err != nil {
		log.Error("Failed to list VIP registrations", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "vip registration")
		return
	}

	now := time.Now()
	items := make([]gin.H, 0, len(registrations))
	for _, reg := range registrations {
		items = append(items, gin.H{
			"id":            reg.ID,
			"nombre":        reg.Nombre,
			"rut":           reg.Rut,
			"email":         reg.Email,
			"direccion":     reg.Direccion,
			"telefono":      reg.Telefono,
			"observaciones": reg.Observaciones,
			"created_at":    reg.CreatedAt,
			"expires_at":    reg.ExpiresAt,
			"confirmed_at":  reg.ConfirmedAt,
			"status":        reg.Status(now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"registrations": items,
		"count":         len(items),
	})
}

type confirmPageData struct {
	Title   string
	Message string
	Nombre  string
}

var confirmPageTemplate = template.Must(template.New("confirm").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 40px 16px; }
    .card { max-width: 480px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 32px; box-shadow: 0 1px 4px rgba(0,0,0,0.1); text-align: center; }
    h1 { font-size: 22px; color: #222; }
    p { color: #555; line-height: 1.5; }
  </style>
</head>
<body>
  <div class="card">
    <h1>{{.Title}}</h1>
    {{if .Nombre}}<p><strong>{{.Nombre}}</strong></p>{{end}}
    <p>{{.Message}}</p>
  </div>
</body>
</html>
`))

func renderConfirmPage(c *gin.Context, status int, data confirmPageData) {
	var buf bytes.Buffer
	if err := confirmPageTemplate.Execute(&buf, data); err != nil {
		c.String(http.StatusInternalServerError, "error interno")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
