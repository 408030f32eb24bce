package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/viptalca/viptalca-backend/internal/app/service"
	apperrors "github.com/viptalca/viptalca-backend/internal/errors"
	"github.com/viptalca/viptalca-backend/internal/middleware"
)

type AsociacionController struct {
	asociacionService service.AsociacionService
}

func NewAsociacionController(asociacionService service.AsociacionService) *AsociacionController {
	return &AsociacionController{asociacionService: asociacionService}
}

type AsociacionRequest struct {
	ClienteID uint `json:"cliente_id" binding:"required"`
	TiendaID  uint `json:"tienda_id" binding:"required"`
}

// Associate links a cliente to a tienda
// POST /api/v1/admin/asociaciones
func (ctrl *AsociacionController) Associate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AsociacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Debes indicar cliente y tienda")
		return
	}

	if err := ctrl.asociacionService.Associate(req.ClienteID, req.TiendaID); err != nil {
		switch {
		case errors.Is(err, service.ErrClienteNotFound):
			apperrors.NotFound(c, apperrors.ClienteNotFound, "Cliente no encontrado")
		case errors.Is(err, service.ErrTiendaNotFound):
			apperrors.NotFound(c, apperrors.TiendaNotFound, "Tienda no encontrada")
		case errors.Is(err, service.ErrAsociacionExists):
			apperrors.Conflict(c, apperrors.AsociacionExists, "El cliente ya está asociado a esta tienda")
		default:
			log.Error("Failed to create asociacion", err, map[string]interface{}{
				"cliente_id": req.ClienteID,
				"tienda_id":  req.TiendaID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "asociacion")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cliente asociado correctamente",
	})
}

// Dissociate removes a cliente-tienda link
// DELETE /api/v1/admin/asociaciones
func (ctrl *AsociacionController) Dissociate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AsociacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Debes indicar cliente y tienda")
		return
	}

	if err := ctrl.asociacionService.Dissociate(req.ClienteID, req.TiendaID); err != nil {
		if errors.Is(err, service.ErrAsociacionNotFound) {
			apperrors.NotFound(c, apperrors.AsociacionNotFound, "La asociación no existe")
			return
		}
		log.Error("Failed to delete asociacion", err, map[string]interface{}{
			"cliente_id": req.ClienteID,
			"tienda_id":  req.TiendaID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "asociacion")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Asociación eliminada correctamente",
	})
}
