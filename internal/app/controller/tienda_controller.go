package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/service"
	apperrors "github.com/viptalca/viptalca-backend/internal/errors"
	"github.com/viptalca/viptalca-backend/internal/middleware"
)

type TiendaController struct {
	tiendaService     service.TiendaService
	asociacionService service.AsociacionService
}

func NewTiendaController(tiendaService service.TiendaService, asociacionService service.AsociacionService) *TiendaController {
	return &TiendaController{
		tiendaService:     tiendaService,
		asociacionService: asociacionService,
	}
}

type CreateTiendaRequest struct {
	Nombre    string `json:"nombre" binding:"required"`
	Rut       string `json:"rut" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
	Vip       bool   `json:"vip"`
	Activa    *bool  `json:"activa"`
}

type UpdateTiendaRequest struct {
	Nombre    *string `json:"nombre"`
	Rut       *string `json:"rut"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Vip       *bool   `json:"vip"`
	Activa    *bool   `json:"activa"`
}

// CreateTienda registers a new tienda
// POST /api/v1/admin/tiendas
func (ctrl *TiendaController) CreateTienda(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateTiendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid tienda creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos de la tienda no son válidos")
		return
	}

	tienda := &model.Tienda{
		Nombre:    req.Nombre,
		Rut:       req.Rut,
		Email:     req.Email,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Vip:       req.Vip,
		Activa:    true,
	}
	if req.Activa != nil {
		tienda.Activa = *req.Activa
	}

	if err := ctrl.tiendaService.CreateTienda(tienda); err != nil {
		if errors.Is(err, service.ErrTiendaLimitReached) {
			apperrors.Conflict(c, apperrors.TiendaLimitReached, "Máximo de 4 tiendas permitidas")
			return
		}
		log.Error("Failed to create tienda", err, map[string]interface{}{
			"nombre": req.Nombre,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create tienda")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tienda creada correctamente",
		"tienda":  tienda,
	})
}

// GetTienda returns a single tienda
// GET /api/v1/admin/tiendas/:id
func (ctrl *TiendaController) GetTienda(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	tienda, err := ctrl.tiendaService.GetTiendaByID(id)
	if err != nil {
		if errors.Is(err, service.ErrTiendaNotFound) {
			apperrors.NotFound(c, apperrors.TiendaNotFound, "Tienda no encontrada")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tienda": tienda,
	})
}

// ListTiendas returns all tiendas
// GET /api/v1/admin/tiendas
func (ctrl *TiendaController) ListTiendas(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tiendas, err := ctrl.tiendaService.GetAllTiendas()
	if err != nil {
		log.Error("Failed to list tiendas", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tiendas": tiendas,
		"count":   len(tiendas),
	})
}

// UpdateTienda patches tienda fields
// PUT /api/v1/admin/tiendas/:id
func (ctrl *TiendaController) UpdateTienda(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateTiendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos de la tienda no son válidos")
		return
	}

	tienda, err := ctrl.tiendaService.UpdateTienda(id, service.UpdateTiendaInput{
		Nombre:    req.Nombre,
		Rut:       req.Rut,
		Email:     req.Email,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Vip:       req.Vip,
		Activa:    req.Activa,
	})
	if err != nil {
		if errors.Is(err, service.ErrTiendaNotFound) {
			apperrors.NotFound(c, apperrors.TiendaNotFound, "Tienda no encontrada")
			return
		}
		log.Error("Failed to update tienda", err, map[string]interface{}{
			"tienda_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tienda actualizada correctamente",
		"tienda":  tienda,
	})
}

// DeleteTienda removes a tienda
// DELETE /api/v1/admin/tiendas/:id
func (ctrl *TiendaController) DeleteTienda(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.tiendaService.DeleteTienda(id); err != nil {
		if errors.Is(err, service.ErrTiendaNotFound) {
			apperrors.NotFound(c, apperrors.TiendaNotFound, "Tienda no encontrada")
			return
		}
		log.Error("Failed to delete tienda", err, map[string]interface{}{
			"tienda_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tienda eliminada correctamente",
	})
}

// ListClientes returns the clientes associated with a tienda
// GET /api/v1/admin/tiendas/:id/clientes
func (ctrl *TiendaController) ListClientes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	clientes, err := ctrl.asociacionService.ListClientesByTienda(id)
	if err != nil {
		if errors.Is(err, service.ErrTiendaNotFound) {
			apperrors.NotFound(c, apperrors.TiendaNotFound, "Tienda no encontrada")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientes": clientes,
		"count":    len(clientes),
	})
}

// parseIDParam reads the :id path parameter.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El identificador no es válido")
		return 0, false
	}
	return uint(id), true
}
