package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/viptalca/viptalca-backend/internal/app/service"
	apperrors "github.com/viptalca/viptalca-backend/internal/errors"
	"github.com/viptalca/viptalca-backend/internal/middleware"
)

type ClienteController struct {
	clienteService    service.ClienteService
	asociacionService service.AsociacionService
}

func NewClienteController(clienteService service.ClienteService, asociacionService service.AsociacionService) *ClienteController {
	return &ClienteController{
		clienteService:    clienteService,
		asociacionService: asociacionService,
	}
}

type CreateClienteRequest struct {
	Nombre   string `json:"nombre" binding:"required"`
	Rut      string `json:"rut" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Rfid     string `json:"rfid"`
}

type UpdateClienteRequest struct {
	Nombre *string `json:"nombre"`
	Rut    *string `json:"rut"`
	Email  *string `json:"email" binding:"omitempty,email"`
}

type AssignRfidRequest struct {
	Rfid string `json:"rfid" binding:"required"`
}

// CreateCliente creates a cliente account
// POST /api/v1/admin/clientes
func (ctrl *ClienteController) CreateCliente(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cliente creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos del cliente no son válidos")
		return
	}

	cliente, err := ctrl.clienteService.CreateCliente(service.CreateClienteInput{
		Nombre:   req.Nombre,
		Rut:      req.Rut,
		Email:    req.Email,
		Password: req.Password,
		Rfid:     req.Rfid,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRut):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRut, "El RUT ingresado no es válido")
		case errors.Is(err, service.ErrInvalidEmail):
			apperrors.BadRequest(c, apperrors.ValidationInvalidEmail, "El email ingresado no es válido")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "El email ya está registrado")
		case errors.Is(err, service.ErrRfidAlreadyInUse):
			apperrors.Conflict(c, apperrors.ClienteRfidExists, "El código RFID ya está asignado a otro cliente")
		default:
			log.Error("Failed to create cliente", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cliente")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cliente creado correctamente",
		"cliente": cliente,
	})
}

// GetCliente returns a single cliente
// GET /api/v1/admin/clientes/:id
func (ctrl *ClienteController) GetCliente(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	cliente, err := ctrl.clienteService.GetClienteByID(id)
	if err != nil {
		if errors.Is(err, service.ErrClienteNotFound) {
			apperrors.NotFound(c, apperrors.ClienteNotFound, "Cliente no encontrado")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cliente")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cliente": cliente,
	})
}

// ListClientes returns all clientes with their tiendas
// GET /api/v1/admin/clientes
func (ctrl *ClienteController) ListClientes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	clientes, err := ctrl.clienteService.ListClientes()
	if err != nil {
		log.Error("Failed to list clientes", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cliente")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientes": clientes,
		"count":    len(clientes),
	})
}

// UpdateCliente patches cliente fields
// PUT /api/v1/admin/clientes/:id
func (ctrl *ClienteController) UpdateCliente(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos del cliente no son válidos")
		return
	}

	cliente, err := ctrl.clienteService.UpdateCliente(id, service.UpdateClienteInput{
		Nombre: req.Nombre,
		Rut:    req.Rut,
		Email:  req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClienteNotFound):
			apperrors.NotFound(c, apperrors.ClienteNotFound, "Cliente no encontrado")
		case errors.Is(err, service.ErrInvalidRut):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRut, "El RUT ingresado no es válido")
		case errors.Is(err, service.ErrInvalidEmail):
			apperrors.BadRequest(c, apperrors.ValidationInvalidEmail, "El email ingresado no es válido")
		default:
			log.Error("Failed to update cliente", err, map[string]interface{}{
				"cliente_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cliente")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cliente actualizado correctamente",
		"cliente": cliente,
	})
}

// DeleteCliente removes a cliente
// DELETE /api/v1/admin/clientes/:id
func (ctrl *ClienteController) DeleteCliente(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.clienteService.DeleteCliente(id); err != nil {
		if errors.Is(err, service.ErrClienteNotFound) {
			apperrors.NotFound(c, apperrors.ClienteNotFound, "Cliente no encontrado")
			return
		}
		log.Error("Failed to delete cliente", err, map[string]interface{}{
			"cliente_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cliente")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cliente eliminado correctamente",
	})
}

// AssignRfid assigns an RFID code to a cliente
// PUT /api/v1/admin/clientes/:id/rfid
func (ctrl *ClienteController) AssignRfid(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AssignRfidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Debes ingresar un código RFID")
		return
	}

	cliente, err := ctrl.clienteService.AssignRfid(id, req.Rfid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClienteNotFound):
			apperrors.NotFound(c, apperrors.ClienteNotFound, "Cliente no encontrado")
		case errors.Is(err, service.ErrRfidAlreadyInUse):
			apperrors.Conflict(c, apperrors.ClienteRfidExists, "El código RFID ya está asignado a otro cliente")
		default:
			log.Error("Failed to assign RFID", err, map[string]interface{}{
				"cliente_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cliente")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Código RFID asignado correctamente",
		"cliente": cliente,
	})
}

// ClearRfid removes the RFID code from a cliente
// DELETE /api/v1/admin/clientes/:id/rfid
func (ctrl *ClienteController) ClearRfid(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	cliente, err := ctrl.clienteService.ClearRfid(id)
	if err != nil {
		if errors.Is(err, service.ErrClienteNotFound) {
			apperrors.NotFound(c, apperrors.ClienteNotFound, "Cliente no encontrado")
			return
		}
		log.Error("Failed to clear RFID", err, map[string]interface{}{
			"cliente_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cliente")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Código RFID eliminado correctamente",
		"cliente": cliente,
	})
}

// ListTiendas returns the tiendas a cliente belongs to
// GET /api/v1/admin/clientes/:id/tiendas
func (ctrl *ClienteController) ListTiendas(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	tiendas, err := ctrl.asociacionService.ListTiendasByCliente(id)
	if err != nil {
		if errors.Is(err, service.ErrClienteNotFound) {
			apperrors.NotFound(c, apperrors.ClienteNotFound, "Cliente no encontrado")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cliente")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tiendas": tiendas,
		"count":   len(tiendas),
	})
}
