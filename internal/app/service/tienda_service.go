package service

import (
	"errors"

	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrTiendaNotFound     = errors.New("tienda not found")
	ErrTiendaLimitReached = repository.ErrTiendaLimitReached
)

// UpdateTiendaInput carries the patchable fields. Nil pointers are not
// applied.
type UpdateTiendaInput struct {
	Nombre    *string
	Rut       *string
	Email     *string
	Direccion *string
	Telefono  *string
	Vip       *bool
	Activa    *bool
}

type TiendaService interface {
	CreateTienda(tienda *model.Tienda) error
	GetTiendaByID(id uint) (*model.Tienda, error)
	GetAllTiendas() ([]model.Tienda, error)
	UpdateTienda(id uint, input UpdateTiendaInput) (*model.Tienda, error)
	DeleteTienda(id uint) error
}

type tiendaService struct {
	tiendaRepo repository.TiendaRepository
}

func NewTiendaService(tiendaRepo repository.TiendaRepository) TiendaService {
	return &tiendaService{tiendaRepo: tiendaRepo}
}

func (s *tiendaService) CreateTienda(tienda *model.Tienda) error {
	logger.Info("Creating tienda", map[string]interface{}{
		"nombre": tienda.Nombre,
		"vip":    tienda.Vip,
	})

	if err := s.tiendaRepo.Create(tienda); err != nil {
		if errors.Is(err, repository.ErrTiendaLimitReached) {
			logger.Warn("Tienda creation rejected: limit reached", map[string]interface{}{
				"nombre": tienda.Nombre,
				"limit":  model.MaxTiendas,
			})
			return ErrTiendaLimitReached
		}
		logger.Error("Failed to create tienda", err, map[string]interface{}{
			"nombre": tienda.Nombre,
		})
		return err
	}

	logger.Info("Tienda created successfully", map[string]interface{}{
		"tienda_id": tienda.ID,
		"nombre":    tienda.Nombre,
	})
	return nil
}

func (s *tiendaService) GetTiendaByID(id uint) (*model.Tienda, error) {
	tienda, err := s.tiendaRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTiendaNotFound
		}
		logger.Error("Failed to get tienda by ID", err, map[string]interface{}{
			"tienda_id": id,
		})
		return nil, err
	}
	return tienda, nil
}

func (s *tiendaService) GetAllTiendas() ([]model.Tienda, error) {
	return s.tiendaRepo.FindAll()
}

func (s *tiendaService) UpdateTienda(id uint, input UpdateTiendaInput) (*model.Tienda, error) {
	tienda, err := s.GetTiendaByID(id)
	if err != nil {
		return nil, err
	}

	if input.Nombre != nil {
		tienda.Nombre = *input.Nombre
	}
	if input.Rut != nil {
		tienda.Rut = *input.Rut
	}
	if input.Email != nil {
		tienda.Email = *input.Email
	}
	if input.Direccion != nil {
		tienda.Direccion = *input.Direccion
	}
	if input.Telefono != nil {
		tienda.Telefono = *input.Telefono
	}
	if input.Vip != nil {
		tienda.Vip = *input.Vip
	}
	if input.Activa != nil {
		tienda.Activa = *input.Activa
	}

	if err := s.tiendaRepo.Update(tienda); err != nil {
		logger.Error("Failed to update tienda", err, map[string]interface{}{
			"tienda_id": id,
		})
		return nil, err
	}

	logger.Info("Tienda updated", map[string]interface{}{
		"tienda_id": id,
	})
	return tienda, nil
}

func (s *tiendaService) DeleteTienda(id uint) error {
	if _, err := s.GetTiendaByID(id); err != nil {
		return err
	}

	if err := s.tiendaRepo.Delete(id); err != nil {
		logger.Error("Failed to delete tienda", err, map[string]interface{}{
			"tienda_id": id,
		})
		return err
	}

	logger.Info("Tienda deleted", map[string]interface{}{
		"tienda_id": id,
	})
	return nil
}
