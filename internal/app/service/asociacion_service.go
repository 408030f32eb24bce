package service

import (
	"errors"

	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAsociacionExists   = errors.New("cliente already associated with tienda")
	ErrAsociacionNotFound = errors.New("asociacion not found")
)

// AsociacionService manages the cliente-tienda membership pairs.
type AsociacionService interface {
	Associate(clienteID, tiendaID uint) error
	Dissociate(clienteID, tiendaID uint) error
	ListTiendasByCliente(clienteID uint) ([]model.Tienda, error)
	ListClientesByTienda(tiendaID uint) ([]model.User, error)
}

type asociacionService struct {
	asociacionRepo repository.ClienteTiendaRepository
	userRepo       repository.UserRepository
	tiendaRepo     repository.TiendaRepository
}

func NewAsociacionService(
	asociacionRepo repository.ClienteTiendaRepository,
	userRepo repository.UserRepository,
	tiendaRepo repository.TiendaRepository,
) AsociacionService {
	return &asociacionService{
		asociacionRepo: asociacionRepo,
		userRepo:       userRepo,
		tiendaRepo:     tiendaRepo,
	}
}

func (s *asociacionService) Associate(clienteID, tiendaID uint) error {
	logger.Info("Associating cliente with tienda", map[string]interface{}{
		"cliente_id": clienteID,
		"tienda_id":  tiendaID,
	})

	cliente, err := s.userRepo.FindByID(clienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClienteNotFound
		}
		return err
	}
	if cliente.Role != model.RoleCliente {
		return ErrClienteNotFound
	}

	if _, err := s.tiendaRepo.FindByID(tiendaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTiendaNotFound
		}
		return err
	}

	existing, err := s.asociacionRepo.FindByPair(clienteID, tiendaID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		logger.Warn("Asociacion already exists", map[string]interface{}{
			"cliente_id": clienteID,
			"tienda_id":  tiendaID,
		})
		return ErrAsociacionExists
	}

	if err := s.asociacionRepo.Create(&model.ClienteTienda{
		ClienteID: clienteID,
		TiendaID:  tiendaID,
	}); err != nil {
		logger.Error("Failed to create asociacion", err, map[string]interface{}{
			"cliente_id": clienteID,
			"tienda_id":  tiendaID,
		})
		return err
	}

	logger.Info("Asociacion created", map[string]interface{}{
		"cliente_id": clienteID,
		"tienda_id":  tiendaID,
	})
	return nil
}

func (s *asociacionService) Dissociate(clienteID, tiendaID uint) error {
	rows, err := s.asociacionRepo.Delete(clienteID, tiendaID)
	if err != nil {
		logger.Error("Failed to delete asociacion", err, map[string]interface{}{
			"cliente_id": clienteID,
			"tienda_id":  tiendaID,
		})
		return err
	}
	if rows == 0 {
		return ErrAsociacionNotFound
	}

	logger.Info("Asociacion removed", map[string]interface{}{
		"cliente_id": clienteID,
		"tienda_id":  tiendaID,
	})
	return nil
}

func (s *asociacionService) ListTiendasByCliente(clienteID uint) ([]model.Tienda, error) {
	if _, err := s.userRepo.FindByID(clienteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClienteNotFound
		}
		return nil, err
	}
	return s.asociacionRepo.ListTiendasByCliente(clienteID)
}

func (s *asociacionService) ListClientesByTienda(tiendaID uint) ([]model.User, error) {
	if _, err := s.tiendaRepo.FindByID(tiendaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTiendaNotFound
		}
		return nil, err
	}
	return s.asociacionRepo.ListClientesByTienda(tiendaID)
}
