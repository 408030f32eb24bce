package service

import (
	"errors"

	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/pkg/email"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"github.com/viptalca/viptalca-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrClienteNotFound    = errors.New("cliente not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrRfidAlreadyInUse   = errors.New("rfid code already assigned")
	ErrInvalidRut         = errors.New("invalid rut")
	ErrInvalidEmail       = errors.New("invalid email")
)

// CreateClienteInput is an admin-created cliente account.
type CreateClienteInput struct {
	Nombre   string
	Rut      string
	Email    string
	Password string
	Rfid     string
}

type UpdateClienteInput struct {
	Nombre *string
	Rut    *string
	Email  *string
}

type ClienteService interface {
	CreateCliente(input CreateClienteInput) (*model.User, error)
	GetClienteByID(id uint) (*model.User, error)
	ListClientes() ([]model.User, error)
	UpdateCliente(id uint, input UpdateClienteInput) (*model.User, error)
	DeleteCliente(id uint) error
	AssignRfid(id uint, rfid string) (*model.User, error)
	ClearRfid(id uint) (*model.User, error)
	FindByRfid(rfid string) (*model.User, error)
}

type clienteService struct {
	userRepo repository.UserRepository
}

func NewClienteService(userRepo repository.UserRepository) ClienteService {
	return &clienteService{userRepo: userRepo}
}

func (s *clienteService) CreateCliente(input CreateClienteInput) (*model.User, error) {
	logger.Info("Creating cliente", map[string]interface{}{
		"email": input.Email,
		"rut":   input.Rut,
	})

	if !util.IsValidRut(input.Rut) {
		logger.Warn("Cliente creation rejected: invalid rut", map[string]interface{}{
			"rut": input.Rut,
		})
		return nil, ErrInvalidRut
	}
	if !email.IsEmailValid(input.Email) {
		return nil, ErrInvalidEmail
	}

	existing, err := s.userRepo.FindByEmail(input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cliente", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Cliente creation rejected: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	cliente := &model.User{
		Nombre:       input.Nombre,
		Rut:          util.FormatRut(input.Rut),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         model.RoleCliente,
	}
	if input.Rfid != "" {
		if err := s.checkRfidAvailable(input.Rfid, 0); err != nil {
			return nil, err
		}
		cliente.Rfid = &input.Rfid
	}

	if err := s.userRepo.Create(cliente); err != nil {
		logger.Error("Failed to create cliente", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	logger.Info("Cliente created successfully", map[string]interface{}{
		"cliente_id": cliente.ID,
		"email":      cliente.Email,
	})
	return cliente, nil
}

func (s *clienteService) GetClienteByID(id uint) (*model.User, error) {
	cliente, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClienteNotFound
		}
		logger.Error("Failed to get cliente by ID", err, map[string]interface{}{
			"cliente_id": id,
		})
		return nil, err
	}
	if cliente.Role != model.RoleCliente {
		return nil, ErrClienteNotFound
	}
	return cliente, nil
}

func (s *clienteService) ListClientes() ([]model.User, error) {
	return s.userRepo.ListClientes()
}

func (s *clienteService) UpdateCliente(id uint, input UpdateClienteInput) (*model.User, error) {
	cliente, err := s.GetClienteByID(id)
	if err != nil {
		return nil, err
	}

	if input.Nombre != nil {
		cliente.Nombre = *input.Nombre
	}
	if input.Rut != nil {
		if !util.IsValidRut(*input.Rut) {
			return nil, ErrInvalidRut
		}
		cliente.Rut = util.FormatRut(*input.Rut)
	}
	if input.Email != nil {
		if !email.IsEmailValid(*input.Email) {
			return nil, ErrInvalidEmail
		}
		cliente.Email = *input.Email
	}

	if err := s.userRepo.Update(cliente); err != nil {
		logger.Error("Failed to update cliente", err, map[string]interface{}{
			"cliente_id": id,
		})
		return nil, err
	}

	logger.Info("Cliente updated", map[string]interface{}{
		"cliente_id": id,
	})
	return cliente, nil
}

func (s *clienteService) DeleteCliente(id uint) error {
	if _, err := s.GetClienteByID(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		logger.Error("Failed to delete cliente", err, map[string]interface{}{
			"cliente_id": id,
		})
		return err
	}

	logger.Info("Cliente deleted", map[string]interface{}{
		"cliente_id": id,
	})
	return nil
}

func (s *clienteService) AssignRfid(id uint, rfid string) (*model.User, error) {
	cliente, err := s.GetClienteByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkRfidAvailable(rfid, id); err != nil {
		return nil, err
	}

	cliente.Rfid = &rfid
	if err := s.userRepo.Update(cliente); err != nil {
		logger.Error("Failed to assign RFID", err, map[string]interface{}{
			"cliente_id": id,
		})
		return nil, err
	}

	logger.Info("RFID assigned to cliente", map[string]interface{}{
		"cliente_id": id,
	})
	return cliente, nil
}

func (s *clienteService) ClearRfid(id uint) (*model.User, error) {
	cliente, err := s.GetClienteByID(id)
	if err != nil {
		return nil, err
	}

	cliente.Rfid = nil
	if err := s.userRepo.Update(cliente); err != nil {
		logger.Error("Failed to clear RFID", err, map[string]interface{}{
			"cliente_id": id,
		})
		return nil, err
	}

	logger.Info("RFID cleared from cliente", map[string]interface{}{
		"cliente_id": id,
	})
	return cliente, nil
}

func (s *clienteService) FindByRfid(rfid string) (*model.User, error) {
	cliente, err := s.userRepo.FindByRfid(rfid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClienteNotFound
		}
		logger.Error("Failed to find cliente by RFID", err, nil)
		return nil, err
	}
	return cliente, nil
}

// checkRfidAvailable rejects a code held by a different cliente.
func (s *clienteService) checkRfidAvailable(rfid string, clienteID uint) error {
	holder, err := s.userRepo.FindByRfid(rfid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if holder.ID != clienteID {
		logger.Warn("RFID already assigned to another cliente", map[string]interface{}{
			"holder_id": holder.ID,
		})
		return ErrRfidAlreadyInUse
	}
	return nil
}
