package repository

import (
	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"gorm.io/gorm"
)

type ClienteTiendaRepository interface {
	Create(link *model.ClienteTienda) error
	Delete(clienteID, tiendaID uint) (int64, error)
	FindByPair(clienteID, tiendaID uint) (*model.ClienteTienda, error)
	ListTiendasByCliente(clienteID uint) ([]model.Tienda, error)
	ListClientesByTienda(tiendaID uint) ([]model.User, error)
}

type clienteTiendaRepository struct {
	db *gorm.DB
}

func NewClienteTiendaRepository(db *gorm.DB) ClienteTiendaRepository {
	return &clienteTiendaRepository{db: db}
}

func (r *clienteTiendaRepository) Create(link *model.ClienteTienda) error {
	logger.Debug("Creating cliente-tienda association in database", map[string]interface{}{
		"cliente_id": link.ClienteID,
		"tienda_id":  link.TiendaID,
	})

	if err := r.db.Create(link).Error; err != nil {
		logger.Error("Failed to create cliente-tienda association", err, map[string]interface{}{
			"cliente_id": link.ClienteID,
			"tienda_id":  link.TiendaID,
		})
		return err
	}

	return nil
}

func (r *clienteTiendaRepository) Delete(clienteID, tiendaID uint) (int64, error) {
	logger.Debug("Deleting cliente-tienda association from database", map[string]interface{}{
		"cliente_id": clienteID,
		"tienda_id":  tiendaID,
	})

	result := r.db.Where("cliente_id = ? AND tienda_id = ?", clienteID, tiendaID).
		Delete(&model.ClienteTienda{})
	if result.Error != nil {
		logger.Error("Failed to delete cliente-tienda association", result.Error, map[string]interface{}{
			"cliente_id": clienteID,
			"tienda_id":  tiendaID,
		})
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *clienteTiendaRepository) FindByPair(clienteID, tiendaID uint) (*model.ClienteTienda, error) {
	var link model.ClienteTienda
	if err := r.db.Where("cliente_id = ? AND tienda_id = ?", clienteID, tiendaID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *clienteTiendaRepository) ListTiendasByCliente(clienteID uint) ([]model.Tienda, error) {
	var tiendas []model.Tienda
	err := r.db.
		Joins("JOIN cliente_tiendas ON cliente_tiendas.tienda_id = tiendas.id").
		Where("cliente_tiendas.cliente_id = ?", clienteID).
		Order("tiendas.nombre").
		Find(&tiendas).Error
	if err != nil {
		logger.Error("Failed to list tiendas for cliente", err, map[string]interface{}{
			"cliente_id": clienteID,
		})
		return nil, err
	}
	return tiendas, nil
}

func (r *clienteTiendaRepository) ListClientesByTienda(tiendaID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Joins("JOIN cliente_tiendas ON cliente_tiendas.cliente_id = users.id").
		Where("cliente_tiendas.tienda_id = ?", tiendaID).
		Order("users.nombre").
		Find(&users).Error
	if err != nil {
		logger.Error("Failed to list clientes for tienda", err, map[string]interface{}{
			"tienda_id": tiendaID,
		})
		return nil, err
	}
	return users, nil
}
