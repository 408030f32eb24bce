package repository

import (
	"errors"

	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrTiendaLimitReached is returned by the insert path when the system-wide
// store cap would be exceeded. Both the admin CRUD and the VIP confirmation
// flow funnel through this check.
var ErrTiendaLimitReached = errors.New("maximum number of tiendas reached")

type TiendaRepository interface {
	Create(tienda *model.Tienda) error
	CreateWithTx(tx *gorm.DB, tienda *model.Tienda) error
	Update(tienda *model.Tienda) error
	Delete(id uint) error
	FindByID(id uint) (*model.Tienda, error)
	FindAll() ([]model.Tienda, error)
	Count() (int64, error)
}

type tiendaRepository struct {
	db *gorm.DB
}

func NewTiendaRepository(db *gorm.DB) TiendaRepository {
	return &tiendaRepository{db: db}
}

// tiendaCapLockID keys the postgres advisory lock serializing capped
// inserts.
const tiendaCapLockID = 7741

// createWith runs the capped insert against the given transaction so the VIP
// confirmation flow can reuse it inside its own. On postgres an advisory
// lock serializes concurrent inserts, otherwise two writers could both
// observe a count below the cap; sqlite admits a single writer per database,
// which gives the same guarantee.
func (r *tiendaRepository) createWith(db *gorm.DB, tienda *model.Tienda) error {
	logger.Debug("Creating tienda in database", map[string]interface{}{
		"nombre": tienda.Nombre,
		"rut":    tienda.Rut,
		"vip":    tienda.Vip,
	})

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("SELECT pg_advisory_xact_lock(?)", tiendaCapLockID).Error; err != nil {
			logger.Error("Failed to acquire tienda cap lock", err, nil)
			return err
		}
	}

	var count int64
	if err := db.Model(&model.Tienda{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count tiendas in database", err, nil)
		return err
	}
	if count >= model.MaxTiendas {
		logger.Warn("Tienda limit reached, rejecting insert", map[string]interface{}{
			"count": count,
			"limit": model.MaxTiendas,
		})
		return ErrTiendaLimitReached
	}

	if err := db.Create(tienda).Error; err != nil {
		logger.Error("Failed to create tienda in database", err, map[string]interface{}{
			"nombre": tienda.Nombre,
		})
		return err
	}

	logger.Debug("Tienda created in database", map[string]interface{}{
		"tienda_id": tienda.ID,
		"nombre":    tienda.Nombre,
	})
	return nil
}

func (r *tiendaRepository) Create(tienda *model.Tienda) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.createWith(tx, tienda)
	})
}

func (r *tiendaRepository) CreateWithTx(tx *gorm.DB, tienda *model.Tienda) error {
	return r.createWith(tx, tienda)
}

func (r *tiendaRepository) Update(tienda *model.Tienda) error {
	logger.Debug("Updating tienda in database", map[string]interface{}{
		"tienda_id": tienda.ID,
		"nombre":    tienda.Nombre,
	})

	if err := r.db.Save(tienda).Error; err != nil {
		logger.Error("Failed to update tienda in database", err, map[string]interface{}{
			"tienda_id": tienda.ID,
		})
		return err
	}

	return nil
}

func (r *tiendaRepository) Delete(id uint) error {
	logger.Debug("Deleting tienda from database", map[string]interface{}{
		"tienda_id": id,
	})

	if err := r.db.Delete(&model.Tienda{}, id).Error; err != nil {
		logger.Error("Failed to delete tienda from database", err, map[string]interface{}{
			"tienda_id": id,
		})
		return err
	}

	return nil
}

func (r *tiendaRepository) FindByID(id uint) (*model.Tienda, error) {
	var tienda model.Tienda
	if err := r.db.First(&tienda, id).Error; err != nil {
		return nil, err
	}
	return &tienda, nil
}

func (r *tiendaRepository) FindAll() ([]model.Tienda, error) {
	var tiendas []model.Tienda
	if err := r.db.Order("created_at DESC").Find(&tiendas).Error; err != nil {
		logger.Error("Failed to list tiendas from database", err, nil)
		return nil, err
	}
	return tiendas, nil
}

func (r *tiendaRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Tienda{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
