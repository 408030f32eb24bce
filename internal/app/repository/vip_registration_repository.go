package repository

import (
	"time"

	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"gorm.io/gorm"
)

type VipRegistrationRepository interface {
	Create(registration *model.VipStoreRegistration) error
	FindByToken(token string) (*model.VipStoreRegistration, error)
	// ConfirmWithTx sets confirmed_at only when still unconfirmed and
	// reports the number of rows updated. Zero means another request won
	// the race. Runs on the given handle so the caller can make it the
	// commit point of a larger transaction.
	ConfirmWithTx(tx *gorm.DB, token string, confirmedAt time.Time) (int64, error)
	ListAll() ([]model.VipStoreRegistration, error)
	DeleteExpiredBefore(cutoff time.Time) (int64, error)
}

type vipRegistrationRepository struct {
	db *gorm.DB
}

func NewVipRegistrationRepository(db *gorm.DB) VipRegistrationRepository {
	return &vipRegistrationRepository{db: db}
}

func (r *vipRegistrationRepository) Create(registration *model.VipStoreRegistration) error {
	logger.Debug("Creating VIP registration in database", map[string]interface{}{
		"nombre": registration.Nombre,
		"email":  registration.Email,
	})

	if err := r.db.Create(registration).Error; err != nil {
		logger.Error("Failed to create VIP registration in database", err, map[string]interface{}{
			"nombre": registration.Nombre,
			"email":  registration.Email,
		})
		return err
	}

	logger.Debug("VIP registration created in database", map[string]interface{}{
		"registration_id": registration.ID,
		"expires_at":      registration.ExpiresAt,
	})
	return nil
}

func (r *vipRegistrationRepository) FindByToken(token string) (*model.VipStoreRegistration, error) {
	var registration model.VipStoreRegistration
	if err := r.db.Where("token = ?", token).First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *vipRegistrationRepository) ConfirmWithTx(tx *gorm.DB, token string, confirmedAt time.Time) (int64, error) {
	result := tx.Model(&model.VipStoreRegistration{}).
		Where("token = ? AND confirmed_at IS NULL", token).
		Update("confirmed_at", confirmedAt)
	if result.Error != nil {
		logger.Error("Failed to mark VIP registration as confirmed", result.Error, nil)
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *vipRegistrationRepository) ListAll() ([]model.VipStoreRegistration, error) {
	var registrations []model.VipStoreRegistration
	if err := r.db.Order("created_at DESC").Find(&registrations).Error; err != nil {
		logger.Error("Failed to list VIP registrations from database", err, nil)
		return nil, err
	}
	return registrations, nil
}

// DeleteExpiredBefore removes unconfirmed registrations whose expiry passed
// before the cutoff. Confirmed rows are kept as the audit trail of how each
// VIP store came to exist.
func (r *vipRegistrationRepository) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("confirmed_at IS NULL AND expires_at < ?", cutoff).
		Delete(&model.VipStoreRegistration{})
	if result.Error != nil {
		logger.Error("Failed to delete expired VIP registrations", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Expired VIP registrations deleted from database", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
