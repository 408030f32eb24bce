package db

import (
	"os"

	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"github.com/viptalca/viptalca-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.PasswordReset{},
		&model.Tienda{},
		&model.ClienteTienda{},
		&model.VipStoreRegistration{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

func seedInitialData() error {
	return seedAdminUser()
}

// seedAdminUser creates the first administrator account from ADMIN_EMAIL /
// ADMIN_PASSWORD when no admin exists yet. Without those variables the
// seeding is skipped; clients are always created from the back-office.
func seedAdminUser() error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Debug("Admin user already present, skipping seed", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warn("No admin user exists and ADMIN_EMAIL/ADMIN_PASSWORD are unset, skipping admin seed")
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Nombre:       "Administrador",
		Rut:          os.Getenv("ADMIN_RUT"),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}

	if err := DB.Create(admin).Error; err != nil {
		logger.Error("Failed to seed admin user", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	logger.Info("Admin user seeded", map[string]interface{}{
		"user_id": admin.ID,
		"email":   email,
	})
	return nil
}
