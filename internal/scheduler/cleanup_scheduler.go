package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/pkg/logger"
)

// VipRegistrationRetention is how long expired unconfirmed registrations
// are kept before the nightly cleanup removes them.
const VipRegistrationRetention = 30 * 24 * time.Hour

// CleanupScheduler purges stale tokens every night.
type CleanupScheduler struct {
	cron      *cron.Cron
	resetRepo repository.PasswordResetRepository
	vipRepo   repository.VipRegistrationRepository
}

func NewCleanupScheduler(
	resetRepo repository.PasswordResetRepository,
	vipRepo repository.VipRegistrationRepository,
) *CleanupScheduler {
	return &CleanupScheduler{
		cron:      cron.New(),
		resetRepo: resetRepo,
		vipRepo:   vipRepo,
	}
}

func (s *CleanupScheduler) Start() error {
	// Daily at 04:00
	_, err := s.cron.AddFunc("0 4 * * *", s.Run)
	if err != nil {
		logger.Error("Failed to add cron job for token cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cleanup scheduler started successfully (daily at 4:00 AM)", nil)

	return nil
}

// Run executes one cleanup pass. It is also called directly by the
// scheduler's cron entry.
func (s *CleanupScheduler) Run() {
	logger.Info("Starting scheduled token cleanup", nil)

	resets, err := s.resetRepo.DeleteExpired()
	if err != nil {
		logger.Error("Failed to delete expired password resets", err)
	} else {
		logger.Info("Expired password resets deleted", map[string]interface{}{
			"count": resets,
		})
	}

	cutoff := time.Now().Add(-VipRegistrationRetention)
	registrations, err := s.vipRepo.DeleteExpiredBefore(cutoff)
	if err != nil {
		logger.Error("Failed to delete stale VIP registrations", err)
	} else {
		logger.Info("Stale VIP registrations deleted", map[string]interface{}{
			"count":  registrations,
			"cutoff": cutoff,
		})
	}

	logger.Info("Scheduled token cleanup finished", nil)
}

func (s *CleanupScheduler) Stop() {
	logger.Info("Stopping cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cleanup scheduler stopped", nil)
}
