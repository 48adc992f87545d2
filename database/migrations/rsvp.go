package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lcv.link/configs/configslog"
	"lcv.link/models"
)

func MigrateRSVPTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating rsvp_submissions table...")
	if err := db.AutoMigrate(&models.RSVPSubmission{}); err != nil {
		configslog.Log.Error("Failed to migrate rsvp_submissions table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Rsvp_submissions table migrated successfully")
	return nil
}
