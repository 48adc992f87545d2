package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lcv.link/configs/configslog"
	"lcv.link/models"
)

func MigrateGuestsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating guests table...")
	if err := db.AutoMigrate(&models.Guest{}); err != nil {
		configslog.Log.Error("Failed to migrate guests table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Guests table migrated successfully")
	return nil
}
