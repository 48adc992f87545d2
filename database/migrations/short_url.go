package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lcv.link/configs/configslog"
	"lcv.link/models"
)

func MigrateShortURLsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating short_urls table...")
	if err := db.AutoMigrate(&models.ShortURL{}); err != nil {
		configslog.Log.Error("Failed to migrate short_urls table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Short_urls table migrated successfully")
	return nil
}
