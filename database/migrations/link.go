package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lcv.link/configs/configslog"
	"lcv.link/models"
)

func MigrateLinksTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating links table...")
	if err := db.AutoMigrate(&models.Link{}); err != nil {
		configslog.Log.Error("Failed to migrate links table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Links table migrated successfully")
	return nil
}
