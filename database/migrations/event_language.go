package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lcv.link/configs/configslog"
	"lcv.link/models"
)

func MigrateEventLanguagesTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating event_languages table...")
	if err := db.AutoMigrate(&models.EventLanguage{}); err != nil {
		configslog.Log.Error("Failed to migrate event_languages table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Event_languages table migrated successfully")
	return nil
}
