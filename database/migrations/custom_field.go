package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lcv.link/configs/configslog"
	"lcv.link/models"
)

func MigrateCustomFieldsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating custom_field_configs table...")
	if err := db.AutoMigrate(&models.CustomFieldConfig{}); err != nil {
		configslog.Log.Error("Failed to migrate custom_field_configs table", zap.Error(err))
		return err
	}

	// (event_id, link_type, key) yalnızca aktif satırlar arasında benzersiz.
	// GORM tag'leri kısmi (WHERE'li) index kuramadığı için elle oluşturulur.
	err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_custom_fields_active_key
		ON custom_field_configs (event_id, link_type, key)
		WHERE active AND deleted_at IS NULL`).Error
	if err != nil {
		configslog.Log.Error("Failed to create partial unique index on custom_field_configs", zap.Error(err))
		return err
	}

	configslog.SLog.Info("Custom_field_configs table migrated successfully")
	return nil
}
