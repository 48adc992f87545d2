package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lcv.link/configs"
	"lcv.link/models"
)

// ICustomFieldRepository özel form alanı tanımları için arayüz.
type ICustomFieldRepository interface {
	Create(ctx context.Context, field *models.CustomFieldConfig) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomFieldConfig, error)
	ListActive(ctx context.Context, eventID uuid.UUID, linkType models.LinkType) ([]models.CustomFieldConfig, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.CustomFieldConfig, error)
	KeyExistsActive(ctx context.Context, eventID uuid.UUID, linkType models.LinkType, key string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error
	Delete(ctx context.Context, field *models.CustomFieldConfig) error
}

type CustomFieldRepository struct {
	db *gorm.DB
}

func NewCustomFieldRepository() ICustomFieldRepository {
	return &CustomFieldRepository{db: configs.GetDB()}
}

func NewCustomFieldRepositoryTx(tx *gorm.DB) ICustomFieldRepository {
	return &CustomFieldRepository{db: tx}
}

func (r *CustomFieldRepository) Create(ctx context.Context, field *models.CustomFieldConfig) error {
	if field == nil {
		return errors.New("oluşturulacak alan nil olamaz")
	}
	return getDB(ctx, r.db).Create(field).Error
}

func (r *CustomFieldRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomFieldConfig, error) {
	if id == uuid.Nil {
		return nil, errors.New("geçersiz alan ID")
	}
	var field models.CustomFieldConfig
	err := getDB(ctx, r.db).First(&field, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &field, nil
}

// ListActive form render sırası için aktif alanları SortOrder'a göre döndürür.
func (r *CustomFieldRepository) ListActive(ctx context.Context, eventID uuid.UUID, linkType models.LinkType) ([]models.CustomFieldConfig, error) {
	var fields []models.CustomFieldConfig
	err := getDB(ctx, r.db).
		Where("event_id = ? AND link_type = ? AND active = ?", eventID, linkType, true).
		Order("sort_order asc, created_at asc").
		Find(&fields).Error
	return fields, err
}

func (r *CustomFieldRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.CustomFieldConfig, error) {
	var fields []models.CustomFieldConfig
	err := getDB(ctx, r.db).
		Where("event_id = ?", eventID).
		Order("link_type asc, sort_order asc").
		Find(&fields).Error
	return fields, err
}

// KeyExistsActive (event, link_type, key) benzersizliğini aktif satırlar
// arasında kontrol eder.
func (r *CustomFieldRepository) KeyExistsActive(ctx context.Context, eventID uuid.UUID, linkType models.LinkType, key string, excludeID *uuid.UUID) (bool, error) {
	db := getDB(ctx, r.db).Model(&models.CustomFieldConfig{}).
		Where("event_id = ? AND link_type = ? AND key = ? AND active = ?", eventID, linkType, key, true)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *CustomFieldRepository) Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error {
	if id == uuid.Nil {
		return errors.New("güncellenecek alan ID geçersiz")
	}
	if len(data) == 0 {
		return errors.New("güncellenecek veri boş olamaz")
	}
	result := getDB(ctx, r.db).Model(&models.CustomFieldConfig{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := getDB(ctx, r.db).Model(&models.CustomFieldConfig{}).Where("id = ?", id).Count(&exists).Error; err == nil && exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (r *CustomFieldRepository) Delete(ctx context.Context, field *models.CustomFieldConfig) error {
	if field == nil || field.ID == uuid.Nil {
		return errors.New("silinecek alan geçerli değil")
	}
	result := getDB(ctx, r.db).Delete(field)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ ICustomFieldRepository = (*CustomFieldRepository)(nil)
