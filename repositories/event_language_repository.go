package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lcv.link/configs"
	"lcv.link/models"
)

// IEventLanguageRepository etkinlik dilleri için arayüz.
type IEventLanguageRepository interface {
	Create(ctx context.Context, lang *models.EventLanguage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.EventLanguage, error)
	FindByEventAndLocale(ctx context.Context, eventID uuid.UUID, locale string) (*models.EventLanguage, error)
	FindDefault(ctx context.Context, eventID uuid.UUID) (*models.EventLanguage, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventLanguage, error)
	ClearDefault(ctx context.Context, eventID uuid.UUID) error
	Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error
	Delete(ctx context.Context, lang *models.EventLanguage) error
}

type EventLanguageRepository struct {
	db *gorm.DB
}

func NewEventLanguageRepository() IEventLanguageRepository {
	return &EventLanguageRepository{db: configs.GetDB()}
}

func NewEventLanguageRepositoryTx(tx *gorm.DB) IEventLanguageRepository {
	return &EventLanguageRepository{db: tx}
}

func (r *EventLanguageRepository) Create(ctx context.Context, lang *models.EventLanguage) error {
	if lang == nil {
		return errors.New("oluşturulacak dil kaydı nil olamaz")
	}
	return getDB(ctx, r.db).Create(lang).Error
}

func (r *EventLanguageRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.EventLanguage, error) {
	var lang models.EventLanguage
	err := getDB(ctx, r.db).First(&lang, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &lang, nil
}

func (r *EventLanguageRepository) FindByEventAndLocale(ctx context.Context, eventID uuid.UUID, locale string) (*models.EventLanguage, error) {
	var lang models.EventLanguage
	err := getDB(ctx, r.db).
		Where("event_id = ? AND locale = ?", eventID, locale).
		First(&lang).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &lang, nil
}

func (r *EventLanguageRepository) FindDefault(ctx context.Context, eventID uuid.UUID) (*models.EventLanguage, error) {
	var lang models.EventLanguage
	err := getDB(ctx, r.db).
		Where("event_id = ? AND is_default = ?", eventID, true).
		First(&lang).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &lang, nil
}

func (r *EventLanguageRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventLanguage, error) {
	var langs []models.EventLanguage
	err := getDB(ctx, r.db).
		Where("event_id = ?", eventID).
		Order("is_default desc, locale asc").
		Find(&langs).Error
	return langs, err
}

// ClearDefault etkinliğin tüm dillerinde is_default bayrağını sıfırlar.
// Tek varsayılan dil kuralı servis katmanında bu çağrı + Update ile sağlanır.
func (r *EventLanguageRepository) ClearDefault(ctx context.Context, eventID uuid.UUID) error {
	return getDB(ctx, r.db).Model(&models.EventLanguage{}).
		Where("event_id = ?", eventID).
		UpdateColumn("is_default", false).Error
}

func (r *EventLanguageRepository) Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error {
	if id == uuid.Nil {
		return errors.New("güncellenecek dil ID geçersiz")
	}
	if len(data) == 0 {
		return errors.New("güncellenecek veri boş olamaz")
	}
	result := getDB(ctx, r.db).Model(&models.EventLanguage{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := getDB(ctx, r.db).Model(&models.EventLanguage{}).Where("id = ?", id).Count(&exists).Error; err == nil && exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (r *EventLanguageRepository) Delete(ctx context.Context, lang *models.EventLanguage) error {
	if lang == nil || lang.ID == uuid.Nil {
		return errors.New("silinecek dil kaydı geçerli değil")
	}
	result := getDB(ctx, r.db).Delete(lang)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IEventLanguageRepository = (*EventLanguageRepository)(nil)
