package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lcv.link/configs"
	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/pkg/queryparams"
)

// IEventRepository etkinlik veritabanı işlemleri için arayüz.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindByCode(ctx context.Context, code string) (*models.Event, error)
	FindBySlug(ctx context.Context, slug string) (*models.Event, error)
	FindByDashboardUsername(ctx context.Context, username string) (*models.Event, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params queryparams.ListParams) ([]models.Event, int64, error)
	ListMissingCode(ctx context.Context, limit int) ([]models.Event, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error
	SetCodeIfEmpty(ctx context.Context, id uuid.UUID, code string) (bool, error)
	Delete(ctx context.Context, event *models.Event) error
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository() IEventRepository {
	return &EventRepository{db: configs.GetDB()}
}

// NewEventRepositoryTx transaction'a bağlı bir repository döndürür.
func NewEventRepositoryTx(tx *gorm.DB) IEventRepository {
	return &EventRepository{db: tx}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil {
		return errors.New("oluşturulacak etkinlik nil olamaz")
	}
	return getDB(ctx, r.db).Create(event).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if id == uuid.Nil {
		return nil, errors.New("geçersiz etkinlik ID")
	}
	var event models.Event
	err := getDB(ctx, r.db).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &event, nil
}

func (r *EventRepository) FindByCode(ctx context.Context, code string) (*models.Event, error) {
	if code == "" {
		return nil, errors.New("aranacak kod boş olamaz")
	}
	var event models.Event
	err := getDB(ctx, r.db).Where("code = ?", code).First(&event).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &event, nil
}

func (r *EventRepository) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	err := getDB(ctx, r.db).Where("slug = ?", slug).First(&event).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &event, nil
}

func (r *EventRepository) FindByDashboardUsername(ctx context.Context, username string) (*models.Event, error) {
	var event models.Event
	err := getDB(ctx, r.db).
		Where("dashboard_username = ? AND dashboard_enabled = ?", username, true).
		First(&event).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &event, nil
}

func (r *EventRepository) ListByUser(ctx context.Context, userID uuid.UUID, params queryparams.ListParams) ([]models.Event, int64, error) {
	db := getDB(ctx, r.db).Model(&models.Event{}).Where("user_id = ?", userID)
	if params.Query != "" {
		db = db.Where("title ILIKE ?", "%"+params.Query+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		configslog.Log.Error("EventRepository.ListByUser: count hatası", zap.Error(err))
		return nil, 0, err
	}

	allowed := map[string]bool{"created_at": true, "title": true, "event_date": true}
	var events []models.Event
	err := db.Order(params.OrderClause(allowed, "created_at")).
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.ListByUser: DB hatası", zap.Error(err))
		return nil, 0, err
	}
	return events, total, nil
}

// ListMissingCode kodu henüz üretilmemiş etkinlikleri döndürür (backfill için).
func (r *EventRepository) ListMissingCode(ctx context.Context, limit int) ([]models.Event, error) {
	var events []models.Event
	err := getDB(ctx, r.db).
		Where("code IS NULL OR code = ''").
		Order("created_at asc").Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *EventRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Event{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *EventRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Event{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *EventRepository) Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error {
	if id == uuid.Nil {
		return errors.New("güncellenecek etkinlik ID geçersiz")
	}
	if len(data) == 0 {
		return errors.New("güncellenecek veri boş olamaz")
	}
	result := getDB(ctx, r.db).Model(&models.Event{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := getDB(ctx, r.db).Model(&models.Event{}).Where("id = ?", id).Count(&exists).Error; err == nil && exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// SetCodeIfEmpty kodu yalnızca halen boşsa yazar (koşullu tek UPDATE).
// Satır etkilenmediyse (false, nil) döner: ya kayıt yok ya da kod bu arada
// başka bir çağrı tarafından yazıldı. Unique index çakışması hatayı
// gorm.ErrDuplicatedKey olarak yukarı taşır; retry kararı çağırana aittir.
func (r *EventRepository) SetCodeIfEmpty(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	result := getDB(ctx, r.db).Model(&models.Event{}).
		Where("id = ? AND (code IS NULL OR code = '')", id).
		Update("code", code)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete etkinliği ve ona bağlı tüm kayıtları tek transaction'da siler
// (soft delete). Kaskad sırası: çocuklar önce, etkinlik en son.
func (r *EventRepository) Delete(ctx context.Context, event *models.Event) error {
	if event == nil || event.ID == uuid.Nil {
		return errors.New("silinecek etkinlik geçerli değil")
	}
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		eventID := event.ID
		if err := tx.Where("event_id = ?", eventID).Delete(&models.RSVPSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Guest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Link{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.CustomFieldConfig{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventLanguage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(event)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

var _ IEventRepository = (*EventRepository)(nil)
