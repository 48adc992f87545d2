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

// IGuestRepository davetli veritabanı işlemleri için arayüz.
type IGuestRepository interface {
	Create(ctx context.Context, guest *models.Guest) error
	CreateBatch(ctx context.Context, guests []*models.Guest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error)
	FindByEventAndCode(ctx context.Context, eventID uuid.UUID, code string) (*models.Guest, error)
	FindByEventAndPhone(ctx context.Context, eventID uuid.UUID, phone string) (*models.Guest, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, params queryparams.ListParams) ([]models.Guest, int64, error)
	ListAllByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Guest, error)
	ListMissingCode(ctx context.Context, limit int) ([]models.Guest, error)
	PhoneExists(ctx context.Context, eventID uuid.UUID, phone string, excludeID *uuid.UUID) (bool, error)
	CodeExists(ctx context.Context, eventID uuid.UUID, code string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error
	SetCodeIfEmpty(ctx context.Context, id uuid.UUID, code string) (bool, error)
	Delete(ctx context.Context, guest *models.Guest) error
}

type GuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository() IGuestRepository {
	return &GuestRepository{db: configs.GetDB()}
}

func NewGuestRepositoryTx(tx *gorm.DB) IGuestRepository {
	return &GuestRepository{db: tx}
}

func (r *GuestRepository) Create(ctx context.Context, guest *models.Guest) error {
	if guest == nil {
		return errors.New("oluşturulacak davetli nil olamaz")
	}
	return getDB(ctx, r.db).Create(guest).Error
}

// CreateBatch toplu içe aktarma için davetlileri tek seferde yazar.
func (r *GuestRepository) CreateBatch(ctx context.Context, guests []*models.Guest) error {
	if len(guests) == 0 {
		return nil
	}
	return getDB(ctx, r.db).CreateInBatches(guests, 100).Error
}

func (r *GuestRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	if id == uuid.Nil {
		return nil, errors.New("geçersiz davetli ID")
	}
	var guest models.Guest
	err := getDB(ctx, r.db).First(&guest, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &guest, nil
}

func (r *GuestRepository) FindByEventAndCode(ctx context.Context, eventID uuid.UUID, code string) (*models.Guest, error) {
	if code == "" {
		return nil, errors.New("aranacak kod boş olamaz")
	}
	var guest models.Guest
	err := getDB(ctx, r.db).
		Where("event_id = ? AND code = ?", eventID, code).
		First(&guest).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &guest, nil
}

func (r *GuestRepository) FindByEventAndPhone(ctx context.Context, eventID uuid.UUID, phone string) (*models.Guest, error) {
	if phone == "" {
		return nil, errors.New("aranacak telefon boş olamaz")
	}
	var guest models.Guest
	err := getDB(ctx, r.db).
		Where("event_id = ? AND phone = ?", eventID, phone).
		First(&guest).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &guest, nil
}

func (r *GuestRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, params queryparams.ListParams) ([]models.Guest, int64, error) {
	db := getDB(ctx, r.db).Model(&models.Guest{}).Where("event_id = ?", eventID)
	if params.Query != "" {
		q := "%" + params.Query + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone LIKE ?", q, q, q)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		configslog.Log.Error("GuestRepository.ListByEvent: count hatası", zap.Error(err))
		return nil, 0, err
	}

	allowed := map[string]bool{"created_at": true, "first_name": true, "last_name": true}
	var guests []models.Guest
	err := db.Order(params.OrderClause(allowed, "created_at")).
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&guests).Error
	if err != nil {
		configslog.Log.Error("GuestRepository.ListByEvent: DB hatası", zap.Error(err))
		return nil, 0, err
	}
	return guests, total, nil
}

// ListAllByEvent dışa aktarma için tüm davetlileri döndürür (sayfalamasız).
func (r *GuestRepository) ListAllByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Guest, error) {
	var guests []models.Guest
	err := getDB(ctx, r.db).
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Find(&guests).Error
	return guests, err
}

func (r *GuestRepository) ListMissingCode(ctx context.Context, limit int) ([]models.Guest, error) {
	var guests []models.Guest
	err := getDB(ctx, r.db).
		Where("code IS NULL OR code = ''").
		Order("created_at asc").Limit(limit).
		Find(&guests).Error
	return guests, err
}

func (r *GuestRepository) PhoneExists(ctx context.Context, eventID uuid.UUID, phone string, excludeID *uuid.UUID) (bool, error) {
	db := getDB(ctx, r.db).Model(&models.Guest{}).
		Where("event_id = ? AND phone = ?", eventID, phone)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *GuestRepository) CodeExists(ctx context.Context, eventID uuid.UUID, code string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Guest{}).
		Where("event_id = ? AND code = ?", eventID, code).
		Count(&count).Error
	return count > 0, err
}

func (r *GuestRepository) Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error {
	if id == uuid.Nil {
		return errors.New("güncellenecek davetli ID geçersiz")
	}
	if len(data) == 0 {
		return errors.New("güncellenecek veri boş olamaz")
	}
	result := getDB(ctx, r.db).Model(&models.Guest{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := getDB(ctx, r.db).Model(&models.Guest{}).Where("id = ?", id).Count(&exists).Error; err == nil && exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// SetCodeIfEmpty davetli kodunu yalnızca halen boşsa yazar.
// Semantik EventRepository.SetCodeIfEmpty ile aynıdır.
func (r *GuestRepository) SetCodeIfEmpty(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	result := getDB(ctx, r.db).Model(&models.Guest{}).
		Where("id = ? AND (code IS NULL OR code = '')", id).
		Update("code", code)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete davetliyi siler (soft delete). Submission'lar bağımsız yaşar,
// silinmez.
func (r *GuestRepository) Delete(ctx context.Context, guest *models.Guest) error {
	if guest == nil || guest.ID == uuid.Nil {
		return errors.New("silinecek davetli geçerli değil")
	}
	result := getDB(ctx, r.db).Delete(guest)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IGuestRepository = (*GuestRepository)(nil)
