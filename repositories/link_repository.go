package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lcv.link/configs"
	"lcv.link/models"
)

// ILinkRepository link veritabanı işlemleri için arayüz.
type ILinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	CreateBatch(ctx context.Context, links []*models.Link) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Link, error)
	FindOpenLink(ctx context.Context, eventID uuid.UUID) (*models.Link, error)
	FindByEventAndSlug(ctx context.Context, eventID uuid.UUID, slug string) (*models.Link, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Link, error)
	IncrementUseCount(ctx context.Context, id uuid.UUID) error
	Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error
	Delete(ctx context.Context, link *models.Link) error
}

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository() ILinkRepository {
	return &LinkRepository{db: configs.GetDB()}
}

func NewLinkRepositoryTx(tx *gorm.DB) ILinkRepository {
	return &LinkRepository{db: tx}
}

func (r *LinkRepository) Create(ctx context.Context, link *models.Link) error {
	if link == nil {
		return errors.New("oluşturulacak link nil olamaz")
	}
	return getDB(ctx, r.db).Create(link).Error
}

func (r *LinkRepository) CreateBatch(ctx context.Context, links []*models.Link) error {
	if len(links) == 0 {
		return nil
	}
	return getDB(ctx, r.db).CreateInBatches(links, 100).Error
}

func (r *LinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	if id == uuid.Nil {
		return nil, errors.New("geçersiz link ID")
	}
	var link models.Link
	err := getDB(ctx, r.db).First(&link, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &link, nil
}

// FindOpenLink etkinliğin open linkini döndürür. Open link servis
// katmanında tekilleştirildiği için en fazla bir satır beklenir; yine de
// en eski kayıt tercih edilir.
func (r *LinkRepository) FindOpenLink(ctx context.Context, eventID uuid.UUID) (*models.Link, error) {
	var link models.Link
	err := getDB(ctx, r.db).
		Where("event_id = ? AND type = ? AND slug = ?", eventID, models.LinkTypeOpen, models.LinkSlugOpen).
		Order("created_at asc").
		First(&link).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &link, nil
}

// FindByEventAndSlug slug ile link arar. Aynı slug'lı birden fazla satır
// olabilir (isme dayalı linkler tekilleştirilmez); en eskisi döner.
func (r *LinkRepository) FindByEventAndSlug(ctx context.Context, eventID uuid.UUID, slug string) (*models.Link, error) {
	if slug == "" {
		return nil, errors.New("aranacak slug boş olamaz")
	}
	var link models.Link
	err := getDB(ctx, r.db).
		Where("event_id = ? AND slug = ?", eventID, slug).
		Order("created_at asc").
		First(&link).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &link, nil
}

func (r *LinkRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Link, error) {
	var links []models.Link
	err := getDB(ctx, r.db).
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Find(&links).Error
	return links, err
}

// IncrementUseCount kullanım sayacını atomik tek UPDATE ile artırır.
func (r *LinkRepository) IncrementUseCount(ctx context.Context, id uuid.UUID) error {
	return getDB(ctx, r.db).Model(&models.Link{}).
		Where("id = ?", id).
		UpdateColumn("use_count", gorm.Expr("use_count + 1")).Error
}

func (r *LinkRepository) Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error {
	if id == uuid.Nil {
		return errors.New("güncellenecek link ID geçersiz")
	}
	if len(data) == 0 {
		return errors.New("güncellenecek veri boş olamaz")
	}
	result := getDB(ctx, r.db).Model(&models.Link{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := getDB(ctx, r.db).Model(&models.Link{}).Where("id = ?", id).Count(&exists).Error; err == nil && exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (r *LinkRepository) Delete(ctx context.Context, link *models.Link) error {
	if link == nil || link.ID == uuid.Nil {
		return errors.New("silinecek link geçerli değil")
	}
	result := getDB(ctx, r.db).Delete(link)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ ILinkRepository = (*LinkRepository)(nil)
