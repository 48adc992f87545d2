package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lcv.link/configs"
	"lcv.link/models"
	"lcv.link/pkg/queryparams"
)

// IShortURLRepository genel amaçlı kısaltıcı kayıtları için arayüz.
type IShortURLRepository interface {
	Create(ctx context.Context, shortURL *models.ShortURL) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShortURL, error)
	FindActiveBySlug(ctx context.Context, slug string) (*models.ShortURL, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, params queryparams.ListParams) ([]models.ShortURL, int64, error)
	IncrementClickCount(ctx context.Context, id uuid.UUID) error
	Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error
	Delete(ctx context.Context, shortURL *models.ShortURL) error
}

type ShortURLRepository struct {
	db *gorm.DB
}

func NewShortURLRepository() IShortURLRepository {
	return &ShortURLRepository{db: configs.GetDB()}
}

func NewShortURLRepositoryTx(tx *gorm.DB) IShortURLRepository {
	return &ShortURLRepository{db: tx}
}

func (r *ShortURLRepository) Create(ctx context.Context, shortURL *models.ShortURL) error {
	if shortURL == nil {
		return errors.New("oluşturulacak kısa URL nil olamaz")
	}
	return getDB(ctx, r.db).Create(shortURL).Error
}

func (r *ShortURLRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShortURL, error) {
	var shortURL models.ShortURL
	err := getDB(ctx, r.db).First(&shortURL, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &shortURL, nil
}

func (r *ShortURLRepository) FindActiveBySlug(ctx context.Context, slug string) (*models.ShortURL, error) {
	if slug == "" {
		return nil, errors.New("aranacak slug boş olamaz")
	}
	var shortURL models.ShortURL
	err := getDB(ctx, r.db).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&shortURL).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &shortURL, nil
}

func (r *ShortURLRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.ShortURL{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *ShortURLRepository) List(ctx context.Context, params queryparams.ListParams) ([]models.ShortURL, int64, error) {
	db := getDB(ctx, r.db).Model(&models.ShortURL{})
	if params.Query != "" {
		q := "%" + params.Query + "%"
		db = db.Where("slug ILIKE ? OR target_url ILIKE ?", q, q)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	allowed := map[string]bool{"created_at": true, "slug": true, "click_count": true}
	var shortURLs []models.ShortURL
	err := db.Order(params.OrderClause(allowed, "created_at")).
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&shortURLs).Error
	if err != nil {
		return nil, 0, err
	}
	return shortURLs, total, nil
}

// IncrementClickCount tıklama sayacını atomik tek UPDATE ile artırır.
func (r *ShortURLRepository) IncrementClickCount(ctx context.Context, id uuid.UUID) error {
	return getDB(ctx, r.db).Model(&models.ShortURL{}).
		Where("id = ?", id).
		UpdateColumn("click_count", gorm.Expr("click_count + 1")).Error
}

func (r *ShortURLRepository) Update(ctx context.Context, id uuid.UUID, data map[string]interface{}) error {
	if id == uuid.Nil {
		return errors.New("güncellenecek kısa URL ID geçersiz")
	}
	if len(data) == 0 {
		return errors.New("güncellenecek veri boş olamaz")
	}
	result := getDB(ctx, r.db).Model(&models.ShortURL{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := getDB(ctx, r.db).Model(&models.ShortURL{}).Where("id = ?", id).Count(&exists).Error; err == nil && exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (r *ShortURLRepository) Delete(ctx context.Context, shortURL *models.ShortURL) error {
	if shortURL == nil || shortURL.ID == uuid.Nil {
		return errors.New("silinecek kısa URL geçerli değil")
	}
	result := getDB(ctx, r.db).Delete(shortURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IShortURLRepository = (*ShortURLRepository)(nil)
