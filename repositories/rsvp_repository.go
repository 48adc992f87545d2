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

// CountTotals bir toplam sorgusunun sonucu.
type CountTotals struct {
	MenTotal        int64 `json:"men_total"`
	WomenTotal      int64 `json:"women_total"`
	SubmissionCount int64 `json:"submission_count"`
}

// Total toplam kişi sayısı.
func (t CountTotals) Total() int64 {
	return t.MenTotal + t.WomenTotal
}

// IRSVPRepository submission veritabanı işlemleri için arayüz.
type IRSVPRepository interface {
	Create(ctx context.Context, submission *models.RSVPSubmission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.RSVPSubmission, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, params queryparams.ListParams) ([]models.RSVPSubmission, int64, error)
	ListAllByEvent(ctx context.Context, eventID uuid.UUID) ([]models.RSVPSubmission, error)
	ListByGuest(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) ([]models.RSVPSubmission, error)
	SumByGuest(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) (CountTotals, error)
	SumByEvent(ctx context.Context, eventID uuid.UUID) (CountTotals, error)
	Delete(ctx context.Context, submission *models.RSVPSubmission) error
}

type RSVPRepository struct {
	db *gorm.DB
}

func NewRSVPRepository() IRSVPRepository {
	return &RSVPRepository{db: configs.GetDB()}
}

func NewRSVPRepositoryTx(tx *gorm.DB) IRSVPRepository {
	return &RSVPRepository{db: tx}
}

func (r *RSVPRepository) Create(ctx context.Context, submission *models.RSVPSubmission) error {
	if submission == nil {
		return errors.New("oluşturulacak submission nil olamaz")
	}
	return getDB(ctx, r.db).Create(submission).Error
}

func (r *RSVPRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.RSVPSubmission, error) {
	if id == uuid.Nil {
		return nil, errors.New("geçersiz submission ID")
	}
	var submission models.RSVPSubmission
	err := getDB(ctx, r.db).First(&submission, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &submission, nil
}

func (r *RSVPRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, params queryparams.ListParams) ([]models.RSVPSubmission, int64, error) {
	db := getDB(ctx, r.db).Model(&models.RSVPSubmission{}).Where("event_id = ?", eventID)
	if params.Query != "" {
		q := "%" + params.Query + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ?", q, q)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		configslog.Log.Error("RSVPRepository.ListByEvent: count hatası", zap.Error(err))
		return nil, 0, err
	}

	allowed := map[string]bool{"submitted_at": true, "first_name": true, "men_count": true, "women_count": true}
	var submissions []models.RSVPSubmission
	err := db.Order(params.OrderClause(allowed, "submitted_at")).
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&submissions).Error
	if err != nil {
		configslog.Log.Error("RSVPRepository.ListByEvent: DB hatası", zap.Error(err))
		return nil, 0, err
	}
	return submissions, total, nil
}

func (r *RSVPRepository) ListAllByEvent(ctx context.Context, eventID uuid.UUID) ([]models.RSVPSubmission, error) {
	var submissions []models.RSVPSubmission
	err := getDB(ctx, r.db).
		Where("event_id = ?", eventID).
		Order("submitted_at asc").
		Find(&submissions).Error
	return submissions, err
}

func (r *RSVPRepository) ListByGuest(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) ([]models.RSVPSubmission, error) {
	var submissions []models.RSVPSubmission
	err := getDB(ctx, r.db).
		Where("event_id = ? AND guest_id = ?", eventID, guestID).
		Order("submitted_at asc").
		Find(&submissions).Error
	return submissions, err
}

// SumByGuest davetlinin TÜM submission'larının toplamını döndürür.
// Aynı davetli birden fazla yanıt verdiyse toplamlar birikir; bu kaynak
// sistemin belgelenmiş davranışıdır, tekilleştirme yapılmaz.
func (r *RSVPRepository) SumByGuest(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) (CountTotals, error) {
	var totals CountTotals
	err := getDB(ctx, r.db).Model(&models.RSVPSubmission{}).
		Select("COALESCE(SUM(men_count),0) AS men_total, COALESCE(SUM(women_count),0) AS women_total, COUNT(*) AS submission_count").
		Where("event_id = ? AND guest_id = ?", eventID, guestID).
		Scan(&totals).Error
	return totals, err
}

func (r *RSVPRepository) SumByEvent(ctx context.Context, eventID uuid.UUID) (CountTotals, error) {
	var totals CountTotals
	err := getDB(ctx, r.db).Model(&models.RSVPSubmission{}).
		Select("COALESCE(SUM(men_count),0) AS men_total, COALESCE(SUM(women_count),0) AS women_total, COUNT(*) AS submission_count").
		Where("event_id = ?", eventID).
		Scan(&totals).Error
	return totals, err
}

func (r *RSVPRepository) Delete(ctx context.Context, submission *models.RSVPSubmission) error {
	if submission == nil || submission.ID == uuid.Nil {
		return errors.New("silinecek submission geçerli değil")
	}
	result := getDB(ctx, r.db).Delete(submission)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IRSVPRepository = (*RSVPRepository)(nil)
