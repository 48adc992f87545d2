package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/pkg/queryparams"
	"lcv.link/repositories"
)

// RSVPServiceError submission servis hataları.
type RSVPServiceError string

func (e RSVPServiceError) Error() string { return string(e) }

const (
	ErrRSVPInvalidInput   RSVPServiceError = "geçersiz LCV girdisi"
	ErrRSVPNegativeCount  RSVPServiceError = "kişi sayıları negatif olamaz"
	ErrRSVPCreationFailed RSVPServiceError = "LCV yanıtı kaydedilemedi"
	ErrRSVPNotFound       RSVPServiceError = "LCV yanıtı bulunamadı"
)

// SubmitInput bir katılım yanıtının kayıt girdisi.
type SubmitInput struct {
	EventID uuid.UUID
	GuestID *uuid.UUID
	LinkID  *uuid.UUID

	FirstName string
	LastName  string

	MenCount   int
	WomenCount int

	// Answers aktif CustomFieldConfig key'leriyle eşleşmesi beklenen serbest
	// harita. Bilinmeyen key'ler doğrulanmaz ve silinmez; yalnızca gösterim
	// tarafı aktif alanlarla kesiştirir.
	Answers map[string]interface{}
}

// GuestSummary bir davetlinin toplamlarıyla birlikte özetidir.
type GuestSummary struct {
	Guest  models.Guest             `json:"guest"`
	Totals repositories.CountTotals `json:"totals"`
}

// IRSVPService submission kaydı ve toplulaştırma için arayüz.
type IRSVPService interface {
	Submit(ctx context.Context, input SubmitInput) (uuid.UUID, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ListByGuest(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) ([]models.RSVPSubmission, error)
	GuestTotals(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) (repositories.CountTotals, error)
	EventTotals(ctx context.Context, eventID uuid.UUID) (repositories.CountTotals, error)
	DeleteSubmission(ctx context.Context, id uuid.UUID) error
}

type RSVPService struct {
	repo repositories.IRSVPRepository
}

func NewRSVPService() IRSVPService {
	return &RSVPService{repo: repositories.NewRSVPRepository()}
}

// NewRSVPServiceWithRepo testler için DI constructor'ı.
func NewRSVPServiceWithRepo(repo repositories.IRSVPRepository) IRSVPService {
	return &RSVPService{repo: repo}
}

// Submit tek bir submission satırı ekler.
//
// Kasıtlı olarak YAPILMAYANLAR: üst sınır kontrolü (form katmanının yumuşak
// kısıtıdır), bilinmeyen cevap key'lerinin ayıklanması, aynı davetlinin
// önceki yanıtının ezilmesi (yanıtlar birikir) ve Guest kaydının
// güncellenmesi (Guest üzerindeki sayılar bağımsız alanlardır).
func (s *RSVPService) Submit(ctx context.Context, input SubmitInput) (uuid.UUID, error) {
	if input.EventID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: eventID eksik", ErrRSVPInvalidInput)
	}
	if input.MenCount < 0 || input.WomenCount < 0 {
		return uuid.Nil, ErrRSVPNegativeCount
	}

	submission := &models.RSVPSubmission{
		EventID:     input.EventID,
		GuestID:     input.GuestID,
		LinkID:      input.LinkID,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		MenCount:    input.MenCount,
		WomenCount:  input.WomenCount,
		SubmittedAt: time.Now().UTC(),
	}
	if input.Answers != nil {
		submission.Answers = datatypes.JSONMap(input.Answers)
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		configslog.Log.Error("Submission kaydedilemedi",
			zap.String("event_id", input.EventID.String()), zap.Error(err))
		return uuid.Nil, ErrRSVPCreationFailed
	}

	configslog.SLog.Infof("LCV yanıtı kaydedildi: event=%s submission=%s (%d+%d kişi)",
		input.EventID, submission.ID, input.MenCount, input.WomenCount)
	return submission.ID, nil
}

func (s *RSVPService) ListByEvent(ctx context.Context, eventID uuid.UUID, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	submissions, total, err := s.repo.ListByEvent(ctx, eventID, params)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(submissions, params, total), nil
}

func (s *RSVPService) ListByGuest(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) ([]models.RSVPSubmission, error) {
	return s.repo.ListByGuest(ctx, eventID, guestID)
}

// GuestTotals davetlinin tüm yanıtlarının toplamı. Davetli iki kez yanıt
// verdiyse toplamlar iki yanıtın birikimidir (kaynak sistemin belgelenmiş
// çift sayma davranışı).
func (s *RSVPService) GuestTotals(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) (repositories.CountTotals, error) {
	return s.repo.SumByGuest(ctx, eventID, guestID)
}

func (s *RSVPService) EventTotals(ctx context.Context, eventID uuid.UUID) (repositories.CountTotals, error) {
	return s.repo.SumByEvent(ctx, eventID)
}

func (s *RSVPService) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRSVPNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, submission)
}

var _ IRSVPService = (*RSVPService)(nil)
