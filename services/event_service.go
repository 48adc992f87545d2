package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/pkg/queryparams"
	"lcv.link/repositories"
)

// EventServiceError etkinlik servis hataları.
type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFoundServ     EventServiceError = "etkinlik bulunamadı"
	ErrEventTitleRequired    EventServiceError = "etkinlik başlığı zorunludur"
	ErrEventForbidden        EventServiceError = "bu etkinlik üzerinde yetkiniz yok"
	ErrEventCreationFailed   EventServiceError = "etkinlik oluşturulamadı"
	ErrEventUpdateFailed     EventServiceError = "etkinlik güncellenemedi"
	ErrEventDeletionFailed   EventServiceError = "etkinlik silinemedi"
	ErrEventInvalidInput     EventServiceError = "geçersiz etkinlik girdisi"
	ErrDashboardInputInvalid EventServiceError = "geçersiz client dashboard bilgileri"
)

// EventCreateInput yeni etkinlik girdisi.
type EventCreateInput struct {
	Title       string
	Description string
	EventDate   *time.Time
	Location    string
	Theme       map[string]interface{}
	Settings    map[string]interface{}
}

// EventUpdateInput kısmi güncelleme: nil alanlar dokunulmadan bırakılır
// (last-write-wins; sürüm/optimistic-lock kolonu bilinçli olarak yoktur).
type EventUpdateInput struct {
	Title       *string
	Description *string
	EventDate   *time.Time
	Location    *string
	Theme       map[string]interface{}
	Settings    map[string]interface{}
}

// IEventService etkinlik yönetimi için arayüz.
type IEventService interface {
	CreateEvent(ctx context.Context, userID uuid.UUID, input EventCreateInput) (*models.Event, error)
	GetEventForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID, isSystem bool) (*models.Event, error)
	ListEventsForUser(ctx context.Context, userID uuid.UUID, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, input EventUpdateInput) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	EnsureCode(ctx context.Context, id uuid.UUID) (string, error)
	SetDashboardCredentials(ctx context.Context, id uuid.UUID, username, password string, enabled bool) error
}

type EventService struct {
	repo        repositories.IEventRepository
	codeService ICodeService
}

func NewEventService() IEventService {
	return &EventService{
		repo:        repositories.NewEventRepository(),
		codeService: NewCodeService(),
	}
}

// NewEventServiceWithRepos testler için DI constructor'ı.
func NewEventServiceWithRepos(repo repositories.IEventRepository, codeService ICodeService) IEventService {
	return &EventService{repo: repo, codeService: codeService}
}

// CreateEvent yeni etkinlik oluşturur. Slug başlıktan hemen türetilir;
// kısa kod ise tembeldir, ilk link üretiminde ya da gece taramasında atanır.
func (s *EventService) CreateEvent(ctx context.Context, userID uuid.UUID, input EventCreateInput) (*models.Event, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: geçersiz kullanıcı", ErrEventInvalidInput)
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrEventTitleRequired
	}

	slug, err := s.codeService.GenerateEventSlug(ctx, input.Title)
	if err != nil {
		configslog.Log.Error("Etkinlik slug'ı üretilemedi", zap.String("title", input.Title), zap.Error(err))
		return nil, ErrEventCreationFailed
	}

	event := &models.Event{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		EventDate:   input.EventDate,
		Location:    input.Location,
		Slug:        slug,
	}
	if input.Theme != nil {
		event.Theme = datatypes.JSONMap(input.Theme)
	}
	if input.Settings != nil {
		event.Settings = datatypes.JSONMap(input.Settings)
	}

	ctxWithUser := context.WithValue(ctx, models.ContextUserIDKey, userID)
	if err := s.repo.Create(ctxWithUser, event); err != nil {
		configslog.Log.Error("Etkinlik oluşturulamadı", zap.Error(err))
		return nil, ErrEventCreationFailed
	}

	configslog.SLog.Infof("Etkinlik oluşturuldu: %s (%s)", event.Title, event.ID)
	return event, nil
}

// GetEventForUser etkinliği sahiplik kontrolüyle döndürür. Sistem
// kullanıcısı tüm etkinlikleri görebilir.
func (s *EventService) GetEventForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID, isSystem bool) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFoundServ
		}
		return nil, err
	}
	if !isSystem && event.UserID != userID {
		return nil, ErrEventForbidden
	}
	return event, nil
}

func (s *EventService) ListEventsForUser(ctx context.Context, userID uuid.UUID, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	events, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(events, params, total), nil
}

// UpdateEvent nil olmayan alanları tek UPDATE'te uygular.
func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, input EventUpdateInput) error {
	data := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return ErrEventTitleRequired
		}
		data["title"] = title
	}
	if input.Description != nil {
		data["description"] = *input.Description
	}
	if input.EventDate != nil {
		data["event_date"] = *input.EventDate
	}
	if input.Location != nil {
		data["location"] = *input.Location
	}
	if input.Theme != nil {
		data["theme"] = datatypes.JSONMap(input.Theme)
	}
	if input.Settings != nil {
		data["settings"] = datatypes.JSONMap(input.Settings)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: güncellenecek alan yok", ErrEventInvalidInput)
	}

	if err := s.repo.Update(ctx, id, data); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFoundServ
		}
		configslog.Log.Error("Etkinlik güncellenemedi", zap.String("event_id", id.String()), zap.Error(err))
		return ErrEventUpdateFailed
	}
	return nil
}

// DeleteEvent etkinliği ve tüm bağlı kayıtlarını siler (repo kaskadı).
func (s *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFoundServ
		}
		return err
	}
	if err := s.repo.Delete(ctx, event); err != nil {
		configslog.Log.Error("Etkinlik silinemedi", zap.String("event_id", id.String()), zap.Error(err))
		return ErrEventDeletionFailed
	}
	configslog.SLog.Infof("Etkinlik silindi: %s (%s)", event.Title, event.ID)
	return nil
}

// EnsureCode kısa kodu döndürür, yoksa ürettirir.
func (s *EventService) EnsureCode(ctx context.Context, id uuid.UUID) (string, error) {
	return s.codeService.EnsureEventCode(ctx, id)
}

// SetDashboardCredentials client dashboard girişini ayarlar ya da kapatır.
func (s *EventService) SetDashboardCredentials(ctx context.Context, id uuid.UUID, username, password string, enabled bool) error {
	data := map[string]interface{}{"dashboard_enabled": enabled}

	if enabled {
		username = strings.TrimSpace(username)
		if username == "" || password == "" {
			return ErrDashboardInputInvalid
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			configslog.Log.Error("Dashboard şifresi hashlenemedi", zap.Error(err))
			return ErrEventUpdateFailed
		}
		data["dashboard_username"] = username
		data["dashboard_password_hash"] = string(hash)
	}

	if err := s.repo.Update(ctx, id, data); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFoundServ
		}
		return ErrEventUpdateFailed
	}
	return nil
}

var _ IEventService = (*EventService)(nil)
