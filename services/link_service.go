package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"lcv.link/configs"
	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/repositories"
)

// LinkServiceError link servis hataları.
type LinkServiceError string

func (e LinkServiceError) Error() string { return string(e) }

const (
	ErrLinkNotFound       LinkServiceError = "link bulunamadı"
	ErrLinkCreationFailed LinkServiceError = "link oluşturulamadı"
	ErrLinkUpdateFailed   LinkServiceError = "link güncellenemedi"
	ErrLinkDeletionFailed LinkServiceError = "link silinemedi"
	ErrLinkInvalidInput   LinkServiceError = "geçersiz link girdisi"
	ErrLinkNameRequired   LinkServiceError = "isim linki için görüntüleme adı zorunludur"
)

// LinkWithURL panel yanıtlarında link kaydını public URL'iyle birlikte taşır.
type LinkWithURL struct {
	models.Link
	PublicURL string `json:"public_url"`
}

// LinkUpdateInput opsiyonel link ayar güncellemeleri.
type LinkUpdateInput struct {
	ExpiresAt *time.Time             `json:"expires_at"`
	MaxUses   *int                   `json:"max_uses"`
	Settings  map[string]interface{} `json:"settings"`
}

// ILinkService paylaşılabilir link üretimi ve yönetimi için arayüz.
type ILinkService interface {
	CreateOpenLink(ctx context.Context, eventID uuid.UUID) (*models.Link, error)
	CreateNameLink(ctx context.Context, eventID uuid.UUID, displayName string) (*models.Link, error)
	CreateNumberedLinks(ctx context.Context, eventID uuid.UUID, count int) ([]models.Link, error)
	CreatePersonalLink(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) (*models.Link, error)
	GetLinkByID(ctx context.Context, id uuid.UUID) (*models.Link, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]LinkWithURL, error)
	UpdateLink(ctx context.Context, id uuid.UUID, input LinkUpdateInput) error
	DeleteLink(ctx context.Context, id uuid.UUID) error
	BuildPublicURL(event *models.Event, slug string) string
}

type LinkService struct {
	repo        repositories.ILinkRepository
	eventRepo   repositories.IEventRepository
	guestRepo   repositories.IGuestRepository
	codeService ICodeService
	baseURL     string
}

func NewLinkService() ILinkService {
	cfg := configs.GetConfig()
	return &LinkService{
		repo:        repositories.NewLinkRepository(),
		eventRepo:   repositories.NewEventRepository(),
		guestRepo:   repositories.NewGuestRepository(),
		codeService: NewCodeService(),
		baseURL:     cfg.BaseURL,
	}
}

// NewLinkServiceWithRepos testler için DI constructor'ı.
func NewLinkServiceWithRepos(repo repositories.ILinkRepository, eventRepo repositories.IEventRepository, guestRepo repositories.IGuestRepository, codeService ICodeService, baseURL string) ILinkService {
	return &LinkService{
		repo:        repo,
		eventRepo:   eventRepo,
		guestRepo:   guestRepo,
		codeService: codeService,
		baseURL:     baseURL,
	}
}

// CreateOpenLink etkinliğin açık (herkese açık) linkini döndürür.
// Açık link tekildir: mevcut (event, open, "open") satırı varsa YENİDEN
// KULLANILIR, kopya oluşturulmaz.
func (s *LinkService) CreateOpenLink(ctx context.Context, eventID uuid.UUID) (*models.Link, error) {
	if eventID == uuid.Nil {
		return nil, fmt.Errorf("%w: geçersiz eventID", ErrLinkInvalidInput)
	}

	existing, err := s.repo.FindOpenLink(ctx, eventID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	link := &models.Link{
		EventID: eventID,
		Type:    models.LinkTypeOpen,
		Slug:    models.LinkSlugOpen,
	}
	if err := s.repo.Create(ctx, link); err != nil {
		configslog.Log.Error("Açık link oluşturulamadı", zap.String("event_id", eventID.String()), zap.Error(err))
		return nil, ErrLinkCreationFailed
	}
	configslog.SLog.Infof("Açık link oluşturuldu: event %s", eventID)
	return link, nil
}

// CreateNameLink isme dayalı personal link oluşturur.
// Slug "name/<percent-encoded ad>" biçimindedir ve davetli kaydına
// bağlanmaz. Tekilleştirme YAPILMAZ: aynı adla ikinci çağrı aynı slug'lı
// ikinci bir satır oluşturur.
func (s *LinkService) CreateNameLink(ctx context.Context, eventID uuid.UUID, displayName string) (*models.Link, error) {
	if eventID == uuid.Nil {
		return nil, fmt.Errorf("%w: geçersiz eventID", ErrLinkInvalidInput)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrLinkNameRequired
	}

	link := &models.Link{
		EventID: eventID,
		Type:    models.LinkTypePersonal,
		Slug:    models.LinkSlugNamePrefix + url.PathEscape(displayName),
	}
	if err := s.repo.Create(ctx, link); err != nil {
		configslog.Log.Error("İsim linki oluşturulamadı",
			zap.String("event_id", eventID.String()), zap.String("name", displayName), zap.Error(err))
		return nil, ErrLinkCreationFailed
	}
	return link, nil
}

// CreateNumberedLinks sıfır dolgulu sıra numaralı personal linkleri toplu
// oluşturur (001, 002, ...). Mevcut numaralarla tekilleştirme yapılmaz.
func (s *LinkService) CreateNumberedLinks(ctx context.Context, eventID uuid.UUID, count int) ([]models.Link, error) {
	if eventID == uuid.Nil || count < 1 {
		return nil, fmt.Errorf("%w: geçersiz eventID veya adet", ErrLinkInvalidInput)
	}
	const maxBatch = 500
	if count > maxBatch {
		count = maxBatch
	}

	links := make([]*models.Link, 0, count)
	for i := 1; i <= count; i++ {
		links = append(links, &models.Link{
			EventID: eventID,
			Type:    models.LinkTypePersonal,
			Slug:    fmt.Sprintf("%03d", i),
		})
	}
	if err := s.repo.CreateBatch(ctx, links); err != nil {
		configslog.Log.Error("Numaralı linkler oluşturulamadı",
			zap.String("event_id", eventID.String()), zap.Int("count", count), zap.Error(err))
		return nil, ErrLinkCreationFailed
	}

	out := make([]models.Link, 0, count)
	for _, l := range links {
		out = append(out, *l)
	}
	return out, nil
}

// CreatePersonalLink belirli bir davetliye ait linki oluşturur: slug,
// davetlinin kısa kodudur (gerekirse burada üretilir).
func (s *LinkService) CreatePersonalLink(ctx context.Context, eventID uuid.UUID, guestID uuid.UUID) (*models.Link, error) {
	if eventID == uuid.Nil || guestID == uuid.Nil {
		return nil, fmt.Errorf("%w: geçersiz eventID veya guestID", ErrLinkInvalidInput)
	}

	guest, err := s.guestRepo.FindByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if guest.EventID != eventID {
		return nil, fmt.Errorf("%w: davetli bu etkinliğe ait değil", ErrLinkInvalidInput)
	}

	code, err := s.codeService.EnsureGuestCode(ctx, guestID)
	if err != nil || code == "" {
		// Kod üretilemezse literal-ID fallback'i devreye girer: slug olarak
		// davetlinin ham telefonu yerine UUID kullanılmaz, telefon tabanlı
		// çözümleme zaten URL'de telefonla çalışır. Burada hata döndürülür.
		configslog.Log.Warn("Personal link için davetli kodu üretilemedi",
			zap.String("guest_id", guestID.String()), zap.Error(err))
		return nil, ErrLinkCreationFailed
	}

	link := &models.Link{
		EventID: eventID,
		Type:    models.LinkTypePersonal,
		Slug:    code,
	}
	if err := s.repo.Create(ctx, link); err != nil {
		configslog.Log.Error("Personal link oluşturulamadı", zap.String("guest_id", guestID.String()), zap.Error(err))
		return nil, ErrLinkCreationFailed
	}
	return link, nil
}

func (s *LinkService) GetLinkByID(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return link, nil
}

// ListByEvent etkinliğin linklerini public URL'leriyle birlikte döndürür.
func (s *LinkService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]LinkWithURL, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := make([]LinkWithURL, 0, len(links))
	for _, link := range links {
		out = append(out, LinkWithURL{
			Link:      link,
			PublicURL: s.BuildPublicURL(event, link.Slug),
		})
	}
	return out, nil
}

func (s *LinkService) UpdateLink(ctx context.Context, id uuid.UUID, input LinkUpdateInput) error {
	data := map[string]interface{}{}
	if input.ExpiresAt != nil {
		data["expires_at"] = *input.ExpiresAt
	}
	if input.MaxUses != nil {
		data["max_uses"] = *input.MaxUses
	}
	if input.Settings != nil {
		data["settings"] = datatypes.JSONMap(input.Settings)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: güncellenecek alan yok", ErrLinkInvalidInput)
	}

	if err := s.repo.Update(ctx, id, data); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLinkNotFound
		}
		configslog.Log.Error("Link güncellenemedi", zap.String("link_id", id.String()), zap.Error(err))
		return ErrLinkUpdateFailed
	}
	return nil
}

func (s *LinkService) DeleteLink(ctx context.Context, id uuid.UUID) error {
	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, link); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLinkNotFound
		}
		configslog.Log.Error("Link silinemedi", zap.String("link_id", id.String()), zap.Error(err))
		return ErrLinkDeletionFailed
	}
	return nil
}

// BuildPublicURL paylaşılabilir tam URL'yi kurar:
// <origin>/rsvp/<etkinlik kodu veya UUID>/<slug>.
func (s *LinkService) BuildPublicURL(event *models.Event, slug string) string {
	base := strings.TrimRight(s.baseURL, "/")
	return base + "/rsvp/" + event.CodeOrID() + "/" + slug
}

var _ ILinkService = (*LinkService)(nil)
