package services

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lcv.link/configs"
	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/repositories"
	"lcv.link/utils"
)

// ResolverServiceError çözümleme hataları. Hangi katmanın bulunamadığı
// ayrıştırılır: "etkinlik yok" ile "davetli yok" farklı mesajlardır.
type ResolverServiceError string

func (e ResolverServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound   ResolverServiceError = "etkinlik bulunamadı"
	ErrGuestNotFound   ResolverServiceError = "davetli bulunamadı"
	ErrLinkExpired     ResolverServiceError = "linkin süresi dolmuş"
	ErrLinkUsedUp      ResolverServiceError = "link kullanım limitine ulaşmış"
	ErrInvalidRSVPPath ResolverServiceError = "geçersiz davet linki"
)

// ResolutionKind çözümlemenin hangi yoldan başarılı olduğunu söyler.
type ResolutionKind string

const (
	ResolutionPersonalCode  ResolutionKind = "personal_code"  // davetli kısa koduyla
	ResolutionPersonalPhone ResolutionKind = "personal_phone" // telefon fallback'iyle
	ResolutionName          ResolutionKind = "name"           // URL'deki görüntüleme adıyla
	ResolutionOpen          ResolutionKind = "open"           // açık linkle
)

// Resolution bir public URL'nin veritabanı karşılığı.
type Resolution struct {
	Kind  ResolutionKind
	Event *models.Event
	// Guest yalnızca personal çözümlemelerde dolu; name/open yollarında nil.
	Guest *models.Guest
	// Link name/open yollarında bulunabilen link satırı (name için opsiyonel).
	Link *models.Link
	// DisplayName name yolunda URL'den çözülen ad.
	DisplayName string
}

// IResolverService URL token'larını kayıtlara çeviren arayüz.
//
// İki katmanlı fallback'in nedeni kodların tembel üretilmesidir: kod
// üretimi hiç koşmamış ya da yarışta boş kalmış kayıtlar orijinal
// kimlikleriyle (UUID, telefon) erişilebilir kalmalıdır. Çözümleme salt
// okunurdur ve idempotenttir (link kullanım sayaçları hariç).
type IResolverService interface {
	ResolveEvent(ctx context.Context, eventToken string) (*models.Event, error)
	Resolve(ctx context.Context, eventToken, guestToken string) (*Resolution, error)
	ResolveName(ctx context.Context, eventToken, encodedName string) (*Resolution, error)
	ResolveOpen(ctx context.Context, eventToken string) (*Resolution, error)
	FindLink(ctx context.Context, eventID uuid.UUID, slug string) (*models.Link, error)
}

type ResolverService struct {
	eventRepo        repositories.IEventRepository
	guestRepo        repositories.IGuestRepository
	linkRepo         repositories.ILinkRepository
	phoneCountryCode string
}

func NewResolverService() IResolverService {
	return &ResolverService{
		eventRepo:        repositories.NewEventRepository(),
		guestRepo:        repositories.NewGuestRepository(),
		linkRepo:         repositories.NewLinkRepository(),
		phoneCountryCode: configs.GetConfig().PhoneCountryCode,
	}
}

// NewResolverServiceWithRepos testler için DI constructor'ı.
func NewResolverServiceWithRepos(eventRepo repositories.IEventRepository, guestRepo repositories.IGuestRepository, linkRepo repositories.ILinkRepository, phoneCountryCode string) IResolverService {
	return &ResolverService{
		eventRepo:        eventRepo,
		guestRepo:        guestRepo,
		linkRepo:         linkRepo,
		phoneCountryCode: phoneCountryCode,
	}
}

// looksLikeShortCode token'ın kısa kod olabileceğine karar veren sezgisel
// kontrol: UUID olarak parse edilebilen token'lar kod katmanını atlar,
// 10 karakterden kısa olanlar önce kod olarak denenir. Varsayım: gerçek
// UUID'ler asla kısa kod gibi görünmez (DESIGN.md'de kayıtlı).
func looksLikeShortCode(token string) bool {
	if token == "" {
		return false
	}
	if _, err := uuid.Parse(token); err == nil {
		return false
	}
	return len(token) < 10
}

// ResolveEvent etkinlik token'ını çözer: önce kısa kod, sonra literal UUID.
func (s *ResolverService) ResolveEvent(ctx context.Context, eventToken string) (*models.Event, error) {
	if eventToken == "" {
		return nil, ErrEventNotFound
	}

	if looksLikeShortCode(eventToken) {
		event, err := s.eventRepo.FindByCode(ctx, eventToken)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	// Kod katmanı başarısız: token'ı literal UUID olarak dene.
	eventID, parseErr := uuid.Parse(eventToken)
	if parseErr != nil {
		return nil, ErrEventNotFound
	}
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// Resolve personal linki çözer: etkinlik (kod → UUID) ve davetli
// (kod → telefon) katmanları sırayla denenir, ilk başarıda durulur.
func (s *ResolverService) Resolve(ctx context.Context, eventToken, guestToken string) (*Resolution, error) {
	event, err := s.ResolveEvent(ctx, eventToken)
	if err != nil {
		return nil, err
	}
	if guestToken == "" {
		return nil, ErrGuestNotFound
	}

	// 1. katman: davetli kısa kodu. Kod eşleşirse aynı slug'lı personal
	// link satırı da aranır: kapı (süre/limit) ve kullanım sayacı o satır
	// üzerinden işler. Link satırı yoksa çözümleme yine geçerlidir; kod
	// link üretiminden bağımsız olarak da paylaşılmış olabilir.
	if looksLikeShortCode(guestToken) {
		guest, err := s.guestRepo.FindByEventAndCode(ctx, event.ID, guestToken)
		if err == nil {
			resolution := &Resolution{Kind: ResolutionPersonalCode, Event: event, Guest: guest}
			link, linkErr := s.linkRepo.FindByEventAndSlug(ctx, event.ID, guestToken)
			if linkErr == nil {
				if link.Type == models.LinkTypePersonal {
					if gateErr := s.gateAndCount(ctx, link); gateErr != nil {
						return nil, gateErr
					}
					resolution.Link = link
				}
			} else if !errors.Is(linkErr, repositories.ErrNotFound) {
				return nil, linkErr
			}
			return resolution, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	// 2. katman: token'ı literal telefon olarak dene (normalize ederek).
	phone := utils.NormalizePhone(guestToken, s.phoneCountryCode)
	if phone != "" {
		guest, err := s.guestRepo.FindByEventAndPhone(ctx, event.ID, phone)
		if err == nil {
			return &Resolution{Kind: ResolutionPersonalPhone, Event: event, Guest: guest}, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	configslog.SLog.Debugf("Davetli çözümlenemedi: event=%s token=%s", event.ID, guestToken)
	return nil, ErrGuestNotFound
}

// ResolveName "name/<encoded>" yolunu çözer. Davetli kaydı ARANMAZ:
// URL'deki görüntüleme adı olduğu gibi submission'a taşınır. Aynı slug'lı
// bir link satırı varsa kullanım sayacı için iliştirilir, yoksa sorun değil.
func (s *ResolverService) ResolveName(ctx context.Context, eventToken, encodedName string) (*Resolution, error) {
	event, err := s.ResolveEvent(ctx, eventToken)
	if err != nil {
		return nil, err
	}

	displayName, decodeErr := url.PathUnescape(encodedName)
	if decodeErr != nil || displayName == "" {
		return nil, ErrInvalidRSVPPath
	}

	resolution := &Resolution{Kind: ResolutionName, Event: event, DisplayName: displayName}

	link, err := s.linkRepo.FindByEventAndSlug(ctx, event.ID, models.LinkSlugNamePrefix+encodedName)
	if err == nil {
		if gateErr := s.gateAndCount(ctx, link); gateErr != nil {
			return nil, gateErr
		}
		resolution.Link = link
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	return resolution, nil
}

// ResolveOpen açık linki çözer ve kullanım sayacını artırır.
func (s *ResolverService) ResolveOpen(ctx context.Context, eventToken string) (*Resolution, error) {
	event, err := s.ResolveEvent(ctx, eventToken)
	if err != nil {
		return nil, err
	}

	link, err := s.linkRepo.FindOpenLink(ctx, event.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidRSVPPath
		}
		return nil, err
	}
	if gateErr := s.gateAndCount(ctx, link); gateErr != nil {
		return nil, gateErr
	}

	return &Resolution{Kind: ResolutionOpen, Event: event, Link: link}, nil
}

// FindLink yanıtı bir link satırına bağlamak için salt okunur slug araması
// yapar: kapı uygulanmaz, sayaç artmaz.
func (s *ResolverService) FindLink(ctx context.Context, eventID uuid.UUID, slug string) (*models.Link, error) {
	link, err := s.linkRepo.FindByEventAndSlug(ctx, eventID, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidRSVPPath
		}
		return nil, err
	}
	return link, nil
}

// gateAndCount süre/kullanım limitlerini uygular ve sayacı artırır.
func (s *ResolverService) gateAndCount(ctx context.Context, link *models.Link) error {
	now := time.Now().UTC()
	if link.IsExpired(now) {
		return ErrLinkExpired
	}
	if link.IsExhausted() {
		return ErrLinkUsedUp
	}
	if err := s.linkRepo.IncrementUseCount(ctx, link.ID); err != nil {
		// Sayaç artmazsa çözümleme yine de başarılıdır; sadece logla.
		configslog.Log.Warn("Link kullanım sayacı artırılamadı",
			zap.String("link_id", link.ID.String()), zap.Error(err))
	}
	return nil
}

var _ IResolverService = (*ResolverService)(nil)
