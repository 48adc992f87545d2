package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"lcv.link/configs"
	"lcv.link/models"
	"lcv.link/repositories"
)

// LanguageServiceError dil servis hataları.
type LanguageServiceError string

func (e LanguageServiceError) Error() string { return string(e) }

const (
	ErrLanguageNotFound   LanguageServiceError = "dil kaydı bulunamadı"
	ErrLocaleRequired     LanguageServiceError = "locale kodu zorunludur"
	ErrLanguageExists     LanguageServiceError = "bu dil etkinlikte zaten tanımlı"
	ErrLanguageCreateFail LanguageServiceError = "dil kaydı oluşturulamadı"
)

// builtinTranslations yerleşik varsayılan UI metinleri. Etkinlik bazlı
// override'lar bu tabloyu key bazında ezer.
var builtinTranslations = map[string]map[string]string{
	"tr": {
		"rsvp.title":        "Davetlisiniz",
		"rsvp.subtitle":     "Katılımınızı bildirin",
		"rsvp.first_name":   "Ad",
		"rsvp.last_name":    "Soyad",
		"rsvp.men_count":    "Erkek sayısı",
		"rsvp.women_count":  "Kadın sayısı",
		"rsvp.submit":       "Gönder",
		"rsvp.thanks":       "Yanıtınız alındı, teşekkürler!",
		"rsvp.not_found":    "Davetiye bulunamadı",
		"rsvp.invalid_link": "Geçersiz davet linki",
		"rsvp.link_expired": "Bu linkin süresi dolmuş",
		"og.description":    "Davetiyeyi görüntülemek ve katılımınızı bildirmek için tıklayın",
	},
	"en": {
		"rsvp.title":        "You are invited",
		"rsvp.subtitle":     "Please confirm your attendance",
		"rsvp.first_name":   "First name",
		"rsvp.last_name":    "Last name",
		"rsvp.men_count":    "Men",
		"rsvp.women_count":  "Women",
		"rsvp.submit":       "Submit",
		"rsvp.thanks":       "Thank you, your response has been recorded!",
		"rsvp.not_found":    "Invitation not found",
		"rsvp.invalid_link": "Invalid invitation link",
		"rsvp.link_expired": "This link has expired",
		"og.description":    "Tap to view the invitation and confirm your attendance",
	},
}

// ILanguageService etkinlik dilleri ve metin çözümlemesi için arayüz.
//
// Metin çözümleme iki seviyelidir: önce etkinlik+locale override'ı, sonra
// yerleşik locale varsayılanı; ikisi de yoksa key'in kendisi döner.
type ILanguageService interface {
	AddLanguage(ctx context.Context, eventID uuid.UUID, locale string, isDefault bool) (*models.EventLanguage, error)
	ListLanguages(ctx context.Context, eventID uuid.UUID) ([]models.EventLanguage, error)
	SetDefault(ctx context.Context, eventID uuid.UUID, locale string) error
	UpdateTranslations(ctx context.Context, eventID uuid.UUID, locale string, translations map[string]interface{}) error
	RemoveLanguage(ctx context.Context, eventID uuid.UUID, locale string) error
	ResolveLocale(ctx context.Context, eventID uuid.UUID, requested string) string
	Translate(ctx context.Context, eventID uuid.UUID, locale, key string) string
	TranslationsFor(ctx context.Context, eventID uuid.UUID, locale string) map[string]string
}

type LanguageService struct {
	repo          repositories.IEventLanguageRepository
	defaultLocale string
}

func NewLanguageService() ILanguageService {
	return &LanguageService{
		repo:          repositories.NewEventLanguageRepository(),
		defaultLocale: configs.GetConfig().DefaultLocale,
	}
}

// NewLanguageServiceWithRepo testler için DI constructor'ı.
func NewLanguageServiceWithRepo(repo repositories.IEventLanguageRepository, defaultLocale string) ILanguageService {
	return &LanguageService{repo: repo, defaultLocale: defaultLocale}
}

func (s *LanguageService) AddLanguage(ctx context.Context, eventID uuid.UUID, locale string, isDefault bool) (*models.EventLanguage, error) {
	locale = normalizeLocale(locale)
	if locale == "" {
		return nil, ErrLocaleRequired
	}

	if _, err := s.repo.FindByEventAndLocale(ctx, eventID, locale); err == nil {
		return nil, ErrLanguageExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if isDefault {
		if err := s.repo.ClearDefault(ctx, eventID); err != nil {
			return nil, err
		}
	}

	lang := &models.EventLanguage{
		EventID:   eventID,
		Locale:    locale,
		IsDefault: isDefault,
	}
	if err := s.repo.Create(ctx, lang); err != nil {
		return nil, ErrLanguageCreateFail
	}
	return lang, nil
}

func (s *LanguageService) ListLanguages(ctx context.Context, eventID uuid.UUID) ([]models.EventLanguage, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

// SetDefault tek varsayılan dil kuralını uygular: önce tüm bayraklar
// sıfırlanır, sonra istenen dil işaretlenir.
func (s *LanguageService) SetDefault(ctx context.Context, eventID uuid.UUID, locale string) error {
	lang, err := s.repo.FindByEventAndLocale(ctx, eventID, normalizeLocale(locale))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLanguageNotFound
		}
		return err
	}
	if err := s.repo.ClearDefault(ctx, eventID); err != nil {
		return err
	}
	return s.repo.Update(ctx, lang.ID, map[string]interface{}{"is_default": true})
}

func (s *LanguageService) UpdateTranslations(ctx context.Context, eventID uuid.UUID, locale string, translations map[string]interface{}) error {
	lang, err := s.repo.FindByEventAndLocale(ctx, eventID, normalizeLocale(locale))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLanguageNotFound
		}
		return err
	}
	return s.repo.Update(ctx, lang.ID, map[string]interface{}{
		"translations": datatypes.JSONMap(translations),
	})
}

func (s *LanguageService) RemoveLanguage(ctx context.Context, eventID uuid.UUID, locale string) error {
	lang, err := s.repo.FindByEventAndLocale(ctx, eventID, normalizeLocale(locale))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLanguageNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, lang)
}

// ResolveLocale ?lang= parametresinden gelen isteği etkinliğin dillerine
// göre karara bağlar: istenen dil tanımlıysa o, değilse etkinliğin
// varsayılanı, o da yoksa uygulama varsayılanı.
func (s *LanguageService) ResolveLocale(ctx context.Context, eventID uuid.UUID, requested string) string {
	requested = normalizeLocale(requested)
	if requested != "" {
		if _, err := s.repo.FindByEventAndLocale(ctx, eventID, requested); err == nil {
			return requested
		}
		if _, ok := builtinTranslations[requested]; ok {
			return requested
		}
	}
	if lang, err := s.repo.FindDefault(ctx, eventID); err == nil {
		return lang.Locale
	}
	return s.defaultLocale
}

// Translate tek bir metni iki seviyeli arama ile çözer.
func (s *LanguageService) Translate(ctx context.Context, eventID uuid.UUID, locale, key string) string {
	locale = normalizeLocale(locale)

	if lang, err := s.repo.FindByEventAndLocale(ctx, eventID, locale); err == nil && lang.Translations != nil {
		if v, ok := lang.Translations[key].(string); ok && v != "" {
			return v
		}
	}
	if defaults, ok := builtinTranslations[locale]; ok {
		if v, ok := defaults[key]; ok {
			return v
		}
	}
	if defaults, ok := builtinTranslations[s.defaultLocale]; ok {
		if v, ok := defaults[key]; ok {
			return v
		}
	}
	// Son çare: key'in kendisi. Eksik çeviri sessizce kaybolmasın.
	return key
}

// TranslationsFor yerleşik tablo + override'ların birleşimini döndürür.
func (s *LanguageService) TranslationsFor(ctx context.Context, eventID uuid.UUID, locale string) map[string]string {
	locale = normalizeLocale(locale)
	merged := map[string]string{}

	if defaults, ok := builtinTranslations[s.defaultLocale]; ok {
		for k, v := range defaults {
			merged[k] = v
		}
	}
	if defaults, ok := builtinTranslations[locale]; ok {
		for k, v := range defaults {
			merged[k] = v
		}
	}
	if lang, err := s.repo.FindByEventAndLocale(ctx, eventID, locale); err == nil && lang.Translations != nil {
		for k, v := range lang.Translations {
			if str, ok := v.(string); ok && str != "" {
				merged[k] = str
			}
		}
	}
	return merged
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

var _ ILanguageService = (*LanguageService)(nil)
