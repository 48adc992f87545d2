package services

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lcv.link/configs"
	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/repositories"
)

// CodeServiceError kod üretimi servis hataları.
type CodeServiceError string

func (e CodeServiceError) Error() string { return string(e) }

const (
	ErrCodeGenerationFailed CodeServiceError = "benzersiz kod üretilemedi"
	ErrSlugGenerationFailed CodeServiceError = "benzersiz slug üretilemedi"
)

// Kod alfabesi: karıştırılması kolay karakterler (0/O, 1/l/I) dışlanmıştır.
const codeAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"

const (
	eventCodeLength    = 6
	guestCodeLength    = 6
	shortURLSlugLength = 7
	slugSuffixLength   = 4
)

// ICodeService kısa kod ve slug üretimi için arayüz.
//
// Benzersizlik veritabanı unique index'leriyle garanti edilir; üretici
// önce varlık kontrolü yapar (ucuz hızlı yol), çakışma yine de olursa
// sınırlı sayıda yeniden dener. Kodlar tembel üretilir: kodu olmayan bir
// kayıt ilk ihtiyaç anında (veya gece taramasında) kod alır.
type ICodeService interface {
	EnsureEventCode(ctx context.Context, eventID uuid.UUID) (string, error)
	EnsureGuestCode(ctx context.Context, guestID uuid.UUID) (string, error)
	GenerateEventSlug(ctx context.Context, title string) (string, error)
	GenerateShortURLSlug(ctx context.Context) (string, error)
	BackfillMissingCodes(ctx context.Context, batchSize int) (int, error)
}

type CodeService struct {
	eventRepo    repositories.IEventRepository
	guestRepo    repositories.IGuestRepository
	shortURLRepo repositories.IShortURLRepository
	maxAttempts  int
}

func NewCodeService() ICodeService {
	return &CodeService{
		eventRepo:    repositories.NewEventRepository(),
		guestRepo:    repositories.NewGuestRepository(),
		shortURLRepo: repositories.NewShortURLRepository(),
		maxAttempts:  configs.GetConfig().CodeMaxAttempts,
	}
}

// NewCodeServiceWithRepos testler ve transaction'lar için DI constructor'ı.
func NewCodeServiceWithRepos(eventRepo repositories.IEventRepository, guestRepo repositories.IGuestRepository, shortURLRepo repositories.IShortURLRepository, maxAttempts int) ICodeService {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	return &CodeService{
		eventRepo:    eventRepo,
		guestRepo:    guestRepo,
		shortURLRepo: shortURLRepo,
		maxAttempts:  maxAttempts,
	}
}

// EnsureEventCode etkinliğin kısa kodunu döndürür; yoksa üretip yazar.
// Yazma koşullu tek UPDATE'tir (code halen boşsa): eşzamanlı ikinci çağrı
// ya kendi yazdığı kodu ya da rakibinin yazdığını görür, iki farklı kod
// kalıcı olamaz.
func (s *CodeService) EnsureEventCode(ctx context.Context, eventID uuid.UUID) (string, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return "", err
	}
	if event.Code != nil && *event.Code != "" {
		return *event.Code, nil
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code := randomCode(eventCodeLength)

		// Hızlı yol: bilinen çakışmayı UPDATE'e taşımadan ele.
		if exists, err := s.eventRepo.CodeExists(ctx, code); err != nil {
			return "", err
		} else if exists {
			continue
		}

		written, err := s.eventRepo.SetCodeIfEmpty(ctx, eventID, code)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue // kod bu arada başkasına verildi, yeni kod dene
			}
			return "", err
		}
		if written {
			return code, nil
		}

		// Satır etkilenmedi: kod eşzamanlı bir çağrı tarafından yazılmış olabilir.
		refreshed, err := s.eventRepo.FindByID(ctx, eventID)
		if err != nil {
			return "", err
		}
		if refreshed.Code != nil && *refreshed.Code != "" {
			return *refreshed.Code, nil
		}
	}

	configslog.Log.Error("Etkinlik kodu üretilemedi, deneme sayısı aşıldı",
		zap.String("event_id", eventID.String()), zap.Int("attempts", s.maxAttempts))
	return "", ErrCodeGenerationFailed
}

// EnsureGuestCode davetlinin etkinlik içinde benzersiz kısa kodunu döndürür;
// yoksa üretip yazar. Semantik EnsureEventCode ile aynıdır.
func (s *CodeService) EnsureGuestCode(ctx context.Context, guestID uuid.UUID) (string, error) {
	guest, err := s.guestRepo.FindByID(ctx, guestID)
	if err != nil {
		return "", err
	}
	if guest.Code != nil && *guest.Code != "" {
		return *guest.Code, nil
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code := randomCode(guestCodeLength)

		if exists, err := s.guestRepo.CodeExists(ctx, guest.EventID, code); err != nil {
			return "", err
		} else if exists {
			continue
		}

		written, err := s.guestRepo.SetCodeIfEmpty(ctx, guestID, code)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return "", err
		}
		if written {
			return code, nil
		}

		refreshed, err := s.guestRepo.FindByID(ctx, guestID)
		if err != nil {
			return "", err
		}
		if refreshed.Code != nil && *refreshed.Code != "" {
			return *refreshed.Code, nil
		}
	}

	configslog.Log.Error("Davetli kodu üretilemedi, deneme sayısı aşıldı",
		zap.String("guest_id", guestID.String()), zap.Int("attempts", s.maxAttempts))
	return "", ErrCodeGenerationFailed
}

// GenerateEventSlug başlıktan URL dostu, benzersiz bir slug türetir.
// Çakışmada sonuna kısa rastgele ek alır.
func (s *CodeService) GenerateEventSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = randomCode(slugSuffixLength * 2)
	}

	candidate := base
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		exists, err := s.eventRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + randomCode(slugSuffixLength)
	}

	configslog.Log.Error("Etkinlik slug'ı üretilemedi", zap.String("title", title))
	return "", ErrSlugGenerationFailed
}

// GenerateShortURLSlug genel kısaltıcı için benzersiz slug üretir.
func (s *CodeService) GenerateShortURLSlug(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		candidate := randomCode(shortURLSlugLength)
		exists, err := s.shortURLRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

// BackfillMissingCodes kodu olmayan etkinlik ve davetlilere kod atar.
// Gece cron taraması tarafından çağrılır; işlenen kayıt sayısını döndürür.
func (s *CodeService) BackfillMissingCodes(ctx context.Context, batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = 100
	}
	processed := 0

	events, err := s.eventRepo.ListMissingCode(ctx, batchSize)
	if err != nil {
		return processed, err
	}
	for _, event := range events {
		if _, err := s.EnsureEventCode(ctx, event.ID); err != nil {
			configslog.Log.Warn("Backfill: etkinlik kodu atanamadı",
				zap.String("event_id", event.ID.String()), zap.Error(err))
			continue
		}
		processed++
	}

	guests, err := s.guestRepo.ListMissingCode(ctx, batchSize)
	if err != nil {
		return processed, err
	}
	for _, guest := range guests {
		if _, err := s.EnsureGuestCode(ctx, guest.ID); err != nil {
			configslog.Log.Warn("Backfill: davetli kodu atanamadı",
				zap.String("guest_id", guest.ID.String()), zap.Error(err))
			continue
		}
		processed++
	}

	return processed, nil
}

// randomCode kod alfabesinden kriptografik rastgele bir dizi üretir.
func randomCode(length int) string {
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand'ın başarısız olması beklenmez; olursa üretim durur.
			configslog.Log.Error("Rastgele kod üretimi başarısız", zap.Error(err))
			return ""
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String()
}

// Slugify metni URL dostu bir slug'a indirger: harf/rakam dışı her şey
// tireye dönüşür, ardışık tireler katlanır.
func Slugify(text string) string {
	var b strings.Builder
	lastDash := true // baştaki tireleri bastır
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

var _ ICodeService = (*CodeService)(nil)

// EnsureEventCodeOrFallback kod üretilemezse ham UUID'ye düşer; link üretimi
// bu sayede kodsuz etkinlikler için de çalışır.
func EnsureEventCodeOrFallback(ctx context.Context, codeService ICodeService, event *models.Event) string {
	if event.Code != nil && *event.Code != "" {
		return *event.Code
	}
	code, err := codeService.EnsureEventCode(ctx, event.ID)
	if err != nil || code == "" {
		configslog.SLog.Warnf("Etkinlik kodu üretilemedi, UUID ile devam ediliyor: %s", event.ID)
		return event.ID.String()
	}
	event.Code = &code
	return code
}
