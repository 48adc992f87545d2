package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lcv.link/configs"
	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/pkg/queryparams"
	"lcv.link/repositories"
	"lcv.link/utils"
)

// GuestServiceError davetli servis hataları.
type GuestServiceError string

func (e GuestServiceError) Error() string { return string(e) }

const (
	ErrGuestNotFoundServ     GuestServiceError = "davetli bulunamadı"
	ErrGuestNameRequired     GuestServiceError = "davetli adı zorunludur"
	ErrGuestPhoneInvalid     GuestServiceError = "geçersiz telefon numarası"
	ErrGuestPhoneDuplicate   GuestServiceError = "bu telefon numarası etkinlikte zaten kayıtlı"
	ErrGuestCreationFailed   GuestServiceError = "davetli oluşturulamadı"
	ErrGuestUpdateFailed     GuestServiceError = "davetli güncellenemedi"
	ErrGuestDeletionFailed   GuestServiceError = "davetli silinemedi"
	ErrImportFileEmpty       GuestServiceError = "içe aktarma dosyası boş"
	ErrImportMissingColumns  GuestServiceError = "içe aktarma dosyasında zorunlu sütunlar eksik"
	ErrGuestInvalidInputServ GuestServiceError = "geçersiz davetli girdisi"
)

// GuestCreateInput yeni davetli girdisi.
type GuestCreateInput struct {
	FirstName  string
	LastName   string
	Phone      string
	MenCount   int
	WomenCount int
}

// GuestUpdateInput kısmi güncelleme; nil alanlara dokunulmaz.
type GuestUpdateInput struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	MenCount   *int
	WomenCount *int
}

// ImportRowError içe aktarmada reddedilen satırın kaydı.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult CSV içe aktarma özeti.
type ImportResult struct {
	Created int              `json:"created"`
	Errors  []ImportRowError `json:"errors"`
}

// IGuestService davetli yönetimi için arayüz.
type IGuestService interface {
	CreateGuest(ctx context.Context, eventID uuid.UUID, input GuestCreateInput) (*models.Guest, error)
	GetGuestByID(ctx context.Context, id uuid.UUID) (*models.Guest, error)
	ListGuests(ctx context.Context, eventID uuid.UUID, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateGuest(ctx context.Context, id uuid.UUID, input GuestUpdateInput) error
	DeleteGuest(ctx context.Context, id uuid.UUID) error
	EnsureCode(ctx context.Context, id uuid.UUID) (string, error)
	ImportCSV(ctx context.Context, eventID uuid.UUID, r io.Reader) (*ImportResult, error)
	ExportCSV(ctx context.Context, eventID uuid.UUID, w io.Writer) error
}

type GuestService struct {
	repo             repositories.IGuestRepository
	eventRepo        repositories.IEventRepository
	codeService      ICodeService
	phoneCountryCode string
}

func NewGuestService() IGuestService {
	return &GuestService{
		repo:             repositories.NewGuestRepository(),
		eventRepo:        repositories.NewEventRepository(),
		codeService:      NewCodeService(),
		phoneCountryCode: configs.GetConfig().PhoneCountryCode,
	}
}

// NewGuestServiceWithRepos testler için DI constructor'ı.
func NewGuestServiceWithRepos(repo repositories.IGuestRepository, eventRepo repositories.IEventRepository, codeService ICodeService, phoneCountryCode string) IGuestService {
	return &GuestService{
		repo:             repo,
		eventRepo:        eventRepo,
		codeService:      codeService,
		phoneCountryCode: phoneCountryCode,
	}
}

// CreateGuest davetli oluşturur. Telefon normalize edilir ve etkinlik
// içinde tekrar kontrolü yapılır; kısa kod burada üretilmez (tembel).
func (s *GuestService) CreateGuest(ctx context.Context, eventID uuid.UUID, input GuestCreateInput) (*models.Guest, error) {
	if eventID == uuid.Nil {
		return nil, fmt.Errorf("%w: eventID eksik", ErrGuestInvalidInputServ)
	}

	guest, err := s.buildGuest(eventID, input)
	if err != nil {
		return nil, err
	}

	if guest.Phone != "" {
		exists, err := s.repo.PhoneExists(ctx, eventID, guest.Phone, nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrGuestPhoneDuplicate
		}
	}

	if err := s.repo.Create(ctx, guest); err != nil {
		configslog.Log.Error("Davetli oluşturulamadı", zap.String("event_id", eventID.String()), zap.Error(err))
		return nil, ErrGuestCreationFailed
	}
	return guest, nil
}

func (s *GuestService) buildGuest(eventID uuid.UUID, input GuestCreateInput) (*models.Guest, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" && lastName == "" {
		return nil, ErrGuestNameRequired
	}
	if input.MenCount < 0 || input.WomenCount < 0 {
		return nil, fmt.Errorf("%w: kişi sayıları negatif olamaz", ErrGuestInvalidInputServ)
	}

	phone := ""
	if strings.TrimSpace(input.Phone) != "" {
		phone = utils.NormalizePhone(input.Phone, s.phoneCountryCode)
		if !utils.IsValidPhone(phone) {
			return nil, ErrGuestPhoneInvalid
		}
	}

	return &models.Guest{
		EventID:    eventID,
		FirstName:  firstName,
		LastName:   lastName,
		Phone:      phone,
		MenCount:   input.MenCount,
		WomenCount: input.WomenCount,
	}, nil
}

func (s *GuestService) GetGuestByID(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGuestNotFoundServ
		}
		return nil, err
	}
	return guest, nil
}

func (s *GuestService) ListGuests(ctx context.Context, eventID uuid.UUID, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	guests, total, err := s.repo.ListByEvent(ctx, eventID, params)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(guests, params, total), nil
}

func (s *GuestService) UpdateGuest(ctx context.Context, id uuid.UUID, input GuestUpdateInput) error {
	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrGuestNotFoundServ
		}
		return err
	}

	data := map[string]interface{}{}
	if input.FirstName != nil {
		data["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		data["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		phone := utils.NormalizePhone(*input.Phone, s.phoneCountryCode)
		if *input.Phone != "" && !utils.IsValidPhone(phone) {
			return ErrGuestPhoneInvalid
		}
		if phone != "" && phone != guest.Phone {
			exists, err := s.repo.PhoneExists(ctx, guest.EventID, phone, &guest.ID)
			if err != nil {
				return err
			}
			if exists {
				return ErrGuestPhoneDuplicate
			}
		}
		data["phone"] = phone
	}
	if input.MenCount != nil {
		if *input.MenCount < 0 {
			return fmt.Errorf("%w: kişi sayıları negatif olamaz", ErrGuestInvalidInputServ)
		}
		data["men_count"] = *input.MenCount
	}
	if input.WomenCount != nil {
		if *input.WomenCount < 0 {
			return fmt.Errorf("%w: kişi sayıları negatif olamaz", ErrGuestInvalidInputServ)
		}
		data["women_count"] = *input.WomenCount
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: güncellenecek alan yok", ErrGuestInvalidInputServ)
	}

	if err := s.repo.Update(ctx, id, data); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrGuestNotFoundServ
		}
		configslog.Log.Error("Davetli güncellenemedi", zap.String("guest_id", id.String()), zap.Error(err))
		return ErrGuestUpdateFailed
	}
	return nil
}

// DeleteGuest davetliyi siler; submission'ları bağımsız yaşamaya devam eder.
func (s *GuestService) DeleteGuest(ctx context.Context, id uuid.UUID) error {
	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrGuestNotFoundServ
		}
		return err
	}
	if err := s.repo.Delete(ctx, guest); err != nil {
		configslog.Log.Error("Davetli silinemedi", zap.String("guest_id", id.String()), zap.Error(err))
		return ErrGuestDeletionFailed
	}
	return nil
}

func (s *GuestService) EnsureCode(ctx context.Context, id uuid.UUID) (string, error) {
	return s.codeService.EnsureGuestCode(ctx, id)
}

// csv sütun başlıkları (küçük harfe indirgenerek eşlenir).
var importColumnAliases = map[string]string{
	"first_name": "first_name", "ad": "first_name", "isim": "first_name",
	"last_name": "last_name", "soyad": "last_name",
	"full_name": "full_name", "ad_soyad": "full_name", "name": "full_name",
	"phone": "phone", "telefon": "phone",
	"men_count": "men_count", "erkek": "men_count",
	"women_count": "women_count", "kadin": "women_count", "kadın": "women_count",
}

// ImportCSV başlık satırlı CSV'den davetlileri toplu aktarır.
// Zorunlu sütunlar: telefon ve en az bir ad sütunu. Hatalı satırlar
// aktarımı durdurmaz, satır numarasıyla raporlanır; dosya içi ve etkinlik
// içi telefon tekrarları reddedilir.
func (s *GuestService) ImportCSV(ctx context.Context, eventID uuid.UUID, r io.Reader) (*ImportResult, error) {
	if eventID == uuid.Nil {
		return nil, fmt.Errorf("%w: eventID eksik", ErrGuestInvalidInputServ)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrImportFileEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGuestInvalidInputServ, err)
	}

	cols := map[string]int{}
	for i, raw := range header {
		key := strings.ToLower(strings.TrimSpace(raw))
		if canonical, ok := importColumnAliases[key]; ok {
			cols[canonical] = i
		}
	}
	_, hasPhone := cols["phone"]
	_, hasFirst := cols["first_name"]
	_, hasFull := cols["full_name"]
	if !hasPhone || (!hasFirst && !hasFull) {
		return nil, ErrImportMissingColumns
	}

	result := &ImportResult{}
	seenPhones := map[string]bool{}
	var toCreate []*models.Guest
	rowNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Reason: "satır okunamadı"})
			continue
		}

		input := GuestCreateInput{
			FirstName:  fieldAt(record, cols, "first_name"),
			LastName:   fieldAt(record, cols, "last_name"),
			Phone:      fieldAt(record, cols, "phone"),
			MenCount:   intFieldAt(record, cols, "men_count"),
			WomenCount: intFieldAt(record, cols, "women_count"),
		}
		if input.FirstName == "" && input.LastName == "" {
			// full_name sütunu varsa ilk boşluktan böl.
			full := fieldAt(record, cols, "full_name")
			if idx := strings.IndexRune(full, ' '); idx > 0 {
				input.FirstName, input.LastName = full[:idx], strings.TrimSpace(full[idx+1:])
			} else {
				input.FirstName = full
			}
		}

		guest, err := s.buildGuest(eventID, input)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		if guest.Phone != "" {
			if seenPhones[guest.Phone] {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Reason: ErrGuestPhoneDuplicate.Error()})
				continue
			}
			exists, err := s.repo.PhoneExists(ctx, eventID, guest.Phone, nil)
			if err != nil {
				return nil, err
			}
			if exists {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Reason: ErrGuestPhoneDuplicate.Error()})
				continue
			}
			seenPhones[guest.Phone] = true
		}
		toCreate = append(toCreate, guest)
	}

	if len(toCreate) == 0 && len(result.Errors) == 0 {
		return nil, ErrImportFileEmpty
	}

	if err := s.repo.CreateBatch(ctx, toCreate); err != nil {
		configslog.Log.Error("Toplu davetli aktarımı başarısız", zap.String("event_id", eventID.String()), zap.Error(err))
		return nil, ErrGuestCreationFailed
	}
	result.Created = len(toCreate)

	configslog.SLog.Infof("CSV içe aktarma tamamlandı: event=%s %d davetli, %d hata",
		eventID, result.Created, len(result.Errors))
	return result, nil
}

// ExportCSV etkinliğin davetli listesini CSV olarak yazar.
func (s *GuestService) ExportCSV(ctx context.Context, eventID uuid.UUID, w io.Writer) error {
	guests, err := s.repo.ListAllByEvent(ctx, eventID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"first_name", "last_name", "phone", "code", "men_count", "women_count"}); err != nil {
		return err
	}
	for _, g := range guests {
		code := ""
		if g.Code != nil {
			code = *g.Code
		}
		record := []string{
			g.FirstName, g.LastName, g.Phone, code,
			strconv.Itoa(g.MenCount), strconv.Itoa(g.WomenCount),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func fieldAt(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func intFieldAt(record []string, cols map[string]int, name string) int {
	raw := fieldAt(record, cols, name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var _ IGuestService = (*GuestService)(nil)
