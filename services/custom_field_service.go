package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/repositories"
)

// CustomFieldServiceError özel alan servis hataları.
type CustomFieldServiceError string

func (e CustomFieldServiceError) Error() string { return string(e) }

const (
	ErrFieldNotFound      CustomFieldServiceError = "özel alan bulunamadı"
	ErrFieldKeyRequired   CustomFieldServiceError = "alan anahtarı (key) zorunludur"
	ErrFieldKeyDuplicate  CustomFieldServiceError = "bu anahtar aynı form için zaten tanımlı"
	ErrFieldTypeInvalid   CustomFieldServiceError = "geçersiz alan tipi"
	ErrFieldLinkTypeWrong CustomFieldServiceError = "alan yalnızca open veya personal forma bağlanabilir"
	ErrFieldCreationFail  CustomFieldServiceError = "özel alan oluşturulamadı"
	ErrFieldUpdateFail    CustomFieldServiceError = "özel alan güncellenemedi"
)

// CustomFieldInput alan oluşturma/güncelleme girdisi.
type CustomFieldInput struct {
	LinkType  models.LinkType
	Key       string
	Label     string
	Labels    map[string]interface{}
	FieldType models.FieldType
	Options   []string
	Required  bool
	SortOrder int
}

// ICustomFieldService özel form alanı yönetimi için arayüz.
type ICustomFieldService interface {
	CreateField(ctx context.Context, eventID uuid.UUID, input CustomFieldInput) (*models.CustomFieldConfig, error)
	ListActiveFields(ctx context.Context, eventID uuid.UUID, linkType models.LinkType) ([]models.CustomFieldConfig, error)
	ListFields(ctx context.Context, eventID uuid.UUID) ([]models.CustomFieldConfig, error)
	UpdateField(ctx context.Context, id uuid.UUID, input CustomFieldInput) error
	DeactivateField(ctx context.Context, id uuid.UUID) error
}

type CustomFieldService struct {
	repo repositories.ICustomFieldRepository
}

func NewCustomFieldService() ICustomFieldService {
	return &CustomFieldService{repo: repositories.NewCustomFieldRepository()}
}

// NewCustomFieldServiceWithRepo testler için DI constructor'ı.
func NewCustomFieldServiceWithRepo(repo repositories.ICustomFieldRepository) ICustomFieldService {
	return &CustomFieldService{repo: repo}
}

func validateFieldInput(input *CustomFieldInput) error {
	input.Key = strings.TrimSpace(input.Key)
	if input.Key == "" {
		return ErrFieldKeyRequired
	}
	if input.LinkType != models.LinkTypeOpen && input.LinkType != models.LinkTypePersonal {
		return ErrFieldLinkTypeWrong
	}
	if input.FieldType == "" {
		input.FieldType = models.FieldTypeText
	}
	if !models.ValidFieldType(input.FieldType) {
		return ErrFieldTypeInvalid
	}
	return nil
}

// CreateField alan tanımı oluşturur. (event, link_type, key) aktif satırlar
// arasında benzersiz olmalıdır.
func (s *CustomFieldService) CreateField(ctx context.Context, eventID uuid.UUID, input CustomFieldInput) (*models.CustomFieldConfig, error) {
	if eventID == uuid.Nil {
		return nil, fmt.Errorf("%w: eventID eksik", ErrFieldCreationFail)
	}
	if err := validateFieldInput(&input); err != nil {
		return nil, err
	}

	exists, err := s.repo.KeyExistsActive(ctx, eventID, input.LinkType, input.Key, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFieldKeyDuplicate
	}

	field := &models.CustomFieldConfig{
		EventID:   eventID,
		LinkType:  input.LinkType,
		Key:       input.Key,
		Label:     strings.TrimSpace(input.Label),
		FieldType: input.FieldType,
		Required:  input.Required,
		SortOrder: input.SortOrder,
		Active:    true,
	}
	if input.Labels != nil {
		field.Labels = datatypes.JSONMap(input.Labels)
	}
	if len(input.Options) > 0 {
		field.Options = datatypes.NewJSONSlice(input.Options)
	}
	if field.Label == "" {
		field.Label = input.Key
	}

	if err := s.repo.Create(ctx, field); err != nil {
		configslog.Log.Error("Özel alan oluşturulamadı",
			zap.String("event_id", eventID.String()), zap.String("key", input.Key), zap.Error(err))
		return nil, ErrFieldCreationFail
	}
	return field, nil
}

// ListActiveFields formda gösterilecek alanları sıralı döndürür.
func (s *CustomFieldService) ListActiveFields(ctx context.Context, eventID uuid.UUID, linkType models.LinkType) ([]models.CustomFieldConfig, error) {
	return s.repo.ListActive(ctx, eventID, linkType)
}

func (s *CustomFieldService) ListFields(ctx context.Context, eventID uuid.UUID) ([]models.CustomFieldConfig, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *CustomFieldService) UpdateField(ctx context.Context, id uuid.UUID, input CustomFieldInput) error {
	field, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFieldNotFound
		}
		return err
	}
	if err := validateFieldInput(&input); err != nil {
		return err
	}

	if input.Key != field.Key || input.LinkType != field.LinkType {
		exists, err := s.repo.KeyExistsActive(ctx, field.EventID, input.LinkType, input.Key, &field.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrFieldKeyDuplicate
		}
	}

	data := map[string]interface{}{
		"link_type":  input.LinkType,
		"key":        input.Key,
		"label":      strings.TrimSpace(input.Label),
		"field_type": input.FieldType,
		"required":   input.Required,
		"sort_order": input.SortOrder,
	}
	if input.Labels != nil {
		data["labels"] = datatypes.JSONMap(input.Labels)
	}
	if input.Options != nil {
		data["options"] = datatypes.NewJSONSlice(input.Options)
	}

	if err := s.repo.Update(ctx, id, data); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFieldNotFound
		}
		configslog.Log.Error("Özel alan güncellenemedi", zap.String("field_id", id.String()), zap.Error(err))
		return ErrFieldUpdateFail
	}
	return nil
}

// DeactivateField alanı pasifler; geçmiş submission cevapları saklandığı
// için satır silinmez, yalnızca formdan düşer.
func (s *CustomFieldService) DeactivateField(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Update(ctx, id, map[string]interface{}{"active": false}); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFieldNotFound
		}
		return ErrFieldUpdateFail
	}
	return nil
}

var _ ICustomFieldService = (*CustomFieldService)(nil)
