package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FieldType özel form alanının giriş tipi.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeEmail    FieldType = "email"
)

// ValidFieldType bilinen alan tiplerini doğrular.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeSelect,
		FieldTypeCheckbox, FieldTypeTextarea, FieldTypeEmail:
		return true
	}
	return false
}

// CustomFieldConfig organizatörün RSVP formuna eklediği ekstra alan tanımı.
// Bir etkinliğin "open" ve "personal" formları ayrı alan setleri taşır.
//
// (event_id, link_type, key) yalnızca AKTİF satırlar arasında benzersizdir;
// bu kısmi index migration'da elle oluşturulur (GORM tag'i where desteklemez).
type CustomFieldConfig struct {
	BaseModel
	EventID  uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	LinkType LinkType  `gorm:"type:varchar(20);not null" json:"link_type"`

	Key   string `gorm:"type:varchar(100);not null" json:"key"`
	Label string `gorm:"type:varchar(255);not null" json:"label"`
	// Labels locale→etiket çevirileri (örn. {"en": "Notes"}).
	Labels datatypes.JSONMap `gorm:"type:jsonb" json:"labels"`

	FieldType FieldType `gorm:"type:varchar(20);not null;default:'text'" json:"field_type"`
	// Options select tipi için seçenek listesi.
	Options  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"options"`
	Required bool                        `gorm:"default:false" json:"required"`

	SortOrder int  `gorm:"default:0" json:"sort_order"`
	Active    bool `gorm:"default:true;index" json:"active"`
}
