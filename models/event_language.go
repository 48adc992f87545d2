package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventLanguage bir etkinliğin desteklediği dil ve o dile özel metin
// override'ları. Translations boş olabilir; o zaman yerleşik varsayılan
// metinler kullanılır (bkz. services.LanguageService).
type EventLanguage struct {
	BaseModel
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_languages_event_locale" json:"event_id"`

	Locale    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_event_languages_event_locale" json:"locale"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`

	// Translations key→metin; varsayılan UI metinlerini etkinlik bazında ezer.
	Translations datatypes.JSONMap `gorm:"type:jsonb" json:"translations"`
}
