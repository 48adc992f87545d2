package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LinkType paylaşılabilir link türü.
type LinkType string

const (
	LinkTypePersonal LinkType = "personal"
	LinkTypeOpen     LinkType = "open"
)

const (
	// LinkSlugOpen açık (herkese açık) linkin sabit slug'ı.
	LinkSlugOpen = "open"
	// LinkSlugNamePrefix isme dayalı personal linklerin slug öneki.
	// Slug'ın kalanı percent-encoded görüntüleme adıdır.
	LinkSlugNamePrefix = "name/"
)

// Link bir etkinliğe ait paylaşılabilir URL kaydı.
//
// Slug üzerinde unique constraint YOKTUR: isme dayalı linkler bilerek
// tekilleştirilmez, aynı slug ile birden fazla satır oluşabilir.
// Open link ise oluşturma sırasında servis katmanında tekilleştirilir.
type Link struct {
	BaseModel
	EventID uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`

	Type LinkType `gorm:"type:varchar(20);not null;index" json:"type"`
	Slug string   `gorm:"type:varchar(255);not null;index" json:"slug"`

	ExpiresAt *time.Time        `gorm:"type:timestamptz" json:"expires_at"`
	MaxUses   *int              `json:"max_uses"`
	Settings  datatypes.JSONMap `gorm:"type:jsonb" json:"settings"`
	UseCount  int               `gorm:"default:0" json:"use_count"`
}

// IsExpired linkin süresinin dolup dolmadığını söyler.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// IsExhausted kullanım limitinin aşılıp aşılmadığını söyler.
func (l *Link) IsExhausted() bool {
	return l.MaxUses != nil && l.UseCount >= *l.MaxUses
}
