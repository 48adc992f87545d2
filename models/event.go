package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event tüm diğer kayıtların kökü olan tek bir etkinlik (düğün, nişan vb.).
type Event struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	EventDate   *time.Time `gorm:"type:timestamptz;index" json:"event_date"`
	Location    string     `gorm:"type:varchar(255)" json:"location"`

	// Code kısa paylaşım kodu. Oluşturma anında değil, ihtiyaç halinde
	// (lazily) üretilir; o yüzden nullable. Benzersizliği index garanti eder.
	Code *string `gorm:"type:varchar(10);uniqueIndex" json:"code"`
	// Slug başlıktan türetilir, globalde benzersizdir.
	Slug string `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`

	// Theme renkler vb. serbest JSON blob'u; Settings etkinlik bazlı
	// özellik bayrakları (örn. accordion_form).
	Theme    datatypes.JSONMap `gorm:"type:jsonb" json:"theme"`
	Settings datatypes.JSONMap `gorm:"type:jsonb" json:"settings"`

	// Client dashboard erişimi (salt-okunur istatistik ekranı).
	DashboardUsername     string `gorm:"type:varchar(100)" json:"dashboard_username"`
	DashboardPasswordHash string `gorm:"type:varchar(255)" json:"-"`
	DashboardEnabled      bool   `gorm:"default:false" json:"dashboard_enabled"`

	// İlişkiler — Event silinince hepsi kaskad silinir.
	Guests       []Guest             `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Links        []Link              `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	CustomFields []CustomFieldConfig `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Submissions  []RSVPSubmission    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Languages    []EventLanguage     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// CodeOrID link üretiminde kullanılacak public event token'ını döndürür:
// kısa kod varsa kod, yoksa ham UUID.
func (e *Event) CodeOrID() string {
	if e.Code != nil && *e.Code != "" {
		return *e.Code
	}
	return e.ID.String()
}
