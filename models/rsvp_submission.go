package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RSVPSubmission tek bir katılım yanıtı.
//
// Aynı davetli birden fazla submission oluşturabilir; tekillik kısıtı
// bilinçli olarak yoktur. Toplamlar tüm satırların üzerinden toplanır.
type RSVPSubmission struct {
	BaseModel
	EventID uuid.UUID  `gorm:"type:uuid;not null;index:idx_submissions_event" json:"event_id"`
	GuestID *uuid.UUID `gorm:"type:uuid;index:idx_submissions_guest" json:"guest_id"`
	LinkID  *uuid.UUID `gorm:"type:uuid;index" json:"link_id"`

	FirstName string `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name"`

	MenCount   int `gorm:"not null;default:0" json:"men_count"`
	WomenCount int `gorm:"not null;default:0" json:"women_count"`

	// Answers CustomFieldConfig key'leriyle eşleşen serbest cevap haritası.
	// Bilinmeyen key'ler saklanır, temizlenmez.
	Answers datatypes.JSONMap `gorm:"type:jsonb" json:"answers"`

	SubmittedAt time.Time `gorm:"type:timestamptz;not null;index" json:"submitted_at"`
}

// FullName yanıt verenin görüntüleme adını döndürür.
func (s *RSVPSubmission) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}

// TotalCount bu yanıttaki toplam kişi sayısı.
func (s *RSVPSubmission) TotalCount() int {
	return s.MenCount + s.WomenCount
}
