package models

import (
	"strings"

	"github.com/google/uuid"
)

// Guest tek bir etkinliğe bağlı, önceden kayıtlı davetli.
// Telefon numarası etkinlik içinde doğal anahtar olarak kullanılır.
type Guest struct {
	BaseModel
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_guests_event;uniqueIndex:idx_guests_event_code" json:"event_id"`

	FirstName string `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name"`

	// Phone normalize edilmiş haliyle saklanır (bkz. utils.NormalizePhone).
	Phone string `gorm:"type:varchar(20);index:idx_guests_event_phone" json:"phone"`

	// Code etkinlik içinde benzersiz kısa kod; lazily üretilir.
	Code *string `gorm:"type:varchar(10);uniqueIndex:idx_guests_event_code" json:"code"`

	// Organizatörün elle girdiği beklenen kişi sayıları.
	// Submission'lardan TÜRETİLMEZ; bağımsız düzenlenen alanlardır.
	MenCount   int `gorm:"default:0" json:"men_count"`
	WomenCount int `gorm:"default:0" json:"women_count"`
}

// FullName görüntüleme adını döndürür.
func (g *Guest) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(g.FirstName) + " " + strings.TrimSpace(g.LastName))
}
