package models

// ShortURL slug → hedef URL yönlendirme kaydı.
// Event/Guest modelinden bağımsız, genel amaçlı kısaltıcı.
type ShortURL struct {
	BaseModel
	Slug      string `gorm:"type:varchar(30);uniqueIndex;not null" json:"slug"`
	TargetURL string `gorm:"type:text;not null" json:"target_url"`

	ClickCount int  `gorm:"default:0" json:"click_count"`
	IsActive   bool `gorm:"default:true;index" json:"is_active"`
}
