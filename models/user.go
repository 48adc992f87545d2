package models

// User panel'e giriş yapan organizatör hesabı.
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Email        string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	IsSystem     bool   `gorm:"default:false" json:"is_system"`

	Events []Event `gorm:"foreignKey:UserID" json:"-"`
}
