package models

import (
	"context"

	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type contextKey string

// ContextUserIDKey işlemi yapan kullanıcının ID'sini context üzerinden
// model hook'larına taşır.
const ContextUserIDKey contextKey = "user_id"

// BaseModel tüm tablolara gömülen ortak alanlar.
// Birincil anahtar UUID'dir: public URL'lerdeki literal-ID fallback'i
// kısa kod üretilmemiş kayıtlara da erişim gerektirir.
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid" json:"-"`
	UpdatedBy *uuid.UUID     `gorm:"type:uuid" json:"-"`
}

// BeforeCreate UUID atar ve context'te varsa CreatedBy'ı doldurur.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if userID, ok := userIDFromContext(tx.Statement.Context); ok {
		m.CreatedBy = &userID
	}
	return nil
}

// BeforeUpdate context'te varsa UpdatedBy'ı doldurur.
func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if userID, ok := userIDFromContext(tx.Statement.Context); ok {
		m.UpdatedBy = &userID
	}
	return nil
}

func userIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	userID, ok := ctx.Value(ContextUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
