package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound repository katmanının ortak "kayıt yok" hatası.
// Servisler gorm.ErrRecordNotFound yerine bunu görür.
var ErrNotFound = errors.New("kayıt bulunamadı")

type txKeyType string

// TxContextKey context üzerinden aktif transaction taşımak için kullanılır.
const TxContextKey txKeyType = "tx"

// WithTx verilen context'e transaction'ı iliştirir; repo'lar bu context ile
// çağrıldığında ana bağlantı yerine transaction'ı kullanır.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, TxContextKey, tx)
}

// getDB context'te transaction varsa onu, yoksa ana bağlantıyı döndürür.
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// translateNotFound gorm.ErrRecordNotFound'u ErrNotFound'a çevirir.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
