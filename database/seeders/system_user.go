package seeders

import (
	"errors"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lcv.link/configs/configslog"
	"lcv.link/models"
)

// SeedSystemUser sistem (admin) kullanıcısını oluşturur ya da şifresini
// ortam değişkenindeki değere günceller. Kimlik bilgileri
// SYSTEM_USER_EMAIL / SYSTEM_USER_PASSWORD ile verilir.
func SeedSystemUser(db *gorm.DB) error {
	email := os.Getenv("SYSTEM_USER_EMAIL")
	password := os.Getenv("SYSTEM_USER_PASSWORD")
	if email == "" || password == "" {
		configslog.SLog.Warn("SYSTEM_USER_EMAIL/SYSTEM_USER_PASSWORD tanımlı değil, sistem kullanıcısı seed edilmiyor.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Sistem kullanıcısı şifresi hashlenemedi", zap.Error(err))
		return err
	}

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		configslog.SLog.Info("Sistem kullanıcısı mevcut, şifre ve bayrak güncelleniyor...")
		return db.Model(&existing).Updates(map[string]interface{}{
			"password_hash": string(hash),
			"is_system":     true,
		}).Error
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Sistem kullanıcısı kontrol edilirken veritabanı hatası", zap.Error(result.Error))
		return result.Error
	}

	configslog.SLog.Infof("Sistem kullanıcısı '%s' oluşturuluyor...", email)
	user := models.User{
		Name:         "Sistem",
		Email:        email,
		PasswordHash: string(hash),
		IsSystem:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("Sistem kullanıcısı oluşturulamadı", zap.Error(err))
		return err
	}
	return nil
}
