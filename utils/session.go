package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	sessionKeyUserID   = "user_id"
	sessionKeyUserName = "user_name"
	sessionKeyIsSystem = "is_system"
)

// SessionStart locals'a konmuş store üzerinden oturumu açar.
func SessionStart(c *fiber.Ctx) (*session.Session, error) {
	store, ok := c.Locals("session_store").(*session.Store)
	if !ok || store == nil {
		return nil, errors.New("session store bulunamadı")
	}
	return store.Get(c)
}

// SetUserSession login sonrası oturum alanlarını yazar.
func SetUserSession(sess *session.Session, userID uuid.UUID, userName string, isSystem bool) error {
	sess.Set(sessionKeyUserID, userID.String())
	sess.Set(sessionKeyUserName, userName)
	sess.Set(sessionKeyIsSystem, isSystem)
	return sess.Save()
}

// GetUserIDFromSession oturumdaki kullanıcı ID'sini döndürür.
func GetUserIDFromSession(sess *session.Session) (uuid.UUID, error) {
	raw, ok := sess.Get(sessionKeyUserID).(string)
	if !ok || raw == "" {
		return uuid.Nil, errors.New("oturumda kullanıcı yok")
	}
	return uuid.Parse(raw)
}

// GetIsSystemFromSession oturumdaki sistem-kullanıcısı bayrağını döndürür.
func GetIsSystemFromSession(sess *session.Session) (bool, error) {
	isSystem, ok := sess.Get(sessionKeyIsSystem).(bool)
	if !ok {
		return false, errors.New("oturumda is_system yok")
	}
	return isSystem, nil
}

// GetUserNameFromSession oturumdaki görüntüleme adını döndürür.
func GetUserNameFromSession(sess *session.Session) (string, bool) {
	name, ok := sess.Get(sessionKeyUserName).(string)
	return name, ok
}

// DestroySession oturumu sonlandırır.
func DestroySession(sess *session.Session) error {
	return sess.Destroy()
}
