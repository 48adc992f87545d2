package configssession

import (
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
)

var store *session.Store

// SetupSession panel oturumları için session store'u oluşturur.
// Tek instance'lı kurulumda in-memory storage yeterlidir.
func SetupSession() *session.Store {
	if store != nil {
		return store
	}
	store = session.New(session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:lcv_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	return store
}
