package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lcv.link/models"
)

func newUserServiceForTest(ttl time.Duration) (IUserService, *fakeUserRepo, *fakeEventRepo) {
	userRepo := newFakeUserRepo()
	eventRepo := newFakeEventRepo()
	return NewUserServiceWithRepos(userRepo, eventRepo, "test-secret", ttl), userRepo, eventRepo
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _, _ := newUserServiceForTest(time.Hour)

	user, err := svc.Register(context.Background(), " Ayşe ", " AYSE@Example.COM ", "gizli123")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", user.Name)
	assert.Equal(t, "ayse@example.com", user.Email) // normalize edilir
	assert.NotEqual(t, "gizli123", user.PasswordHash)

	got, err := svc.Authenticate(context.Background(), "ayse@example.com", "gizli123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "ayse@example.com", "yanlis")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(context.Background(), "yok@example.com", "gizli123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newUserServiceForTest(time.Hour)

	_, err := svc.Register(context.Background(), "Ali", "ali@example.com", "123")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(context.Background(), "Ali", "ali@example.com", "gizli123")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "Veli", "ALI@example.com", "gizli123")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdatePassword(t *testing.T) {
	svc, _, _ := newUserServiceForTest(time.Hour)
	user, err := svc.Register(context.Background(), "Ali", "ali@example.com", "eski123")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdatePassword(context.Background(), user.ID, "yanlis", "yeni123"), ErrInvalidCredentials)
	assert.ErrorIs(t, svc.UpdatePassword(context.Background(), user.ID, "eski123", "kisa"), ErrPasswordTooShort)

	require.NoError(t, svc.UpdatePassword(context.Background(), user.ID, "eski123", "yeni123"))
	_, err = svc.Authenticate(context.Background(), "ali@example.com", "yeni123")
	assert.NoError(t, err)
}

func seedDashboardEvent(t *testing.T, repo *fakeEventRepo, username, password string, enabled bool) *models.Event {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	event := &models.Event{
		UserID:                uuid.New(),
		Title:                 "Düğün",
		Slug:                  "dugun-" + uuid.NewString()[:8],
		DashboardUsername:     username,
		DashboardPasswordHash: string(hash),
		DashboardEnabled:      enabled,
	}
	require.NoError(t, repo.Create(context.Background(), event))
	return event
}

func TestClientLoginIssuesEventBoundToken(t *testing.T) {
	svc, _, eventRepo := newUserServiceForTest(time.Hour)
	event := seedDashboardEvent(t, eventRepo, "ciftimiz", "gizli123", true)

	token, got, err := svc.ClientLogin(context.Background(), "ciftimiz", "gizli123")
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)

	eventID, err := svc.ParseClientToken(token)
	require.NoError(t, err)
	assert.Equal(t, event.ID, eventID)
}

func TestClientLoginFailures(t *testing.T) {
	svc, _, eventRepo := newUserServiceForTest(time.Hour)
	seedDashboardEvent(t, eventRepo, "ciftimiz", "gizli123", true)
	seedDashboardEvent(t, eventRepo, "kapali", "gizli123", false)

	_, _, err := svc.ClientLogin(context.Background(), "ciftimiz", "yanlis")
	assert.ErrorIs(t, err, ErrClientLoginFailed)

	_, _, err = svc.ClientLogin(context.Background(), "bilinmeyen", "gizli123")
	assert.ErrorIs(t, err, ErrClientLoginFailed)

	// Giriş kapalıysa doğru şifre bile yetmez.
	_, _, err = svc.ClientLogin(context.Background(), "kapali", "gizli123")
	assert.ErrorIs(t, err, ErrClientLoginUnavailable)
}

func TestParseClientTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newUserServiceForTest(time.Hour)
	_, err := svc.ParseClientToken("bozuk.token.degeri")
	assert.ErrorIs(t, err, ErrClientTokenInvalid)
}

func TestParseClientTokenRejectsExpired(t *testing.T) {
	// Negatif TTL ile üretilen token anında süresi dolmuş olur.
	expiredSvc, _, eventRepo := newUserServiceForTest(-time.Minute)
	seedDashboardEvent(t, eventRepo, "ciftimiz", "gizli123", true)

	token, _, err := expiredSvc.ClientLogin(context.Background(), "ciftimiz", "gizli123")
	require.NoError(t, err)
	_, err = expiredSvc.ParseClientToken(token)
	assert.ErrorIs(t, err, ErrClientTokenInvalid)
}

func TestParseClientTokenRejectsForeignSecret(t *testing.T) {
	svc, _, _ := newUserServiceForTest(time.Hour)

	foreignEvents := newFakeEventRepo()
	foreignSvc := NewUserServiceWithRepos(newFakeUserRepo(), foreignEvents, "baska-secret", time.Hour)
	seedDashboardEvent(t, foreignEvents, "yabanci", "gizli123", true)

	token, _, err := foreignSvc.ClientLogin(context.Background(), "yabanci", "gizli123")
	require.NoError(t, err)
	_, err = svc.ParseClientToken(token)
	assert.ErrorIs(t, err, ErrClientTokenInvalid)
}

func TestGetUserNotFound(t *testing.T) {
	svc, _, _ := newUserServiceForTest(time.Hour)
	_, err := svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
