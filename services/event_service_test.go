package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newEventServiceForTest() (IEventService, *fakeEventRepo) {
	repo := newFakeEventRepo()
	codeService := NewCodeServiceWithRepos(repo, newFakeGuestRepo(), newFakeShortURLRepo(), 5)
	return NewEventServiceWithRepos(repo, codeService), repo
}

func TestCreateEvent(t *testing.T) {
	svc, repo := newEventServiceForTest()
	userID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), userID, EventCreateInput{
		Title:    "  Ayşe & Mehmet  ",
		Location: "İstanbul",
		Theme:    map[string]interface{}{"primary": "#aa3355"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ayşe & Mehmet", event.Title)
	assert.Equal(t, "ayşe-mehmet", event.Slug)
	assert.Nil(t, event.Code) // kod oluşturma anında üretilmez

	stored, err := repo.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, "#aa3355", stored.Theme["primary"])
}

func TestCreateEventValidation(t *testing.T) {
	svc, _ := newEventServiceForTest()

	_, err := svc.CreateEvent(context.Background(), uuid.Nil, EventCreateInput{Title: "Düğün"})
	assert.ErrorIs(t, err, ErrEventInvalidInput)

	_, err = svc.CreateEvent(context.Background(), uuid.New(), EventCreateInput{Title: "   "})
	assert.ErrorIs(t, err, ErrEventTitleRequired)
}

func TestGetEventForUserOwnership(t *testing.T) {
	svc, _ := newEventServiceForTest()
	owner := uuid.New()
	stranger := uuid.New()

	event, err := svc.CreateEvent(context.Background(), owner, EventCreateInput{Title: "Düğün"})
	require.NoError(t, err)

	got, err := svc.GetEventForUser(context.Background(), event.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)

	_, err = svc.GetEventForUser(context.Background(), event.ID, stranger, false)
	assert.ErrorIs(t, err, ErrEventForbidden)

	// Sistem kullanıcısı sahiplik kontrolünü atlar.
	_, err = svc.GetEventForUser(context.Background(), event.ID, stranger, true)
	assert.NoError(t, err)

	_, err = svc.GetEventForUser(context.Background(), uuid.New(), owner, false)
	assert.ErrorIs(t, err, ErrEventNotFoundServ)
}

func TestUpdateEvent(t *testing.T) {
	svc, repo := newEventServiceForTest()
	event, err := svc.CreateEvent(context.Background(), uuid.New(), EventCreateInput{Title: "Düğün"})
	require.NoError(t, err)

	newTitle := "Nişan"
	newLocation := "Ankara"
	require.NoError(t, svc.UpdateEvent(context.Background(), event.ID, EventUpdateInput{
		Title: &newTitle, Location: &newLocation,
	}))

	stored, err := repo.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nişan", stored.Title)
	assert.Equal(t, "Ankara", stored.Location)
	assert.Equal(t, "düğün", stored.Slug) // slug güncellemede değişmez

	empty := " "
	assert.ErrorIs(t, svc.UpdateEvent(context.Background(), event.ID, EventUpdateInput{Title: &empty}), ErrEventTitleRequired)
	assert.ErrorIs(t, svc.UpdateEvent(context.Background(), event.ID, EventUpdateInput{}), ErrEventInvalidInput)
}

func TestDeleteEvent(t *testing.T) {
	svc, _ := newEventServiceForTest()
	event, err := svc.CreateEvent(context.Background(), uuid.New(), EventCreateInput{Title: "Düğün"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(context.Background(), event.ID))
	assert.ErrorIs(t, svc.DeleteEvent(context.Background(), event.ID), ErrEventNotFoundServ)
}

func TestEventEnsureCode(t *testing.T) {
	svc, _ := newEventServiceForTest()
	event, err := svc.CreateEvent(context.Background(), uuid.New(), EventCreateInput{Title: "Düğün"})
	require.NoError(t, err)

	code, err := svc.EnsureCode(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestSetDashboardCredentials(t *testing.T) {
	svc, repo := newEventServiceForTest()
	event, err := svc.CreateEvent(context.Background(), uuid.New(), EventCreateInput{Title: "Düğün"})
	require.NoError(t, err)

	require.NoError(t, svc.SetDashboardCredentials(context.Background(), event.ID, "ciftimiz", "gizli123", true))

	stored, err := repo.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.True(t, stored.DashboardEnabled)
	assert.Equal(t, "ciftimiz", stored.DashboardUsername)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.DashboardPasswordHash), []byte("gizli123")))

	// Kapatma kimlik bilgisi istemez.
	require.NoError(t, svc.SetDashboardCredentials(context.Background(), event.ID, "", "", false))
	stored, err = repo.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.False(t, stored.DashboardEnabled)

	assert.ErrorIs(t, svc.SetDashboardCredentials(context.Background(), event.ID, "", "sifre", true), ErrDashboardInputInvalid)
	assert.ErrorIs(t, svc.SetDashboardCredentials(context.Background(), event.ID, "kullanici", "", true), ErrDashboardInputInvalid)
}

func TestListEventsForUser(t *testing.T) {
	svc, _ := newEventServiceForTest()
	userID := uuid.New()

	for _, title := range []string{"Bir", "İki", "Üç"} {
		_, err := svc.CreateEvent(context.Background(), userID, EventCreateInput{Title: title})
		require.NoError(t, err)
	}
	_, err := svc.CreateEvent(context.Background(), uuid.New(), EventCreateInput{Title: "Başkasının"})
	require.NoError(t, err)

	result, err := svc.ListEventsForUser(context.Background(), userID, queryparamsFor(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Meta.TotalItems)
	assert.Equal(t, 2, result.Meta.TotalPages)
}
