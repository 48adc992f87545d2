package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcv.link/models"
)

type linkFixture struct {
	eventRepo *fakeEventRepo
	guestRepo *fakeGuestRepo
	linkRepo  *fakeLinkRepo
	svc       ILinkService
}

func newLinkFixture() *linkFixture {
	eventRepo := newFakeEventRepo()
	guestRepo := newFakeGuestRepo()
	linkRepo := newFakeLinkRepo()
	codeService := NewCodeServiceWithRepos(eventRepo, guestRepo, newFakeShortURLRepo(), 5)
	return &linkFixture{
		eventRepo: eventRepo,
		guestRepo: guestRepo,
		linkRepo:  linkRepo,
		svc:       NewLinkServiceWithRepos(linkRepo, eventRepo, guestRepo, codeService, "https://lcv.link/"),
	}
}

func TestCreateOpenLinkReusesExistingRow(t *testing.T) {
	f := newLinkFixture()
	event := seedEvent(t, f.eventRepo)

	first, err := f.svc.CreateOpenLink(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LinkTypeOpen, first.Type)
	assert.Equal(t, models.LinkSlugOpen, first.Slug)

	second, err := f.svc.CreateOpenLink(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	links, err := f.linkRepo.ListByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestCreateNameLinkDoesNotDeduplicate(t *testing.T) {
	f := newLinkFixture()
	event := seedEvent(t, f.eventRepo)

	first, err := f.svc.CreateNameLink(context.Background(), event.ID, "Ayşe Yılmaz")
	require.NoError(t, err)
	assert.Equal(t, models.LinkTypePersonal, first.Type)
	assert.Equal(t, models.LinkSlugNamePrefix+"Ay%C5%9Fe%20Y%C4%B1lmaz", first.Slug)

	second, err := f.svc.CreateNameLink(context.Background(), event.ID, "Ayşe Yılmaz")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Slug, second.Slug) // aynı slug, iki ayrı satır

	links, err := f.linkRepo.ListByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestCreateNameLinkRequiresName(t *testing.T) {
	f := newLinkFixture()
	event := seedEvent(t, f.eventRepo)

	_, err := f.svc.CreateNameLink(context.Background(), event.ID, "   ")
	assert.ErrorIs(t, err, ErrLinkNameRequired)
}

func TestCreateNumberedLinks(t *testing.T) {
	f := newLinkFixture()
	event := seedEvent(t, f.eventRepo)

	links, err := f.svc.CreateNumberedLinks(context.Background(), event.ID, 3)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "001", links[0].Slug)
	assert.Equal(t, "002", links[1].Slug)
	assert.Equal(t, "003", links[2].Slug)
	for _, link := range links {
		assert.Equal(t, models.LinkTypePersonal, link.Type)
	}
}

func TestCreateNumberedLinksInvalidCount(t *testing.T) {
	f := newLinkFixture()
	event := seedEvent(t, f.eventRepo)

	_, err := f.svc.CreateNumberedLinks(context.Background(), event.ID, 0)
	assert.ErrorIs(t, err, ErrLinkInvalidInput)
}

func TestCreatePersonalLinkUsesGuestCode(t *testing.T) {
	f := newLinkFixture()
	event := seedEvent(t, f.eventRepo)
	guest := seedGuest(t, f.guestRepo, event.ID, "0501234567")

	link, err := f.svc.CreatePersonalLink(context.Background(), event.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LinkTypePersonal, link.Type)

	// Slug davetlinin (gerekirse burada üretilen) kısa kodudur.
	stored, err := f.guestRepo.FindByID(context.Background(), guest.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Code)
	assert.Equal(t, *stored.Code, link.Slug)
}

func TestCreatePersonalLinkRejectsForeignGuest(t *testing.T) {
	f := newLinkFixture()
	eventA := seedEvent(t, f.eventRepo)
	eventB := seedEvent(t, f.eventRepo)
	guest := seedGuest(t, f.guestRepo, eventA.ID, "0501234567")

	_, err := f.svc.CreatePersonalLink(context.Background(), eventB.ID, guest.ID)
	assert.ErrorIs(t, err, ErrLinkInvalidInput)
}

func TestBuildPublicURL(t *testing.T) {
	f := newLinkFixture()

	code := "abc234"
	withCode := &models.Event{Title: "Düğün", Code: &code}
	assert.Equal(t, "https://lcv.link/rsvp/abc234/open", f.svc.BuildPublicURL(withCode, "open"))

	withoutCode := &models.Event{Title: "Düğün"}
	withoutCode.ID = uuid.New()
	assert.Equal(t, "https://lcv.link/rsvp/"+withoutCode.ID.String()+"/001", f.svc.BuildPublicURL(withoutCode, "001"))
}

func TestListByEventIncludesPublicURLs(t *testing.T) {
	f := newLinkFixture()
	event := seedEvent(t, f.eventRepo)
	_, err := f.svc.CreateOpenLink(context.Background(), event.ID)
	require.NoError(t, err)

	links, err := f.svc.ListByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Contains(t, links[0].PublicURL, "/rsvp/")
	assert.Contains(t, links[0].PublicURL, "/open")
}

func TestUpdateLink(t *testing.T) {
	f := newLinkFixture()
	event := seedEvent(t, f.eventRepo)
	link, err := f.svc.CreateOpenLink(context.Background(), event.ID)
	require.NoError(t, err)

	expires := time.Now().UTC().Add(24 * time.Hour)
	maxUses := 50
	err = f.svc.UpdateLink(context.Background(), link.ID, LinkUpdateInput{ExpiresAt: &expires, MaxUses: &maxUses})
	require.NoError(t, err)

	stored, err := f.linkRepo.FindByID(context.Background(), link.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ExpiresAt)
	require.NotNil(t, stored.MaxUses)
	assert.Equal(t, 50, *stored.MaxUses)
}

func TestUpdateLinkNoFields(t *testing.T) {
	f := newLinkFixture()
	err := f.svc.UpdateLink(context.Background(), uuid.New(), LinkUpdateInput{})
	assert.ErrorIs(t, err, ErrLinkInvalidInput)
}

func TestDeleteLink(t *testing.T) {
	f := newLinkFixture()
	event := seedEvent(t, f.eventRepo)
	link, err := f.svc.CreateOpenLink(context.Background(), event.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteLink(context.Background(), link.ID))

	_, err = f.svc.GetLinkByID(context.Background(), link.ID)
	assert.ErrorIs(t, err, ErrLinkNotFound)

	assert.ErrorIs(t, f.svc.DeleteLink(context.Background(), link.ID), ErrLinkNotFound)
}
