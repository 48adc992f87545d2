package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lcv.link/models"
)

func newCodeServiceForTest(eventRepo *fakeEventRepo, guestRepo *fakeGuestRepo) ICodeService {
	return NewCodeServiceWithRepos(eventRepo, guestRepo, newFakeShortURLRepo(), 5)
}

func seedEvent(t *testing.T, repo *fakeEventRepo) *models.Event {
	t.Helper()
	event := &models.Event{UserID: uuid.New(), Title: "Düğün", Slug: "dugun-" + uuid.NewString()[:8]}
	require.NoError(t, repo.Create(context.Background(), event))
	return event
}

func seedGuest(t *testing.T, repo *fakeGuestRepo, eventID uuid.UUID, phone string) *models.Guest {
	t.Helper()
	guest := &models.Guest{EventID: eventID, FirstName: "Ayşe", LastName: "Yılmaz", Phone: phone}
	require.NoError(t, repo.Create(context.Background(), guest))
	return guest
}

func assertValidCode(t *testing.T, code string, length int) {
	t.Helper()
	assert.Len(t, code, length)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(codeAlphabet, r), "alfabede olmayan karakter: %c", r)
	}
}

func TestEnsureEventCodeGeneratesAndPersists(t *testing.T) {
	eventRepo := newFakeEventRepo()
	svc := newCodeServiceForTest(eventRepo, newFakeGuestRepo())
	event := seedEvent(t, eventRepo)

	code, err := svc.EnsureEventCode(context.Background(), event.ID)
	require.NoError(t, err)
	assertValidCode(t, code, 6)

	stored, err := eventRepo.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Code)
	assert.Equal(t, code, *stored.Code)
}

func TestEnsureEventCodeIsIdempotent(t *testing.T) {
	eventRepo := newFakeEventRepo()
	svc := newCodeServiceForTest(eventRepo, newFakeGuestRepo())
	event := seedEvent(t, eventRepo)

	first, err := svc.EnsureEventCode(context.Background(), event.ID)
	require.NoError(t, err)
	second, err := svc.EnsureEventCode(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureEventCodeUnknownEvent(t *testing.T) {
	svc := newCodeServiceForTest(newFakeEventRepo(), newFakeGuestRepo())
	_, err := svc.EnsureEventCode(context.Background(), uuid.New())
	assert.Error(t, err)
}

// duplicateOnceEventRepo ilk SetCodeIfEmpty çağrısında unique ihlali üretir:
// kod tam UPDATE anında bir rakibe verilmiş gibi davranır.
type duplicateOnceEventRepo struct {
	*fakeEventRepo
	failed bool
}

func (r *duplicateOnceEventRepo) SetCodeIfEmpty(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	if !r.failed {
		r.failed = true
		return false, gorm.ErrDuplicatedKey
	}
	return r.fakeEventRepo.SetCodeIfEmpty(ctx, id, code)
}

func TestEnsureEventCodeRetriesOnDuplicate(t *testing.T) {
	inner := newFakeEventRepo()
	repo := &duplicateOnceEventRepo{fakeEventRepo: inner}
	svc := NewCodeServiceWithRepos(repo, newFakeGuestRepo(), newFakeShortURLRepo(), 5)
	event := seedEvent(t, inner)

	code, err := svc.EnsureEventCode(context.Background(), event.ID)
	require.NoError(t, err)
	assertValidCode(t, code, 6)
	assert.True(t, repo.failed)
}

// rivalWritesEventRepo etkisiz UPDATE senaryosunu taklit eder: SetCodeIfEmpty
// false döner çünkü kod bu arada eşzamanlı bir çağrı tarafından yazılmıştır.
// Servis yeniden okuyup rakibin kodunu döndürmelidir.
type rivalWritesEventRepo struct {
	*fakeEventRepo
	rivalCode string
}

func (r *rivalWritesEventRepo) SetCodeIfEmpty(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	if event, ok := r.events[id]; ok && (event.Code == nil || *event.Code == "") {
		event.Code = &r.rivalCode
	}
	return false, nil
}

func TestEnsureEventCodeReadsRivalWrite(t *testing.T) {
	inner := newFakeEventRepo()
	repo := &rivalWritesEventRepo{fakeEventRepo: inner, rivalCode: "rakip7"}
	svc := NewCodeServiceWithRepos(repo, newFakeGuestRepo(), newFakeShortURLRepo(), 5)
	event := seedEvent(t, inner)

	code, err := svc.EnsureEventCode(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "rakip7", code)
}

func TestEnsureGuestCodeGeneratesAndIsIdempotent(t *testing.T) {
	eventRepo := newFakeEventRepo()
	guestRepo := newFakeGuestRepo()
	svc := newCodeServiceForTest(eventRepo, guestRepo)
	event := seedEvent(t, eventRepo)
	guest := seedGuest(t, guestRepo, event.ID, "0501234567")

	first, err := svc.EnsureGuestCode(context.Background(), guest.ID)
	require.NoError(t, err)
	assertValidCode(t, first, 6)

	second, err := svc.EnsureGuestCode(context.Background(), guest.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateEventSlug(t *testing.T) {
	eventRepo := newFakeEventRepo()
	svc := newCodeServiceForTest(eventRepo, newFakeGuestRepo())

	slug, err := svc.GenerateEventSlug(context.Background(), "Ayşe & Mehmet Düğünü")
	require.NoError(t, err)
	assert.Equal(t, "ayşe-mehmet-düğünü", slug)
}

func TestGenerateEventSlugAppendsSuffixOnCollision(t *testing.T) {
	eventRepo := newFakeEventRepo()
	svc := newCodeServiceForTest(eventRepo, newFakeGuestRepo())

	taken := &models.Event{UserID: uuid.New(), Title: "Düğün", Slug: "dugun"}
	require.NoError(t, eventRepo.Create(context.Background(), taken))

	slug, err := svc.GenerateEventSlug(context.Background(), "Dugun")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(slug, "dugun-"), "beklenmeyen slug: %s", slug)
	assert.Len(t, slug, len("dugun-")+slugSuffixLength)
}

func TestGenerateEventSlugEmptyTitle(t *testing.T) {
	svc := newCodeServiceForTest(newFakeEventRepo(), newFakeGuestRepo())
	slug, err := svc.GenerateEventSlug(context.Background(), "!!!")
	require.NoError(t, err)
	assert.NotEmpty(t, slug)
}

func TestGenerateShortURLSlug(t *testing.T) {
	svc := newCodeServiceForTest(newFakeEventRepo(), newFakeGuestRepo())
	slug, err := svc.GenerateShortURLSlug(context.Background())
	require.NoError(t, err)
	assertValidCode(t, slug, shortURLSlugLength)
}

func TestBackfillMissingCodes(t *testing.T) {
	eventRepo := newFakeEventRepo()
	guestRepo := newFakeGuestRepo()
	svc := newCodeServiceForTest(eventRepo, guestRepo)

	withCode := seedEvent(t, eventRepo)
	_, err := svc.EnsureEventCode(context.Background(), withCode.ID)
	require.NoError(t, err)

	missing := seedEvent(t, eventRepo)
	guest := seedGuest(t, guestRepo, missing.ID, "0501234567")

	processed, err := svc.BackfillMissingCodes(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 2, processed) // kodsuz bir etkinlik + kodsuz bir davetli

	refreshedEvent, err := eventRepo.FindByID(context.Background(), missing.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshedEvent.Code)

	refreshedGuest, err := guestRepo.FindByID(context.Background(), guest.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshedGuest.Code)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ayşe & Mehmet", "ayşe-mehmet"},
		{"  Hello   World  ", "hello-world"},
		{"---", ""},
		{"Düğün 2026!", "düğün-2026"},
		{"a--b", "a-b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "girdi: %q", tt.in)
	}
}
