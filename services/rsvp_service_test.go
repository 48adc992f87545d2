package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcv.link/models"
	"lcv.link/pkg/queryparams"
)

func TestSubmitStoresSubmission(t *testing.T) {
	repo := newFakeRSVPRepo()
	svc := NewRSVPServiceWithRepo(repo)
	eventID := uuid.New()

	id, err := svc.Submit(context.Background(), SubmitInput{
		EventID:    eventID,
		FirstName:  "  Ayşe ",
		LastName:   " Yılmaz ",
		MenCount:   2,
		WomenCount: 1,
		Answers:    map[string]interface{}{"table": "5", "note": "geç kalabiliriz"},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	stored, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", stored.FirstName)
	assert.Equal(t, "Yılmaz", stored.LastName)
	assert.Equal(t, 2, stored.MenCount)
	assert.Equal(t, "5", stored.Answers["table"])
	assert.False(t, stored.SubmittedAt.IsZero())
}

func TestSubmitRejectsNegativeCounts(t *testing.T) {
	svc := NewRSVPServiceWithRepo(newFakeRSVPRepo())

	_, err := svc.Submit(context.Background(), SubmitInput{EventID: uuid.New(), MenCount: -1})
	assert.ErrorIs(t, err, ErrRSVPNegativeCount)

	_, err = svc.Submit(context.Background(), SubmitInput{EventID: uuid.New(), WomenCount: -3})
	assert.ErrorIs(t, err, ErrRSVPNegativeCount)
}

func TestSubmitRequiresEvent(t *testing.T) {
	svc := NewRSVPServiceWithRepo(newFakeRSVPRepo())
	_, err := svc.Submit(context.Background(), SubmitInput{})
	assert.ErrorIs(t, err, ErrRSVPInvalidInput)
}

func TestSubmitZeroCountsAllowed(t *testing.T) {
	// (0, 0) "gelmiyoruz" yanıtıdır; geçerli kabul edilir.
	svc := NewRSVPServiceWithRepo(newFakeRSVPRepo())
	_, err := svc.Submit(context.Background(), SubmitInput{EventID: uuid.New(), FirstName: "Ali"})
	assert.NoError(t, err)
}

// Aynı davetlinin ikinci yanıtı öncekini ezmez; toplamlar iki yanıtın
// birikimidir.
func TestGuestTotalsAccumulate(t *testing.T) {
	repo := newFakeRSVPRepo()
	svc := NewRSVPServiceWithRepo(repo)
	eventID := uuid.New()
	guestID := uuid.New()

	_, err := svc.Submit(context.Background(), SubmitInput{EventID: eventID, GuestID: &guestID, MenCount: 2, WomenCount: 1})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), SubmitInput{EventID: eventID, GuestID: &guestID, MenCount: 1, WomenCount: 0})
	require.NoError(t, err)

	totals, err := svc.GuestTotals(context.Background(), eventID, guestID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.MenTotal)
	assert.Equal(t, int64(1), totals.WomenTotal)
	assert.Equal(t, int64(2), totals.SubmissionCount)
	assert.Equal(t, int64(4), totals.Total())
}

func TestEventTotalsSpanAllSubmissions(t *testing.T) {
	repo := newFakeRSVPRepo()
	svc := NewRSVPServiceWithRepo(repo)
	eventID := uuid.New()
	otherEventID := uuid.New()
	guestID := uuid.New()

	_, err := svc.Submit(context.Background(), SubmitInput{EventID: eventID, GuestID: &guestID, MenCount: 2, WomenCount: 1})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), SubmitInput{EventID: eventID, FirstName: "Anonim", MenCount: 1, WomenCount: 2})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), SubmitInput{EventID: otherEventID, MenCount: 9, WomenCount: 9})
	require.NoError(t, err)

	totals, err := svc.EventTotals(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.MenTotal)
	assert.Equal(t, int64(3), totals.WomenTotal)
	assert.Equal(t, int64(2), totals.SubmissionCount)
}

func TestListByEventPaginates(t *testing.T) {
	repo := newFakeRSVPRepo()
	svc := NewRSVPServiceWithRepo(repo)
	eventID := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := svc.Submit(context.Background(), SubmitInput{EventID: eventID, MenCount: 1})
		require.NoError(t, err)
	}

	params := queryparams.ListParams{Page: 1, PerPage: 2}
	result, err := svc.ListByEvent(context.Background(), eventID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Meta.TotalItems)
	assert.Equal(t, 3, result.Meta.TotalPages)

	items, ok := result.Data.([]models.RSVPSubmission)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestDeleteSubmission(t *testing.T) {
	repo := newFakeRSVPRepo()
	svc := NewRSVPServiceWithRepo(repo)
	eventID := uuid.New()

	id, err := svc.Submit(context.Background(), SubmitInput{EventID: eventID, MenCount: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubmission(context.Background(), id))
	assert.ErrorIs(t, svc.DeleteSubmission(context.Background(), id), ErrRSVPNotFound)

	totals, err := svc.EventTotals(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.SubmissionCount)
}
