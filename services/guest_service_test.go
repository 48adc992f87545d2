package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guestFixture struct {
	eventRepo *fakeEventRepo
	guestRepo *fakeGuestRepo
	svc       IGuestService
}

func newGuestFixture() *guestFixture {
	eventRepo := newFakeEventRepo()
	guestRepo := newFakeGuestRepo()
	codeService := NewCodeServiceWithRepos(eventRepo, guestRepo, newFakeShortURLRepo(), 5)
	return &guestFixture{
		eventRepo: eventRepo,
		guestRepo: guestRepo,
		svc:       NewGuestServiceWithRepos(guestRepo, eventRepo, codeService, "972"),
	}
}

func TestCreateGuestNormalizesPhone(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)

	guest, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{
		FirstName: " Ayşe ", LastName: "Yılmaz", Phone: "050-123-4567", MenCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", guest.FirstName)
	assert.Equal(t, "0501234567", guest.Phone)
	assert.Nil(t, guest.Code) // kod tembel üretilir, oluşturma anında yoktur
}

func TestCreateGuestRejectsDuplicatePhone(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)

	_, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Ali", Phone: "0501234567"})
	require.NoError(t, err)

	// Farklı yazım, aynı kanonik numara: reddedilir.
	_, err = f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Veli", Phone: "972501234567"})
	assert.ErrorIs(t, err, ErrGuestPhoneDuplicate)

	// Aynı numara başka bir etkinlikte serbesttir.
	other := seedEvent(t, f.eventRepo)
	_, err = f.svc.CreateGuest(context.Background(), other.ID, GuestCreateInput{FirstName: "Veli", Phone: "0501234567"})
	assert.NoError(t, err)
}

func TestCreateGuestValidation(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)

	_, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{Phone: "0501234567"})
	assert.ErrorIs(t, err, ErrGuestNameRequired)

	_, err = f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Ali", Phone: "123"})
	assert.ErrorIs(t, err, ErrGuestPhoneInvalid)

	_, err = f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Ali", MenCount: -1})
	assert.ErrorIs(t, err, ErrGuestInvalidInputServ)

	// Telefonsuz davetli geçerlidir.
	_, err = f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Ali"})
	assert.NoError(t, err)
}

func TestUpdateGuest(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)
	guest, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Ali", Phone: "0501234567"})
	require.NoError(t, err)

	newName := "Mehmet"
	newPhone := "050-999-8877"
	require.NoError(t, f.svc.UpdateGuest(context.Background(), guest.ID, GuestUpdateInput{FirstName: &newName, Phone: &newPhone}))

	stored, err := f.guestRepo.FindByID(context.Background(), guest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mehmet", stored.FirstName)
	assert.Equal(t, "0509998877", stored.Phone)

	// Başka davetlinin numarasına geçiş reddedilir.
	other, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Veli", Phone: "0501112233"})
	require.NoError(t, err)
	taken := "0509998877"
	assert.ErrorIs(t, f.svc.UpdateGuest(context.Background(), other.ID, GuestUpdateInput{Phone: &taken}), ErrGuestPhoneDuplicate)

	// Kendi numarasını korumak serbesttir.
	own := "050-999-8877"
	assert.NoError(t, f.svc.UpdateGuest(context.Background(), guest.ID, GuestUpdateInput{Phone: &own}))
}

func TestDeleteGuest(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)
	guest, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Ali"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteGuest(context.Background(), guest.ID))
	assert.ErrorIs(t, f.svc.DeleteGuest(context.Background(), guest.ID), ErrGuestNotFoundServ)
	_, err = f.svc.GetGuestByID(context.Background(), guest.ID)
	assert.ErrorIs(t, err, ErrGuestNotFoundServ)
}

func TestEnsureCodeDelegates(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)
	guest, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Ali"})
	require.NoError(t, err)

	code, err := f.svc.EnsureCode(context.Background(), guest.ID)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestImportCSV(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)

	input := strings.Join([]string{
		"Ad,Soyad,Telefon,Erkek,Kadın",
		"Ayşe,Yılmaz,050-123-4567,2,1",
		"Ali,Kaya,972509998877,1,0",
		",,0501112233,1,1",          // adsız satır: reddedilir
		"Veli,Demir,0501234567,1,0", // dosya içi tekrar (Ayşe ile aynı numara)
	}, "\n")

	result, err := f.svc.ImportCSV(context.Background(), event.ID, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, 5, result.Errors[1].Row)

	guest, err := f.guestRepo.FindByEventAndPhone(context.Background(), event.ID, "0501234567")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", guest.FirstName)
	assert.Equal(t, 2, guest.MenCount)
}

func TestImportCSVFullNameColumn(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)

	input := "full_name,phone\nAyşe Nur Yılmaz,0501234567\nAli,0509998877\n"
	result, err := f.svc.ImportCSV(context.Background(), event.ID, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	guest, err := f.guestRepo.FindByEventAndPhone(context.Background(), event.ID, "0501234567")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", guest.FirstName)
	assert.Equal(t, "Nur Yılmaz", guest.LastName)

	single, err := f.guestRepo.FindByEventAndPhone(context.Background(), event.ID, "0509998877")
	require.NoError(t, err)
	assert.Equal(t, "Ali", single.FirstName)
	assert.Empty(t, single.LastName)
}

func TestImportCSVRejectsExistingPhones(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)
	_, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: "Mevcut", Phone: "0501234567"})
	require.NoError(t, err)

	input := "first_name,phone\nAyşe,0501234567\n"
	result, err := f.svc.ImportCSV(context.Background(), event.ID, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	require.Len(t, result.Errors, 1)
}

func TestImportCSVMissingColumns(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)

	_, err := f.svc.ImportCSV(context.Background(), event.ID, strings.NewReader("first_name,last_name\nAyşe,Yılmaz\n"))
	assert.ErrorIs(t, err, ErrImportMissingColumns)

	_, err = f.svc.ImportCSV(context.Background(), event.ID, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrImportFileEmpty)
}

func TestExportCSV(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)
	guest, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{
		FirstName: "Ayşe", LastName: "Yılmaz", Phone: "0501234567", MenCount: 2, WomenCount: 1,
	})
	require.NoError(t, err)
	code, err := f.svc.EnsureCode(context.Background(), guest.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportCSV(context.Background(), event.ID, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"first_name", "last_name", "phone", "code", "men_count", "women_count"}, records[0])
	assert.Equal(t, []string{"Ayşe", "Yılmaz", "0501234567", code, "2", "1"}, records[1])
}

func TestListGuestsPaginates(t *testing.T) {
	f := newGuestFixture()
	event := seedEvent(t, f.eventRepo)
	for _, name := range []string{"Ali", "Ayşe", "Veli"} {
		_, err := f.svc.CreateGuest(context.Background(), event.ID, GuestCreateInput{FirstName: name})
		require.NoError(t, err)
	}

	result, err := f.svc.ListGuests(context.Background(), event.ID, queryparamsFor(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Meta.TotalItems)
	assert.Equal(t, 2, result.Meta.TotalPages)
}

func TestUpdateGuestUnknownID(t *testing.T) {
	f := newGuestFixture()
	name := "Ali"
	assert.ErrorIs(t, f.svc.UpdateGuest(context.Background(), uuid.New(), GuestUpdateInput{FirstName: &name}), ErrGuestNotFoundServ)
}
