package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/datatypes"

	"lcv.link/models"
)

func newLanguageServiceForTest() (ILanguageService, *fakeLanguageRepo) {
	repo := newFakeLanguageRepo()
	return NewLanguageServiceWithRepo(repo, "tr"), repo
}

func TestAddLanguage(t *testing.T) {
	svc, _ := newLanguageServiceForTest()
	eventID := uuid.New()

	lang, err := svc.AddLanguage(context.Background(), eventID, " EN ", false)
	require.NoError(t, err)
	assert.Equal(t, "en", lang.Locale) // normalize edilir
	assert.False(t, lang.IsDefault)

	_, err = svc.AddLanguage(context.Background(), eventID, "en", false)
	assert.ErrorIs(t, err, ErrLanguageExists)

	_, err = svc.AddLanguage(context.Background(), eventID, "  ", false)
	assert.ErrorIs(t, err, ErrLocaleRequired)
}

func TestAddLanguageAsDefaultClearsPrevious(t *testing.T) {
	svc, repo := newLanguageServiceForTest()
	eventID := uuid.New()

	_, err := svc.AddLanguage(context.Background(), eventID, "tr", true)
	require.NoError(t, err)
	_, err = svc.AddLanguage(context.Background(), eventID, "en", true)
	require.NoError(t, err)

	def, err := repo.FindDefault(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, "en", def.Locale)
}

func TestSetDefault(t *testing.T) {
	svc, repo := newLanguageServiceForTest()
	eventID := uuid.New()

	_, err := svc.AddLanguage(context.Background(), eventID, "tr", true)
	require.NoError(t, err)
	_, err = svc.AddLanguage(context.Background(), eventID, "en", false)
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(context.Background(), eventID, "en"))

	def, err := repo.FindDefault(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, "en", def.Locale)

	assert.ErrorIs(t, svc.SetDefault(context.Background(), eventID, "fr"), ErrLanguageNotFound)
}

func TestResolveLocale(t *testing.T) {
	svc, _ := newLanguageServiceForTest()
	eventID := uuid.New()

	_, err := svc.AddLanguage(context.Background(), eventID, "en", true)
	require.NoError(t, err)
	_, err = svc.AddLanguage(context.Background(), eventID, "he", false)
	require.NoError(t, err)

	// İstenen dil etkinlikte tanımlıysa o kullanılır.
	assert.Equal(t, "he", svc.ResolveLocale(context.Background(), eventID, "he"))
	// Tanımsız istek etkinliğin varsayılanına düşer.
	assert.Equal(t, "en", svc.ResolveLocale(context.Background(), eventID, "de"))
	// Boş istek de etkinliğin varsayılanına düşer.
	assert.Equal(t, "en", svc.ResolveLocale(context.Background(), eventID, ""))
}

func TestResolveLocaleFallsBackToAppDefault(t *testing.T) {
	svc, _ := newLanguageServiceForTest()
	eventID := uuid.New() // hiç dil tanımlanmamış etkinlik

	assert.Equal(t, "tr", svc.ResolveLocale(context.Background(), eventID, ""))
	// Yerleşik tabloda olan bir dil, etkinlikte tanımlı olmasa da kabul edilir.
	assert.Equal(t, "en", svc.ResolveLocale(context.Background(), eventID, "en"))
}

// İki seviyeli arama: etkinlik override'ı > yerleşik locale > yerleşik
// varsayılan > key'in kendisi.
func TestTranslateLookupOrder(t *testing.T) {
	svc, _ := newLanguageServiceForTest()
	eventID := uuid.New()

	_, err := svc.AddLanguage(context.Background(), eventID, "en", false)
	require.NoError(t, err)
	err = svc.UpdateTranslations(context.Background(), eventID, "en", map[string]interface{}{
		"rsvp.title": "Join our wedding!",
	})
	require.NoError(t, err)

	// Override kazanır.
	assert.Equal(t, "Join our wedding!", svc.Translate(context.Background(), eventID, "en", "rsvp.title"))
	// Override'ı olmayan key yerleşik locale tablosundan gelir.
	assert.Equal(t, "Submit", svc.Translate(context.Background(), eventID, "en", "rsvp.submit"))
	// Bilinmeyen locale yerleşik varsayılana düşer.
	assert.Equal(t, "Gönder", svc.Translate(context.Background(), eventID, "de", "rsvp.submit"))
	// Hiçbir tabloda olmayan key olduğu gibi döner.
	assert.Equal(t, "custom.key", svc.Translate(context.Background(), eventID, "en", "custom.key"))
}

func TestTranslationsForMergesOverrides(t *testing.T) {
	svc, _ := newLanguageServiceForTest()
	eventID := uuid.New()

	_, err := svc.AddLanguage(context.Background(), eventID, "en", false)
	require.NoError(t, err)
	err = svc.UpdateTranslations(context.Background(), eventID, "en", map[string]interface{}{
		"rsvp.title": "Join us!",
		"custom.key": "Custom",
	})
	require.NoError(t, err)

	merged := svc.TranslationsFor(context.Background(), eventID, "en")
	assert.Equal(t, "Join us!", merged["rsvp.title"]) // override
	assert.Equal(t, "Submit", merged["rsvp.submit"])  // yerleşik en
	assert.Equal(t, "Custom", merged["custom.key"])   // yalnızca override'da var
}

func TestUpdateTranslationsUnknownLanguage(t *testing.T) {
	svc, _ := newLanguageServiceForTest()
	err := svc.UpdateTranslations(context.Background(), uuid.New(), "en", map[string]interface{}{"k": "v"})
	assert.ErrorIs(t, err, ErrLanguageNotFound)
}

func TestRemoveLanguage(t *testing.T) {
	svc, repo := newLanguageServiceForTest()
	eventID := uuid.New()

	_, err := svc.AddLanguage(context.Background(), eventID, "en", false)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveLanguage(context.Background(), eventID, "en"))

	_, err = repo.FindByEventAndLocale(context.Background(), eventID, "en")
	assert.Error(t, err)

	assert.ErrorIs(t, svc.RemoveLanguage(context.Background(), eventID, "en"), ErrLanguageNotFound)
}

func TestTranslateIgnoresEmptyOverride(t *testing.T) {
	svc, repo := newLanguageServiceForTest()
	eventID := uuid.New()

	lang := &models.EventLanguage{EventID: eventID, Locale: "en", Translations: datatypes.JSONMap{"rsvp.submit": ""}}
	require.NoError(t, repo.Create(context.Background(), lang))

	// Boş override yerleşik metni gizlememeli.
	assert.Equal(t, "Submit", svc.Translate(context.Background(), eventID, "en", "rsvp.submit"))
}
