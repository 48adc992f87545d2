package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShortURLServiceForTest() (IShortURLService, *fakeShortURLRepo) {
	repo := newFakeShortURLRepo()
	codeService := NewCodeServiceWithRepos(newFakeEventRepo(), newFakeGuestRepo(), repo, 5)
	return NewShortURLServiceWithRepo(repo, codeService), repo
}

func TestCreateShortURLGeneratesSlug(t *testing.T) {
	svc, _ := newShortURLServiceForTest()

	shortURL, err := svc.CreateShortURL(context.Background(), "https://example.com/davetiye", "")
	require.NoError(t, err)
	assert.Len(t, shortURL.Slug, shortURLSlugLength)
	assert.Equal(t, "https://example.com/davetiye", shortURL.TargetURL)
	assert.True(t, shortURL.IsActive)
}

func TestCreateShortURLWithCustomSlug(t *testing.T) {
	svc, _ := newShortURLServiceForTest()

	shortURL, err := svc.CreateShortURL(context.Background(), "https://example.com", "kampanya")
	require.NoError(t, err)
	assert.Equal(t, "kampanya", shortURL.Slug)

	_, err = svc.CreateShortURL(context.Background(), "https://example.com/b", "kampanya")
	assert.ErrorIs(t, err, ErrShortURLSlugTaken)
}

func TestCreateShortURLRejectsBadTargets(t *testing.T) {
	svc, _ := newShortURLServiceForTest()

	for _, target := range []string{"", "not-a-url", "ftp://example.com", "javascript:alert(1)"} {
		_, err := svc.CreateShortURL(context.Background(), target, "")
		assert.ErrorIs(t, err, ErrShortURLTargetBad, "hedef: %q", target)
	}
}

func TestResolveAndCount(t *testing.T) {
	svc, repo := newShortURLServiceForTest()
	shortURL, err := svc.CreateShortURL(context.Background(), "https://example.com", "kampanya")
	require.NoError(t, err)

	target, err := svc.ResolveAndCount(context.Background(), "kampanya")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", target)

	_, err = svc.ResolveAndCount(context.Background(), "kampanya")
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), shortURL.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ClickCount)
}

func TestResolveAndCountInactiveSlug(t *testing.T) {
	svc, _ := newShortURLServiceForTest()
	shortURL, err := svc.CreateShortURL(context.Background(), "https://example.com", "kampanya")
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(context.Background(), shortURL.ID, false))

	// Pasif kayıt çözümlenmez; 404 ile ayırt edilemez olmalı.
	_, err = svc.ResolveAndCount(context.Background(), "kampanya")
	assert.ErrorIs(t, err, ErrShortURLNotFound)

	require.NoError(t, svc.SetActive(context.Background(), shortURL.ID, true))
	_, err = svc.ResolveAndCount(context.Background(), "kampanya")
	assert.NoError(t, err)
}

func TestResolveAndCountUnknownSlug(t *testing.T) {
	svc, _ := newShortURLServiceForTest()
	_, err := svc.ResolveAndCount(context.Background(), "yok")
	assert.ErrorIs(t, err, ErrShortURLNotFound)
}

func TestShortURLDelete(t *testing.T) {
	svc, _ := newShortURLServiceForTest()
	shortURL, err := svc.CreateShortURL(context.Background(), "https://example.com", "kampanya")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), shortURL.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), shortURL.ID), ErrShortURLNotFound)
	assert.ErrorIs(t, svc.SetActive(context.Background(), uuid.New(), true), ErrShortURLNotFound)
}

func TestShortURLList(t *testing.T) {
	svc, _ := newShortURLServiceForTest()
	for _, slug := range []string{"bir", "iki", "uc"} {
		_, err := svc.CreateShortURL(context.Background(), "https://example.com/"+slug, slug)
		require.NoError(t, err)
	}

	result, err := svc.List(context.Background(), queryparamsFor(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Meta.TotalItems)
	assert.Equal(t, 2, result.Meta.TotalPages)
}
