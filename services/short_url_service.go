package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/pkg/queryparams"
	"lcv.link/repositories"
)

// ShortURLServiceError kısaltıcı servis hataları.
type ShortURLServiceError string

func (e ShortURLServiceError) Error() string { return string(e) }

const (
	ErrShortURLNotFound     ShortURLServiceError = "kısa URL bulunamadı"
	ErrShortURLTargetBad    ShortURLServiceError = "geçersiz hedef URL"
	ErrShortURLSlugTaken    ShortURLServiceError = "bu slug zaten kullanımda"
	ErrShortURLCreateFailed ShortURLServiceError = "kısa URL oluşturulamadı"
)

// IShortURLService genel amaçlı kısaltıcı için arayüz.
// Event/Guest modelinden tamamen bağımsızdır.
type IShortURLService interface {
	CreateShortURL(ctx context.Context, targetURL, customSlug string) (*models.ShortURL, error)
	ResolveAndCount(ctx context.Context, slug string) (string, error)
	List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ShortURLService struct {
	repo        repositories.IShortURLRepository
	codeService ICodeService
}

func NewShortURLService() IShortURLService {
	return &ShortURLService{
		repo:        repositories.NewShortURLRepository(),
		codeService: NewCodeService(),
	}
}

// NewShortURLServiceWithRepo testler için DI constructor'ı.
func NewShortURLServiceWithRepo(repo repositories.IShortURLRepository, codeService ICodeService) IShortURLService {
	return &ShortURLService{repo: repo, codeService: codeService}
}

// CreateShortURL hedef URL için kısa kayıt oluşturur. Slug verilmezse
// üretilir; verilirse benzersizliği kontrol edilir.
func (s *ShortURLService) CreateShortURL(ctx context.Context, targetURL, customSlug string) (*models.ShortURL, error) {
	targetURL = strings.TrimSpace(targetURL)
	parsed, err := url.ParseRequestURI(targetURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, ErrShortURLTargetBad
	}

	slug := strings.TrimSpace(customSlug)
	if slug != "" {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrShortURLSlugTaken
		}
	} else {
		slug, err = s.codeService.GenerateShortURLSlug(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShortURLCreateFailed, err)
		}
	}

	shortURL := &models.ShortURL{
		Slug:      slug,
		TargetURL: targetURL,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, shortURL); err != nil {
		configslog.Log.Error("Kısa URL oluşturulamadı", zap.String("slug", slug), zap.Error(err))
		return nil, ErrShortURLCreateFailed
	}
	return shortURL, nil
}

// ResolveAndCount slug'ı hedefe çevirir ve tıklama sayacını artırır.
func (s *ShortURLService) ResolveAndCount(ctx context.Context, slug string) (string, error) {
	shortURL, err := s.repo.FindActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrShortURLNotFound
		}
		return "", err
	}
	if err := s.repo.IncrementClickCount(ctx, shortURL.ID); err != nil {
		// Sayaç artmasa da yönlendirme yapılır.
		configslog.Log.Warn("Tıklama sayacı artırılamadı", zap.String("slug", slug), zap.Error(err))
	}
	return shortURL.TargetURL, nil
}

func (s *ShortURLService) List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	shortURLs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(shortURLs, params, total), nil
}

func (s *ShortURLService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.repo.Update(ctx, id, map[string]interface{}{"is_active": active}); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShortURLNotFound
		}
		return err
	}
	return nil
}

func (s *ShortURLService) Delete(ctx context.Context, id uuid.UUID) error {
	shortURL, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShortURLNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, shortURL)
}

var _ IShortURLService = (*ShortURLService)(nil)
