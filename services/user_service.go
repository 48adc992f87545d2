package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lcv.link/configs"
	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/repositories"
)

// UserServiceError kullanıcı/kimlik servis hataları.
type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserNotFound           UserServiceError = "kullanıcı bulunamadı"
	ErrInvalidCredentials     UserServiceError = "e-posta veya şifre hatalı"
	ErrEmailTaken             UserServiceError = "bu e-posta zaten kayıtlı"
	ErrPasswordTooShort       UserServiceError = "şifre en az 6 karakter olmalı"
	ErrUserHashingFailed      UserServiceError = "şifre işlenemedi"
	ErrClientLoginFailed      UserServiceError = "panel kullanıcı adı veya şifresi hatalı"
	ErrClientTokenInvalid     UserServiceError = "geçersiz veya süresi dolmuş oturum"
	ErrClientLoginUnavailable UserServiceError = "bu etkinlik için panel girişi kapalı"
)

// ClientClaims etkinlik sahibine verilen panel token'ının içeriği.
// Token tek bir etkinliğe bağlıdır.
type ClientClaims struct {
	EventID string `json:"event_id"`
	jwt.RegisteredClaims
}

// IUserService organizatör hesapları ve etkinlik panel girişi için arayüz.
type IUserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error

	ClientLogin(ctx context.Context, username, password string) (string, *models.Event, error)
	ParseClientToken(tokenString string) (uuid.UUID, error)
}

type UserService struct {
	userRepo  repositories.IUserRepository
	eventRepo repositories.IEventRepository
	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewUserService() IUserService {
	cfg := configs.GetConfig()
	return &UserService{
		userRepo:  repositories.NewUserRepository(),
		eventRepo: repositories.NewEventRepository(),
		jwtSecret: []byte(cfg.JWTSecret),
		jwtTTL:    cfg.JWTTTL,
	}
}

// NewUserServiceWithRepos testler için DI constructor'ı.
func NewUserServiceWithRepos(userRepo repositories.IUserRepository, eventRepo repositories.IEventRepository, jwtSecret string, jwtTTL time.Duration) IUserService {
	return &UserService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
	}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrUserHashingFailed
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		configslog.Log.Error("Kullanıcı oluşturulamadı", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrUserHashingFailed
	}
	return s.userRepo.Update(ctx, id, map[string]interface{}{"password_hash": string(hash)})
}

// ClientLogin etkinlik panel kimlik bilgilerini doğrular ve etkinliğe
// bağlı kısa ömürlü bir JWT döndürür.
func (s *UserService) ClientLogin(ctx context.Context, username, password string) (string, *models.Event, error) {
	username = strings.TrimSpace(username)
	event, err := s.eventRepo.FindByDashboardUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, ErrClientLoginFailed
		}
		return "", nil, err
	}
	if !event.DashboardEnabled || event.DashboardPasswordHash == "" {
		return "", nil, ErrClientLoginUnavailable
	}
	if bcrypt.CompareHashAndPassword([]byte(event.DashboardPasswordHash), []byte(password)) != nil {
		return "", nil, ErrClientLoginFailed
	}

	now := time.Now()
	claims := ClientClaims{
		EventID: event.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   event.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		configslog.Log.Error("Panel token'ı imzalanamadı", zap.String("event_id", event.ID.String()), zap.Error(err))
		return "", nil, err
	}
	return token, event, nil
}

// ParseClientToken token'ı doğrular ve bağlı etkinlik ID'sini döndürür.
func (s *UserService) ParseClientToken(tokenString string) (uuid.UUID, error) {
	claims := &ClientClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrClientTokenInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrClientTokenInvalid
	}
	eventID, err := uuid.Parse(claims.EventID)
	if err != nil {
		return uuid.Nil, ErrClientTokenInvalid
	}
	return eventID, nil
}

var _ IUserService = (*UserService)(nil)
