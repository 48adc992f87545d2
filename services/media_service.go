package services

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"lcv.link/configs"
	"lcv.link/configs/configslog"
)

// MediaServiceError medya servis hataları.
type MediaServiceError string

func (e MediaServiceError) Error() string { return string(e) }

const (
	ErrMediaFileEmpty       MediaServiceError = "dosya boş"
	ErrMediaFileTooLarge    MediaServiceError = "dosya boyutu sınırı aşıyor"
	ErrMediaTypeUnsupported MediaServiceError = "desteklenmeyen dosya türü"
	ErrMediaUploadFailed    MediaServiceError = "dosya yüklenemedi"
)

const maxMediaSize = 10 * 1024 * 1024 // 10 MB

// Önizleme görselleri OG kartları için bu genişliğe küçültülür.
const previewMaxWidth = 1200

var allowedMediaExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

// MediaStorage dosyaların nereye yazılacağını soyutlar.
// OSS yapılandırılmışsa bulut, değilse yerel disk kullanılır.
type MediaStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// IMediaService etkinlik görselleri ve PDF ekleri için arayüz.
// Anahtar deseni: <event_id>/<locale>-<image|pdf>.<ext>
type IMediaService interface {
	UploadEventMedia(ctx context.Context, eventID, locale string, file *multipart.FileHeader) (string, error)
	DeleteEventMedia(ctx context.Context, key string) error
}

type MediaService struct {
	storage MediaStorage
}

func NewMediaService() IMediaService {
	cfg := configs.GetConfig()
	var storage MediaStorage
	if cfg.OSSEndpoint != "" && cfg.OSSBucketName != "" {
		ossStorage, err := newOSSStorage(cfg)
		if err != nil {
			configslog.Log.Error("OSS istemcisi başlatılamadı, yerel diske düşülüyor", zap.Error(err))
			storage = &localStorage{root: cfg.UploadDir, baseURL: cfg.BaseURL}
		} else {
			storage = ossStorage
		}
	} else {
		storage = &localStorage{root: cfg.UploadDir, baseURL: cfg.BaseURL}
	}
	return &MediaService{storage: storage}
}

// NewMediaServiceWithStorage testler için DI constructor'ı.
func NewMediaServiceWithStorage(storage MediaStorage) IMediaService {
	return &MediaService{storage: storage}
}

// UploadEventMedia dosyayı doğrular, görselse önizleme boyutuna küçültür
// ve depolama anahtarının public URL'ini döndürür.
func (s *MediaService) UploadEventMedia(ctx context.Context, eventID, locale string, file *multipart.FileHeader) (string, error) {
	if file == nil || file.Size == 0 {
		return "", ErrMediaFileEmpty
	}
	if file.Size > maxMediaSize {
		return "", ErrMediaFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := allowedMediaExt[ext]
	if !ok {
		return "", ErrMediaTypeUnsupported
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaUploadFailed, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaUploadFailed, err)
	}

	kind := "pdf"
	if contentType != "application/pdf" {
		kind = "image"
		data, err = resizeForPreview(data)
		if err != nil {
			configslog.Log.Warn("Görsel küçültülemedi, orijinal yükleniyor",
				zap.String("event_id", eventID), zap.Error(err))
		} else {
			ext = ".jpg"
			contentType = "image/jpeg"
		}
	}

	key := fmt.Sprintf("%s/%s-%s%s", eventID, locale, kind, ext)
	publicURL, err := s.storage.Put(ctx, key, contentType, data)
	if err != nil {
		configslog.Log.Error("Medya yüklenemedi", zap.String("key", key), zap.Error(err))
		return "", ErrMediaUploadFailed
	}
	return publicURL, nil
}

func (s *MediaService) DeleteEventMedia(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// resizeForPreview görseli en boy oranını koruyarak küçültür ve
// JPEG olarak yeniden kodlar.
func resizeForPreview(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > previewMaxWidth {
		img = imaging.Resize(img, previewMaxWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// localStorage dosyaları UPLOAD_DIR altına yazar.
type localStorage struct {
	root    string
	baseURL string
}

func (l *localStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	path := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return l.baseURL + "/uploads/" + key, nil
}

func (l *localStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ossStorage dosyaları Aliyun OSS bucket'ına yazar.
type ossStorage struct {
	bucket   *oss.Bucket
	endpoint string
	name     string
}

func newOSSStorage(cfg *configs.AppConfig) (*ossStorage, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(cfg.OSSBucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	return &ossStorage{bucket: bucket, endpoint: cfg.OSSEndpoint, name: cfg.OSSBucketName}, nil
}

func (o *ossStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	opts := []oss.Option{
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=86400"),
	}
	if err := o.bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", err
	}
	endpoint := strings.TrimPrefix(strings.TrimPrefix(o.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", o.name, endpoint, key), nil
}

func (o *ossStorage) Delete(ctx context.Context, key string) error {
	return o.bucket.DeleteObject(key, oss.WithContext(ctx))
}

var _ IMediaService = (*MediaService)(nil)
var _ MediaStorage = (*localStorage)(nil)
var _ MediaStorage = (*ossStorage)(nil)
