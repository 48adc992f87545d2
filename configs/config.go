package configs

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/joho/godotenv"

	"gorm.io/gorm"

	"lcv.link/configs/configsdatabase"
	"lcv.link/configs/configssession"
)

// AppConfig uygulamanın tüm ortam tabanlı ayarlarını tutar.
// Değerler .env dosyasından (varsa) ve ortam değişkenlerinden okunur.
type AppConfig struct {
	AppEnv     string // "development" | "production"
	ListenAddr string

	// Public URL'ler
	BaseURL      string // Link üretiminde kullanılan origin (örn. https://lcv.link)
	ClientAppURL string // İnsan ziyaretçilerin yönlendirildiği istemci uygulaması

	// Telefon normalizasyonu
	PhoneCountryCode string // Ülke kodu öneki, baştaki "0" ile katlanır (örn. "972")

	// Dil
	DefaultLocale string

	// Medya depolama
	UploadDir     string // Yerel disk kökü (OSS yapılandırılmadıysa)
	OSSEndpoint   string
	OSSAccessKey  string
	OSSSecretKey  string
	OSSBucketName string

	// Client dashboard JWT
	JWTSecret string
	JWTTTL    time.Duration

	// Kod üretimi
	CodeMaxAttempts int
}

var appConfig *AppConfig

// LoadConfig .env dosyasını yükler ve AppConfig'i doldurur.
// .env bulunamazsa sessizce ortam değişkenleriyle devam edilir.
func LoadConfig() *AppConfig {
	_ = godotenv.Load()

	appConfig = &AppConfig{
		AppEnv:           getEnv("APP_ENV", "development"),
		ListenAddr:       getEnv("LISTEN_ADDR", ":3000"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
		ClientAppURL:     getEnv("CLIENT_APP_URL", "http://localhost:5173"),
		PhoneCountryCode: getEnv("PHONE_COUNTRY_CODE", "972"),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "tr"),
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		OSSEndpoint:      getEnv("OSS_ENDPOINT", ""),
		OSSAccessKey:     getEnv("OSS_ACCESS_KEY_ID", ""),
		OSSSecretKey:     getEnv("OSS_ACCESS_KEY_SECRET", ""),
		OSSBucketName:    getEnv("OSS_BUCKET", ""),
		JWTSecret:        getEnv("JWT_SECRET", "degistir-beni"),
		JWTTTL:           getEnvDuration("JWT_TTL", 12*time.Hour),
		CodeMaxAttempts:  getEnvInt("CODE_MAX_ATTEMPTS", 5),
	}
	return appConfig
}

// GetConfig yüklenmiş konfigürasyonu döndürür (gerekirse yükler).
func GetConfig() *AppConfig {
	if appConfig == nil {
		return LoadConfig()
	}
	return appConfig
}

// GetDB repository katmanının kullandığı paylaşımlı GORM bağlantısını döndürür.
func GetDB() *gorm.DB {
	return configsdatabase.GetDB()
}

// SetupSession panel oturumlarının session store'unu döndürür.
func SetupSession() *session.Store {
	return configssession.SetupSession()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
