package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Business  BusinessConfig
	Admin     AdminConfig
	Geocoder  GeocoderConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig selects the device key-value store: memory, file, postgres
// or redis. Path is used by the file driver.
type StorageConfig struct {
	Driver    string
	Namespace string
	Path      string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type BusinessConfig struct {
	Name           string
	WhatsAppNumber string
	ContactPhone   string
	Currency       string
}

// AdminConfig holds the admin sentinel credentials. PasswordHash, when set,
// is a bcrypt hash and takes precedence over Password.
type AdminConfig struct {
	Email        string
	Password     string
	PasswordHash string
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
}

func Load() *Config {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("ALLOWED_ORIGINS", "")
	viper.SetDefault("BACKEND_BASE_URL", "https://back-coffee.onrender.com/api")
	viper.SetDefault("BACKEND_TIMEOUT", "20s")
	viper.SetDefault("STORAGE_DRIVER", "memory")
	viper.SetDefault("STORAGE_NAMESPACE", "storefront")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 5)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("BUSINESS_NAME", "AMBER INFUSIÓN")
	viper.SetDefault("WHATSAPP_NUMBER", "59172284092")
	viper.SetDefault("CONTACT_PHONE", "+591 72284092")
	viper.SetDefault("CURRENCY", "Bs")
	viper.SetDefault("ADMIN_EMAIL", "admin@gmail.com")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("GEOCODER_USER_AGENT", "amber-storefront/1.0")

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(viper.GetString("ALLOWED_ORIGINS")),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(viper.GetString("BACKEND_BASE_URL"), "/"),
			Timeout: viper.GetDuration("BACKEND_TIMEOUT"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(viper.GetString("STORAGE_DRIVER")),
			Namespace: viper.GetString("STORAGE_NAMESPACE"),
			Path:      viper.GetString("STORAGE_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Business: BusinessConfig{
			Name:           viper.GetString("BUSINESS_NAME"),
			WhatsAppNumber: viper.GetString("WHATSAPP_NUMBER"),
			ContactPhone:   viper.GetString("CONTACT_PHONE"),
			Currency:       viper.GetString("CURRENCY"),
		},
		Admin: AdminConfig{
			Email:        strings.ToLower(strings.TrimSpace(viper.GetString("ADMIN_EMAIL"))),
			Password:     viper.GetString("ADMIN_PASSWORD"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   strings.TrimRight(viper.GetString("GEOCODER_BASE_URL"), "/"),
			UserAgent: viper.GetString("GEOCODER_USER_AGENT"),
		},
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
