package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectTimeoutSec  int
	// ApplicationName is reported to the server in pg_stat_activity.
	ApplicationName string
	// ReadOnly opens read-only sessions; ignored while AutoMigrate is set.
	ReadOnly    bool
	AutoMigrate bool
}

// MinIOConfig holds settings for the optional object storage origin.
// When Endpoint is empty no origin is used and files must exist on local disk.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether an origin bucket is configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// PreviewConfig holds the fixed bounding box for generated PDF thumbnails.
type PreviewConfig struct {
	Width  int
	Height int
}

// Catalog holds the lookup tables used to resolve documents.
// The values are immutable after Load and are passed to the components that need them.
type Catalog struct {
	Companies     []string
	ObjectTypes   []string
	DocumentTypes []string
	Languages     []string
	// CommonCompany is looked up when a catalog document is missing for the requested company.
	CommonCompany string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port         string
	AppVersion   string
	ServiceName  string
	DataPath     string
	ImageBaseURL string
	CSP          string
	LogLevel     string
	TimeZone     string
	Database     DatabaseConfig
	MinIO        MinIOConfig
	Preview      PreviewConfig
	Catalog      Catalog
}

// RoutePrefix returns the mount point of the content routes, e.g. "/v2/content".
func (c *AppConfig) RoutePrefix() string {
	prefix := ""
	if c.AppVersion != "" {
		prefix = "/" + c.AppVersion
	}
	return prefix + "/" + c.ServiceName
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:         getEnv("PORT", "8080"),
		AppVersion:   getEnv("APP_VERSION", ""),
		ServiceName:  getEnv("SERVICE_NAME", "content"),
		DataPath:     getEnv("DATA_PATH", "./data"),
		ImageBaseURL: getEnv("IMAGE_BASE_URL", "https://pcm.groupclaes.be/i"),
		CSP:          getEnv("CSP", "default-src 'self' 'unsafe-inline' pcm.groupclaes.be"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		TimeZone:     getEnv("TZ_NAME", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
			ApplicationName:    getEnv("DB_APP_NAME", "content"),
			ReadOnly:           getEnvBool("DB_READ_ONLY", true),
			AutoMigrate:        getEnvBool("DB_AUTO_MIGRATE", false),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Preview: PreviewConfig{
			Width:  getEnvInt("PREVIEW_WIDTH", 420),
			Height: getEnvInt("PREVIEW_HEIGHT", 595),
		},
		Catalog: Catalog{
			Companies:     getEnvList("CATALOG_COMPANIES", []string{"dis", "bra"}),
			ObjectTypes:   getEnvList("CATALOG_OBJECT_TYPES", []string{"artikel"}),
			DocumentTypes: getEnvList("CATALOG_DOCUMENT_TYPES", []string{"foto", "datasheet", "technische-fiche"}),
			Languages:     getEnvList("CATALOG_LANGUAGES", []string{"nl", "fr"}),
			CommonCompany: getEnv("COMMON_COMPANY", "alg"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma separated value, dropping blanks and lower-casing entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
