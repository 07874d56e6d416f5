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
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects where uploaded attachment files live.
// UploadsDir is always used for temporary download archives, whichever driver is active.
type StorageConfig struct {
	Driver     string // "local" or "minio"
	UploadsDir string
}

// DownloadConfig tunes the file transfer loop.
type DownloadConfig struct {
	ChunkSize int
}

// LogConfig holds application logger settings.
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost          string
	Port             string
	PublicBaseURL    string
	Timezone         string
	ContentTypesFile string
	ContentTypes     map[string]string
	Database         DatabaseConfig
	MinIO            MinIOConfig
	Storage          StorageConfig
	Download         DownloadConfig
	Log              LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	port := getEnv("PORT", "8080")
	return &AppConfig{
		AppHost:          getEnv("APP_HOST", "localhost:8080"),
		Port:             port,
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		Timezone:         getEnv("APP_TIMEZONE", "UTC"),
		ContentTypesFile: getEnv("CONTENT_TYPES_FILE", ""),
		ContentTypes:     getEnvMap("CONTENT_TYPES", map[string]string{"post": "Attachments"}),
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
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Storage: StorageConfig{
			Driver:     getEnv("STORAGE_DRIVER", "local"),
			UploadsDir: getEnv("UPLOADS_DIR", "./uploads"),
		},
		Download: DownloadConfig{
			ChunkSize: getEnvInt("DOWNLOAD_CHUNK_SIZE", 512*1024),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
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

// getEnvMap parses "name:Label,other:Other Label". Entries without a colon use the name as label.
func getEnvMap(key string, def map[string]string) map[string]string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(v, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, label, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !ok || strings.TrimSpace(label) == "" {
			label = name
		}
		out[name] = strings.TrimSpace(label)
	}
	if len(out) == 0 {
		return def
	}
	return out
}
