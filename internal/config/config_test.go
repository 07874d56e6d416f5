package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("UPLOADS_DIR", "/var/uploads")
	t.Setenv("DOWNLOAD_CHUNK_SIZE", "1024")
	t.Setenv("PUBLIC_BASE_URL", "https://files.example.com/")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.Equal(t, "/var/uploads", cfg.Storage.UploadsDir)
	assert.Equal(t, 1024, cfg.Download.ChunkSize)
	assert.Equal(t, "https://files.example.com", cfg.PublicBaseURL)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "")
	t.Setenv("CONTENT_TYPES", "")
	t.Setenv("DOWNLOAD_CHUNK_SIZE", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:9090", cfg.PublicBaseURL)
	assert.Equal(t, 512*1024, cfg.Download.ChunkSize)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, map[string]string{"post": "Attachments"}, cfg.ContentTypes)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvMap(t *testing.T) {
	key := "TEST_MAP_VAR"
	def := map[string]string{"post": "Attachments"}

	t.Setenv(key, "post:Post Files, page:Page Files,lesson")
	assert.Equal(t, map[string]string{
		"post":   "Post Files",
		"page":   "Page Files",
		"lesson": "lesson",
	}, getEnvMap(key, def))

	t.Setenv(key, " , :nameless")
	assert.Equal(t, def, getEnvMap(key, def))

	t.Setenv(key, "")
	assert.Equal(t, def, getEnvMap(key, def))
}
