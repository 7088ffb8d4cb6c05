package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"SERVER_PORT", "CORS_ORIGINS", "SHUTDOWN_TIMEOUT", "MONGO_URL", "DB_NAME",
	"TASKS_COLLECTION", "STATUS_COLLECTION", "MONGO_CONNECT_TIMEOUT", "LOG_FILE", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, ":8000", cfg.Address())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "tasks_db", cfg.DBName)
	assert.Equal(t, "tasks", cfg.TasksCollection)
	assert.Equal(t, "status_checks", cfg.StatusCollection)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "logs/tasks.log", cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URL", "mongodb://mongo:27017")
	t.Setenv("DB_NAME", "board")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://app.example.com,")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "not-a-duration")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
	assert.Equal(t, "board", cfg.DBName)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even empty ones.
	os.Unsetenv("DB_NAME")
	os.Unsetenv("SERVER_PORT")
	t.Cleanup(func() {
		os.Unsetenv("DB_NAME")
		os.Unsetenv("SERVER_PORT")
	})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=from_file\nSERVER_PORT=9001\n"), 0o600))

	cfg := Load(path)

	assert.Equal(t, "from_file", cfg.DBName)
	assert.Equal(t, "9001", cfg.ServerPort)
}
