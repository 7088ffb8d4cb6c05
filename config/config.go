package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the service resolves from the environment at startup.
type Config struct {
	// Server settings
	ServerPort      string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	// MongoDB settings
	MongoURI         string
	DBName           string
	TasksCollection  string
	StatusCollection string
	ConnectTimeout   time.Duration

	// Logging settings
	LogFile  string
	LogLevel string
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		logrus.Warnf("Event ID: ENV_LOAD_SKIPPED, Description: No .env file loaded, using process environment: %v", err)
	}

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8000"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		ShutdownTimeout:  getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		MongoURI:         getEnv("MONGO_URL", "mongodb://localhost:27017"),
		DBName:           getEnv("DB_NAME", "tasks_db"),
		TasksCollection:  getEnv("TASKS_COLLECTION", "tasks"),
		StatusCollection: getEnv("STATUS_COLLECTION", "status_checks"),
		ConnectTimeout:   getDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		LogFile:          getEnv("LOG_FILE", "logs/tasks.log"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.ServerPort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logrus.Warnf("Event ID: CONFIG_INVALID_DURATION, Description: %s=%q is not a valid duration, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
