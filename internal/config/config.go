package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/smb-ai-solution/kanban/internal/util"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Addr      string
	DBPath    string
	StaticDir string

	JWTSecret       string
	TokenTTL        time.Duration
	RegistrationKey string

	WebhookURL     string
	WebhookTimeout time.Duration

	// Settings for the CLI client talking to a running server.
	APIBaseURL string
	APIToken   string
	APITimeout time.Duration
}

// Load reads configuration from a .env file (when present) and the process
// environment, falling back to development defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:      util.EnvOrDefault("KANBAN_ADDR", ":8080"),
		DBPath:    util.EnvOrDefault("KANBAN_DB_PATH", "data/kanban.db"),
		StaticDir: util.EnvOrDefault("KANBAN_STATIC_DIR", "web/dist"),

		JWTSecret:       util.EnvOrDefault("KANBAN_JWT_SECRET", "dev-secret-change-in-production"),
		TokenTTL:        envDuration("KANBAN_TOKEN_TTL_MINUTES", 60) * time.Minute,
		RegistrationKey: util.EnvOrDefault("KANBAN_REGISTRATION_KEY", ""),

		WebhookURL:     util.EnvOrDefault("KANBAN_CHAT_WEBHOOK_URL", ""),
		WebhookTimeout: envDuration("KANBAN_CHAT_WEBHOOK_TIMEOUT_SECONDS", 15) * time.Second,

		APIBaseURL: util.EnvOrDefault("KANBAN_API_URL", "http://localhost:8080"),
		APIToken:   util.EnvOrDefault("KANBAN_API_TOKEN", ""),
		APITimeout: envDuration("KANBAN_API_TIMEOUT_SECONDS", 10) * time.Second,
	}
}

func envDuration(key string, fallback int64) time.Duration {
	raw := util.EnvOrDefault(key, "")
	if raw == "" {
		return time.Duration(fallback)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return time.Duration(fallback)
	}
	return time.Duration(n)
}
