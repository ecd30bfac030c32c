package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot and supporting services.
type Config struct {
	BotToken         string
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiModel      string
	RequestTimeout   time.Duration
	SQLitePath       string
	ChannelID        string
	ChannelURL       string
	FreeGenerations  int
	ReferralBonus    int
	JoinBonus        int
	HealthListenAddr string
	AdminUsername    string
	AdminPassword    string
}

// Load reads configuration from environment variables, applying sane defaults.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:      normalizeModelName(getEnv("GEMINI_MODEL", "gemini-2.0-flash")),
		RequestTimeout:   time.Second * time.Duration(getInt("HTTP_TIMEOUT_SECONDS", 60)),
		SQLitePath:       getEnv("SQLITE_PATH", "users.db"),
		ChannelID:        strings.TrimSpace(os.Getenv("CHANNEL_ID")),
		ChannelURL:       getEnv("CHANNEL_URL", ""),
		FreeGenerations:  getInt("FREE_GENERATIONS", 5),
		ReferralBonus:    getInt("REFERRAL_BONUS_GENERATIONS", 2),
		JoinBonus:        getInt("JOIN_BONUS_GENERATIONS", 3),
		HealthListenAddr: getEnv("HEALTH_LISTEN_ADDR", ":8080"),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "change-me"),
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if cfg.ChannelURL == "" {
		if username := channelUsername(cfg.ChannelID); username != "" {
			cfg.ChannelURL = fmt.Sprintf("https://t.me/%s", username)
		}
	}

	var missing []string
	if cfg.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if cfg.ChannelID == "" {
		missing = append(missing, "CHANNEL_ID")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %v", missing)
	}

	return cfg, nil
}

// normalizeModelName strips the REST resource prefix some Gemini docs use, so
// both "gemini-2.0-flash" and "models/gemini-2.0-flash" work.
func normalizeModelName(model string) string {
	return strings.TrimPrefix(strings.TrimSpace(model), "models/")
}

// channelUsername extracts a bare channel username from an "@name", "t.me/name"
// or full URL form. Numeric chat ids have no public link and yield "".
func channelUsername(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		if parsed, err := url.Parse(raw); err == nil {
			raw = strings.Trim(parsed.Path, "/")
		}
	}
	raw = strings.TrimPrefix(raw, "t.me/")
	raw = strings.TrimPrefix(raw, "@")
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ""
	}
	return raw
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func loadEnvFile() error {
	candidates := []string{}
	if custom, ok := os.LookupEnv("CONFIG_ENV_PATH"); ok && custom != "" {
		candidates = append(candidates, custom)
	}
	candidates = append(candidates,
		filepath.Join("configs", ".env"),
		".env",
	)

	for _, path := range candidates {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("access env file %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	// No env file is fine; everything may come from the process environment.
	return nil
}
