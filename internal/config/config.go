package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI         string
	MongoDatabase    string
	JwtSecret        string
	JwtExpire        time.Duration
	Port             string
	AllowedOrigins   []string
	LogLevel         string
	Environment      string
	TextbeltAPIKey   string
	GeminiAPIKey     string
	ReminderSchedule string
}

// Debug reports whether error details may be echoed to clients.
func (c *Config) Debug() bool {
	return c.Environment == "development"
}

func LoadConfig() (*Config, error) {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	jwtExpire := 30 * 24 * time.Hour
	if raw := os.Getenv("JWT_EXPIRE"); raw != "" {
		parsed, err := ParseExpiry(raw)
		if err != nil {
			return nil, fmt.Errorf("JWT_EXPIRE: %w", err)
		}
		jwtExpire = parsed
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = os.Getenv("API_PORT")
	}
	if port == "" {
		port = "5000"
	}

	allowedOrigins := []string{"*"}
	if ao := os.Getenv("ALLOWED_ORIGINS"); ao != "" {
		allowedOrigins = []string{}
		for _, origin := range strings.Split(ao, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	reminderSchedule, ok := os.LookupEnv("REMINDER_SCHEDULE")
	if !ok {
		reminderSchedule = "*/15 * * * *"
	}

	return &Config{
		MongoURI:         mongoURI,
		MongoDatabase:    getenv("MONGO_DATABASE", "pregnancy_care"),
		JwtSecret:        jwtSecret,
		JwtExpire:        jwtExpire,
		Port:             port,
		AllowedOrigins:   allowedOrigins,
		LogLevel:         getenv("LOG_LEVEL", "info"),
		Environment:      getenv("ENVIRONMENT", "production"),
		TextbeltAPIKey:   os.Getenv("TEXTBELT_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		ReminderSchedule: reminderSchedule,
	}, nil
}

// ParseExpiry accepts Go durations ("720h") and the "<n>d" day form used by jsonwebtoken.
func ParseExpiry(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive, got %q", raw)
	}
	return d, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
