// Package config loads runtime settings from the environment. A .env
// file in the working directory is read first when present; variables
// already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	AppEnv   string
	Port     string
	LogLevel slog.Level
	LogFile  string

	ContentPath  string
	DatabasePath string

	AdminUsername string
	AdminPassword string

	VisitorSalt      string
	VisitorRetention time.Duration
	CleanupInterval  time.Duration

	TypeInterval   time.Duration
	FrameInterval  time.Duration
	StageDelay     time.Duration
	SectionDelay   time.Duration
	FadeHold       time.Duration
	ParticleCount  int
	StreamInterval time.Duration

	ShutdownTimeout time.Duration
}

// Load reads envFiles (default ".env") into the process environment and
// builds a Config from it.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		LogFile:          getEnv("LOG_FILE", ""),
		ContentPath:      getEnv("CONTENT_FILE", ""),
		DatabasePath:     getEnv("DATABASE_PATH", "portfolio.db"),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		VisitorSalt:      getEnv("VISITOR_SALT", ""),
		VisitorRetention: getEnvDuration("VISITOR_RETENTION", 365*24*time.Hour),
		CleanupInterval:  getEnvDuration("CLEANUP_INTERVAL", 24*time.Hour),
		TypeInterval:     getEnvDuration("TYPE_INTERVAL", 100*time.Millisecond),
		FrameInterval:    getEnvDuration("FRAME_INTERVAL", time.Second/60),
		StageDelay:       getEnvDuration("STAGE_DELAY", 500*time.Millisecond),
		SectionDelay:     getEnvDuration("SECTION_DELAY", time.Second),
		FadeHold:         getEnvDuration("FADE_HOLD", 600*time.Millisecond),
		ParticleCount:    getEnvInt("PARTICLE_COUNT", 50),
		StreamInterval:   getEnvDuration("STREAM_INTERVAL", 50*time.Millisecond),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise stall the page.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	for name, d := range map[string]time.Duration{
		"TYPE_INTERVAL":   c.TypeInterval,
		"FRAME_INTERVAL":  c.FrameInterval,
		"STREAM_INTERVAL": c.StreamInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.StageDelay < 0 || c.SectionDelay < 0 || c.FadeHold < 0 {
		return errors.New("stage delays must not be negative")
	}
	if c.ParticleCount < 0 || c.ParticleCount > 1000 {
		return fmt.Errorf("PARTICLE_COUNT must be within 0..1000, got %d", c.ParticleCount)
	}
	return nil
}

// Production reports whether APP_ENV is "production".
func (c *Config) Production() bool { return c.AppEnv == "production" }

// Addr is the HTTP listen address.
func (c *Config) Addr() string { return ":" + c.Port }

// AdminEnabled reports whether admin credentials are configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvLevel(key string, fallback slog.Level) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(getEnv(key, "")))); err == nil {
		return level
	}
	return fallback
}
