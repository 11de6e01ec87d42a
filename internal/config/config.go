// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/laureanodiez/tarjeta/internal/content"
)

// Config is the process configuration.
type Config struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	GinMode      string        `env:"GIN_MODE" envDefault:"debug"`
	DatabasePath string        `env:"DATABASE_PATH"`
	FilesDir     string        `env:"FILES_DIR" envDefault:"./files"`
	LoadingDelay time.Duration `env:"LOADING_DELAY" envDefault:"1500ms"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	Name      string `env:"PROFILE_NAME" envDefault:"Laureano Diez"`
	Headline  string `env:"PROFILE_HEADLINE" envDefault:"Portfolio"`
	CardStyle string `env:"CARD_STYLE"`
	LinkedIn  string `env:"SOCIAL_LINKEDIN"`
	GitHub    string `env:"SOCIAL_GITHUB" envDefault:"https://github.com/laureanodiez"`
	GitLab    string `env:"SOCIAL_GITLAB"`
	Mail      string `env:"SOCIAL_MAIL"`
}

// Load reads the optional .env files and parses the environment. Missing
// .env files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			slog.Debug("env file not loaded", "file", file, "error", err)
		}
	}
	return Parse()
}

// Parse parses the current environment.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.GinMode == "" {
		cfg.GinMode = gin.DebugMode
	}
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return Config{}, fmt.Errorf("GIN_MODE %q: want %s, %s or %s", cfg.GinMode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
	return cfg, nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Profile builds the header profile.
func (c Config) Profile() content.Profile {
	return content.Profile{
		Name:     c.Name,
		Headline: c.Headline,
		Style:    c.CardStyle,
		Links: content.SocialLinks{
			LinkedIn: c.LinkedIn,
			GitHub:   c.GitHub,
			GitLab:   c.GitLab,
			Mail:     c.Mail,
		},
	}
}

// AdminCredentials returns the configured admin login, falling back to
// development defaults. defaulted is true when a fallback was used.
func (c Config) AdminCredentials() (username, password string, defaulted bool) {
	username, password = c.AdminUsername, c.AdminPassword
	if username == "" {
		username, defaulted = "admin", true
	}
	if password == "" {
		password, defaulted = "admin123", true
	}
	return username, password, defaulted
}
