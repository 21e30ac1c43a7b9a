package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all configuration for the application, loaded once at
// startup so nothing else has to reach into the environment.
type Config struct {
	// --- Server & Paths ---
	ServerAddr string
	DataPath   string
	DbPath     string

	// --- Security ---
	JwtSecret string

	// --- Document store ---
	// StoreDriver selects the backend: "sqlite" (default) or "mongo".
	StoreDriver string
	MongoURI    string
	MongoDB     string

	// --- Email (SMTP, optional) ---
	SmtpHost   string
	SmtpPort   int
	SmtpUser   string
	SmtpPass   string
	SmtpSender string

	// --- Google OAuth 2.0 (optional) ---
	GoogleOauthClientID     string
	GoogleOauthClientSecret string
	GoogleOauthRedirectURL  string
	FrontendURL             string
}

// New creates a Config from environment variables. Critical values are
// validated here so the server fails fast on a bad deployment instead of
// at the first request.
func New() (*Config, error) {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	cfg := &Config{
		ServerAddr:              os.Getenv("SERVER_ADDR"),
		DataPath:                os.Getenv("DATA_PATH"),
		JwtSecret:               os.Getenv("JWT_SECRET"),
		StoreDriver:             os.Getenv("STORE_DRIVER"),
		MongoURI:                os.Getenv("MONGO_URI"),
		MongoDB:                 os.Getenv("MONGO_DB"),
		SmtpHost:                os.Getenv("SMTP_HOST"),
		SmtpPort:                port,
		SmtpUser:                os.Getenv("SMTP_USER"),
		SmtpPass:                os.Getenv("SMTP_PASS"),
		SmtpSender:              os.Getenv("SMTP_SENDER"),
		GoogleOauthClientID:     os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
		GoogleOauthClientSecret: os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
		GoogleOauthRedirectURL:  os.Getenv("GOOGLE_OAUTH_REDIRECT_URL"),
		FrontendURL:             os.Getenv("FRONTEND_URL"),
	}

	// --- Defaults for non-critical values ---
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}
	if cfg.DataPath == "" {
		cfg.DataPath = "./data"
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "sqlite"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "sportex"
	}

	// --- Validate critical required values ---
	if cfg.JwtSecret == "" {
		return nil, errors.New("FATAL: JWT_SECRET environment variable is not set")
	}
	switch cfg.StoreDriver {
	case "sqlite":
		// Store file lives under the data directory.
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, errors.New("FATAL: MONGO_URI is required when STORE_DRIVER=mongo")
		}
	default:
		return nil, errors.New("FATAL: STORE_DRIVER must be 'sqlite' or 'mongo'")
	}

	cfg.DbPath = filepath.Join(cfg.DataPath, "databases")

	return cfg, nil
}

// OAuthEnabled reports whether Google login is configured. The OAuth
// endpoints stay registered either way but refuse requests when disabled.
func (c *Config) OAuthEnabled() bool {
	return c.GoogleOauthClientID != "" && c.GoogleOauthClientSecret != "" && c.GoogleOauthRedirectURL != ""
}

// EmailEnabled reports whether the SMTP notification mailer is configured.
func (c *Config) EmailEnabled() bool {
	return c.SmtpHost != "" && c.SmtpSender != ""
}
