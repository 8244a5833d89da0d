package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Session store kinds.
const (
	SessionStoreCookie   = "cookie"
	SessionStoreDatabase = "database"
)

// Config holds the iam-proxy configuration for one profile.
type Config struct {
	Port        string `validate:"required,numeric"`
	ProfileName string `validate:"required,max=64,excludesall=;=/"`

	DestinationURL string `validate:"required_without=StaticDir"`
	StaticDir      string `validate:"required_without=DestinationURL"`
	WelcomePage    string

	OAuthConfigFile  string
	OIDCProviderURL  string `validate:"omitempty,url"`
	OIDCClientID     string `validate:"required_with=OIDCProviderURL"`
	OIDCClientSecret string `validate:"required_with=OIDCProviderURL"`
	OIDCRedirectURI  string `validate:"required_with=OIDCProviderURL"`

	SessionStore  string        `validate:"oneof=cookie database"`
	DatabaseURL   string
	SessionDBFile string
	SessionTTL    time.Duration `validate:"gt=0"`
	CookieSecure  bool

	CORSAllowedOrigins []string
	EnableHSTS         bool

	DebugMode bool
	LogFormat string `validate:"oneof=json console"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		ProfileName:        getEnv("PROFILE_NAME", "default"),
		DestinationURL:     getEnv("DESTINATION_URL", ""),
		StaticDir:          getEnv("STATIC_DIR", ""),
		WelcomePage:        getEnv("WELCOME_PAGE", ""),
		OAuthConfigFile:    getEnv("OAUTH_CONFIG_FILE", "config.json"),
		OIDCProviderURL:    getEnv("OIDC_PROVIDER_URL", ""),
		OIDCClientID:       getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret:   getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURI:    getEnv("OIDC_REDIRECT_URI", ""),
		SessionStore:       getEnv("SESSION_STORE", SessionStoreCookie),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SessionDBFile:      getEnv("SESSION_DB_FILE", "sessions.db"),
		SessionTTL:         getEnvDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		EnableHSTS:         getEnvBool("ENABLE_HSTS", false),
		DebugMode:          getEnvBool("LOG_LEVEL_DEBUG", false),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	if cfg.WelcomePage != "" {
		if _, err := os.Stat(cfg.WelcomePage); err != nil {
			return nil, fmt.Errorf("welcome page not found at %s: %w", cfg.WelcomePage, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// UseDiscovery reports whether OAuth settings come from OIDC discovery
// rather than a client-secrets file.
func (c *Config) UseDiscovery() bool {
	return c.OIDCProviderURL != ""
}

// SessionCookieName is the cookie carrying the session for this profile.
func (c *Config) SessionCookieName() string {
	return "session_" + c.ProfileName
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
