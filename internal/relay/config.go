package relay

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/logger"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleCalendarURL = "https://www.googleapis.com/calendar/v3/"

	// GoogleScope is the only scope the relay ever requests.
	GoogleScope = "https://www.googleapis.com/auth/calendar.readonly"
)

// Config is the relay's explicit configuration, injected at startup so
// the handlers stay testable with fake credentials and endpoints.
type Config struct {
	Port               string
	GoogleClientID     string
	GoogleClientSecret string
	// RedirectURI is the relay's own callback URL registered with the
	// provider. Empty means derive it from the incoming request host.
	RedirectURI string
	// StateSecret signs the state token. A fresh random secret is
	// generated when unset; in-flight flows do not survive a restart
	// in that case.
	StateSecret []byte
	Timeout     time.Duration
	StateMaxAge time.Duration
	Debug       bool

	// Provider endpoints, overridable in tests.
	AuthURL     string
	TokenURL    string
	CalendarURL string
}

// LoadConfig reads the relay configuration from the environment.
// Missing OAuth credentials are not fatal here: the /oauth/start
// handler reports them as a configuration error per request.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURI:        os.Getenv("REDIRECT_URI"),
		Timeout:            constants.RelayTimeout,
		StateMaxAge:        constants.StateMaxAge,
		Debug:              os.Getenv("DEBUG") == "true",
		AuthURL:            googleAuthURL,
		TokenURL:           googleTokenURL,
		CalendarURL:        googleCalendarURL,
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	if cfg.RedirectURI != "" {
		u, err := url.Parse(cfg.RedirectURI)
		if err != nil || !u.IsAbs() {
			return nil, fmt.Errorf("REDIRECT_URI must be an absolute URL, got %q", cfg.RedirectURI)
		}
	}

	if secret := os.Getenv("STATE_SECRET"); secret != "" {
		if len(secret) < 32 {
			return nil, fmt.Errorf("STATE_SECRET must be at least 32 characters")
		}
		cfg.StateSecret = []byte(secret)
	} else {
		cfg.StateSecret = randomSecret()
		logger.Warn("STATE_SECRET not set, generated an ephemeral one; in-flight OAuth flows will not survive a restart")
	}

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		logger.Warn("Google OAuth credentials not configured; /oauth/start will report a configuration error")
	}

	return cfg, nil
}

func (c *Config) credentialsConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// redirectURI returns the configured redirect URI, or derives one from
// the request host when none is configured.
func (c *Config) redirectURI(scheme, host string) string {
	if c.RedirectURI != "" {
		return c.RedirectURI
	}
	return fmt.Sprintf("%s://%s/oauth/callback", scheme, host)
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		logger.Fatal("Failed to generate state secret", "error", err)
	}
	return []byte(hex.EncodeToString(buf))
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
