package inkpot

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/eringen/inkpot/logger"
)

// SiteConfig holds all configuration for an inkpot site. It is fixed at
// startup and not mutated afterwards.
type SiteConfig struct {
	Name        string `koanf:"site_name"`        // Site name (default "Blog")
	URL         string `koanf:"site_url"`         // Canonical URL used in feeds and sitemap
	Description string `koanf:"site_description"` // Site description for feeds and meta tags
	Author      string `koanf:"site_author"`      // Site owner, used for JSON-LD and feeds

	Addr         string `koanf:"addr"`          // Listen address (default ":5003")
	DatabasePath string `koanf:"database_path"` // SQLite path (default "data/posts.db")

	SessionSecret string `koanf:"session_secret"` // Required: signs the flash/session cookie
	CookieSecure  bool   `koanf:"cookie_secure"`  // Set true for HTTPS

	StrictImageURL  bool          `koanf:"strict_image_url"` // Require img_url to be a well-formed URL
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // Graceful shutdown budget (default 10s)
}

func defaultSiteConfig() SiteConfig {
	return SiteConfig{
		Name:            "Blog",
		URL:             "http://localhost:5003",
		Addr:            ":5003",
		DatabasePath:    "data/posts.db",
		ShutdownTimeout: 10 * time.Second,
	}
}

func (c *SiteConfig) setDefaults() {
	d := defaultSiteConfig()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.URL == "" {
		c.URL = d.URL
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.DatabasePath == "" {
		c.DatabasePath = d.DatabasePath
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
}

// Validate reports configuration the server cannot start without.
func (c *SiteConfig) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("inkpot: SESSION_SECRET is required")
	}
	return nil
}

// envKeys maps environment variable names onto koanf keys.
var envKeys = map[string]string{
	"SITE_NAME":        "site_name",
	"SITE_URL":         "site_url",
	"SITE_DESCRIPTION": "site_description",
	"SITE_AUTHOR":      "site_author",
	"ADDR":             "addr",
	"DATABASE_PATH":    "database_path",
	"SESSION_SECRET":   "session_secret",
	"COOKIE_SECURE":    "cookie_secure",
	"STRICT_IMAGE_URL": "strict_image_url",
	"SHUTDOWN_TIMEOUT": "shutdown_timeout",
}

// LoadConfig builds a SiteConfig from defaults, an optional dotenv file and
// the process environment, in that order of precedence (lowest first).
// Variables already set in the environment win over the dotenv file.
func LoadConfig(envFile string) (SiteConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return SiteConfig{}, fmt.Errorf("inkpot: load %s: %w", envFile, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultSiteConfig(), "koanf"), nil); err != nil {
		return SiteConfig{}, fmt.Errorf("inkpot: load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envKeys[key]
			if !ok {
				return "", nil
			}
			return path, value
		},
	}), nil); err != nil {
		return SiteConfig{}, fmt.Errorf("inkpot: load environment: %w", err)
	}

	var cfg SiteConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("inkpot: decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default stdout logger.
func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}
