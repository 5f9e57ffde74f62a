package inkpot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "Blog", cfg.Name)
	assert.Equal(t, "http://localhost:5003", cfg.URL)
	assert.Equal(t, ":5003", cfg.Addr)
	assert.Equal(t, "data/posts.db", cfg.DatabasePath)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.StrictImageURL)
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SITE_NAME", "Inkwell")
	t.Setenv("SITE_URL", "https://blog.example.com/")
	t.Setenv("ADDR", "127.0.0.1:8080")
	t.Setenv("DATABASE_PATH", "/tmp/blog.db")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("STRICT_IMAGE_URL", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "Inkwell", cfg.Name)
	assert.Equal(t, "https://blog.example.com", cfg.URL)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, "/tmp/blog.db", cfg.DatabasePath)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.StrictImageURL)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDotenvFile(t *testing.T) {
	clearEnv(t)
	// godotenv writes straight into the process environment.
	t.Cleanup(func() {
		for key := range envKeys {
			os.Unsetenv(key)
		}
	})
	t.Setenv("SITE_AUTHOR", "From Env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SITE_NAME=Dotenv Blog\nSITE_AUTHOR=From File\nSESSION_SECRET=abc\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Dotenv Blog", cfg.Name)
	assert.Equal(t, "From Env", cfg.Author, "process environment wins over the file")
	assert.Equal(t, "abc", cfg.SessionSecret)
}

func TestLoadConfigMissingDotenvIsIgnored(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "Blog", cfg.Name)
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := SiteConfig{Name: "Mine", Addr: ":9000", ShutdownTimeout: time.Second}
	cfg.setDefaults()
	assert.Equal(t, "Mine", cfg.Name)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/posts.db", cfg.DatabasePath)
}
