package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "subconv", cfg.Metrics.Namespace)
	assert.Equal(t, 1, cfg.Convert.Parallelism)
	assert.Equal(t, "Proxy", cfg.Convert.ProfileName)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: text
http:
  addr: ":9000"
convert:
  parallelism: 4
cache:
  ttl: 30s
`), 0o600))
	t.Setenv("SUBCONV_HTTP_ADDR", ":9100")
	t.Setenv("SUBCONV_METRICS_TOKEN", "secret")

	cfg, used, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, ":9100", cfg.HTTP.Addr, "env wins over the file")
	assert.Equal(t, "secret", cfg.Metrics.Token)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.Equal(t, 4, cfg.Convert.Parallelism)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestLoadDiscoversWorkingDirFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subconv.yaml"), []byte("rate_limit:\n  enabled: false\n"), 0o600))
	t.Chdir(dir)

	cfg, used, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "subconv.yaml", filepath.Base(used))
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "bogus"}.SlogLevel())
}
