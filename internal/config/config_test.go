package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "env: development\n"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "http://localhost:2333", cfg.SiteURL)
	assert.Equal(t, "bootstrap", cfg.UIFramework)
	assert.Equal(t, "pressforge", cfg.Database.Name)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.S3Enabled())
}

func TestLoadNormalizes(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
env: "  Production  "
site_url: "https://example.com/"
ui_framework: "  Tailwind "
allowed_origins:
  - "  https://a.example  "
  - ""
`))
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "https://example.com", cfg.SiteURL)
	assert.Equal(t, "tailwind", cfg.UIFramework)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowedOrigins)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "prot: 8080\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoadValidatesPorts(t *testing.T) {
	_, err := Load(writeConfig(t, "port: 70000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")

	_, err = Load(writeConfig(t, "database:\n  port: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid database.port")

	_, err = Load(writeConfig(t, "redis:\n  db: -2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis.db")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestS3Enabled(t *testing.T) {
	cfg, err := Load(writeConfig(t, "s3:\n  bucket: my-bucket\n  region: us-east-1\n"))
	require.NoError(t, err)
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, "my-bucket", cfg.S3.Bucket)
}

func TestResolveRuntimePath(t *testing.T) {
	abs := t.TempDir()
	assert.Equal(t, filepath.Clean(abs), ResolveRuntimePath(abs, "logs"))

	fallback := ResolveRuntimePath("", "logs")
	assert.True(t, filepath.IsAbs(fallback))
	assert.Equal(t, "logs", filepath.Base(fallback))

	// an explicit relative path wins over the fallback
	assert.Equal(t, "data", filepath.Base(ResolveRuntimePath("data", "logs")))
}

func TestDatabaseDSNValue(t *testing.T) {
	c := DatabaseConfig{
		Host: "db.internal", Port: 3307,
		User: "pf", Password: "secret", Name: "site",
		Charset: "utf8mb4", ParseTime: true, Loc: "Local",
	}
	assert.Equal(t,
		"pf:secret@tcp(db.internal:3307)/site?charset=utf8mb4&loc=Local&parseTime=true",
		c.DSNValue())

	// explicit dsn wins
	explicit := DatabaseConfig{DSN: "root:x@tcp(h:3306)/d", Host: "ignored"}
	assert.Equal(t, "root:x@tcp(h:3306)/d", explicit.DSNValue())
}

func TestRedisURLValue(t *testing.T) {
	assert.Equal(t, "redis://localhost:6379/0", RedisConfig{}.URLValue())
	assert.Equal(t, "rediss://cache:6380/2", RedisConfig{Host: "cache", Port: 6380, DB: 2, TLS: true}.URLValue())
	assert.Equal(t, "redis://user:pw@cache:6379/0",
		RedisConfig{Host: "cache", Username: "user", Password: "pw"}.URLValue())
	assert.Equal(t, "redis://:pw@cache:6379/0",
		RedisConfig{Host: "cache", Password: "pw"}.URLValue())

	// explicit url wins, scheme added when missing
	assert.Equal(t, "redis://h:1/5", RedisConfig{URL: "redis://h:1/5", Host: "ignored"}.URLValue())
	assert.Equal(t, "redis://h:1", RedisConfig{URL: "h:1"}.URLValue())
}
