package config

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/spm/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	var c Config
	c.LoadDefaults()
	return &c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.NotEmpty(t, c.RootDir)
	assert.Equal(t, StoreFS, c.Store)
	assert.Equal(t, SyncNone, c.Sync)
	assert.Equal(t, "git", c.Git.Path)
	assert.Equal(t, 20, c.DefaultLength)
	assert.Equal(t, 45*24*time.Hour, c.DefaultLifetime)
	assert.Equal(t, "warn", c.LogLevel)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.NotNil(t, cfg, "LoadConfig must not return nil")

	assert.Equal(t, defaults(), cfg)
}

func TestLoadConfig_FlagsMixedWithCommand(t *testing.T) {
	cfg, err := LoadConfig([]string{"add", "github", "-r", "/tmp/vault", "24", "-v", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/vault", cfg.RootDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		isUnknown bool
	}{
		{"defaults", func(c *Config) {}, false, false},
		{"sqlite", func(c *Config) { c.Store = StoreSQLite }, false, false},
		{"postgres with dsn", func(c *Config) { c.Store = StorePostgres; c.DatabaseDSN = "postgres://x" }, false, false},
		{"postgres without dsn", func(c *Config) { c.Store = StorePostgres }, true, false},
		{"unknown store", func(c *Config) { c.Store = "redis" }, true, true},
		{"unknown sync", func(c *Config) { c.Sync = "rsync" }, true, true},
		{"git sync", func(c *Config) { c.Sync = SyncGit }, false, false},
		{"git sync without git", func(c *Config) { c.Sync = SyncGit; c.Git.Path = "" }, true, false},
		{"git sync on sqlite", func(c *Config) { c.Sync = SyncGit; c.Store = StoreSQLite }, true, false},
		{"s3 without bucket", func(c *Config) { c.Sync = SyncS3 }, true, false},
		{"s3 with bucket", func(c *Config) { c.Sync = SyncS3; c.S3.Bucket = "vault" }, false, false},
		{"length zero", func(c *Config) { c.DefaultLength = 0 }, true, false},
		{"length too long", func(c *Config) { c.DefaultLength = 33 }, true, false},
		{"lifetime zero", func(c *Config) { c.DefaultLifetime = 0 }, true, false},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.isUnknown, errors.Is(err, common.ErrUnknownBackend))
		})
	}
}
