package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/spm/internal/common"
	"github.com/dmitrijs2005/spm/internal/logging"
	"github.com/dmitrijs2005/spm/internal/record"
)

// Store backends.
const (
	StoreFS       = "fs"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Sync modes.
const (
	SyncNone = "none"
	SyncGit  = "git"
	SyncS3   = "s3"
)

// GitConfig configures the git synchronizer.
type GitConfig struct {
	Path      string
	RemoteURL string
	UserName  string
	UserEmail string
}

// S3Config configures the S3 synchronizer. Endpoint is optional and switches
// to path-style addressing (MinIO and similar).
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
}

// Config holds runtime settings for the spm command.
type Config struct {
	RootDir     string
	Store       string
	DatabaseDSN string
	Sync        string

	Git GitConfig
	S3  S3Config

	DefaultLength   int
	DefaultLifetime time.Duration
	LogLevel        string
}

// ValueFlags lists every flag this package consumes together with its value.
var ValueFlags = []string{"-c", "-config", "-r", "-s", "-d", "-y", "-v"}

func defaultRootDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "spm")
	}
	return ".spm"
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RootDir = defaultRootDir()
	c.Store = StoreFS
	c.DatabaseDSN = ""
	c.Sync = SyncNone
	c.Git = GitConfig{
		Path:      "git",
		UserName:  "spm",
		UserEmail: "spm@localhost",
	}
	c.S3 = S3Config{
		Region: "us-east-1",
		Prefix: "spm/",
	}
	c.DefaultLength = record.DefaultLength
	c.DefaultLifetime = record.DefaultLifetime
	c.LogLevel = "warn"
}

// Validate checks backend names and numeric ranges.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFS, StoreSQLite:
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("store %q needs a database DSN", c.Store)
		}
	default:
		return fmt.Errorf("store %q: %w", c.Store, common.ErrUnknownBackend)
	}

	switch c.Sync {
	case SyncNone:
	case SyncGit:
		if c.Git.Path == "" {
			return fmt.Errorf("sync %q needs the git executable path", c.Sync)
		}
	case SyncS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("sync %q needs a bucket", c.Sync)
		}
	default:
		return fmt.Errorf("sync %q: %w", c.Sync, common.ErrUnknownBackend)
	}

	if c.Store != StoreFS && c.Sync == SyncGit {
		return fmt.Errorf("git sync works only with the %q store", StoreFS)
	}
	if c.DefaultLength < 1 || c.DefaultLength > record.MaxLength {
		return fmt.Errorf("default length %d out of range [1, %d]", c.DefaultLength, record.MaxLength)
	}
	if c.DefaultLifetime <= 0 {
		return fmt.Errorf("default lifetime must be positive, got %s", c.DefaultLifetime)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
