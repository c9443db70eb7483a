package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/spm/internal/flagx"
	"github.com/dmitrijs2005/spm/internal/timex"
)

type jsonGit struct {
	Path      string `json:"path"`
	RemoteURL string `json:"remote_url"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

type jsonS3 struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	Prefix    string `json:"prefix"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the lifetime can be written as "1080h".
type JsonConfig struct {
	RootDir         string         `json:"root_dir"`
	Store           string         `json:"store"`
	DatabaseDSN     string         `json:"database_dsn"`
	Sync            string         `json:"sync"`
	Git             jsonGit        `json:"git"`
	S3              jsonS3         `json:"s3"`
	DefaultLength   int            `json:"default_length"`
	DefaultLifetime timex.Duration `json:"default_lifetime"`
	LogLevel        string         `json:"log_level"`
}

func toJson(cfg *Config) JsonConfig {
	return JsonConfig{
		RootDir:         cfg.RootDir,
		Store:           cfg.Store,
		DatabaseDSN:     cfg.DatabaseDSN,
		Sync:            cfg.Sync,
		Git:             jsonGit(cfg.Git),
		S3:              jsonS3(cfg.S3),
		DefaultLength:   cfg.DefaultLength,
		DefaultLifetime: timex.Duration{Duration: cfg.DefaultLifetime},
		LogLevel:        cfg.LogLevel,
	}
}

func (jc JsonConfig) apply(cfg *Config) {
	cfg.RootDir = jc.RootDir
	cfg.Store = jc.Store
	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.Sync = jc.Sync
	cfg.Git = GitConfig(jc.Git)
	cfg.S3 = S3Config(jc.S3)
	cfg.DefaultLength = jc.DefaultLength
	cfg.DefaultLifetime = jc.DefaultLifetime.Duration
	cfg.LogLevel = jc.LogLevel
}

// parseJson overlays Config with values loaded from a JSON file named by -c
// or -config in args. Without either flag it does nothing. The file is
// decoded on top of the current values, so absent keys keep them.
func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.JsonConfigFlags(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	jc := toJson(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}
	jc.apply(cfg)
	return nil
}
