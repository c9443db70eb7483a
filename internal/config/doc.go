// Package config loads runtime configuration for the spm command.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-r string   repository root directory
//	-s string   record store backend: fs, sqlite or postgres
//	-d string   database DSN (sqlite file or postgres connection string)
//	-y string   synchronization: none, git or s3
//	-v string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "1080h"
// or integer nanoseconds. Keys that are absent keep their defaults:
//
//	{
//	  "root_dir": "/home/me/.config/spm",
//	  "store": "fs",
//	  "sync": "git",
//	  "git": {"remote_url": "git@example.com:me/vault.git"},
//	  "default_length": 20,
//	  "default_lifetime": "1080h",
//	  "log_level": "warn"
//	}
package config
