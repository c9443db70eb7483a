package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/spm/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters args to only include the flags it knows about, using
// flagx.FilterArgs, so the command and its arguments may appear anywhere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-r", "-s", "-d", "-y", "-v"})

	fs := flag.NewFlagSet("spm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.RootDir, "r", cfg.RootDir, "repository root directory")
	fs.StringVar(&cfg.Store, "s", cfg.Store, "record store: fs, sqlite or postgres")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.Sync, "y", cfg.Sync, "synchronization: none, git or s3")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
