package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/spm/internal/common"
	"github.com/dmitrijs2005/spm/internal/config"
	"github.com/dmitrijs2005/spm/internal/filex"
	"github.com/dmitrijs2005/spm/internal/logging"
	"github.com/dmitrijs2005/spm/internal/store"
	"github.com/dmitrijs2005/spm/internal/store/fsstore"
	"github.com/dmitrijs2005/spm/internal/store/pgstore"
	"github.com/dmitrijs2005/spm/internal/store/sqlitestore"
	"github.com/dmitrijs2005/spm/internal/syncer"
	"github.com/dmitrijs2005/spm/internal/vault"
)

// sqliteFileName is the database file used when the sqlite store has no DSN.
const sqliteFileName = "spm.db"

type App struct {
	config *config.Config
	store  store.Store
	vault  *vault.Service
	log    logging.Logger
	out    io.Writer
	reader *bufio.Reader
}

// NewApp opens the configured store and synchronizer and returns an App
// talking to the process's standard streams.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdin, os.Stdout, os.Stderr)
}

func newApp(ctx context.Context, c *config.Config, in io.Reader, out, errOut io.Writer) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logging.NewTextLogger(errOut, level)

	st, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	sy, err := newSyncer(ctx, c, st, log.With("component", "sync"))
	if err != nil {
		st.Close()
		return nil, err
	}

	prompt := newPasswordPrompt(out)
	v := vault.New(c, st, sy, prompt.Get, log.With("component", "vault"))

	return &App{
		config: c,
		store:  st,
		vault:  v,
		log:    log,
		out:    out,
		reader: bufio.NewReader(in),
	}, nil
}

func openStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Store {
	case config.StoreFS:
		st, err := fsstore.New(c.RootDir)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.StoreSQLite:
		dsn := c.DatabaseDSN
		if dsn == "" {
			dir, err := filex.EnsureDir(c.RootDir)
			if err != nil {
				return nil, err
			}
			dsn = filepath.Join(dir, sqliteFileName)
		}
		st, err := sqlitestore.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.StorePostgres:
		st, err := pgstore.Open(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, fmt.Errorf("store %q: %w", c.Store, common.ErrUnknownBackend)
}

func newSyncer(ctx context.Context, c *config.Config, st store.Store, log logging.Logger) (syncer.Syncer, error) {
	switch c.Sync {
	case config.SyncNone, "":
		return syncer.Noop{}, nil
	case config.SyncGit:
		fs, ok := st.(*fsstore.Store)
		if !ok {
			return nil, errors.New("git sync needs the file system store")
		}
		return syncer.NewGit(fs.Root(), c.Git, log), nil
	case config.SyncS3:
		s3, err := syncer.NewS3(ctx, c.S3, st)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	return nil, fmt.Errorf("sync %q: %w", c.Sync, common.ErrUnknownBackend)
}

// Close releases the store.
func (a *App) Close() error {
	return a.store.Close()
}

// Run executes one command. Without arguments the accounts are listed.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.List(ctx, nil)
	}
	if args[0] == "shell" {
		return a.Shell(ctx)
	}
	return dispatch(ctx, a, args[0], args[1:])
}

// Shell runs the REPL on the App's input until EOF or exit.
func (a *App) Shell(ctx context.Context) error {
	fmt.Fprintln(a.out, "spm shell (type 'help' for commands)")
	runREPL(ctx, a, bufio.NewScanner(a.reader))
	return nil
}
