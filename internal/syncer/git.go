package syncer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dmitrijs2005/spm/internal/config"
	"github.com/dmitrijs2005/spm/internal/logging"
)

// runCommand is a seam for testing command execution.
var runCommand = func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Git commits the store directory and pushes it to a remote using the git
// executable.
type Git struct {
	dir string
	cfg config.GitConfig
	log logging.Logger
}

// NewGit returns a syncer for the repository at dir.
func NewGit(dir string, cfg config.GitConfig, log logging.Logger) *Git {
	return &Git{dir: dir, cfg: cfg, log: log}
}

func (g *Git) run(ctx context.Context, args ...string) error {
	g.log.Debug(ctx, "git", "args", strings.Join(args, " "))
	out, err := runCommand(ctx, g.dir, g.cfg.Path, args...)
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (g *Git) script(ctx context.Context, steps [][]string) error {
	for _, args := range steps {
		if err := g.run(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// Init creates the git repository, sets the commit identity and, when a
// remote URL is configured, adds it as origin.
func (g *Git) Init(ctx context.Context) error {
	steps := [][]string{
		{"init", "--quiet"},
		{"config", "user.name", g.cfg.UserName},
		{"config", "user.email", g.cfg.UserEmail},
	}
	if g.cfg.RemoteURL != "" {
		steps = append(steps, []string{"remote", "add", "origin", g.cfg.RemoteURL})
	}
	return g.script(ctx, steps)
}

// Push stages everything, commits with message and pushes master to origin
// when a remote is configured.
func (g *Git) Push(ctx context.Context, message string) error {
	steps := [][]string{
		{"add", "."},
		{"commit", "--quiet", "-m", message},
	}
	if g.cfg.RemoteURL != "" {
		steps = append(steps, []string{"push", "--quiet", "-u", "origin", "master"})
	}
	return g.script(ctx, steps)
}
