package syncer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/spm/internal/config"
	"github.com/dmitrijs2005/spm/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	name string
	args string
}

func stubRunCommand(t *testing.T, failOn string) *[]call {
	t.Helper()
	var calls []call
	orig := runCommand
	runCommand = func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		joined := strings.Join(args, " ")
		calls = append(calls, call{dir: dir, name: name, args: joined})
		if failOn != "" && strings.HasPrefix(joined, failOn) {
			return []byte("fatal: something"), errors.New("exit status 128")
		}
		return nil, nil
	}
	t.Cleanup(func() { runCommand = orig })
	return &calls
}

func gitConfig(remote string) config.GitConfig {
	return config.GitConfig{
		Path:      "/usr/bin/git",
		RemoteURL: remote,
		UserName:  "Vault Owner",
		UserEmail: "owner@example.com",
	}
}

func argsOf(calls []call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.args
	}
	return out
}

func TestGit_InitSequence(t *testing.T) {
	calls := stubRunCommand(t, "")
	g := NewGit("/vault", gitConfig("git@example.com:me/vault.git"), logging.Discard())

	require.NoError(t, g.Init(context.Background()))

	assert.Equal(t, []string{
		"init --quiet",
		"config user.name Vault Owner",
		"config user.email owner@example.com",
		"remote add origin git@example.com:me/vault.git",
	}, argsOf(*calls))
	for _, c := range *calls {
		assert.Equal(t, "/vault", c.dir)
		assert.Equal(t, "/usr/bin/git", c.name)
	}
}

func TestGit_PushSequence(t *testing.T) {
	calls := stubRunCommand(t, "")
	g := NewGit("/vault", gitConfig("git@example.com:me/vault.git"), logging.Discard())

	require.NoError(t, g.Push(context.Background(), "account github added"))

	assert.Equal(t, []string{
		"add .",
		"commit --quiet -m account github added",
		"push --quiet -u origin master",
	}, argsOf(*calls))
}

func TestGit_NoRemoteSkipsRemoteSteps(t *testing.T) {
	calls := stubRunCommand(t, "")
	g := NewGit("/vault", gitConfig(""), logging.Discard())

	require.NoError(t, g.Init(context.Background()))
	require.NoError(t, g.Push(context.Background(), "msg"))

	for _, a := range argsOf(*calls) {
		assert.NotContains(t, a, "remote")
		assert.NotContains(t, a, "push")
	}
}

func TestGit_StopsAtFirstFailure(t *testing.T) {
	calls := stubRunCommand(t, "commit")
	g := NewGit("/vault", gitConfig("git@example.com:me/vault.git"), logging.Discard())

	err := g.Push(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git commit")
	assert.Contains(t, err.Error(), "fatal: something")
	assert.Len(t, *calls, 2)
}

func TestNoop(t *testing.T) {
	var s Syncer = Noop{}
	assert.NoError(t, s.Init(context.Background()))
	assert.NoError(t, s.Push(context.Background(), "x"))
}
