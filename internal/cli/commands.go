package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/spm/internal/common"
)

const helpText = `Usage: spm [flags] [command]

Commands:
  init               initialize the repository
  add <name> [len]   add an account and print its password
  list [filter]      list accounts (ls, l)
  view <name>        print the password of an account
  <name>             same as view
  key                print the public key and its hash160
  sync               push the repository
  shell              interactive shell
  help               show this help

Flags:
  -c, -config <file>  JSON configuration file
  -r <dir>            repository root directory
  -s <fs|sqlite|postgres>
  -d <dsn>            database DSN
  -y <none|git|s3>    synchronization
  -v <level>          log level`

// dispatch runs a single command against a. Unknown commands are treated as
// account names.
func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help", "-h", "--help", "-?":
		return a.Help()
	case "init":
		return a.Init(ctx)
	case "add", "a":
		return a.Add(ctx, args)
	case "list", "ls", "l":
		return a.List(ctx, args)
	case "view", "v":
		return a.View(ctx, args)
	case "key":
		return a.Key(ctx)
	case "sync":
		return a.Sync(ctx)
	}
	return a.View(ctx, append([]string{cmd}, args...))
}

func (a *App) Help() error {
	fmt.Fprintln(a.out, helpText)
	return nil
}

// Init creates the repository and prints its public key.
func (a *App) Init(ctx context.Context) error {
	pub, err := a.vault.Init(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "repository initialized")
	fmt.Fprintln(a.out, "public key:", pub.String())
	return nil
}

// Add signs a new account and prints its password. The name is asked for
// when missing.
func (a *App) Add(ctx context.Context, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		var err error
		name, err = GetSimpleText(a.reader, "Account name", a.out)
		if err != nil {
			return err
		}
	}

	length := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid length %q", args[1])
		}
		length = n
	}

	if _, err := a.vault.AddAccount(ctx, name, length); err != nil {
		return err
	}
	return a.view(ctx, name)
}

// List prints "hash length expires name" for every account matching the
// optional filter.
func (a *App) List(ctx context.Context, args []string) error {
	accounts, err := a.vault.Accounts(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	for _, acc := range accounts {
		fmt.Fprintf(a.out, "%s %d %s %s\n",
			acc.ShortHash(), acc.Length, acc.Expires.Format(time.RFC3339), acc.Name)
	}
	return nil
}

// View prints the password for the account named by args.
func (a *App) View(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: view <name>")
	}
	return a.view(ctx, strings.Join(args, " "))
}

func (a *App) view(ctx context.Context, name string) error {
	_, password, err := a.vault.PasswordFor(ctx, name)
	if errors.Is(err, common.ErrorNotFound) {
		fmt.Fprintln(a.out, "account not found!")
		return a.List(ctx, nil)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, password)
	return nil
}

// Key prints the public key and its hash160.
func (a *App) Key(ctx context.Context) error {
	pub, err := a.vault.PublicKey(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "public key:", pub.String())
	fmt.Fprintln(a.out, "hash160:", hex.EncodeToString(pub.Hash()))
	return nil
}

// Sync pushes the repository through the configured synchronizer.
func (a *App) Sync(ctx context.Context) error {
	if err := a.vault.Sync(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "synchronized")
	return nil
}
