// Package cli provides the spm command-line front end.
//
// It wires configuration, the selected store backend, the synchronizer and
// the vault service, and exposes them as one-shot commands or as an
// interactive shell:
//
//   - init              create the master key
//   - add <name> [len]  add an account and print its password
//   - list [filter]     list accounts (aliases: ls, l)
//   - view <name>       print the password of an account
//   - <name>            shorthand for view
//   - key               print the public key and its hash160
//   - sync              push the repository
//   - shell             start the REPL
//
// The master password is read from the terminal without echo, checked by
// CheckStrength and asked at most once per process.
package cli
