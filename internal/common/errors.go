// Package common defines shared constants and sentinel errors used across
// the store, vault and cli layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound = errors.New("not found")

	// Vault-level errors.
	ErrNotInitialized     = errors.New("repository is not initialized")
	ErrAlreadyInitialized = errors.New("repository is already initialized")
	ErrWrongPassword      = errors.New("wrong master password")

	// Password policy.
	ErrWeakPassword = errors.New("password is too weak")

	// Configuration errors.
	ErrUnknownBackend = errors.New("unknown backend")
)
