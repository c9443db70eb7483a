// Package record implements signed account records: the canonical text form
// of an account, its ECDSA signature under the master key, and the password
// derived from it.
package record

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/signature"
)

const (
	// MaxLength is the longest password an account can ask for. Base58 of a
	// 32-byte value is never shorter than this.
	MaxLength = 32

	DefaultLength   = 20
	DefaultLifetime = 45 * 24 * time.Hour
)

// Account is one entry of the ledger. Accounts are created and signed once
// and never mutated afterwards.
type Account struct {
	Name     string
	Expires  time.Time
	Length   int
	HashCode []byte

	// Signature is nil for an account that has not been signed yet.
	Signature *signature.Signature
}

// HashName returns SHA-256 of the ASCII encoding of name. It is the salt of
// the account password.
func HashName(name string) []byte {
	return cryptox.SHA256(cryptox.ASCII(name))
}

func malformed(format string, args ...any) error {
	return cryptox.NewError(cryptox.ErrMalformedRecord, fmt.Sprintf(format, args...))
}

func validateName(name string) error {
	if name == "" {
		return malformed("record: empty account name")
	}
	if strings.ContainsAny(name, "\r\n") {
		return malformed("record: account name contains a line break")
	}
	return nil
}

func validateLength(length int) error {
	if length < 1 || length > MaxLength {
		return malformed("record: length %d out of range [1, %d]", length, MaxLength)
	}
	return nil
}

// NewAccount builds an unsigned account. expires is truncated to whole
// seconds in UTC.
func NewAccount(name string, expires time.Time, length int) (*Account, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateLength(length); err != nil {
		return nil, err
	}
	return &Account{
		Name:     name,
		Expires:  expires.UTC().Truncate(time.Second),
		Length:   length,
		HashCode: HashName(name),
	}, nil
}

// Canonical returns the text that gets signed, without the signature line.
func (a *Account) Canonical() string {
	var sb strings.Builder
	writeField(&sb, labelName, a.Name)
	writeField(&sb, labelExpires, a.Expires.UTC().Format(time.RFC3339))
	writeField(&sb, labelLength, strconv.Itoa(a.Length))
	writeField(&sb, labelHashCode, hex.EncodeToString(a.HashCode))
	return sb.String()
}

// ShortHash is the first six hex digits of the hash code, used in listings.
func (a *Account) ShortHash() string {
	h := hex.EncodeToString(a.HashCode)
	if len(h) > 6 {
		h = h[:6]
	}
	return h
}

// Expired reports whether now is at or past the expiry time.
func (a *Account) Expired(now time.Time) bool {
	return !now.Before(a.Expires)
}
