// Package keywrap protects the 32-byte master key material with a password.
//
// The password is stretched to 64 bytes with PBKDF2-HMAC-SHA1 (1000
// iterations, salt SHA-256 of the ASCII password). The first 32 bytes are
// XORed into the key material and the second 32 bytes key an AES-256 cipher
// that encrypts each 16-byte half independently.
package keywrap

import (
	"crypto/aes"
	"crypto/sha1"
	"fmt"

	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/keys"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// BlobLen is the size of a wrapped key.
	BlobLen = keys.PrivateKeyLen

	StretchIterations = 1000
	StretchLen        = 64
)

// Stretch derives the 64 wrapping bytes for password.
func Stretch(password string) []byte {
	salt := cryptox.SHA256(cryptox.ASCII(password))
	return pbkdf2.Key([]byte(password), salt, StretchIterations, StretchLen, sha1.New)
}

func checkLen(b []byte, what string) error {
	if len(b) != BlobLen {
		return cryptox.NewError(cryptox.ErrInvalidKey,
			fmt.Sprintf("keywrap: %s must be %d bytes, got %d", what, BlobLen, len(b)))
	}
	return nil
}

// Encrypt wraps the key material under password.
func Encrypt(material []byte, password string) ([]byte, error) {
	if err := checkLen(material, "key material"); err != nil {
		return nil, err
	}

	derived := Stretch(password)
	defer cryptox.Wipe(derived)

	block, err := aes.NewCipher(derived[32:])
	if err != nil {
		return nil, err
	}

	mixed := make([]byte, BlobLen)
	defer cryptox.Wipe(mixed)
	for i := range mixed {
		mixed[i] = material[i] ^ derived[i]
	}

	out := make([]byte, BlobLen)
	block.Encrypt(out[:aes.BlockSize], mixed[:aes.BlockSize])
	block.Encrypt(out[aes.BlockSize:], mixed[aes.BlockSize:])
	return out, nil
}

// Decrypt reverses Encrypt. A wrong password is not detected here: it
// produces different bytes.
func Decrypt(blob []byte, password string) ([]byte, error) {
	if err := checkLen(blob, "wrapped key"); err != nil {
		return nil, err
	}

	derived := Stretch(password)
	defer cryptox.Wipe(derived)

	block, err := aes.NewCipher(derived[32:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, BlobLen)
	block.Decrypt(out[:aes.BlockSize], blob[:aes.BlockSize])
	block.Decrypt(out[aes.BlockSize:], blob[aes.BlockSize:])
	for i := range out {
		out[i] ^= derived[i]
	}
	return out, nil
}

// Wrap encrypts the private key under password.
func Wrap(priv *keys.PrivateKey, password string) ([]byte, error) {
	material := priv.Bytes()
	defer cryptox.Wipe(material)
	return Encrypt(material, password)
}

// Unwrap decrypts blob and builds a compressed private key from it. A
// decrypted value outside [1, N-1] fails with ErrInvalidKey. A wrong password
// almost always decrypts to a valid scalar, so callers compare public keys.
func Unwrap(blob []byte, password string) (*keys.PrivateKey, error) {
	material, err := Decrypt(blob, password)
	if err != nil {
		return nil, err
	}
	defer cryptox.Wipe(material)
	return keys.PrivateKeyFromBytes(material)
}
