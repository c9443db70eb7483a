// Package keys provides the secp256k1 key model: a private scalar and the
// public point derived from it.
package keys

import (
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/ecc"
)

// PrivateKeyLen is the length of serialized private key material.
const PrivateKeyLen = ecc.ByteSize

// PrivateKey is a scalar in [1, N-1] plus the compression flag used when its
// public key is encoded.
type PrivateKey struct {
	key        []byte
	compressed bool
	pub        func() *PublicKey
}

// NewPrivateKey validates b and wraps a copy of it. b must be exactly 32
// bytes encoding an integer in [1, N-1].
func NewPrivateKey(b []byte, compressed bool) (*PrivateKey, error) {
	if len(b) != PrivateKeyLen {
		return nil, cryptox.NewError(cryptox.ErrInvalidKey,
			fmt.Sprintf("private key must be %d bytes, got %d", PrivateKeyLen, len(b)))
	}
	if !ecc.Fn.InRange(new(big.Int).SetBytes(b)) {
		return nil, cryptox.NewError(cryptox.ErrInvalidKey, "private key is zero or not less than the group order")
	}

	k := &PrivateKey{key: append([]byte(nil), b...), compressed: compressed}
	k.pub = sync.OnceValue(func() *PublicKey {
		return newPublicKey(ecc.ScalarBaseMult(k.scalar()), k.compressed)
	})
	return k, nil
}

// PrivateKeyFromBytes is NewPrivateKey with compressed public key encoding.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	return NewPrivateKey(b, true)
}

// GeneratePrivateKey draws 32 bytes from r (crypto/rand when nil), hashes
// them with SHA-256 and uses the digest as the key, re-drawing in the
// negligible case that it falls outside [1, N-1].
func GeneratePrivateKey(r io.Reader) (*PrivateKey, error) {
	for {
		seed, err := cryptox.RandomBytes(r, PrivateKeyLen)
		if err != nil {
			return nil, fmt.Errorf("read entropy: %w", err)
		}
		candidate := cryptox.SHA256(seed)
		cryptox.Wipe(seed)

		k, err := PrivateKeyFromBytes(candidate)
		cryptox.Wipe(candidate)
		if err == nil {
			return k, nil
		}
	}
}

func (k *PrivateKey) scalar() *big.Int {
	return new(big.Int).SetBytes(k.key)
}

// Scalar returns the private scalar.
func (k *PrivateKey) Scalar() *big.Int {
	return k.scalar()
}

// Bytes returns a copy of the 32-byte key material.
func (k *PrivateKey) Bytes() []byte {
	return append([]byte(nil), k.key...)
}

func (k *PrivateKey) Compressed() bool {
	return k.compressed
}

// PublicKey returns scalar*G. The result is computed once.
func (k *PrivateKey) PublicKey() *PublicKey {
	return k.pub()
}

// Wipe clears the key material. The key must not be used afterwards.
func (k *PrivateKey) Wipe() {
	cryptox.Wipe(k.key)
}
