package keys

import (
	"encoding/hex"
	"sync"

	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/ecc"
)

// PublicKey is a non-identity curve point plus the encoding it is serialized
// with.
type PublicKey struct {
	point      ecc.Point
	compressed bool
	hash       func() []byte
}

func newPublicKey(p ecc.Point, compressed bool) *PublicKey {
	pk := &PublicKey{point: p, compressed: compressed}
	pk.hash = sync.OnceValue(func() []byte {
		return cryptox.Hash160(pk.Bytes())
	})
	return pk
}

// NewPublicKey wraps p. The identity is not a valid public key.
func NewPublicKey(p ecc.Point, compressed bool) (*PublicKey, error) {
	if p.IsInfinity() || !p.IsOnCurve() {
		return nil, cryptox.NewError(cryptox.ErrInvalidPoint, "public key must be a non-identity curve point")
	}
	return newPublicKey(p, compressed), nil
}

// ParsePublicKey decodes a SEC1 compressed or uncompressed public key. The
// encoding it was parsed from is kept for serialization.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	p, err := ecc.Decode(b)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(p, len(b) == ecc.CompressedLen)
}

func (pk *PublicKey) Point() ecc.Point {
	return pk.point
}

func (pk *PublicKey) Compressed() bool {
	return pk.compressed
}

// Bytes returns the SEC1 encoding.
func (pk *PublicKey) Bytes() []byte {
	return pk.point.Encode(pk.compressed)
}

// Hash returns RIPEMD-160(SHA-256(Bytes())).
func (pk *PublicKey) Hash() []byte {
	return append([]byte(nil), pk.hash()...)
}

// Equal compares points; the compression flag is ignored.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return pk.point.Equal(other.point)
}

func (pk *PublicKey) String() string {
	return hex.EncodeToString(pk.Bytes())
}
