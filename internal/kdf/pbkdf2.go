// Package kdf implements a seekable PBKDF2-style key-derivation function.
//
// The output is a sequence of digest-sized blocks. Block i (1-based) is
//
//	U1 ^ U2 ^ ... ^ Uc,  U1 = PRF(salt || BE32(i)),  Uj = PRF(Uj-1)
//
// so any byte range can be produced by computing only the blocks that cover
// it. DeriveAt is that random-access form; Derive starts at offset zero.
package kdf

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"math"

	"github.com/dmitrijs2005/spm/internal/cryptox"
)

// PRF returns a fresh keyed hash. Every call must return an instance keyed
// with the same secret.
type PRF func() hash.Hash

// HMACSHA256 returns a PRF computing HMAC-SHA-256 under key. The key is
// copied.
func HMACSHA256(key []byte) PRF {
	k := append([]byte(nil), key...)
	return func() hash.Hash { return hmac.New(sha256.New, k) }
}

// HMACSHA1 returns a PRF computing HMAC-SHA-1 under key. The key is copied.
func HMACSHA1(key []byte) PRF {
	k := append([]byte(nil), key...)
	return func() hash.Hash { return hmac.New(sha1.New, k) }
}

// maxSaltLen leaves room for the 4-byte block counter in a 32-bit length.
const maxSaltLen = math.MaxInt32 - 4

func invalid(desc string) error {
	return cryptox.NewError(cryptox.ErrInvalidParameter, desc)
}

// Derive returns the first length bytes of the output stream.
func Derive(prf PRF, salt []byte, iterations, length int) ([]byte, error) {
	return DeriveAt(prf, salt, iterations, 0, length)
}

// DeriveAt returns length bytes of the output stream starting at offset.
// Only the blocks spanning [offset, offset+length) are computed.
func DeriveAt(prf PRF, salt []byte, iterations int, offset int64, length int) ([]byte, error) {
	if prf == nil {
		return nil, invalid("kdf: nil PRF")
	}
	if length <= 0 {
		return nil, invalid(fmt.Sprintf("kdf: length must be positive, got %d", length))
	}
	if iterations <= 0 {
		return nil, invalid(fmt.Sprintf("kdf: iterations must be positive, got %d", iterations))
	}
	if offset < 0 {
		return nil, invalid(fmt.Sprintf("kdf: offset must not be negative, got %d", offset))
	}
	if offset > math.MaxInt64-int64(length) {
		return nil, invalid("kdf: offset plus length overflows")
	}
	if len(salt) > maxSaltLen {
		return nil, invalid("kdf: salt too long for the block counter")
	}

	mac := prf()
	size := int64(mac.Size())
	first := offset / size
	last := (offset + int64(length) - 1) / size
	// block indices are first+1 .. last+1 and must fit the 32-bit counter
	if last >= math.MaxUint32 {
		return nil, invalid("kdf: requested range overflows the block counter")
	}

	input := make([]byte, len(salt)+4)
	copy(input, salt)
	u := make([]byte, 0, size)
	block := make([]byte, size)
	defer cryptox.Wipe(u[:cap(u)], block)

	out := make([]byte, 0, length)
	for b := first; b <= last; b++ {
		binary.BigEndian.PutUint32(input[len(salt):], uint32(b+1))
		computeBlock(mac, input, iterations, u, block)

		start := int64(0)
		if b == first {
			start = offset - first*size
		}
		end := size
		if remaining := int64(length - len(out)); end-start > remaining {
			end = start + remaining
		}
		out = append(out, block[start:end]...)
	}
	return out, nil
}

// computeBlock fills block with the XOR of all iterations for one counter
// value. u is scratch space of the digest size.
func computeBlock(mac hash.Hash, input []byte, iterations int, u, block []byte) {
	mac.Reset()
	mac.Write(input)
	u = mac.Sum(u[:0])
	copy(block, u)

	for i := 1; i < iterations; i++ {
		mac.Reset()
		mac.Write(u)
		u = mac.Sum(u[:0])
		for j := range block {
			block[j] ^= u[j]
		}
	}
}
