// Package cryptox holds the primitives shared by the crypto core: the error
// kinds every core package reports, hash helpers, secure random bytes and
// wiping of secret buffers.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/ripemd160"
)

// SHA256 returns the SHA-256 digest of data as a slice.
func SHA256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Hash160 returns RIPEMD-160(SHA-256(data)).
func Hash160(data []byte) []byte {
	a := sha256.Sum256(data)
	rmd := ripemd160.New()
	rmd.Write(a[:])
	return rmd.Sum(nil)
}

// ASCII converts s to bytes the way a 7-bit ASCII encoder does: every rune
// outside the ASCII range becomes '?'.
func ASCII(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0x7f {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return out
}

// RandomBytes reads size bytes from r. A nil reader means crypto/rand.
func RandomBytes(r io.Reader, size int) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Wipe overwrites the contents of the provided byte slices with zeros.
// Use it for private key material and derived secrets once they are no
// longer needed. Nil slices are ignored.
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		for i := range b {
			b[i] = 0
		}
	}
}
