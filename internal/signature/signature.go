// Package signature implements ECDSA over secp256k1 with SHA-256 message
// digests, random nonces and a strict DER codec.
package signature

import (
	"fmt"
	"io"
	"math/big"

	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/ecc"
	"github.com/dmitrijs2005/spm/internal/keys"
)

// halfOrder is N/2, the boundary between low-s and high-s values.
var halfOrder = new(big.Int).Rsh(ecc.N, 1)

// Signature is an ECDSA (r, s) pair. It carries no reference to the message
// or the key.
type Signature struct {
	r, s *big.Int
}

// NewSignature copies r and s into a Signature. No range check is made here;
// Verify rejects out-of-range values.
func NewSignature(r, s *big.Int) *Signature {
	return &Signature{r: new(big.Int).Set(r), s: new(big.Int).Set(s)}
}

func (sig *Signature) R() *big.Int { return new(big.Int).Set(sig.r) }
func (sig *Signature) S() *big.Int { return new(big.Int).Set(sig.s) }

// IsLowS reports whether s <= N/2.
func (sig *Signature) IsLowS() bool {
	return sig.s.Cmp(halfOrder) <= 0
}

// Malleate returns (r, N-s), the other signature that verifies for the same
// message and key.
func (sig *Signature) Malleate() *Signature {
	return &Signature{r: new(big.Int).Set(sig.r), s: ecc.Fn.Neg(sig.s)}
}

func (sig *Signature) Equal(other *Signature) bool {
	return other != nil && sig.r.Cmp(other.r) == 0 && sig.s.Cmp(other.s) == 0
}

func hashToInt(message []byte) *big.Int {
	return new(big.Int).SetBytes(cryptox.SHA256(message))
}

// nonce draws k uniformly from [1, N-1] by rejection sampling.
func nonce(rand io.Reader) (*big.Int, error) {
	for {
		b, err := cryptox.RandomBytes(rand, ecc.ByteSize)
		if err != nil {
			return nil, fmt.Errorf("read nonce entropy: %w", err)
		}
		k := new(big.Int).SetBytes(b)
		cryptox.Wipe(b)
		if ecc.Fn.InRange(k) {
			return k, nil
		}
	}
}

// Sign produces a signature over SHA-256(message) with a fresh random nonce
// read from rand (crypto/rand when nil). The returned s is always in the
// lower half of the group order.
func Sign(rand io.Reader, message []byte, priv *keys.PrivateKey) (*Signature, error) {
	h := hashToInt(message)
	d := priv.Scalar()
	defer d.SetInt64(0)

	for {
		k, err := nonce(rand)
		if err != nil {
			return nil, err
		}
		if sig := signWithNonce(h, d, k); sig != nil {
			return sig, nil
		}
	}
}

// signWithNonce returns the low-s signature for digest h, key d and nonce k,
// or nil when k yields r = 0 or s = 0 and a new nonce is needed. k and its
// inverse are zeroed on every return.
func signWithNonce(h, d, k *big.Int) *Signature {
	defer k.SetInt64(0)

	r := ecc.Fn.Reduce(ecc.ScalarBaseMult(k).X())
	if r.Sign() == 0 {
		return nil
	}

	kInv, err := ecc.Fn.Inverse(k)
	if err != nil {
		return nil
	}
	defer kInv.SetInt64(0)

	s := ecc.Fn.Mul(kInv, ecc.Fn.Add(h, ecc.Fn.Mul(r, d)))
	if s.Sign() == 0 {
		return nil
	}

	sig := &Signature{r: r, s: s}
	if !sig.IsLowS() {
		sig = sig.Malleate()
	}
	return sig
}

// Verify reports whether sig is a valid signature of SHA-256(message) under
// pub. Both s and N-s are accepted.
func Verify(message []byte, sig *Signature, pub *keys.PublicKey) bool {
	if sig == nil || pub == nil {
		return false
	}
	if !ecc.Fn.InRange(sig.r) || !ecc.Fn.InRange(sig.s) {
		return false
	}

	h := hashToInt(message)
	w, err := ecc.Fn.Inverse(sig.s)
	if err != nil {
		return false
	}
	u1 := ecc.Fn.Mul(h, w)
	u2 := ecc.Fn.Mul(sig.r, w)

	p := ecc.ScalarBaseMult(u1).Add(pub.Point().ScalarMult(u2))
	if p.IsInfinity() {
		return false
	}
	return ecc.Fn.Reduce(p.X()).Cmp(sig.r) == 0
}
