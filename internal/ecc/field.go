package ecc

import (
	"math/big"

	"github.com/dmitrijs2005/spm/internal/cryptox"
)

// Field performs exact modular arithmetic modulo a fixed prime. Results are
// always fresh values in [0, m); inputs are never modified.
type Field struct {
	m *big.Int
}

// NewField returns a Field for the modulus m. m must be an odd prime greater
// than 2 for Inverse and Sqrt to be meaningful.
func NewField(m *big.Int) *Field {
	return &Field{m: new(big.Int).Set(m)}
}

// Modulus returns a copy of the field modulus.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.m)
}

// Reduce returns a mod m, mapped into [0, m) for negative a as well.
func (f *Field) Reduce(a *big.Int) *big.Int {
	return new(big.Int).Mod(a, f.m)
}

func (f *Field) Add(a, b *big.Int) *big.Int {
	z := new(big.Int).Add(a, b)
	return z.Mod(z, f.m)
}

func (f *Field) Sub(a, b *big.Int) *big.Int {
	z := new(big.Int).Sub(a, b)
	return z.Mod(z, f.m)
}

func (f *Field) Mul(a, b *big.Int) *big.Int {
	z := new(big.Int).Mul(a, b)
	return z.Mod(z, f.m)
}

func (f *Field) Neg(a *big.Int) *big.Int {
	z := new(big.Int).Neg(a)
	return z.Mod(z, f.m)
}

func (f *Field) Exp(a, e *big.Int) *big.Int {
	return new(big.Int).Exp(f.Reduce(a), e, f.m)
}

// Inverse returns a^-1 mod m. The inverse of zero does not exist and is
// reported as ErrInvalidOperand.
func (f *Field) Inverse(a *big.Int) (*big.Int, error) {
	r := f.Reduce(a)
	if r.Sign() == 0 {
		return nil, cryptox.NewError(cryptox.ErrInvalidOperand, "modular inverse of zero")
	}
	return r.ModInverse(r, f.m), nil
}

// Sqrt returns a square root of a when one exists. It relies on m = 3 mod 4,
// which holds for the secp256k1 field prime.
func (f *Field) Sqrt(a *big.Int) (*big.Int, bool) {
	r := f.Reduce(a)
	exp := new(big.Int).Add(f.m, one)
	exp.Rsh(exp, 2)
	y := new(big.Int).Exp(r, exp, f.m)
	if f.Mul(y, y).Cmp(r) != 0 {
		return nil, false
	}
	return y, true
}

// InRange reports whether 1 <= a < m.
func (f *Field) InRange(a *big.Int) bool {
	return a != nil && a.Sign() > 0 && a.Cmp(f.m) < 0
}
