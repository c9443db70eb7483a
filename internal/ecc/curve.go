// Package ecc implements affine point arithmetic on the secp256k1 curve
// y^2 = x^3 + 7 over math/big, together with the SEC1 point codec.
//
// The curve parameters are fixed. Fp performs arithmetic modulo the field
// prime P and Fn modulo the group order N.
package ecc

import "math/big"

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)

	// P is the field prime.
	P = fromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F")

	// N is the order of the group generated by G.
	N = fromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")

	// B is the constant term of the curve equation; the linear term a is 0.
	B = big.NewInt(7)

	gx = fromHex("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798")
	gy = fromHex("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8")

	// Fp is arithmetic modulo P.
	Fp = NewField(P)

	// Fn is arithmetic modulo N.
	Fn = NewField(N)

	g = Point{x: gx, y: gy}
)

// ByteSize is the length of a serialized field element or scalar.
const ByteSize = 32

func fromHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("ecc: invalid hex constant " + s)
	}
	return v
}

// Generator returns the base point G.
func Generator() Point {
	return g
}

// ScalarBaseMult returns k*G.
func ScalarBaseMult(k *big.Int) Point {
	return g.ScalarMult(k)
}

// PadScalar returns v as a big-endian byte slice of exactly ByteSize bytes.
// v must be non-negative and less than 2^256.
func PadScalar(v *big.Int) []byte {
	out := make([]byte, ByteSize)
	return v.FillBytes(out)
}
