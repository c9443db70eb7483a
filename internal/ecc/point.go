package ecc

import (
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/spm/internal/cryptox"
)

// SEC1 prefixes.
const (
	prefixInfinity     = 0x00
	prefixEven         = 0x02
	prefixOdd          = 0x03
	prefixUncompressed = 0x04
)

// Encoded point lengths.
const (
	CompressedLen   = 1 + ByteSize
	UncompressedLen = 1 + 2*ByteSize
)

// Point is an affine point on secp256k1 or the point at infinity (the zero
// value). Points are immutable: every operation returns a new Point and the
// coordinate getters return copies.
type Point struct {
	x, y *big.Int
}

// Infinity returns the identity element.
func Infinity() Point {
	return Point{}
}

// NewPoint returns the point (x, y), failing with ErrInvalidPoint when the
// coordinates are out of range or do not satisfy the curve equation.
func NewPoint(x, y *big.Int) (Point, error) {
	if x == nil || y == nil || x.Sign() < 0 || y.Sign() < 0 || x.Cmp(P) >= 0 || y.Cmp(P) >= 0 {
		return Point{}, cryptox.NewError(cryptox.ErrInvalidPoint, "point coordinates out of range")
	}
	p := Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
	if !p.IsOnCurve() {
		return Point{}, cryptox.NewError(cryptox.ErrInvalidPoint, "point is not on the curve")
	}
	return p, nil
}

func (p Point) IsInfinity() bool {
	return p.x == nil
}

// X returns a copy of the x coordinate, or nil for the identity.
func (p Point) X() *big.Int {
	if p.IsInfinity() {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for the identity.
func (p Point) Y() *big.Int {
	if p.IsInfinity() {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// IsOnCurve reports whether y^2 = x^3 + 7 mod P. The identity is on the curve.
func (p Point) IsOnCurve() bool {
	if p.IsInfinity() {
		return true
	}
	return Fp.Mul(p.y, p.y).Cmp(curveRHS(p.x)) == 0
}

func curveRHS(x *big.Int) *big.Int {
	x3 := Fp.Mul(Fp.Mul(x, x), x)
	return Fp.Add(x3, B)
}

func (p Point) Equal(q Point) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() == q.IsInfinity()
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Neg returns -p.
func (p Point) Neg() Point {
	if p.IsInfinity() {
		return p
	}
	return Point{x: new(big.Int).Set(p.x), y: Fp.Neg(p.y)}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	if p.x.Cmp(q.x) == 0 {
		if Fp.Add(p.y, q.y).Sign() == 0 {
			return Infinity()
		}
		return p.Double()
	}

	// lambda = (y2 - y1) / (x2 - x1); x2 != x1 so the inverse exists.
	den, _ := Fp.Inverse(Fp.Sub(q.x, p.x))
	l := Fp.Mul(Fp.Sub(q.y, p.y), den)
	return p.chord(l, q.x)
}

// Double returns 2p.
func (p Point) Double() Point {
	if p.IsInfinity() || p.y.Sign() == 0 {
		return Infinity()
	}

	// lambda = 3x^2 / 2y
	den, _ := Fp.Inverse(Fp.Mul(two, p.y))
	l := Fp.Mul(Fp.Mul(three, Fp.Mul(p.x, p.x)), den)
	return p.chord(l, p.x)
}

// chord finishes addition and doubling once the slope is known.
func (p Point) chord(l, qx *big.Int) Point {
	x3 := Fp.Sub(Fp.Sub(Fp.Mul(l, l), p.x), qx)
	y3 := Fp.Sub(Fp.Mul(l, Fp.Sub(p.x, x3)), p.y)
	return Point{x: x3, y: y3}
}

// ScalarMult returns k*p using double-and-add from the most significant bit
// down. k is reduced modulo N first; k = 0 yields the identity.
func (p Point) ScalarMult(k *big.Int) Point {
	if p.IsInfinity() || k == nil {
		return Infinity()
	}
	k = Fn.Reduce(k)

	r := Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = r.Double()
		if k.Bit(i) == 1 {
			r = r.Add(p)
		}
	}
	return r
}

// Encode serializes p in SEC1 form: 33 bytes with an 0x02/0x03 parity prefix
// when compressed, 65 bytes with an 0x04 prefix otherwise. The identity
// encodes to the single byte 0x00.
func (p Point) Encode(compressed bool) []byte {
	if p.IsInfinity() {
		return []byte{prefixInfinity}
	}
	if compressed {
		out := make([]byte, CompressedLen)
		out[0] = prefixEven
		if p.y.Bit(0) == 1 {
			out[0] = prefixOdd
		}
		p.x.FillBytes(out[1:])
		return out
	}
	out := make([]byte, UncompressedLen)
	out[0] = prefixUncompressed
	p.x.FillBytes(out[1 : 1+ByteSize])
	p.y.FillBytes(out[1+ByteSize:])
	return out
}

// Decode parses a SEC1 encoded point.
func Decode(b []byte) (Point, error) {
	if len(b) == 0 {
		return Point{}, cryptox.NewError(cryptox.ErrInvalidPoint, "empty point encoding")
	}

	switch b[0] {
	case prefixInfinity:
		if len(b) != 1 {
			return Point{}, invalidLen(b, 1)
		}
		return Infinity(), nil

	case prefixEven, prefixOdd:
		if len(b) != CompressedLen {
			return Point{}, invalidLen(b, CompressedLen)
		}
		x := new(big.Int).SetBytes(b[1:])
		if x.Cmp(P) >= 0 {
			return Point{}, cryptox.NewError(cryptox.ErrInvalidPoint, "x coordinate is not less than the field prime")
		}
		y, ok := Fp.Sqrt(curveRHS(x))
		if !ok {
			return Point{}, cryptox.NewError(cryptox.ErrInvalidPoint, "no curve point has the given x coordinate")
		}
		if y.Bit(0) != uint(b[0]&1) {
			y = Fp.Neg(y)
		}
		return NewPoint(x, y)

	case prefixUncompressed:
		if len(b) != UncompressedLen {
			return Point{}, invalidLen(b, UncompressedLen)
		}
		x := new(big.Int).SetBytes(b[1 : 1+ByteSize])
		y := new(big.Int).SetBytes(b[1+ByteSize:])
		return NewPoint(x, y)

	default:
		return Point{}, cryptox.NewError(cryptox.ErrInvalidPoint,
			fmt.Sprintf("unrecognized point prefix 0x%02x", b[0]))
	}
}

func invalidLen(b []byte, want int) error {
	return cryptox.NewError(cryptox.ErrInvalidPoint,
		fmt.Sprintf("malformed point: %d bytes for prefix 0x%02x, want %d", len(b), b[0], want))
}

// String returns the compressed hex encoding, or "infinity".
func (p Point) String() string {
	if p.IsInfinity() {
		return "infinity"
	}
	return fmt.Sprintf("%x", p.Encode(true))
}
