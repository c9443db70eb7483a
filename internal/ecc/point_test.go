package ecc

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compressedG = "0279BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"

func mustPoint(t *testing.T, x, y string) Point {
	t.Helper()
	p, err := NewPoint(fromHex(x), fromHex(y))
	require.NoError(t, err)
	return p
}

func randomScalar(t *testing.T) *big.Int {
	t.Helper()
	for {
		k, err := rand.Int(rand.Reader, N)
		require.NoError(t, err)
		if k.Sign() > 0 {
			return k
		}
	}
}

func TestGenerator_KnownEncoding(t *testing.T) {
	assert.True(t, Generator().IsOnCurve())
	assert.Equal(t, compressedG, strings.ToUpper(hex.EncodeToString(Generator().Encode(true))))

	// private key 1 maps to G
	assert.True(t, ScalarBaseMult(big.NewInt(1)).Equal(Generator()))
}

func TestScalarMult_SmallMultiples(t *testing.T) {
	g2 := mustPoint(t,
		"C6047F9441ED7D6D3045406E95C07CD85C778E4B8CEF3CA7ABAC09B95C709EE5",
		"1AE168FEA63DC339A3C58419466CEAEEF7F632653266D0E1236431A950CFE52A")
	g3 := mustPoint(t,
		"F9308A019258C31049344F85F89D5229B531C845836F99B08601F113BCE036F9",
		"388F7B0F632DE8140FE337E62A37F3566500A99934C2231B6CB9FD7584B8E672")

	assert.True(t, Generator().Double().Equal(g2))
	assert.True(t, Generator().Add(Generator()).Equal(g2))
	assert.True(t, ScalarBaseMult(big.NewInt(2)).Equal(g2))
	assert.True(t, ScalarBaseMult(big.NewInt(3)).Equal(g3))
	assert.True(t, g2.Add(Generator()).Equal(g3))
	assert.True(t, Generator().Add(g2).Equal(g3))
}

func TestScalarMult_EdgeScalars(t *testing.T) {
	assert.True(t, ScalarBaseMult(big.NewInt(0)).IsInfinity())
	assert.True(t, ScalarBaseMult(N).IsInfinity())

	nMinusOne := new(big.Int).Sub(N, one)
	assert.True(t, ScalarBaseMult(nMinusOne).Equal(Generator().Neg()))

	assert.True(t, Infinity().ScalarMult(big.NewInt(5)).IsInfinity())
}

func TestAdd_IdentityAndInverse(t *testing.T) {
	g := Generator()
	assert.True(t, g.Add(Infinity()).Equal(g))
	assert.True(t, Infinity().Add(g).Equal(g))
	assert.True(t, g.Add(g.Neg()).IsInfinity())
	assert.True(t, Infinity().Add(Infinity()).IsInfinity())
	assert.True(t, Infinity().Double().IsInfinity())
}

func TestAdd_Associative(t *testing.T) {
	a := ScalarBaseMult(randomScalar(t))
	b := ScalarBaseMult(randomScalar(t))
	c := ScalarBaseMult(randomScalar(t))

	assert.True(t, a.Add(b).Add(c).Equal(a.Add(b.Add(c))))
}

func TestScalarMult_Distributes(t *testing.T) {
	k1 := randomScalar(t)
	k2 := randomScalar(t)

	lhs := ScalarBaseMult(Fn.Add(k1, k2))
	rhs := ScalarBaseMult(k1).Add(ScalarBaseMult(k2))
	assert.True(t, lhs.Equal(rhs))
}

func TestPoint_IsImmutable(t *testing.T) {
	g := Generator()
	x := g.X()
	x.SetInt64(1)
	assert.Equal(t, compressedG, strings.ToUpper(hex.EncodeToString(g.Encode(true))))

	_ = g.Add(g)
	_ = g.ScalarMult(big.NewInt(7))
	assert.True(t, g.Equal(Generator()))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for i := 0; i < 8; i++ {
		p := ScalarBaseMult(randomScalar(t))

		for _, compressed := range []bool{true, false} {
			enc := p.Encode(compressed)
			if compressed {
				require.Len(t, enc, CompressedLen)
			} else {
				require.Len(t, enc, UncompressedLen)
			}

			got, err := Decode(enc)
			require.NoError(t, err)
			assert.True(t, got.Equal(p), "compressed=%v", compressed)
		}
	}
}

func TestEncodeDecode_Infinity(t *testing.T) {
	enc := Infinity().Encode(true)
	assert.Equal(t, []byte{0x00}, enc)

	p, err := Decode(enc)
	require.NoError(t, err)
	assert.True(t, p.IsInfinity())
}

func TestDecode_Errors(t *testing.T) {
	g := Generator()
	offCurve := g.Encode(false)
	offCurve[len(offCurve)-1] ^= 0x01

	// find an x with no matching y
	noY := make([]byte, CompressedLen)
	noY[0] = prefixEven
	for x := int64(1); ; x++ {
		if _, ok := Fp.Sqrt(curveRHS(big.NewInt(x))); !ok {
			big.NewInt(x).FillBytes(noY[1:])
			break
		}
	}

	bigX := make([]byte, CompressedLen)
	bigX[0] = prefixEven
	P.FillBytes(bigX[1:])

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"unknown prefix", append([]byte{0x05}, g.Encode(true)[1:]...)},
		{"hybrid prefix", append([]byte{0x06}, g.Encode(false)[1:]...)},
		{"compressed too short", g.Encode(true)[:32]},
		{"compressed too long", append(g.Encode(true), 0x00)},
		{"uncompressed too short", g.Encode(false)[:64]},
		{"infinity with payload", []byte{0x00, 0x01}},
		{"uncompressed off curve", offCurve},
		{"compressed x without y", noY},
		{"x not less than P", bigX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, cryptox.ErrInvalidPoint), "got %v", err)
		})
	}
}

func TestNewPoint_RejectsOffCurve(t *testing.T) {
	_, err := NewPoint(big.NewInt(1), big.NewInt(1))
	assert.True(t, errors.Is(err, cryptox.ErrInvalidPoint))

	_, err = NewPoint(big.NewInt(-1), big.NewInt(1))
	assert.True(t, errors.Is(err, cryptox.ErrInvalidPoint))
}

func TestScalarBaseMult_MatchesBtcec(t *testing.T) {
	for i := 0; i < 8; i++ {
		k := randomScalar(t)

		_, pub := btcec.PrivKeyFromBytes(PadScalar(k))
		ours := ScalarBaseMult(k)

		assert.Equal(t, pub.SerializeCompressed(), ours.Encode(true))
		assert.Equal(t, pub.SerializeUncompressed(), ours.Encode(false))
	}
}
