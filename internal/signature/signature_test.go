package signature

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/ecc"
	"github.com/dmitrijs2005/spm/internal/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *keys.PrivateKey {
	t.Helper()
	k, err := keys.GeneratePrivateKey(nil)
	require.NoError(t, err)
	return k
}

func TestSignVerify_RoundTrip(t *testing.T) {
	k := newKey(t)

	messages := [][]byte{
		[]byte(""),
		[]byte("hello"),
		bytes.Repeat([]byte{0xab}, 1000),
	}
	for _, m := range messages {
		sig, err := Sign(nil, m, k)
		require.NoError(t, err)
		assert.True(t, Verify(m, sig, k.PublicKey()))
	}
}

func TestSign_ProducesLowS(t *testing.T) {
	k := newKey(t)
	for i := 0; i < 16; i++ {
		sig, err := Sign(nil, []byte{byte(i)}, k)
		require.NoError(t, err)
		assert.True(t, sig.IsLowS())
	}
}

func TestSign_RandomNonce(t *testing.T) {
	k := newKey(t)
	m := []byte("same message")

	a, err := Sign(nil, m, k)
	require.NoError(t, err)
	b, err := Sign(nil, m, k)
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
}

func TestSign_EntropyFailure(t *testing.T) {
	k := newKey(t)
	_, err := Sign(bytes.NewReader(nil), []byte("m"), k)
	require.Error(t, err)
}

func TestVerify_BitFlipFails(t *testing.T) {
	k := newKey(t)
	m := []byte("AccountName: github\n")

	sig, err := Sign(nil, m, k)
	require.NoError(t, err)

	for i := 0; i < len(m)*8; i += 7 {
		flipped := append([]byte(nil), m...)
		flipped[i/8] ^= 1 << (i % 8)
		assert.False(t, Verify(flipped, sig, k.PublicKey()), "bit %d", i)
	}
}

func TestVerify_WrongKeyFails(t *testing.T) {
	k := newKey(t)
	other := newKey(t)
	m := []byte("message")

	sig, err := Sign(nil, m, k)
	require.NoError(t, err)
	assert.False(t, Verify(m, sig, other.PublicKey()))
}

func TestVerify_MalleatedSignatureStillVerifies(t *testing.T) {
	k := newKey(t)
	m := []byte("message")

	sig, err := Sign(nil, m, k)
	require.NoError(t, err)

	high := sig.Malleate()
	assert.False(t, high.IsLowS())
	assert.True(t, Verify(m, high, k.PublicKey()))
}

func TestVerify_OutOfRangeRejected(t *testing.T) {
	k := newKey(t)
	m := []byte("message")
	sig, err := Sign(nil, m, k)
	require.NoError(t, err)

	tests := []struct {
		name string
		sig  *Signature
	}{
		{"r zero", NewSignature(big.NewInt(0), sig.S())},
		{"s zero", NewSignature(sig.R(), big.NewInt(0))},
		{"r equal N", NewSignature(ecc.N, sig.S())},
		{"s plus N", NewSignature(sig.R(), new(big.Int).Add(sig.S(), ecc.N))},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify(m, tt.sig, k.PublicKey()))
		})
	}

	assert.False(t, Verify(m, sig, nil))
}

func TestSign_VerifiedByBtcec(t *testing.T) {
	k := newKey(t)
	m := []byte("cross-check")

	sig, err := Sign(nil, m, k)
	require.NoError(t, err)

	parsed, err := btcecdsa.ParseDERSignature(sig.Serialize())
	require.NoError(t, err)

	pub, err := btcec.ParsePubKey(k.PublicKey().Bytes())
	require.NoError(t, err)
	assert.True(t, parsed.Verify(cryptox.SHA256(m), pub))
}

func TestVerify_AcceptsBtcecSignature(t *testing.T) {
	k := newKey(t)
	m := []byte("cross-check")

	priv, _ := btcec.PrivKeyFromBytes(k.Bytes())
	theirs := btcecdsa.Sign(priv, cryptox.SHA256(m))

	sig, err := ParseDER(theirs.Serialize())
	require.NoError(t, err)
	assert.True(t, Verify(m, sig, k.PublicKey()))
}

func TestSignWithNonce_ZeroesNonceOnRetry(t *testing.T) {
	m := []byte("retry")
	h := hashToInt(m)
	k := big.NewInt(1)
	r := ecc.Fn.Reduce(ecc.Generator().X())

	// d = -h/r makes h + r*d vanish, so s = 0 and the nonce is rejected
	rInv, err := ecc.Fn.Inverse(r)
	require.NoError(t, err)
	d := ecc.Fn.Neg(ecc.Fn.Mul(h, rInv))

	assert.Nil(t, signWithNonce(h, d, k))
	assert.Equal(t, 0, k.Sign(), "nonce must be cleared before retrying")
}

func TestSignWithNonce_ZeroesNonceOnSuccess(t *testing.T) {
	priv := newKey(t)
	m := []byte("success")
	k := big.NewInt(12345)

	sig := signWithNonce(hashToInt(m), priv.Scalar(), k)
	require.NotNil(t, sig)
	assert.Equal(t, 0, k.Sign())
	assert.True(t, sig.IsLowS())
	assert.True(t, Verify(m, sig, priv.PublicKey()))
}
