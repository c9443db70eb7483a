package record

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

var expiry = time.Date(2026, 11, 30, 10, 0, 0, 0, time.UTC)

func newKey(t *testing.T) *keys.PrivateKey {
	t.Helper()
	k, err := keys.GeneratePrivateKey(nil)
	require.NoError(t, err)
	return k
}

func signed(t *testing.T, priv *keys.PrivateKey, name string, length int) string {
	t.Helper()
	a, err := NewAccount(name, expiry, length)
	require.NoError(t, err)
	text, err := Sign(nil, a, priv)
	require.NoError(t, err)
	return string(text)
}

func TestCanonical_Format(t *testing.T) {
	a, err := NewAccount("github", expiry.Add(500*time.Millisecond), 20)
	require.NoError(t, err)

	want := "AccountName: github\n" +
		"Expires: 2026-11-30T10:00:00Z\n" +
		"Length: 20\n" +
		"HashCode: " + hex.EncodeToString(HashName("github")) + "\n"
	assert.Equal(t, want, a.Canonical())
}

func TestSignVerify_Github(t *testing.T) {
	priv := newKey(t)
	text := signed(t, priv, "github", 20)

	assert.True(t, strings.HasPrefix(text, "AccountName: github\n"))
	assert.Contains(t, text, "\nSignature: ")

	a, err := Verify([]byte(text), priv.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, "github", a.Name)
	assert.Equal(t, 20, a.Length)
	assert.True(t, a.Expires.Equal(expiry))
	assert.Equal(t, HashName("github"), a.HashCode)

	tampered := strings.Replace(text, "Length: 20", "Length: 30", 1)
	_, err = Verify([]byte(tampered), priv.PublicKey())
	require.Error(t, err)
	assert.True(t, errors.Is(err, cryptox.ErrSignatureMismatch))
}

func TestVerify_WrongKey(t *testing.T) {
	text := signed(t, newKey(t), "mail", 16)
	_, err := Verify([]byte(text), newKey(t).PublicKey())
	require.Error(t, err)
	assert.True(t, errors.Is(err, cryptox.ErrSignatureMismatch))
}

func TestVerify_TamperedExpiry(t *testing.T) {
	priv := newKey(t)
	text := signed(t, priv, "bank", 20)
	tampered := strings.Replace(text, "2026-11-30", "2036-11-30", 1)

	_, err := Verify([]byte(tampered), priv.PublicKey())
	require.Error(t, err)
	assert.True(t, errors.Is(err, cryptox.ErrSignatureMismatch))
}

func TestParse_PaddedLabelsAndCRLF(t *testing.T) {
	priv := newKey(t)
	text := signed(t, priv, "github", 20)

	padded := strings.NewReplacer(
		"Expires: ", "Expires    : ",
		"Length: ", "Length     : ",
		"HashCode: ", "HashCode   : ",
		"Signature: ", "Signature  : ",
		"\n", "\r\n",
	).Replace(text)

	a, err := Verify([]byte(padded), priv.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, "github", a.Name)
}

func TestParse_Malformed(t *testing.T) {
	priv := newKey(t)
	good := signed(t, priv, "github", 20)
	hash := hex.EncodeToString(HashName("github"))
	lines := strings.Split(strings.TrimSuffix(good, "\n"), "\n")

	join := func(ls ...string) string { return strings.Join(ls, "\n") + "\n" }

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"missing signature", join(lines[:4]...)},
		{"extra line", join(append(lines, "Extra: x")...)},
		{"swapped labels", join(lines[1], lines[0], lines[2], lines[3], lines[4])},
		{"no colon", join("AccountName github", lines[1], lines[2], lines[3], lines[4])},
		{"no space after colon", join("AccountName:github", lines[1], lines[2], lines[3], lines[4])},
		{"empty name", join("AccountName: ", lines[1], lines[2], lines[3], lines[4])},
		{"bad expiry", join(lines[0], "Expires: tomorrow", lines[2], lines[3], lines[4])},
		{"offset expiry", join(lines[0], "Expires: 2026-11-30T12:00:00+02:00", lines[2], lines[3], lines[4])},
		{"fractional expiry", join(lines[0], "Expires: 2026-11-30T10:00:00.5Z", lines[2], lines[3], lines[4])},
		{"non-numeric length", join(lines[0], lines[1], "Length: twenty", lines[3], lines[4])},
		{"leading zero length", join(lines[0], lines[1], "Length: 020", lines[3], lines[4])},
		{"zero length", join(lines[0], lines[1], "Length: 0", lines[3], lines[4])},
		{"length too long", join(lines[0], lines[1], "Length: 33", lines[3], lines[4])},
		{"uppercase hash", join(lines[0], lines[1], lines[2], "HashCode: "+strings.ToUpper(hash), lines[4])},
		{"hash of other name", join(lines[0], lines[1], lines[2], "HashCode: "+hex.EncodeToString(HashName("gitlab")), lines[4])},
		{"bad signature hex", join(lines[0], lines[1], lines[2], lines[3], "Signature: zz")},
		{"bad der", join(lines[0], lines[1], lines[2], lines[3], "Signature: 3006020101020101ff")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.text))
			require.Error(t, err)
			assert.True(t, errors.Is(err, cryptox.ErrMalformedRecord), "got %v", err)
		})
	}
}

func TestNewAccount_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		account string
		length  int
	}{
		{"empty name", "", 20},
		{"newline", "a\nb", 20},
		{"carriage return", "a\rb", 20},
		{"zero length", "a", 0},
		{"too long", "a", MaxLength + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccount(tt.account, expiry, tt.length)
			require.Error(t, err)
			assert.True(t, errors.Is(err, cryptox.ErrMalformedRecord))
		})
	}
}

func TestExpired(t *testing.T) {
	a, err := NewAccount("x", expiry, 10)
	require.NoError(t, err)

	assert.False(t, a.Expired(expiry.Add(-time.Second)))
	assert.True(t, a.Expired(expiry))
	assert.True(t, a.Expired(expiry.Add(time.Hour)))
}

func TestShortHash(t *testing.T) {
	a, err := NewAccount("github", expiry, 10)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(HashName("github"))[:6], a.ShortHash())
}

func TestDerivePassword(t *testing.T) {
	priv := newKey(t)
	a, err := NewAccount("github", expiry, 20)
	require.NoError(t, err)

	pw, err := DerivePassword(priv, a)
	require.NoError(t, err)
	assert.Len(t, pw, 20)

	again, err := DerivePassword(priv, a)
	require.NoError(t, err)
	assert.Equal(t, pw, again)

	seed := pbkdf2.Key(priv.Bytes(), HashName("github"), 1000, 32, sha256.New)
	assert.Equal(t, base58.Encode(seed)[:20], pw)

	for _, c := range pw {
		assert.Contains(t, "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz", string(c))
	}
}

func TestDerivePassword_LengthsSharePrefix(t *testing.T) {
	priv := newKey(t)
	short, err := NewAccount("site", expiry, 8)
	require.NoError(t, err)
	long, err := NewAccount("site", expiry, MaxLength)
	require.NoError(t, err)

	a, err := DerivePassword(priv, short)
	require.NoError(t, err)
	b, err := DerivePassword(priv, long)
	require.NoError(t, err)

	assert.Len(t, b, MaxLength)
	assert.Equal(t, a, b[:8])
}

func TestDerivePassword_DiffersByAccountAndKey(t *testing.T) {
	priv := newKey(t)
	a, err := NewAccount("one", expiry, 20)
	require.NoError(t, err)
	b, err := NewAccount("two", expiry, 20)
	require.NoError(t, err)

	pa, err := DerivePassword(priv, a)
	require.NoError(t, err)
	pb, err := DerivePassword(priv, b)
	require.NoError(t, err)
	assert.NotEqual(t, pa, pb)

	other, err := DerivePassword(newKey(t), a)
	require.NoError(t, err)
	assert.NotEqual(t, pa, other)
}
