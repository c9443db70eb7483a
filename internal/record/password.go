package record

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/kdf"
	"github.com/dmitrijs2005/spm/internal/keys"
)

const (
	passwordIterations = 1000
	passwordSeedLen    = 32
)

// DerivePassword regenerates the password of a: PBKDF2-HMAC-SHA256 keyed by
// the private key over the hash code, Base58 encoded and cut to a.Length.
func DerivePassword(priv *keys.PrivateKey, a *Account) (string, error) {
	if err := validateLength(a.Length); err != nil {
		return "", err
	}

	material := priv.Bytes()
	defer cryptox.Wipe(material)

	seed, err := kdf.Derive(kdf.HMACSHA256(material), a.HashCode, passwordIterations, passwordSeedLen)
	if err != nil {
		return "", err
	}
	defer cryptox.Wipe(seed)

	return base58.Encode(seed)[:a.Length], nil
}
