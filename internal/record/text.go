package record

import (
	"encoding/hex"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/keys"
	"github.com/dmitrijs2005/spm/internal/signature"
)

const (
	labelName      = "AccountName"
	labelExpires   = "Expires"
	labelLength    = "Length"
	labelHashCode  = "HashCode"
	labelSignature = "Signature"
)

var fieldOrder = []string{labelName, labelExpires, labelLength, labelHashCode, labelSignature}

func writeField(sb *strings.Builder, label, value string) {
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteByte('\n')
}

// Sign signs the canonical text of a and returns the full record text with
// the signature line appended. a is not modified.
func Sign(rand io.Reader, a *Account, priv *keys.PrivateKey) ([]byte, error) {
	canonical := a.Canonical()
	sig, err := signature.Sign(rand, cryptox.ASCII(canonical), priv)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(canonical)
	writeField(&sb, labelSignature, hex.EncodeToString(sig.Serialize()))
	return []byte(sb.String()), nil
}

// splitFields returns the values of the five labeled lines in order. Labels
// may be padded with spaces before the colon and lines may end in CRLF.
func splitFields(text string) ([]string, error) {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimRight(lines[len(lines)-1], "\r") == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) != len(fieldOrder) {
		return nil, malformed("record: expected %d lines, got %d", len(fieldOrder), len(lines))
	}

	values := make([]string, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return nil, malformed("record: line %d has no label", i+1)
		}
		if label := strings.TrimRight(line[:idx], " "); label != fieldOrder[i] {
			return nil, malformed("record: line %d: expected label %q, got %q", i+1, fieldOrder[i], label)
		}
		rest := line[idx+1:]
		if !strings.HasPrefix(rest, " ") {
			return nil, malformed("record: line %d: missing space after label", i+1)
		}
		values[i] = rest[1:]
	}
	return values, nil
}

// Parse decodes record text. Every value must be in canonical form and the
// hash code must match the name; the signature is decoded but not checked.
func Parse(text []byte) (*Account, error) {
	values, err := splitFields(string(text))
	if err != nil {
		return nil, err
	}
	name, expiresText, lengthText, hashText, sigText := values[0], values[1], values[2], values[3], values[4]

	if err := validateName(name); err != nil {
		return nil, err
	}

	expires, err := time.Parse(time.RFC3339, expiresText)
	if err != nil {
		return nil, malformed("record: bad expiry %q: %v", expiresText, err)
	}
	if expires.UTC().Format(time.RFC3339) != expiresText {
		return nil, malformed("record: expiry %q is not canonical UTC", expiresText)
	}

	length, err := strconv.Atoi(lengthText)
	if err != nil || strconv.Itoa(length) != lengthText {
		return nil, malformed("record: bad length %q", lengthText)
	}
	if err := validateLength(length); err != nil {
		return nil, err
	}

	hashCode, err := decodeHex(hashText)
	if err != nil {
		return nil, malformed("record: bad hash code: %v", err)
	}
	if string(hashCode) != string(HashName(name)) {
		return nil, malformed("record: hash code does not match account name")
	}

	der, err := decodeHex(sigText)
	if err != nil {
		return nil, malformed("record: bad signature hex: %v", err)
	}
	sig, err := signature.ParseDER(der)
	if err != nil {
		return nil, malformed("record: %v", err)
	}

	return &Account{
		Name:      name,
		Expires:   expires.UTC(),
		Length:    length,
		HashCode:  hashCode,
		Signature: sig,
	}, nil
}

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if hex.EncodeToString(b) != s {
		return nil, malformed("record: hex %q is not lowercase", s)
	}
	return b, nil
}

// Verify parses text and checks its signature against pub over the rebuilt
// canonical text.
func Verify(text []byte, pub *keys.PublicKey) (*Account, error) {
	a, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if !signature.Verify(cryptox.ASCII(a.Canonical()), a.Signature, pub) {
		return nil, cryptox.NewError(cryptox.ErrSignatureMismatch,
			"record: signature of account "+strconv.Quote(a.Name)+" does not verify")
	}
	return a, nil
}
