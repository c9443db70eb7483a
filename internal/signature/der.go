package signature

import (
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/spm/internal/cryptox"
)

const (
	asn1SequenceID = 0x30
	asn1IntegerID  = 0x02

	// minSigLen is the minimum length of a DER encoded signature: both
	// integers one byte long.
	//
	// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x02 + 0x01 + <byte>
	minSigLen = 8

	// maxSigLen is the maximum length of a DER encoded signature: both
	// integers 33 bytes long because of a leading zero.
	//
	// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x02 + 0x21 + <33 bytes>
	maxSigLen = 72
)

func derError(desc string) error {
	return cryptox.NewError(cryptox.ErrInvalidSignatureEncoding, desc)
}

// canonicalInt returns the minimal DER INTEGER content bytes for a
// non-negative v: big-endian, with a zero byte prepended only when the high
// bit of the first byte is set.
func canonicalInt(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		return []byte{0x00}
	}
	if b[0]&0x80 != 0 {
		b = append([]byte{0x00}, b...)
	}
	return b
}

// Serialize returns the DER encoding of the signature:
//
//	0x30 <total len> 0x02 <len R> <R> 0x02 <len S> <S>
func (sig *Signature) Serialize() []byte {
	rb := canonicalInt(sig.r)
	sb := canonicalInt(sig.s)

	total := 2 + len(rb) + 2 + len(sb)
	out := make([]byte, 0, 2+total)
	out = append(out, asn1SequenceID, byte(total))
	out = append(out, asn1IntegerID, byte(len(rb)))
	out = append(out, rb...)
	out = append(out, asn1IntegerID, byte(len(sb)))
	out = append(out, sb...)
	return out
}

// parseInt reads one INTEGER starting at sig[offset]. name is "R" or "S" and
// only used for error descriptions.
func parseInt(sig []byte, offset int, name string) (*big.Int, int, error) {
	if offset >= len(sig) || sig[offset] != asn1IntegerID {
		return nil, 0, derError(fmt.Sprintf("malformed signature: %s integer tag missing", name))
	}
	offset++
	if offset >= len(sig) {
		return nil, 0, derError(fmt.Sprintf("malformed signature: %s length missing", name))
	}
	n := int(sig[offset])
	offset++
	if n == 0 {
		return nil, 0, derError(fmt.Sprintf("malformed signature: %s length is zero", name))
	}
	if n&0x80 != 0 || offset+n > len(sig) {
		return nil, 0, derError(fmt.Sprintf("malformed signature: bogus %s length", name))
	}

	body := sig[offset : offset+n]
	if body[0]&0x80 != 0 {
		return nil, 0, derError(fmt.Sprintf("malformed signature: %s is negative", name))
	}
	if n > 1 && body[0] == 0x00 && body[1]&0x80 == 0 {
		return nil, 0, derError(fmt.Sprintf("malformed signature: %s value has too much padding", name))
	}
	return new(big.Int).SetBytes(body), offset + n, nil
}

// ParseDER decodes a strict DER signature. Lengths must be short-form and
// exact, integers must be minimally encoded and non-negative, and nothing may
// follow the second integer.
func ParseDER(sig []byte) (*Signature, error) {
	if len(sig) < minSigLen {
		return nil, derError(fmt.Sprintf("malformed signature: too short: %d < %d", len(sig), minSigLen))
	}
	if len(sig) > maxSigLen {
		return nil, derError(fmt.Sprintf("malformed signature: too long: %d > %d", len(sig), maxSigLen))
	}
	if sig[0] != asn1SequenceID {
		return nil, derError(fmt.Sprintf("malformed signature: format has wrong type: %#x", sig[0]))
	}
	if int(sig[1]) != len(sig)-2 {
		return nil, derError(fmt.Sprintf("malformed signature: bad length: %d != %d", sig[1], len(sig)-2))
	}

	r, offset, err := parseInt(sig, 2, "R")
	if err != nil {
		return nil, err
	}
	s, offset, err := parseInt(sig, offset, "S")
	if err != nil {
		return nil, err
	}
	if offset != len(sig) {
		return nil, derError(fmt.Sprintf("malformed signature: %d trailing bytes", len(sig)-offset))
	}
	return &Signature{r: r, s: s}, nil
}
