package cryptox

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidOperand is returned when an arithmetic precondition is
	// violated, such as the modular inverse of zero.
	ErrInvalidOperand = ErrorKind("ErrInvalidOperand")

	// ErrInvalidKey is returned when a private scalar is zero, not less than
	// the group order, or serialized with the wrong length.
	ErrInvalidKey = ErrorKind("ErrInvalidKey")

	// ErrInvalidPoint is returned when a point encoding has an unknown
	// prefix, the wrong length, or coordinates that are not on the curve.
	ErrInvalidPoint = ErrorKind("ErrInvalidPoint")

	// ErrInvalidSignatureEncoding is returned when a DER signature fails the
	// structure or minimality checks.
	ErrInvalidSignatureEncoding = ErrorKind("ErrInvalidSignatureEncoding")

	// ErrInvalidParameter is returned when the key-derivation function is
	// called with a non-positive length or iteration count, or with a range
	// that overflows the 32-bit block counter.
	ErrInvalidParameter = ErrorKind("ErrInvalidParameter")

	// ErrMalformedRecord is returned when account text is missing fields,
	// has them out of order, or carries values that are not canonical.
	ErrMalformedRecord = ErrorKind("ErrMalformedRecord")

	// ErrSignatureMismatch is returned when a signature does not verify.
	ErrSignatureMismatch = ErrorKind("ErrSignatureMismatch")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error from the crypto core. It has full support for
// errors.Is and errors.As, so the caller can ascertain the specific reason for
// the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error given a kind and a description.
func NewError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
