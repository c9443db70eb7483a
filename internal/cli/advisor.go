package cli

import (
	"regexp"
	"unicode/utf8"
)

// PasswordScore rates a master password.
type PasswordScore int

const (
	Blank PasswordScore = iota
	VeryWeak
	Weak
	Medium
	Strong
	VeryStrong
)

func (s PasswordScore) String() string {
	switch s {
	case Blank:
		return "blank"
	case VeryWeak:
		return "very weak"
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	case VeryStrong:
		return "very strong"
	}
	return "unknown"
}

var (
	digitRe = regexp.MustCompile(`\d`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	// a symbol that is not the first character
	symbolRe = regexp.MustCompile(`.[!,@#$%^&*?_~Ł()]`)
)

// CheckStrength scores password. Passwords shorter than four characters are
// Blank or VeryWeak; longer ones get one point each for length >= 8,
// length >= 12, a digit, mixed case and a symbol.
func CheckStrength(password string) PasswordScore {
	n := utf8.RuneCountInString(password)
	if n < 1 {
		return Blank
	}
	if n < 4 {
		return VeryWeak
	}

	score := 0
	if n >= 8 {
		score++
	}
	if n >= 12 {
		score++
	}
	if digitRe.MatchString(password) {
		score++
	}
	if lowerRe.MatchString(password) && upperRe.MatchString(password) {
		score++
	}
	if symbolRe.MatchString(password) {
		score++
	}
	return PasswordScore(score)
}
