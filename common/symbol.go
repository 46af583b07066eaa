package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
)

const (
	// MaxPrecision is the biggest token precision supported.
	MaxPrecision = 18
	// MaxCodeLength is the maximum length of a symbol code.
	MaxCodeLength = 7
)

// Symbol is a token code with its precision. Two symbols are interchangeable
// only if both fields match.
type Symbol struct {
	Precision int
	Code      string
}

// ParseSymbol parses "<precision>,<CODE>" string. It panics with
// ErrInvalidSymbol message if the string is malformed.
func ParseSymbol(s string) Symbol {
	parts := std.StringSplit(s, ",")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || !IsDigits(parts[0]) {
		panic(ErrInvalidSymbol)
	}
	CheckCode(parts[1])

	p := std.Atoi(parts[0], 10)
	if p > MaxPrecision {
		panic(ErrInvalidSymbol)
	}

	return Symbol{Precision: p, Code: parts[1]}
}

// FormatSymbol returns "<precision>,<CODE>" representation of the symbol.
func FormatSymbol(precision int, code string) string {
	return std.Itoa(precision, 10) + "," + code
}

// CheckCode panics with ErrInvalidSymbol if code is not 1 to MaxCodeLength
// chars of A-Z.
func CheckCode(code string) {
	if !IsCode(code) {
		panic(ErrInvalidSymbol)
	}
}

// IsCode checks whether string is a valid symbol code.
func IsCode(code string) bool {
	if len(code) == 0 || len(code) > MaxCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// IsDigits checks whether non-empty string consists of decimal digits only.
func IsDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
