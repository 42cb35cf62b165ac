package models

import (
	"fmt"
	"strings"
)

// FormatKind identifies a statement export layout.
type FormatKind string

const (
	FormatUnknown   FormatKind = ""
	FormatZKB       FormatKind = "zkb"
	FormatRevolut   FormatKind = "revolut"
	FormatCanonical FormatKind = "canonical"
)

// NativeSeparator returns the field separator the bank uses for the format.
func (f FormatKind) NativeSeparator() rune {
	if f == FormatZKB {
		return ';'
	}
	return ','
}

func (f FormatKind) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// ParseFormatKind maps a user-supplied name to a FormatKind. The empty string
// and "auto" mean detection.
func ParseFormatKind(s string) (FormatKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatUnknown, nil
	case "zkb", "a":
		return FormatZKB, nil
	case "revolut", "b":
		return FormatRevolut, nil
	case "canonical", "normalized":
		return FormatCanonical, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown statement type %q (want zkb, revolut or canonical)", s)
	}
}
