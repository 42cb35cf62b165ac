// Package parsererror defines the typed errors raised while ingesting,
// categorizing and persisting statements. Fatal conditions abort a run;
// recoverable ones are logged and counted in the run summary.
package parsererror

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat is matched by FormatError when no signature fits the header.
	ErrUnknownFormat = errors.New("unrecognized statement format")
	// ErrMissingColumn is matched by FormatError when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")
)

// FormatError means the input cannot be processed as a whole: the header matches
// no known format, or a column the detected format needs is absent. It is fatal.
type FormatError struct {
	Source string
	Format string
	Column string
	Err    error
}

func (e *FormatError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	switch {
	case e.Column != "":
		return fmt.Sprintf("%s: %s format: column %q: %v", src, e.Format, e.Column, e.Err)
	case e.Format != "":
		return fmt.Sprintf("%s: %s format: %v", src, e.Format, e.Err)
	default:
		return fmt.Sprintf("%s: %v", src, e.Err)
	}
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// RowParseError represents a malformed field in a single row. The normalizer
// substitutes the field default and keeps going.
type RowParseError struct {
	Parser string
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
		e.Parser, e.Row, e.Field, e.Value, e.Err)
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}

// EnrichmentError represents a failed call to an external enrichment provider.
// Categorization falls through to the fallback category.
type EnrichmentError struct {
	Provider    string
	Description string
	Err         error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment via %s failed for %q: %v", e.Provider, e.Description, e.Err)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// MappingStoreError means the merchant map could not be read or written. It is
// fatal because continuing would silently lose learned mappings.
type MappingStoreError struct {
	Path string
	Op   string
	Err  error
}

func (e *MappingStoreError) Error() string {
	return fmt.Sprintf("merchant map %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *MappingStoreError) Unwrap() error {
	return e.Err
}

// ValidationError represents a record rejected before persistence.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed for transaction %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("validation failed for transaction %d: %s %s", e.Index, e.Field, e.Reason)
}
