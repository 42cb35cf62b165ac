package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *FormatError
		expected string
		sentinel error
	}{
		{
			name:     "unknown format",
			err:      &FormatError{Source: "export.csv", Err: ErrUnknownFormat},
			expected: "export.csv: unrecognized statement format",
			sentinel: ErrUnknownFormat,
		},
		{
			name:     "missing column",
			err:      &FormatError{Source: "zkb.csv", Format: "zkb", Column: "booking text", Err: ErrMissingColumn},
			expected: `zkb.csv: zkb format: column "booking text": required column missing`,
			sentinel: ErrMissingColumn,
		},
		{
			name:     "unreadable input without source",
			err:      &FormatError{Format: "revolut", Err: errors.New("bare quote")},
			expected: "input: revolut format: bare quote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			if tt.sentinel != nil {
				assert.ErrorIs(t, tt.err, tt.sentinel)
			}
		})
	}
}

func TestRowParseError(t *testing.T) {
	cause := errors.New("can't convert x to decimal")
	err := &RowParseError{Parser: "zkb", Row: 7, Field: "debit chf", Value: "x", Err: cause}

	assert.Equal(t, "zkb: row 7: failed to parse debit chf='x': can't convert x to decimal", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestEnrichmentError_UnwrapsThroughWrapping(t *testing.T) {
	cause := errors.New("timeout")
	wrapped := fmt.Errorf("categorize: %w", &EnrichmentError{Provider: "places", Description: "Coop", Err: cause})

	var enrichErr *EnrichmentError
	require.ErrorAs(t, wrapped, &enrichErr)
	assert.Equal(t, "places", enrichErr.Provider)
	assert.ErrorIs(t, wrapped, cause)
}

func TestMappingStoreError(t *testing.T) {
	cause := errors.New("permission denied")
	err := &MappingStoreError{Path: "/tmp/merchants.yaml", Op: "write", Err: cause}

	assert.Equal(t, "merchant map write /tmp/merchants.yaml: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "validation failed for transaction 2: category is empty",
		(&ValidationError{Index: 2, Field: "category", Reason: "is empty"}).Error())
	assert.Equal(t, "validation failed for transaction 0: no transactions",
		(&ValidationError{Reason: "no transactions"}).Error())
}
