// Package parser provides the shared machinery of the statement normalizers:
// an embeddable BaseParser and a Registry keyed by format.
package parser

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
)

// ErrNoAmount is recorded for rows whose amount columns are all blank.
var ErrNoAmount = errors.New("no amount in any amount column")

// BaseParser provides common functionality for normalizer implementations.
// Normalizers embed it:
//
//	type Parser struct {
//		parser.BaseParser
//		// format-specific fields
//	}
type BaseParser struct {
	name   string
	logger logging.Logger
}

// NewBaseParser creates a BaseParser for the named format. A nil logger falls
// back to the process default.
func NewBaseParser(name string, logger logging.Logger) BaseParser {
	return BaseParser{
		name:   name,
		logger: logging.OrDefault(logger).WithField(logging.FieldParser, name),
	}
}

// SetLogger replaces the logger.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger.WithField(logging.FieldParser, b.name)
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// Name returns the format name used in logs and errors.
func (b *BaseParser) Name() string {
	return b.name
}

// ParseAmountField reads a decimal column. Blank cells return (0, false).
// Malformed cells return (0, true): the error is recorded in stats as a
// RowParseError and the row keeps the default.
func (b *BaseParser) ParseAmountField(stats *models.NormalizeStats, row models.RawRow, column string) (decimal.Decimal, bool) {
	raw := row.Get(column)
	if raw == "" {
		return decimal.Zero, false
	}

	amount, err := currencyutils.ParseAmount(raw)
	if err != nil {
		if errors.Is(err, currencyutils.ErrEmptyAmount) {
			return decimal.Zero, false
		}
		b.RecordRowError(stats, row, column, raw, err)
		return decimal.Zero, true
	}
	return amount, true
}

// RecordRowError counts a defaulted field and logs it.
func (b *BaseParser) RecordRowError(stats *models.NormalizeStats, row models.RawRow, column, value string, err error) {
	rowErr := &parsererror.RowParseError{
		Parser: b.name,
		Row:    row.Line,
		Field:  column,
		Value:  value,
		Err:    err,
	}
	stats.RowDefaults++
	stats.RowErrors = append(stats.RowErrors, rowErr)
	b.logger.WithError(rowErr).Warn("Malformed field replaced by default",
		logging.Field{Key: logging.FieldRow, Value: row.Line},
		logging.Field{Key: logging.FieldColumn, Value: column})
}

// CheckRequiredColumns returns a FormatError naming the first required column
// missing from header. A required entry "a|b" is satisfied by either column.
func CheckRequiredColumns(n models.Normalizer, header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[models.NormalizeHeader(h)] = true
	}

	for _, req := range n.RequiredColumns() {
		found := false
		for _, alt := range strings.Split(req, "|") {
			if present[alt] {
				found = true
				break
			}
		}
		if !found {
			return &parsererror.FormatError{
				Format: n.Format().String(),
				Column: req,
				Err:    parsererror.ErrMissingColumn,
			}
		}
	}
	return nil
}

// FirstOf returns the first non-blank value among the given columns.
func FirstOf(row models.RawRow, columns ...string) string {
	for _, c := range columns {
		if v := row.Get(c); v != "" {
			return v
		}
	}
	return ""
}
