// Package canonicalparser re-imports files already in the canonical layout,
// including the normalized ZKB variant whose date column is named "Date".
package canonicalparser

import (
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parser"
)

const (
	colValueDate   = "value_date"
	colDate        = "date"
	colDescription = "description"
	colType        = "type"
	colAmount      = "amount"
	colCurrency    = "currency"
	colFee         = "fee"
	colReference   = "reference"
	colCategory    = "category"
)

// Options tune the canonical normalizer.
type Options struct {
	DefaultCurrency string
}

// Parser normalizes canonical files. Every field is copied as is so that a
// re-import is the identity on the data fields.
type Parser struct {
	parser.BaseParser
	opts Options
}

// NewParser creates a canonical normalizer.
func NewParser(logger logging.Logger, opts Options) *Parser {
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = models.DefaultZKBCurrency
	}
	return &Parser{
		BaseParser: parser.NewBaseParser(string(models.FormatCanonical), logger),
		opts:       opts,
	}
}

// Format implements models.Normalizer.
func (p *Parser) Format() models.FormatKind {
	return models.FormatCanonical
}

// RequiredColumns implements models.Normalizer.
func (p *Parser) RequiredColumns() []string {
	return []string{colValueDate + "|" + colDate, colDescription, colAmount}
}

// Normalize implements models.Normalizer.
func (p *Parser) Normalize(rows []models.RawRow) ([]models.Transaction, models.NormalizeStats, error) {
	stats := models.NormalizeStats{RowsRead: len(rows)}
	transactions := make([]models.Transaction, 0, len(rows))

	for _, row := range rows {
		amount, _ := p.ParseAmountField(&stats, row, colAmount)
		fee, _ := p.ParseAmountField(&stats, row, colFee)

		currency := row.Get(colCurrency)
		if currency == "" {
			currency = p.opts.DefaultCurrency
		}

		transactions = append(transactions, models.Transaction{
			ValueDate:   parser.FirstOf(row, colValueDate, colDate),
			Description: row.Get(colDescription),
			Type:        row.Get(colType),
			Amount:      amount,
			Currency:    currency,
			Fee:         fee,
			Reference:   row.Get(colReference),
			Category:    row.Get(colCategory),
		})
	}

	p.GetLogger().Debug("Normalized canonical rows",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return transactions, stats, nil
}
