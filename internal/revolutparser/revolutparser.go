// Package revolutparser normalizes Revolut CSV account exports: one source
// row per transaction, signed amounts, comma separated.
package revolutparser

import (
	"strings"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parser"
)

// Column names as they appear, normalized, in a Revolut export.
const (
	colType          = "type"
	colProduct       = "product"
	colStartedDate   = "started date"
	colCompletedDate = "completed date"
	colDescription   = "description"
	colAmount        = "amount"
	colFee           = "fee"
	colCurrency      = "currency"
	colState         = "state"
	colCategory      = "category"
)

// StateCompleted is the Revolut state of a settled transaction.
const StateCompleted = "COMPLETED"

// Options tune the Revolut normalizer.
type Options struct {
	// DefaultCurrency fills rows with an empty Currency cell.
	DefaultCurrency string
	// CompletedOnly drops rows whose State is present and not COMPLETED.
	CompletedOnly bool
}

// Parser normalizes Revolut exports.
type Parser struct {
	parser.BaseParser
	opts Options
}

// NewParser creates a Revolut normalizer.
func NewParser(logger logging.Logger, opts Options) *Parser {
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = models.DefaultRevolutCurrency
	}
	return &Parser{
		BaseParser: parser.NewBaseParser(string(models.FormatRevolut), logger),
		opts:       opts,
	}
}

// Format implements models.Normalizer.
func (p *Parser) Format() models.FormatKind {
	return models.FormatRevolut
}

// RequiredColumns implements models.Normalizer.
func (p *Parser) RequiredColumns() []string {
	return []string{colCompletedDate + "|" + colStartedDate, colDescription, colAmount}
}

// Normalize implements models.Normalizer. Each row becomes one transaction
// with its sign as given by Revolut.
func (p *Parser) Normalize(rows []models.RawRow) ([]models.Transaction, models.NormalizeStats, error) {
	stats := models.NormalizeStats{RowsRead: len(rows)}
	transactions := make([]models.Transaction, 0, len(rows))

	for _, row := range rows {
		if p.opts.CompletedOnly {
			if state := row.Get(colState); state != "" && !strings.EqualFold(state, StateCompleted) {
				stats.RowsSkipped++
				p.GetLogger().Debug("Skipping non-completed Revolut row",
					logging.Field{Key: logging.FieldRow, Value: row.Line},
					logging.Field{Key: "state", Value: state})
				continue
			}
		}
		transactions = append(transactions, p.convertRow(row, &stats))
	}

	p.GetLogger().Debug("Normalized Revolut rows",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return transactions, stats, nil
}

func (p *Parser) convertRow(row models.RawRow, stats *models.NormalizeStats) models.Transaction {
	amount, ok := p.ParseAmountField(stats, row, colAmount)
	if !ok {
		p.RecordRowError(stats, row, colAmount, "", parser.ErrNoAmount)
	}
	fee, _ := p.ParseAmountField(stats, row, colFee)

	currency := row.Get(colCurrency)
	if currency == "" {
		currency = p.opts.DefaultCurrency
	}

	return models.Transaction{
		ValueDate:   parser.FirstOf(row, colCompletedDate, colStartedDate),
		Description: row.Get(colDescription),
		Type:        row.Get(colType),
		Amount:      amount,
		Currency:    currency,
		Fee:         fee,
		Category:    row.Get(colCategory),
	}
}
