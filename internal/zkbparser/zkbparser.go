// Package zkbparser normalizes ZKB e-banking CSV exports.
//
// ZKB groups card and standing-order batches under a parent row whose booking
// text ends with the number of items, e.g. "Debit Mastercard (3)". The items
// follow as child rows with a blank date. Children become individual
// transactions dated with the parent's date; the parent row is dropped.
package zkbparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parser"
)

// Column names as they appear, normalized, in a ZKB export.
const (
	colDate            = "date"
	colBookingText     = "booking text"
	colCurrency        = "curr"
	colAmountDetails   = "amount details"
	colReferenceNumber = "reference number"
	colDebit           = "debit chf"
	colCredit          = "credit chf"
)

// parentPattern matches the trailing item count of a grouped parent row.
var parentPattern = regexp.MustCompile(`\((\d+)\)\s*$`)

// Options tune the ZKB normalizer.
type Options struct {
	DefaultCurrency string
}

// Parser normalizes ZKB exports.
type Parser struct {
	parser.BaseParser
	opts Options
}

// NewParser creates a ZKB normalizer.
func NewParser(logger logging.Logger, opts Options) *Parser {
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = models.DefaultZKBCurrency
	}
	return &Parser{
		BaseParser: parser.NewBaseParser(string(models.FormatZKB), logger),
		opts:       opts,
	}
}

// Format implements models.Normalizer.
func (p *Parser) Format() models.FormatKind {
	return models.FormatZKB
}

// RequiredColumns implements models.Normalizer.
func (p *Parser) RequiredColumns() []string {
	return []string{colDate, colBookingText, colDebit + "|" + colCredit + "|" + colAmountDetails}
}

// IsParent reports whether a booking text marks a grouped parent row, and
// returns the declared child count.
func IsParent(bookingText string) (int, bool) {
	m := parentPattern.FindStringSubmatch(strings.TrimSpace(bookingText))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Normalize implements models.Normalizer.
//
// A parent's child run is every following row with a blank date that is not
// itself a parent. The declared count is only checked against the run length.
func (p *Parser) Normalize(rows []models.RawRow) ([]models.Transaction, models.NormalizeStats, error) {
	stats := models.NormalizeStats{RowsRead: len(rows)}
	transactions := make([]models.Transaction, 0, len(rows))
	lastDate := ""

	for i := 0; i < len(rows); {
		row := rows[i]
		date := row.Get(colDate)
		if date != "" {
			lastDate = date
		}

		declared, isParent := IsParent(row.Get(colBookingText))
		if !isParent {
			if date == "" {
				date = lastDate
				p.GetLogger().Debug("Row without date outside a group, using previous date",
					logging.Field{Key: logging.FieldRow, Value: row.Line})
			}
			transactions = append(transactions, p.convertRow(row, date, childSign(row), &stats))
			i++
			continue
		}

		parentDate := date
		if parentDate == "" {
			parentDate = lastDate
		}
		sign := childSign(row)

		j := i + 1
		for ; j < len(rows); j++ {
			child := rows[j]
			if child.Get(colDate) != "" {
				break
			}
			if _, nested := IsParent(child.Get(colBookingText)); nested {
				break
			}
			transactions = append(transactions, p.convertRow(child, parentDate, sign, &stats))
		}

		children := j - i - 1
		stats.ChildRowsExpanded += children
		stats.ParentRowsDropped++
		if children != declared {
			stats.ChildCountMismatches++
			p.GetLogger().Warn("Grouped row child count differs from declared count",
				logging.Field{Key: logging.FieldRow, Value: row.Line},
				logging.Field{Key: logging.FieldDescription, Value: row.Get(colBookingText)},
				logging.Field{Key: logging.FieldDeclared, Value: declared},
				logging.Field{Key: logging.FieldCount, Value: children})
		}
		i = j
	}

	p.GetLogger().Debug("Normalized ZKB rows",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: "children", Value: stats.ChildRowsExpanded},
		logging.Field{Key: "parents", Value: stats.ParentRowsDropped})
	return transactions, stats, nil
}

// childSign is the sign applied to "Amount details" values: positive under a
// credit, negative otherwise.
func childSign(row models.RawRow) int {
	switch {
	case row.Get(colDebit) != "":
		return -1
	case row.Get(colCredit) != "":
		return 1
	case strings.HasPrefix(strings.ToLower(row.Get(colBookingText)), "credit"):
		return 1
	default:
		return -1
	}
}

func (p *Parser) convertRow(row models.RawRow, date string, sign int, stats *models.NormalizeStats) models.Transaction {
	var amount decimal.Decimal
	if v, ok := p.ParseAmountField(stats, row, colDebit); ok {
		amount = v.Abs().Neg()
	} else if v, ok := p.ParseAmountField(stats, row, colCredit); ok {
		amount = v.Abs()
	} else if v, ok := p.ParseAmountField(stats, row, colAmountDetails); ok {
		amount = v.Abs()
		if sign < 0 {
			amount = amount.Neg()
		}
	} else {
		p.RecordRowError(stats, row, colDebit+"|"+colCredit+"|"+colAmountDetails, "", parser.ErrNoAmount)
	}

	currency := row.Get(colCurrency)
	if currency == "" {
		currency = p.opts.DefaultCurrency
	}

	return models.Transaction{
		ValueDate:   date,
		Description: row.Get(colBookingText),
		Amount:      amount,
		Currency:    currency,
		Fee:         decimal.Zero,
		Reference:   row.Get(colReferenceNumber),
	}
}
