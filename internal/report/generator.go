package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/gocarina/gocsv"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/validation"
)

// Generator renders a Summary as text, CSV or JSON.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logging.OrDefault(logger).WithField("component", "ReportGenerator")}
}

// csvRow is the CSV shape of a Row; amounts use the canonical notation.
type csvRow struct {
	Key      string `csv:"key"`
	Currency string `csv:"currency"`
	Count    int    `csv:"count"`
	Debits   string `csv:"debits"`
	Credits  string `csv:"credits"`
	Total    string `csv:"total"`
}

// Generate renders s in format.
func (g *Generator) Generate(s Summary, format string) ([]byte, error) {
	switch format {
	case validation.FormatText, "":
		return g.generateText(s)
	case validation.FormatCSV:
		return g.generateCSV(s)
	case validation.FormatJSON:
		return g.generateJSON(s)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(s Summary) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateCSV(s Summary) ([]byte, error) {
	records := make([]csvRow, 0, len(s.Rows))
	for _, r := range s.Rows {
		records = append(records, csvRow{
			Key:      r.Key,
			Currency: r.Currency,
			Count:    r.Count,
			Debits:   currencyutils.FormatCanonical(r.Debits),
			Credits:  currencyutils.FormatCanonical(r.Credits),
			Total:    currencyutils.FormatCanonical(r.Total),
		})
	}
	out, err := gocsv.MarshalBytes(&records)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return out, nil
}

func (g *Generator) generateText(s Summary) ([]byte, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tcount\tdebits\tcredits\ttotal\t\n", s.By)
	for _, r := range s.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t\n", r.Key, r.Count,
			currencyutils.FormatAmount(r.Debits, r.Currency),
			currencyutils.FormatAmount(r.Credits, r.Currency),
			currencyutils.FormatAmount(r.Total, r.Currency))
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}
	fmt.Fprintf(&buf, "\n%d transactions, %d excluded\n", s.Transactions, s.Excluded)
	return buf.Bytes(), nil
}
