// Package common provides the CSV reading and writing shared by every
// statement format.
package common

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"golang.org/x/net/html/charset"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// CanonicalHeader is the column order of canonical output files.
var CanonicalHeader = []string{"value_date", "description", "type", "amount", "currency", "fee", "reference", "Category"}

const fallbackEncoding = "windows-1252"

var utf8BOM = []byte("\xef\xbb\xbf")

// canonicalRecord is the CSV shape of a models.Transaction.
type canonicalRecord struct {
	ValueDate   string `csv:"value_date"`
	Description string `csv:"description"`
	Type        string `csv:"type"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	Fee         string `csv:"fee"`
	Reference   string `csv:"reference"`
	Category    string `csv:"Category"`
}

// DecodeInput returns the input as UTF-8 without a byte order mark. Only
// input that is not valid UTF-8 as a whole is decoded as windows-1252, which
// is what Swiss banking portals emit when they are not UTF-8.
func DecodeInput(data []byte) ([]byte, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, "utf-8", nil
	}

	enc, name := charset.Lookup(fallbackEncoding)
	if enc == nil {
		return nil, fallbackEncoding, fmt.Errorf("unknown encoding %s", fallbackEncoding)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, name, fmt.Errorf("error decoding %s input: %w", name, err)
	}
	return bytes.TrimPrefix(out, utf8BOM), name, nil
}

// FirstLine returns the first non-blank line of data.
func FirstLine(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// SplitHeader parses a single header line with the given separator.
func SplitHeader(line string, sep rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = sep
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// ReadRows parses decoded CSV data into raw rows keyed by the header. Lines
// whose cells are all blank are dropped; short and long records are tolerated.
func ReadRows(data []byte, sep rune) ([]string, []models.RawRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("empty input")
		}
		return nil, nil, fmt.Errorf("error reading header: %w", err)
	}

	var rows []models.RawRow
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return header, nil, fmt.Errorf("error reading CSV record: %w", err)
		}
		if isBlankRecord(record) {
			continue
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, models.NewRawRow(line, header, record))
	}
	return header, rows, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteTransactions writes transactions in the canonical layout to w.
func WriteTransactions(w io.Writer, transactions []models.Transaction, delimiter rune) error {
	records := make([]canonicalRecord, 0, len(transactions))
	for _, tx := range transactions {
		records = append(records, canonicalRecord{
			ValueDate:   tx.ValueDate,
			Description: tx.Description,
			Type:        tx.Type,
			Amount:      currencyutils.FormatCanonical(tx.Amount),
			Currency:    tx.Currency,
			Fee:         currencyutils.FormatCanonical(tx.Fee),
			Reference:   tx.Reference,
			Category:    tx.Category,
		})
	}

	csvWriter := csv.NewWriter(w)
	if delimiter != 0 {
		csvWriter.Comma = delimiter
	}
	if len(records) == 0 {
		if err := csvWriter.Write(CanonicalHeader); err != nil {
			return fmt.Errorf("error writing CSV header: %w", err)
		}
		csvWriter.Flush()
		return csvWriter.Error()
	}

	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteTransactionsToCSV writes transactions to csvFile, creating parent
// directories as needed.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, delimiter rune, logger logging.Logger) error {
	logger = logging.OrDefault(logger)
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteTransactions(file, transactions, delimiter); err != nil {
		return err
	}

	logger.Info("Wrote transactions to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return nil
}

// DefaultOutputPath returns "preprocessed_<name>" next to the input file.
func DefaultOutputPath(inputFile string) string {
	dir, name := filepath.Split(inputFile)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, "preprocessed_"+stem+".csv")
}
