package models

import "strings"

// RawRow is one record from a source export, keyed by normalized header name.
// Header order is preserved in Keys.
type RawRow struct {
	// Line is the 1-based line number in the source file.
	Line   int
	Keys   []string
	Values map[string]string
}

// NewRawRow builds a row from a header and a record. Missing trailing cells
// read as empty strings; extra cells are ignored.
func NewRawRow(line int, header, record []string) RawRow {
	row := RawRow{
		Line:   line,
		Keys:   make([]string, 0, len(header)),
		Values: make(map[string]string, len(header)),
	}
	for i, h := range header {
		key := NormalizeHeader(h)
		if _, dup := row.Values[key]; dup {
			continue
		}
		val := ""
		if i < len(record) {
			val = record[i]
		}
		row.Keys = append(row.Keys, key)
		row.Values[key] = val
	}
	return row
}

// Get returns the trimmed value for a column, or "" when absent.
func (r RawRow) Get(column string) string {
	return strings.TrimSpace(r.Values[NormalizeHeader(column)])
}

// Has reports whether the column exists in the source header.
func (r RawRow) Has(column string) bool {
	_, ok := r.Values[NormalizeHeader(column)]
	return ok
}

// NormalizeHeader trims, lower-cases and collapses inner whitespace so that
// "Booking  Text " and "booking text" name the same column.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
