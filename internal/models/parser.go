package models

// Normalizer converts the raw rows of one statement format into canonical
// transactions. Implementations must not fail on a single malformed row:
// they default the field and record it in NormalizeStats.
type Normalizer interface {
	Format() FormatKind
	// RequiredColumns lists the normalized header names the format cannot do without.
	// An entry of the form "a|b" is satisfied by either column.
	RequiredColumns() []string
	Normalize(rows []RawRow) ([]Transaction, NormalizeStats, error)
}
