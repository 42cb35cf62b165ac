// Package validation checks user-supplied paths and options and the
// transactions handed to persistence.
package validation

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
)

// Report output formats.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// IsValidPath checks if a given path exists and is a file or directory.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}

	return nil
}

// IsValidOutputFormat checks if the given report format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case FormatText, FormatCSV, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'text', 'csv', 'json'", format)
	}
}

// ValidateTransaction checks the fields persistence requires: a parseable
// value date, a description, a currency and a category.
func ValidateTransaction(index int, tx models.Transaction) error {
	switch {
	case strings.TrimSpace(tx.ValueDate) == "":
		return &parsererror.ValidationError{Index: index, Field: "value_date", Reason: "is empty"}
	case strings.TrimSpace(tx.Description) == "":
		return &parsererror.ValidationError{Index: index, Field: "description", Reason: "is empty"}
	case strings.TrimSpace(tx.Currency) == "":
		return &parsererror.ValidationError{Index: index, Field: "currency", Reason: "is empty"}
	case strings.TrimSpace(tx.Category) == "":
		return &parsererror.ValidationError{Index: index, Field: "Category", Reason: "is empty"}
	}

	if _, _, err := dateutils.ParseDate(tx.ValueDate); err != nil {
		return &parsererror.ValidationError{Index: index, Field: "value_date", Reason: fmt.Sprintf("%q is not a date", tx.ValueDate)}
	}
	return nil
}

// ValidateTransactions returns the first invalid transaction's error.
func ValidateTransactions(transactions []models.Transaction) error {
	for i, tx := range transactions {
		if err := ValidateTransaction(i, tx); err != nil {
			return err
		}
	}
	return nil
}
