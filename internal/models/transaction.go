// Package models provides the data structures used throughout the application.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is one normalized statement line. Amount is signed: negative
// means money leaving the account. Every transaction carries a non-empty
// Category once it has gone through the pipeline.
type Transaction struct {
	ValueDate   string          `json:"value_date" yaml:"value_date"`
	Description string          `json:"description" yaml:"description"`
	Type        string          `json:"type" yaml:"type"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Currency    string          `json:"currency" yaml:"currency"`
	Fee         decimal.Decimal `json:"fee" yaml:"fee"`
	Reference   string          `json:"reference" yaml:"reference"`
	Category    string          `json:"category" yaml:"category"`
}

// IsDebit reports whether money leaves the account.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// IsCategorized reports whether a meaningful category is present.
func (t Transaction) IsCategorized() bool {
	c := strings.TrimSpace(t.Category)
	return c != "" && c != CategoryUncounted
}

// SameData compares the seven data fields, ignoring Category. Amounts are
// compared by value so "12.5" and "12.50" are equal.
func (t Transaction) SameData(o Transaction) bool {
	return t.ValueDate == o.ValueDate &&
		t.Description == o.Description &&
		t.Type == o.Type &&
		t.Amount.Equal(o.Amount) &&
		t.Currency == o.Currency &&
		t.Fee.Equal(o.Fee) &&
		t.Reference == o.Reference
}
