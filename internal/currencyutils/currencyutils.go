// Package currencyutils parses and formats the monetary amounts found in
// statement exports.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned by ParseAmount for blank input.
var ErrEmptyAmount = errors.New("empty amount")

var (
	currencyNoise = regexp.MustCompile(`(?i)\b(CHF|EUR|USD|GBP)\b|[€$£¥₣\s\x{00A0}\x{202F}]`)
	plainNumber   = regexp.MustCompile(`^[-+]?\d*\.?\d+$`)
)

// ParseAmount parses a string representation of an amount into a decimal value.
// It handles formats like "1'234.56", "1.234,56", "1,234.56", "1234,56", "CHF 12.00"
// and a leading unicode minus. Blank input yields ErrEmptyAmount.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	standardized := StandardizeAmount(amountStr)
	if !plainNumber.MatchString(standardized) {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': not a number", amountStr)
	}

	amount, err := decimal.NewFromString(strings.TrimPrefix(standardized, "+"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount converts various currency string formats to a form
// decimal.NewFromString accepts.
func StandardizeAmount(amountStr string) string {
	amountStr = currencyNoise.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "−", "-")
	amountStr = strings.ReplaceAll(amountStr, "'", "")
	amountStr = strings.ReplaceAll(amountStr, "’", "")

	hasComma := strings.Contains(amountStr, ",")
	hasDot := strings.Contains(amountStr, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// 1.234,56
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// 1,234.56
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case hasComma:
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) != 3 {
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	return amountStr
}

// FormatCanonical renders an amount the way canonical CSV output stores it:
// at least two decimals, dot separator, no grouping. Finer source precision
// is kept so re-importing the output yields the same value.
func FormatCanonical(amount decimal.Decimal) string {
	if amount.Exponent() < -2 {
		return amount.String()
	}
	return amount.StringFixed(2)
}

// FormatAmount formats a decimal amount for display with the given currency,
// e.g. "CHF 1234.56" or "€1234.56".
func FormatAmount(amount decimal.Decimal, currency string) string {
	formattedAmount := amount.StringFixed(2)

	if currency != "" {
		switch strings.ToUpper(currency) {
		case "EUR":
			return "€" + formattedAmount
		case "USD":
			return "$" + formattedAmount
		case "GBP":
			return "£" + formattedAmount
		case "CHF":
			return "CHF " + formattedAmount
		default:
			return currency + " " + formattedAmount
		}
	}

	return formattedAmount
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
