package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
)

const (
	zkbHeader       = "Date;Booking text;Curr;Amount details;ZKB reference;Reference number;Debit CHF;Credit CHF;Value date;Balance CHF;Payment purpose;Details"
	revolutHeader   = "Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance"
	canonicalHeader = "value_date,description,type,amount,currency,fee,reference,Category"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    models.FormatKind
	}{
		{"zkb", []string{"Date", "Booking text", "Debit CHF", "Credit CHF"}, models.FormatZKB},
		{"zkb odd casing and padding", []string{" DATE ", "booking TEXT", "debit chf", "Credit CHF "}, models.FormatZKB},
		{"revolut", []string{"Type", "Product", "Started Date", "Completed Date", "Description", "Amount"}, models.FormatRevolut},
		{"canonical", []string{"value_date", "description", "type", "amount", "currency", "fee", "reference", "Category"}, models.FormatCanonical},
		{"canonical with Date column", []string{"Date", "Description", "Amount", "Currency"}, models.FormatCanonical},
		{"unknown", []string{"foo", "bar"}, models.FormatUnknown},
		{"empty", nil, models.FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.headers))
		})
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format models.FormatKind
		sep    rune
	}{
		{"zkb semicolon", zkbHeader + "\n01.02.2025;Coop\n", models.FormatZKB, ';'},
		{"revolut comma", revolutHeader + "\n", models.FormatRevolut, ','},
		{"canonical comma", canonicalHeader + "\n", models.FormatCanonical, ','},
		{"canonical semicolon", "value_date;description;type;amount;currency;fee;reference;Category\n", models.FormatCanonical, ';'},
		{"leading blank lines", "\n\n" + revolutHeader + "\n", models.FormatRevolut, ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Sniff([]byte(tt.input), models.FormatUnknown)
			require.NoError(t, err)
			assert.Equal(t, tt.format, d.Format)
			assert.Equal(t, tt.sep, d.Separator)
			assert.NotEmpty(t, d.Header)
		})
	}
}

func TestSniff_Unknown(t *testing.T) {
	_, err := Sniff([]byte("foo;bar\n1;2\n"), models.FormatUnknown)
	require.Error(t, err)

	var formatErr *parsererror.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.ErrorIs(t, err, parsererror.ErrUnknownFormat)

	_, err = Sniff([]byte(""), models.FormatUnknown)
	assert.ErrorIs(t, err, parsererror.ErrUnknownFormat)
}

func TestSniff_Override(t *testing.T) {
	d, err := Sniff([]byte("foo;bar;baz\n"), models.FormatZKB)
	require.NoError(t, err)
	assert.Equal(t, models.FormatZKB, d.Format)
	assert.Equal(t, ';', d.Separator)

	// Forced revolut on a semicolon file keeps the separator that splits the header.
	d, err = Sniff([]byte("Type;Product;Started Date;Description;Amount\n"), models.FormatRevolut)
	require.NoError(t, err)
	assert.Equal(t, ';', d.Separator)
	assert.Len(t, d.Header, 5)
}
