// Package detector identifies the statement format of an export from its
// header line.
package detector

import (
	"fmt"

	"fjacquet/statement-csv/internal/common"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
)

// Separators are tried in this order when sniffing the header line.
var Separators = []rune{';', ','}

// signature is the set of normalized column names that identifies a format.
// Each entry lists alternative names, any one of which satisfies it.
type signature struct {
	kind    models.FormatKind
	columns [][]string
}

// Signatures are evaluated in order; the first full match wins.
var signatures = []signature{
	{
		kind:    models.FormatZKB,
		columns: [][]string{{"date"}, {"booking text"}, {"debit chf"}, {"credit chf"}},
	},
	{
		kind:    models.FormatRevolut,
		columns: [][]string{{"product"}, {"started date"}, {"description"}, {"amount"}},
	},
	{
		kind:    models.FormatCanonical,
		columns: [][]string{{"value_date", "date"}, {"description"}, {"amount"}, {"currency"}},
	},
}

// Detection is the result of sniffing an input.
type Detection struct {
	Format    models.FormatKind
	Separator rune
	Header    []string
}

// Detect returns the format whose column signature is contained in headers,
// or FormatUnknown. Matching is case-insensitive and ignores surrounding space.
func Detect(headers []string) models.FormatKind {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[models.NormalizeHeader(h)] = true
	}

	for _, sig := range signatures {
		if matches(sig, present) {
			return sig.kind
		}
	}
	return models.FormatUnknown
}

func matches(sig signature, present map[string]bool) bool {
	for _, alternatives := range sig.columns {
		found := false
		for _, col := range alternatives {
			if present[col] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Sniff parses the first line of data with each candidate separator and
// returns the first format whose signature matches.
//
// When override is not FormatUnknown, detection is skipped and only the
// separator is sniffed: the override's native separator is used unless the
// header clearly splits on the other one.
func Sniff(data []byte, override models.FormatKind) (Detection, error) {
	line := common.FirstLine(data)
	if line == "" {
		return Detection{}, &parsererror.FormatError{Err: fmt.Errorf("%w: empty input", parsererror.ErrUnknownFormat)}
	}

	if override != models.FormatUnknown {
		return sniffForced(line, override)
	}

	for _, sep := range Separators {
		header, err := common.SplitHeader(line, sep)
		if err != nil || len(header) < 2 {
			continue
		}
		if kind := Detect(header); kind != models.FormatUnknown {
			return Detection{Format: kind, Separator: sep, Header: header}, nil
		}
	}

	return Detection{}, &parsererror.FormatError{Err: parsererror.ErrUnknownFormat}
}

func sniffForced(line string, kind models.FormatKind) (Detection, error) {
	seps := []rune{kind.NativeSeparator()}
	for _, s := range Separators {
		if s != seps[0] {
			seps = append(seps, s)
		}
	}

	var best Detection
	for _, sep := range seps {
		header, err := common.SplitHeader(line, sep)
		if err != nil {
			continue
		}
		if len(header) > len(best.Header) {
			best = Detection{Format: kind, Separator: sep, Header: header}
		}
	}
	if best.Header == nil {
		return Detection{}, &parsererror.FormatError{Format: kind.String(), Err: fmt.Errorf("unreadable header")}
	}
	return best, nil
}
