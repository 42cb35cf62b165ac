// Package direction corrects the sign of internal transfers that some exports
// record as inflows although money leaves the main account.
package direction

import (
	"strings"

	"fjacquet/statement-csv/internal/models"
)

// DefaultVaultKeywords mark transfers into pockets and vaults.
var DefaultVaultKeywords = []string{
	"to pocket",
	"to vault",
	"to chf vault",
	"to chf tablet",
	"to chf gaming",
	"to eur",
}

// Fixer negates positive amounts on vault transfers.
type Fixer struct {
	keywords []string
}

// NewFixer builds a Fixer. An empty keyword list uses DefaultVaultKeywords.
func NewFixer(keywords []string) *Fixer {
	if len(keywords) == 0 {
		keywords = DefaultVaultKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return &Fixer{keywords: lowered}
}

// IsVaultTransfer reports whether the description names a vault transfer.
func (f *Fixer) IsVaultTransfer(description string) bool {
	d := strings.ToLower(description)
	for _, k := range f.keywords {
		if strings.Contains(d, k) {
			return true
		}
	}
	return false
}

// Fix negates, in place, every positive vault transfer and returns how many
// were changed. Applying it twice changes nothing the second time.
func (f *Fixer) Fix(transactions []models.Transaction) int {
	fixed := 0
	for i := range transactions {
		if transactions[i].Amount.IsPositive() && f.IsVaultTransfer(transactions[i].Description) {
			transactions[i].Amount = transactions[i].Amount.Neg()
			fixed++
		}
	}
	return fixed
}
