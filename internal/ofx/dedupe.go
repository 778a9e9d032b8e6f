package ofx

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/model"
)

// Fingerprint identifies a money movement independently of its id, so the same
// statement imported twice can be recognised.
func Fingerprint(date, description string, typ model.TransactionType, amount decimal.Decimal) string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		date,
		strings.ToUpper(strings.TrimSpace(description)),
		typ,
		amount.StringFixed(2))
	return fmt.Sprintf("%x", sha256.Sum256([]byte(data)))
}

// Dedupe drops entries whose fingerprint matches an existing transaction or an
// earlier entry with the same FitID. It returns the kept entries and the number skipped.
func Dedupe(existing []model.Transaction, entries []Entry) ([]Entry, int) {
	seen := make(map[string]int, len(existing))
	for _, t := range existing {
		seen[Fingerprint(t.Date, t.Description, t.Type, t.Amount)]++
	}
	fitIDs := make(map[string]bool, len(entries))

	kept := make([]Entry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		key := e.AccountID + "/" + e.FitID
		if e.FitID != "" && fitIDs[key] {
			skipped++
			continue
		}
		fitIDs[key] = true

		fp := Fingerprint(e.Draft.Date, e.Draft.Description, e.Draft.Type, e.Draft.Amount)
		if seen[fp] > 0 {
			// Each existing transaction absorbs one matching line.
			seen[fp]--
			skipped++
			continue
		}
		kept = append(kept, e)
	}
	return kept, skipped
}
