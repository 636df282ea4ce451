// Package answer implements the deterministic query pipeline: aggregation,
// ranking, comparison and description over the sales records, and the router
// that sequences them by fixed precedence.
package answer

import (
	"fmt"
	"sort"
	"strings"

	"fabriq/internal/store"
)

const (
	// DefaultListLimit caps the numbered entries a listing emits.
	DefaultListLimit = 100
	// DefaultTopN is how many items a price ranking shows.
	DefaultTopN = 5

	// NoRecordsSentinel signals an empty result set, as opposed to a query
	// the rule engine does not recognize at all.
	NoRecordsSentinel = "No matching records found."
	// NoPricingSentinel signals an empty set on the ranking path.
	NoPricingSentinel = "No pricing data available to compare."
)

// TotalCount reports the record count.
func TotalCount(c *store.Collection) int {
	return c.Len()
}

// ListAll renders up to limit records as a numbered list, one sentence per
// line, with an overflow note when truncated.
func ListAll(c *store.Collection, limit int) string {
	return listRecords(c.Records(), limit)
}

func listRecords(records []store.SalesRecord, limit int) string {
	if len(records) == 0 {
		return NoRecordsSentinel
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	shown := records
	if len(shown) > limit {
		shown = shown[:limit]
	}
	var b strings.Builder
	for i, r := range shown {
		fmt.Fprintf(&b, "%d. %s\n", i+1, recordSentence(r))
	}
	if extra := len(records) - len(shown); extra > 0 {
		fmt.Fprintf(&b, "And %d more not shown.\n", extra)
	}
	return strings.TrimRight(b.String(), "\n")
}

// recordSentence formats one record with presentation defaults for missing
// fields.
func recordSentence(r store.SalesRecord) string {
	fancy := orDefault(r.FancyName, "Unknown Item")
	customer := orDefault(r.CustomerName, "Unknown Customer")
	qty := orDefault(r.QuantityMeters, "N/A")
	brand := orDefault(r.Brand, "Unknown Brand")
	sales := orDefault(r.SalesPerson, "N/A")

	price := orDefault(r.SellingPrice, "N/A")
	if cur := strings.TrimSpace(r.InvoiceCurrencyCode); cur != "" && price != "N/A" {
		price = cur + " " + price
	}
	return fmt.Sprintf("%s sold to %s, quantity %s, price %s, brand %s, handled by %s",
		fancy, customer, qty, price, brand, sales)
}

// TopByPrice ranks records by numeric selling price, descending. Malformed
// or missing prices rank as 0 and never fail; ties keep their original
// relative order.
func TopByPrice(c *store.Collection, topN int) string {
	records := c.Records()
	if len(records) == 0 {
		return NoPricingSentinel
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	ranked := make([]store.SalesRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Price() > ranked[j].Price()
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	var b strings.Builder
	for i, r := range ranked {
		cur := orDefault(r.InvoiceCurrencyCode, "N/A")
		fmt.Fprintf(&b, "%d. %s: %.2f %s, customer %s, brand %s\n",
			i+1,
			orDefault(r.FancyName, "Unknown Item"),
			r.Price(),
			cur,
			orDefault(r.CustomerName, "Unknown Customer"),
			orDefault(r.Brand, "Unknown Brand"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FindByField lists records whose field contains keyword, case-insensitively.
// ok is false when the field yields zero matches, so the router can fall
// through to the generative path instead of showing an empty-result sentence.
func FindByField(c *store.Collection, field, keyword string) (string, bool) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return "", false
	}
	var matches []store.SalesRecord
	for _, r := range c.Records() {
		if strings.Contains(strings.ToLower(r.Field(field)), keyword) {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	return listRecords(matches, DefaultListLimit), true
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
