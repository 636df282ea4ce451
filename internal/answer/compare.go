package answer

import (
	"fmt"
	"regexp"
	"strings"

	"fabriq/internal/store"
)

var quotedPhrase = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

// comparisonStopwords are query-framing tokens that never name a fabric.
var comparisonStopwords = map[string]bool{
	"compare": true, "vs": true, "versus": true, "diff": true,
	"difference": true, "between": true, "and": true, "with": true,
	"the": true, "of": true, "to": true, "for": true,
}

// Compare extracts two candidate fabric names from free text and builds a
// side-by-side summary. ok is false when fewer than two distinct fancynames
// resolve from the query.
func Compare(c *store.Collection, query string) (string, bool) {
	records := c.Records()

	var found []string
	seen := make(map[string]bool)
	for _, tok := range comparisonTokens(query) {
		for _, r := range records {
			if !strings.Contains(strings.ToLower(r.FancyName), tok) {
				continue
			}
			name := normalizeName(r.FancyName)
			if name != "" && !seen[name] {
				seen[name] = true
				found = append(found, name)
			}
			break
		}
		if len(found) == 2 {
			break
		}
	}
	if len(found) < 2 {
		return "", false
	}

	var lines []string
	for _, name := range found {
		rep, ok := representative(records, name)
		if !ok {
			return "", false
		}
		lines = append(lines, summaryLine(rep))
	}
	return strings.Join(lines, "\n"), true
}

// comparisonTokens yields candidate name tokens: quoted phrases first, then
// bare words, each in left-to-right order.
func comparisonTokens(query string) []string {
	var tokens []string
	for _, m := range quotedPhrase.FindAllStringSubmatch(query, -1) {
		phrase := m[1]
		if phrase == "" {
			phrase = m[2]
		}
		if p := strings.ToLower(strings.TrimSpace(phrase)); p != "" {
			tokens = append(tokens, p)
		}
	}
	bare := quotedPhrase.ReplaceAllString(query, " ")
	for _, w := range strings.Fields(strings.ToLower(bare)) {
		w = strings.Trim(w, ".,;:!?")
		if len(w) < 2 || comparisonStopwords[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// representative picks the best record among all records sharing name: the
// one with the most populated fields among customer, quantity and price.
// Ties keep the first encountered, so duplicate-named records resolve
// deterministically.
func representative(records []store.SalesRecord, name string) (store.SalesRecord, bool) {
	var best store.SalesRecord
	bestScore := -1
	for _, r := range records {
		if normalizeName(r.FancyName) != name {
			continue
		}
		score := 0
		for _, v := range []string{r.CustomerName, r.QuantityMeters, r.SellingPrice} {
			if populated(v) {
				score++
			}
		}
		if score > bestScore {
			best = r
			bestScore = score
		}
	}
	return best, bestScore >= 0
}

func summaryLine(r store.SalesRecord) string {
	price := orDefault(r.SellingPrice, "N/A")
	if cur := strings.TrimSpace(r.InvoiceCurrencyCode); cur != "" {
		price += " " + cur
	}
	return fmt.Sprintf("%s | %s | Price: %s | Customer: %s | Brand: %s",
		strings.TrimSpace(r.FancyName),
		orDefault(r.Composition, "N/A"),
		price,
		orDefault(r.CustomerName, "Unknown Customer"),
		orDefault(r.Brand, "Unknown Brand"))
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func populated(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, "n/a")
}
