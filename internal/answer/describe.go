package answer

import (
	"strings"
	"unicode"

	"fabriq/internal/intent"
	"fabriq/internal/store"
)

// NoItemSentinel signals that a description lookup matched nothing.
const NoItemSentinel = "No matching item found."

// Describe renders every record whose fancyname contains the query keyword
// as a natural-language sentence. A single leading phrase like "describe" or
// "tell me about" is stripped when present; stripping is idempotent, so
// "describe Ernan" and "Ernan" match the same set.
func Describe(c *store.Collection, query string) string {
	keyword := descriptionKeyword(query)

	var sentences []string
	for _, r := range c.Records() {
		if !strings.Contains(strings.ToLower(r.FancyName), keyword) {
			continue
		}
		sentences = append(sentences, describeRecord(r))
	}
	if len(sentences) == 0 {
		return NoItemSentinel
	}
	return strings.Join(sentences, "\n")
}

func descriptionKeyword(query string) string {
	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)
	for _, p := range intent.DescribePrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.ToLower(strings.TrimSpace(q[len(p):]))
		}
	}
	return lower
}

func describeRecord(r store.SalesRecord) string {
	var b strings.Builder
	b.WriteString(capitalize(strings.ToLower(strings.TrimSpace(r.FancyName))))
	b.WriteString(" has customer ")
	b.WriteString(orDefault(r.CustomerName, "Unknown Customer"))

	if populated(r.SellingPrice) && populated(r.QuantityMeters) {
		b.WriteString(" with quantity ")
		b.WriteString(strings.TrimSpace(r.QuantityMeters))
		b.WriteString(", price ")
		if cur := strings.TrimSpace(r.InvoiceCurrencyCode); cur != "" {
			b.WriteString(cur)
			b.WriteString(" ")
		}
		b.WriteString(strings.TrimSpace(r.SellingPrice))
	}

	b.WriteString(" and belongs to ")
	b.WriteString(orDefault(r.Brand, "Unknown Brand"))
	b.WriteString(" brand.")

	if sp := strings.TrimSpace(r.SalesPerson); sp != "" {
		b.WriteString(" Sales handled by ")
		b.WriteString(sp)
		b.WriteString(".")
	}
	return b.String()
}

func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
