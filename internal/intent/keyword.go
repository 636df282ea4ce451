package intent

import "strings"

// ExtractKeyword recovers the filter term for a field-specific query.
// The query is split on the first case-insensitive occurrence of fieldLabel;
// the remainder, with leading separators trimmed, is the keyword. Queries
// that never mention the label fall back to the whole trimmed query.
//
//	ExtractKeyword("brand H&M", "brand") => "h&m"
//	ExtractKeyword("which customer: acme", "customer") => "acme"
func ExtractKeyword(query, fieldLabel string) string {
	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)
	label := strings.ToLower(strings.TrimSpace(fieldLabel))

	idx := strings.Index(lower, label)
	if idx < 0 {
		return strings.ToLower(q)
	}
	rest := q[idx+len(label):]
	rest = strings.TrimLeft(rest, ": \t?.,!-")
	return strings.ToLower(strings.TrimSpace(rest))
}
