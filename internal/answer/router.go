package answer

import (
	"fmt"
	"strings"

	"fabriq/internal/intent"
	"fabriq/internal/store"
)

// Route resolves one query against the deterministic rule set. ok is false
// when no rule produced an answer and the query should be delegated to the
// completion gateway. Classification ambiguity never occurs: the intent
// table is evaluated in fixed precedence and the first tag wins.
func Route(c *store.Collection, query string) (string, bool) {
	switch intent.Classify(query) {
	case intent.TotalCount:
		return fmt.Sprintf("There are %d records.", TotalCount(c)), true

	case intent.Listing:
		return ListAll(c, DefaultListLimit), true

	case intent.Comparison:
		if s, ok := Compare(c, query); ok {
			return s, true
		}
		return "", false

	case intent.Description:
		return Describe(c, query), true

	case intent.Pricing:
		return TopByPrice(c, DefaultTopN), true

	case intent.Brand:
		return findVia(c, query, "brand")

	case intent.Customer:
		return findVia(c, query, "customer")

	case intent.SalesPerson:
		label := "sales person"
		if strings.Contains(strings.ToLower(query), "salesperson") {
			label = "salesperson"
		}
		return findVia(c, query, label)

	case intent.SalesTeam:
		return findVia(c, query, "team")

	case intent.Chart:
		// Chart requests always go to the generative path; the sandbox
		// turns the returned code block into an actual chart.
		return "", false

	default:
		// Last resort before fallback: treat the whole query as a
		// fancyname fragment.
		return FindByField(c, "fancyname", query)
	}
}

func findVia(c *store.Collection, query, label string) (string, bool) {
	keyword := intent.ExtractKeyword(query, label)
	if keyword == "" {
		return "", false
	}
	return FindByField(c, fieldForLabel(label), keyword)
}

func fieldForLabel(label string) string {
	if label == "salesperson" {
		return "sales person"
	}
	return label
}
