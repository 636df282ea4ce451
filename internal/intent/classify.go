// Package intent maps free-text queries onto a small, fixed set of
// deterministic categories. Classification is an ordered table of keyword
// predicates; the first matching tag wins, so precedence is explicit and
// independently testable rather than buried in a conditional chain.
package intent

import "strings"

// Tag is the deterministic category a query resolves to.
type Tag int

const (
	Unclassified Tag = iota
	TotalCount
	Listing
	Comparison
	Description
	Pricing
	Brand
	Customer
	SalesPerson
	SalesTeam
	Chart
)

func (t Tag) String() string {
	switch t {
	case TotalCount:
		return "total_count"
	case Listing:
		return "listing"
	case Comparison:
		return "comparison"
	case Description:
		return "description"
	case Pricing:
		return "pricing"
	case Brand:
		return "brand"
	case Customer:
		return "customer"
	case SalesPerson:
		return "sales_person"
	case SalesTeam:
		return "sales_team"
	case Chart:
		return "chart"
	default:
		return "unclassified"
	}
}

// DescribePrefixes are the leading phrases that select the description
// intent and are stripped before fancyname matching.
var DescribePrefixes = []string{
	"describe",
	"details of",
	"info about",
	"information about",
	"tell me about",
}

type rule struct {
	tag   Tag
	match func(q string) bool
}

// rules is evaluated top to bottom; order is the precedence contract.
// A query matching several tags resolves to the first one listed here.
var rules = []rule{
	{TotalCount, containsAny("total count", "how many fabrics", "how many records", "how many items", "number of records", "record count")},
	{Listing, containsAny("list all", "show all", "all fabrics", "all records", "all items", "full listing")},
	{Comparison, anyOf(containsAny("compare", "difference between"), wordAny("vs", "versus", "diff"))},
	{Description, prefixAny(DescribePrefixes...)},
	{Pricing, containsAny("top price", "highest price", "most expensive", "price ranking", "top by price", "top 5 price", "best price")},
	{Brand, containsAny("brand")},
	{Customer, containsAny("customer")},
	{SalesPerson, containsAny("sales person", "salesperson")},
	{SalesTeam, containsAny("team")},
	{Chart, wordAny("plot", "chart", "graph", "visualize", "visualise")},
}

// Classify resolves query to exactly one tag. Pure function of the string.
func Classify(query string) Tag {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Unclassified
	}
	for _, r := range rules {
		if r.match(q) {
			return r.tag
		}
	}
	return Unclassified
}

func containsAny(subs ...string) func(string) bool {
	return func(q string) bool {
		for _, s := range subs {
			if strings.Contains(q, s) {
				return true
			}
		}
		return false
	}
}

func prefixAny(prefixes ...string) func(string) bool {
	return func(q string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(q, p) {
				return true
			}
		}
		return false
	}
}

// wordAny matches whole words only, so short triggers like "vs" do not fire
// inside larger words ("canvas", "gravserve").
func wordAny(words ...string) func(string) bool {
	return func(q string) bool {
		for _, f := range strings.FieldsFunc(q, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		}) {
			for _, w := range words {
				if f == w {
					return true
				}
			}
		}
		return false
	}
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(q string) bool {
		for _, p := range preds {
			if p(q) {
				return true
			}
		}
		return false
	}
}
