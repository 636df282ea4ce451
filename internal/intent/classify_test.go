package intent

import "testing"

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Tag
	}{
		{"Empty", "", Unclassified},
		{"TotalCount", "what is the total count", TotalCount},
		{"TotalCountFabrics", "how many fabrics do we have?", TotalCount},
		{"Listing", "list all records", Listing},
		{"CompareWord", "compare ERNAN and VAN GOGH", Comparison},
		{"CompareVs", "ERNAN vs VAN GOGH", Comparison},
		{"CompareDiff", "diff between ERNAN and VAN GOGH", Comparison},
		{"VsInsideWordIgnored", "show canvas fabrics", Unclassified},
		{"DescribePrefix", "describe ERNAN", Description},
		{"TellMeAbout", "Tell me about ernan", Description},
		{"InfoMidQueryIgnored", "some info about nothing relevant", Unclassified},
		{"Pricing", "what is the highest price item", Pricing},
		{"Brand", "brand H&M", Brand},
		{"Customer", "which customer bought the most", Customer},
		{"SalesPerson", "sales person Ali", SalesPerson},
		{"SalesTeam", "team north", SalesTeam},
		{"Chart", "plot sales by month", Chart},
		{"BrandBeatsChart", "plot sales by brand", Brand},
		{"Unknown", "what is sulphur dye", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.query); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

// Precedence is part of the contract: when several trigger sets match, the
// earlier tag in the table wins.
func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Tag
	}{
		{"CountBeatsListing", "total count of all records", TotalCount},
		{"ComparisonBeatsBrand", "compare brand H&M with brand Zara", Comparison},
		{"CustomerBeatsTeam", "customer team summary", Customer},
		{"BrandBeatsCustomer", "brand for this customer", Brand},
		{"SalesPersonBeatsTeam", "sales person on the export team", SalesPerson},
		{"PricingBeatsChart", "plot the highest price items", Pricing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.query); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestExtractKeyword(t *testing.T) {
	tests := []struct {
		query string
		label string
		want  string
	}{
		{"brand H&M", "brand", "h&m"},
		{"Brand: Zara", "brand", "zara"},
		{"which customer - acme corp", "customer", "acme corp"},
		{"sales person Ali", "sales person", "ali"},
		{"no label here", "brand", "no label here"},
		{"TEAM  north ", "team", "north"},
	}
	for _, tt := range tests {
		if got := ExtractKeyword(tt.query, tt.label); got != tt.want {
			t.Errorf("ExtractKeyword(%q, %q) = %q, want %q", tt.query, tt.label, got, tt.want)
		}
	}
}
