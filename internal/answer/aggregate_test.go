package answer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabriq/internal/store"
)

func testCollection() *store.Collection {
	return store.NewCollection([]store.SalesRecord{
		{FancyName: "ERNAN", Brand: "H&M Global", CustomerName: "Acme", SellingPrice: "794.31", QuantityMeters: "4434", InvoiceCurrencyCode: "USD", SalesPerson: "Ali", SalesTeam: "North"},
		{FancyName: "VAN GOGH", Brand: "Zara", CustomerName: "Blue Textiles", SellingPrice: "1200", QuantityMeters: "900", InvoiceCurrencyCode: "EUR", SalesPerson: "Sara", SalesTeam: "South"},
		{FancyName: "SULPHUR", Brand: "Zara", CustomerName: "Crown Fabrics", SellingPrice: "abc", QuantityMeters: "10", SalesTeam: "South"},
	})
}

func TestTotalCount(t *testing.T) {
	assert.Equal(t, 3, TotalCount(testCollection()))
	assert.Equal(t, 0, TotalCount(store.NewCollection(nil)))
}

func TestListAll_EmptySentinel(t *testing.T) {
	assert.Equal(t, NoRecordsSentinel, ListAll(store.NewCollection(nil), 100))
}

func TestListAll_LimitAndOverflow(t *testing.T) {
	records := make([]store.SalesRecord, 7)
	for i := range records {
		records[i] = store.SalesRecord{FancyName: fmt.Sprintf("FABRIC-%d", i)}
	}
	c := store.NewCollection(records)

	out := ListAll(c, 5)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "1. "))
	assert.True(t, strings.HasPrefix(lines[4], "5. "))
	assert.Equal(t, "And 2 more not shown.", lines[5])

	// No truncation note when everything fits.
	out = ListAll(c, 100)
	assert.NotContains(t, out, "more not shown")
	assert.Len(t, strings.Split(out, "\n"), 7)
}

func TestListAll_MissingFieldDefaults(t *testing.T) {
	c := store.NewCollection([]store.SalesRecord{{}})
	out := ListAll(c, 100)
	assert.Contains(t, out, "Unknown Item")
	assert.Contains(t, out, "Unknown Customer")
	assert.Contains(t, out, "Unknown Brand")
	assert.Contains(t, out, "N/A")
}

func TestTopByPrice_Ranking(t *testing.T) {
	out := TopByPrice(testCollection(), 5)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)

	// Descending by parsed price; "abc" parses to 0 and ranks last.
	assert.Contains(t, lines[0], "VAN GOGH")
	assert.Contains(t, lines[1], "ERNAN")
	assert.Contains(t, lines[2], "SULPHUR")
	assert.Contains(t, lines[2], "0.00")
}

func TestTopByPrice_StableTies(t *testing.T) {
	c := store.NewCollection([]store.SalesRecord{
		{FancyName: "FIRST", SellingPrice: "100"},
		{FancyName: "SECOND", SellingPrice: "100"},
		{FancyName: "THIRD", SellingPrice: "100"},
	})
	lines := strings.Split(TopByPrice(c, 5), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "FIRST")
	assert.Contains(t, lines[1], "SECOND")
	assert.Contains(t, lines[2], "THIRD")
}

func TestTopByPrice_EmptySentinel(t *testing.T) {
	assert.Equal(t, NoPricingSentinel, TopByPrice(store.NewCollection(nil), 5))
}

func TestFindByField_CaseInsensitiveSubstring(t *testing.T) {
	out, ok := FindByField(testCollection(), "brand", "h&m")
	require.True(t, ok)
	assert.Contains(t, out, "ERNAN")
	assert.NotContains(t, out, "VAN GOGH")
}

func TestFindByField_AbsentOnZeroMatches(t *testing.T) {
	// Distinct from the empty-result sentinel: absence routes to fallback.
	out, ok := FindByField(testCollection(), "brand", "nonexistent")
	assert.False(t, ok)
	assert.Empty(t, out)

	_, ok = FindByField(testCollection(), "brand", "   ")
	assert.False(t, ok)
}
