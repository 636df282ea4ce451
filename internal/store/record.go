// Package store holds the in-memory sales dataset for one session.
// Records are loaded once from a JSON document and never mutated.
package store

import (
	"strconv"
	"strings"
)

// CustomerType values observed in the dataset. Records may leave it unset.
const (
	CustomerExport = "EXPORT"
	CustomerLocal  = "LOCAL"
)

// SalesRecord is one sales line item. All fields are text as shipped by the
// upstream export; numeric fields may be absent or non-numeric and must be
// read through Price/Quantity, never parsed directly.
type SalesRecord struct {
	FancyName           string `json:"fancyname"`
	Brand               string `json:"brand"`
	CustomerName        string `json:"customer_name"`
	CustomerType        string `json:"customer_type"`
	SalesPerson         string `json:"sales_person"`
	SalesTeam           string `json:"sales_team"`
	SellingPrice        string `json:"selling_price"`
	QuantityMeters      string `json:"quantity_meters"`
	InvoiceCurrencyCode string `json:"invoice_currency_code"`
	Composition         string `json:"composition"`
	TrxDate             string `json:"trx_date"`
}

// Price returns the selling price as a number, 0 when absent or malformed.
func (r SalesRecord) Price() float64 {
	return parseNum(r.SellingPrice)
}

// Quantity returns the quantity in meters as a number, 0 when absent or
// malformed.
func (r SalesRecord) Quantity() float64 {
	return parseNum(r.QuantityMeters)
}

// Field maps a query-facing field label to the record's text for that field.
// Unknown labels resolve to the fancy name, the primary matching key.
func (r SalesRecord) Field(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "brand":
		return r.Brand
	case "customer":
		return r.CustomerName
	case "sales person", "salesperson":
		return r.SalesPerson
	case "team", "sales team":
		return r.SalesTeam
	default:
		return r.FancyName
	}
}

func parseNum(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Num coerces arbitrary numeric-as-text to a float64, falling back to 0.
// Exposed for the sandbox bindings, which apply the same defensive rule.
func Num(s string) float64 {
	return parseNum(s)
}
