package booking

import (
	"math"
	"strings"
)

// Promotion is one entry of the fixed discount catalog. Discount is a flat
// fraction of the subtotal; MinPassengers, when non-zero, is an eligibility
// precondition.
type Promotion struct {
	Code          string
	Discount      float64
	MinPassengers int
}

// catalog is the fixed promotion table. At most one promotion is active at a
// time; applying a new code replaces the discount rather than stacking.
var catalog = []Promotion{
	{Code: "WINTER25", Discount: 0.25},
	{Code: "SUMMER15", Discount: 0.15},
	{Code: "FAMILY10", Discount: 0.10, MinPassengers: 3},
}

// Pricing tracks the active discount for a draft.
type Pricing struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

// Apply looks up a code case-insensitively and reports whether it was
// accepted. An unknown code resets the discount to 0. A known code whose
// passenger-count precondition is unmet is reported invalid but leaves any
// previously active discount in place; this asymmetry matches the product's
// observed behavior and is pinned deliberately.
func (p *Pricing) Apply(code string, passengerCount int) bool {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var promo *Promotion
	for i := range catalog {
		if catalog[i].Code == normalized {
			promo = &catalog[i]
			break
		}
	}

	if promo == nil {
		p.Code = ""
		p.Discount = 0
		return false
	}

	if promo.MinPassengers > 0 && passengerCount < promo.MinPassengers {
		return false
	}

	p.Code = promo.Code
	p.Discount = promo.Discount
	return true
}

// Totals is the price breakdown shown at checkout.
type Totals struct {
	Subtotal       int64 `json:"subtotal"`
	DiscountAmount int64 `json:"discountAmount"`
	Total          int64 `json:"total"`
}

// Totals computes the breakdown for a subtotal:
// discountAmount = round(subtotal × discount), total = subtotal − discountAmount.
func (p *Pricing) Totals(subtotal int64) Totals {
	discountAmount := int64(math.Round(float64(subtotal) * p.Discount))
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          subtotal - discountAmount,
	}
}
