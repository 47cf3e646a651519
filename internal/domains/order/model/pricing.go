package model

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Pricing is the money breakdown computed at checkout. All values carry
// two decimal places.
type Pricing struct {
	Subtotal        decimal.Decimal
	DiscountPercent *int
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
}

// ComputePricing derives the order totals from line items and an optional
// discount percentage.
//
// Rules:
//   - subtotal is the rounded sum of price * quantity per line
//   - the discount amount is subtotal * percent / 100, rounded half-up to
//     2 decimal places, then clamped into [0, subtotal]
//   - when clamping changes the amount, the stored percent is re-derived
//     from the clamped amount so the snapshot stays consistent
//   - total never drops below zero
func ComputePricing(items []OrderItem, discountPercent *int) Pricing {
	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].CalculateSubtotal())
	}
	subtotal = subtotal.Round(2)

	discountAmount := decimal.Zero
	if discountPercent != nil && *discountPercent > 0 {
		pct := decimal.NewFromInt(int64(*discountPercent))
		discountAmount = subtotal.Mul(pct).Div(oneHundred).Round(2)
	}
	clamped := ClampDiscount(discountAmount, subtotal)
	if !clamped.Equal(discountAmount) {
		eff := EffectivePercent(clamped, subtotal)
		discountPercent = &eff
	}
	discountAmount = clamped

	total := subtotal.Sub(discountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Pricing{
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		Total:           total,
	}
}

// ClampDiscount bounds a discount amount into [0, subtotal]
func ClampDiscount(amount, subtotal decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}

// EffectivePercent converts an absolute discount back into a whole
// percentage of the subtotal, truncated toward zero. Returns 0 when the
// subtotal is zero.
func EffectivePercent(amount, subtotal decimal.Decimal) int {
	if subtotal.IsZero() {
		return 0
	}
	return int(amount.Mul(oneHundred).Div(subtotal).IntPart())
}
