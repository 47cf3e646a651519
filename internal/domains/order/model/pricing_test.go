package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func pct(v int) *int { return &v }

func items(prices ...float64) []OrderItem {
	out := make([]OrderItem, 0, len(prices))
	for _, p := range prices {
		out = append(out, OrderItem{Quantity: 1, Price: decimal.NewFromFloat(p)})
	}
	return out
}

func TestComputePricingNoDiscount(t *testing.T) {
	p := ComputePricing(items(1200, 100), nil)

	assert.True(t, p.Subtotal.Equal(decimal.NewFromInt(1300)), "subtotal = %s", p.Subtotal)
	assert.True(t, p.DiscountAmount.IsZero())
	assert.True(t, p.Total.Equal(decimal.NewFromInt(1300)))
}

func TestComputePricingTenPercent(t *testing.T) {
	p := ComputePricing(items(1200, 100), pct(10))

	assert.True(t, p.DiscountAmount.Equal(decimal.NewFromInt(130)), "discount = %s", p.DiscountAmount)
	assert.True(t, p.Total.Equal(decimal.NewFromInt(1170)), "total = %s", p.Total)
}

func TestComputePricingRoundsHalfUp(t *testing.T) {
	// 33.33 * 3 = 99.99, 7% = 6.9993 -> 7.00
	line := []OrderItem{{Quantity: 3, Price: decimal.RequireFromString("33.33")}}
	p := ComputePricing(line, pct(7))

	assert.Equal(t, "99.99", p.Subtotal.StringFixed(2))
	assert.Equal(t, "7.00", p.DiscountAmount.StringFixed(2))
	assert.Equal(t, "92.99", p.Total.StringFixed(2))
}

func TestComputePricingQuantityMultiplies(t *testing.T) {
	line := []OrderItem{{Quantity: 4, Price: decimal.NewFromInt(250)}}
	p := ComputePricing(line, nil)

	assert.True(t, p.Subtotal.Equal(decimal.NewFromInt(1000)))
}

func TestComputePricingHundredPercentIsFree(t *testing.T) {
	p := ComputePricing(items(500), pct(100))

	assert.True(t, p.DiscountAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, p.Total.IsZero())
}

func TestComputePricingZeroPercentIgnored(t *testing.T) {
	p := ComputePricing(items(500), pct(0))

	assert.True(t, p.DiscountAmount.IsZero())
	assert.True(t, p.Total.Equal(decimal.NewFromInt(500)))
}

func TestComputePricingOverHundredPercentClampsAndRederives(t *testing.T) {
	p := ComputePricing(items(500), pct(150))

	assert.True(t, p.DiscountAmount.Equal(decimal.NewFromInt(500)), "discount capped at subtotal")
	assert.True(t, p.Total.IsZero())
	if assert.NotNil(t, p.DiscountPercent) {
		assert.Equal(t, 100, *p.DiscountPercent, "percent re-derived from the clamped amount")
	}
}

func TestComputePricingEmptyCart(t *testing.T) {
	p := ComputePricing(nil, pct(50))

	assert.True(t, p.Subtotal.IsZero())
	assert.True(t, p.DiscountAmount.IsZero())
	assert.True(t, p.Total.IsZero())
}

func TestClampDiscount(t *testing.T) {
	subtotal := decimal.NewFromInt(100)

	assert.True(t, ClampDiscount(decimal.NewFromInt(-5), subtotal).IsZero())
	assert.True(t, ClampDiscount(decimal.NewFromInt(150), subtotal).Equal(subtotal))
	assert.True(t, ClampDiscount(decimal.NewFromInt(40), subtotal).Equal(decimal.NewFromInt(40)))
}

func TestEffectivePercent(t *testing.T) {
	assert.Equal(t, 10, EffectivePercent(decimal.NewFromInt(130), decimal.NewFromInt(1300)))
	// Truncates toward zero, never rounds up
	assert.Equal(t, 9, EffectivePercent(decimal.RequireFromString("99.99"), decimal.NewFromInt(1000)))
	assert.Equal(t, 0, EffectivePercent(decimal.NewFromInt(10), decimal.Zero))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCanceled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCanceled, false},
		{OrderStatusDelivered, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
