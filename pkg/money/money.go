// Package money holds the PKR pricing rules shared by the cart and orders.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pricing carries the marketplace-wide charge parameters. Amounts are PKR.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// NewPricing parses the decimal knobs from their string configuration form.
func NewPricing(taxRate, freeShippingThreshold, flatShippingFee string) (Pricing, error) {
	rate, err := decimal.NewFromString(taxRate)
	if err != nil {
		return Pricing{}, fmt.Errorf("parse tax rate %q: %w", taxRate, err)
	}
	threshold, err := decimal.NewFromString(freeShippingThreshold)
	if err != nil {
		return Pricing{}, fmt.Errorf("parse free shipping threshold %q: %w", freeShippingThreshold, err)
	}
	fee, err := decimal.NewFromString(flatShippingFee)
	if err != nil {
		return Pricing{}, fmt.Errorf("parse flat shipping fee %q: %w", flatShippingFee, err)
	}
	if rate.IsNegative() || threshold.IsNegative() || fee.IsNegative() {
		return Pricing{}, fmt.Errorf("pricing parameters must be non-negative")
	}
	return Pricing{
		TaxRate:               rate,
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
	}, nil
}

// Tax computes the tax due on a subtotal.
func (p Pricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate)
}

// Shipping is waived strictly above the free-shipping threshold.
func (p Pricing) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShippingFee
}
