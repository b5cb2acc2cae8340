// Package billing computes invoice totals from line items and order-level
// discount and tax modifiers. All arithmetic uses decimal values; rounding
// to two places happens only at persistence and response boundaries.
package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kskeerthana/billing-management/domain"
)

var (
	ErrNoItems         = errors.New("invoice requires at least one line item")
	ErrInvalidDiscount = errors.New("discount kind must be percentage or fixed")
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Input describes the invoice builder state the totals derive from. When
// UseGlobalTax is set every item is taxed at GlobalTaxRate regardless of
// its own stored rate.
type Input struct {
	Items         []domain.LineItem
	UseGlobalTax  bool
	GlobalTaxRate decimal.Decimal
	DiscountKind  string
	DiscountValue decimal.Decimal
}

// Totals is the derived monetary summary of an invoice.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	// LineTotals holds each item's quantity × price × (1 + rate/100)
	// at the effective tax rate, in item order.
	LineTotals []decimal.Decimal
}

// Compute derives subtotal, total tax, discount amount and grand total from
// the input. It is a pure function: each item's contribution is computed
// independently and summed. A discount larger than subtotal plus tax clamps
// the grand total at zero.
func Compute(in Input) (Totals, error) {
	if err := validate(in); err != nil {
		return Totals{}, err
	}

	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	lineTotals := make([]decimal.Decimal, len(in.Items))

	for i, item := range in.Items {
		rate := item.TaxRate
		if in.UseGlobalTax {
			rate = in.GlobalTaxRate
		}
		itemSubtotal := decimal.NewFromInt(item.Quantity).Mul(item.UnitPrice)
		itemTax := itemSubtotal.Mul(rate.Div(hundred))

		subtotal = subtotal.Add(itemSubtotal)
		taxTotal = taxTotal.Add(itemTax)
		lineTotals[i] = itemSubtotal.Mul(one.Add(rate.Div(hundred)))
	}

	var discount decimal.Decimal
	switch in.DiscountKind {
	case domain.DiscountPercentage:
		discount = subtotal.Mul(in.DiscountValue.Div(hundred))
	case domain.DiscountFixed:
		discount = in.DiscountValue
	}

	total := subtotal.Add(taxTotal).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:       subtotal,
		TaxTotal:       taxTotal,
		DiscountAmount: discount,
		Total:          total,
		LineTotals:     lineTotals,
	}, nil
}

func validate(in Input) error {
	if len(in.Items) == 0 {
		return ErrNoItems
	}
	for i, item := range in.Items {
		if item.Description == "" {
			return fmt.Errorf("item %d: description is required", i+1)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be at least 1", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("item %d: unit price must not be negative", i+1)
		}
		if err := validRate(item.TaxRate, i); err != nil {
			return err
		}
	}
	if in.UseGlobalTax {
		if in.GlobalTaxRate.IsNegative() || in.GlobalTaxRate.GreaterThan(hundred) {
			return errors.New("global tax rate must be between 0 and 100")
		}
	}
	switch in.DiscountKind {
	case domain.DiscountPercentage, domain.DiscountFixed:
	default:
		return ErrInvalidDiscount
	}
	if in.DiscountValue.IsNegative() {
		return errors.New("discount value must not be negative")
	}
	if in.DiscountKind == domain.DiscountPercentage && in.DiscountValue.GreaterThan(hundred) {
		return errors.New("percentage discount must not exceed 100")
	}
	return nil
}

func validRate(rate decimal.Decimal, index int) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return fmt.Errorf("item %d: tax rate must be between 0 and 100", index+1)
	}
	return nil
}
