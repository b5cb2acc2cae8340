package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kskeerthana/billing-management/domain"
)

func item(qty int64, price, rate string) domain.LineItem {
	return domain.LineItem{
		Description: "widget",
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		TaxRate:     decimal.RequireFromString(rate),
	}
}

func TestComputeFixedDiscount(t *testing.T) {
	totals, err := Compute(Input{
		Items:         []domain.LineItem{item(2, "50", "10")},
		DiscountKind:  domain.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(100)), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TaxTotal.Equal(decimal.NewFromInt(10)), "tax = %s", totals.TaxTotal)
	assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(5)), "discount = %s", totals.DiscountAmount)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(105)), "total = %s", totals.Total)
}

func TestComputePercentageDiscount(t *testing.T) {
	totals, err := Compute(Input{
		Items: []domain.LineItem{
			item(3, "19.99", "0"),
			item(1, "5.01", "0"),
		},
		DiscountKind:  domain.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// 3×19.99 + 5.01 = 64.98; 10% off = 6.498
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("64.98")))
	assert.True(t, totals.DiscountAmount.Equal(decimal.RequireFromString("6.498")))
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("58.482")))
}

func TestComputeGlobalTaxOverridesItemRates(t *testing.T) {
	totals, err := Compute(Input{
		Items: []domain.LineItem{
			item(1, "100", "25"),
			item(1, "100", "0"),
		},
		UseGlobalTax:  true,
		GlobalTaxRate: decimal.NewFromInt(5),
		DiscountKind:  domain.DiscountFixed,
		DiscountValue: decimal.Zero,
	})
	require.NoError(t, err)

	assert.True(t, totals.TaxTotal.Equal(decimal.NewFromInt(10)), "tax = %s", totals.TaxTotal)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(210)))
	require.Len(t, totals.LineTotals, 2)
	assert.True(t, totals.LineTotals[0].Equal(decimal.NewFromInt(105)))
	assert.True(t, totals.LineTotals[1].Equal(decimal.NewFromInt(105)))
}

func TestComputeIdentityHolds(t *testing.T) {
	totals, err := Compute(Input{
		Items: []domain.LineItem{
			item(7, "3.33", "7.5"),
			item(2, "0.05", "19"),
			item(1, "1200", "0"),
		},
		DiscountKind:  domain.DiscountPercentage,
		DiscountValue: decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)

	want := totals.Subtotal.Add(totals.TaxTotal).Sub(totals.DiscountAmount)
	assert.True(t, totals.Total.Equal(want), "total %s != subtotal+tax-discount %s", totals.Total, want)
}

func TestComputeClampsNegativeTotal(t *testing.T) {
	totals, err := Compute(Input{
		Items:         []domain.LineItem{item(1, "10", "0")},
		DiscountKind:  domain.DiscountFixed,
		DiscountValue: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.True(t, totals.Total.IsZero(), "total = %s", totals.Total)
	// The components are still reported unclamped.
	assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(50)))
}

func TestComputeValidation(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{"no items", Input{DiscountKind: domain.DiscountFixed}},
		{"zero quantity", Input{
			Items:        []domain.LineItem{item(0, "10", "0")},
			DiscountKind: domain.DiscountFixed,
		}},
		{"negative price", Input{
			Items:        []domain.LineItem{item(1, "-1", "0")},
			DiscountKind: domain.DiscountFixed,
		}},
		{"tax rate above 100", Input{
			Items:        []domain.LineItem{item(1, "10", "101")},
			DiscountKind: domain.DiscountFixed,
		}},
		{"blank description", Input{
			Items: []domain.LineItem{{
				Quantity:  1,
				UnitPrice: decimal.NewFromInt(10),
			}},
			DiscountKind: domain.DiscountFixed,
		}},
		{"unknown discount kind", Input{
			Items:        []domain.LineItem{item(1, "10", "0")},
			DiscountKind: "rebate",
		}},
		{"negative discount", Input{
			Items:         []domain.LineItem{item(1, "10", "0")},
			DiscountKind:  domain.DiscountFixed,
			DiscountValue: decimal.NewFromInt(-1),
		}},
		{"percentage discount above 100", Input{
			Items:         []domain.LineItem{item(1, "10", "0")},
			DiscountKind:  domain.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(150),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.in)
			assert.Error(t, err)
		})
	}
}
