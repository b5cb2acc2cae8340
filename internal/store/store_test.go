package store

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/kskeerthana/billing-management/domain"
	"github.com/kskeerthana/billing-management/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	migrations.Run(db)
	return New(db)
}

func testCustomer(name, email string) *domain.Customer {
	return &domain.Customer{
		Name:  name,
		Email: email,
		Phone: "555-0100",
		BillingAddress: domain.Address{
			Line1:      "1 Main St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
			Country:    "US",
		},
		ShippingSameAsBilling: true,
	}
}

func testInvoice(customerID string) *domain.Invoice {
	issue, _ := domain.ParseDate("2026-08-01")
	due, _ := domain.ParseDate("2026-08-31")
	return &domain.Invoice{
		CustomerID: customerID,
		IssueDate:  issue,
		DueDate:    due,
		Items: []domain.LineItem{{
			Description: "consulting",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("50.00"),
			TaxRate:     decimal.RequireFromString("10"),
			LineTotal:   decimal.RequireFromString("110.00"),
		}},
		Subtotal: decimal.RequireFromString("100.00"),
		TaxTotal: decimal.RequireFromString("10.00"),
		Discount: decimal.RequireFromString("5.00"),
		Total:    decimal.RequireFromString("105.00"),
		Status:   domain.StatusUnpaid,
		Notes:    "net 30",
	}
}

// pause keeps creation timestamps strictly ordered for the sort tests.
func pause() {
	time.Sleep(2 * time.Millisecond)
}
