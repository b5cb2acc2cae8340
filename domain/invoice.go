package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values for an invoice.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// Discount kinds applied at the order level.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// LineItem is a single row on an invoice. LineTotal is derived as
// quantity × unit price × (1 + tax rate / 100) and persisted with the
// invoice.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Invoice is a billed document for a customer. The monetary summary
// fields are computed once when the invoice is created and never
// recomputed on read. The only mutation after creation is the payment
// status toggle.
type Invoice struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	CustomerID string          `json:"customer_id"`
	IssueDate  Date            `json:"issue_date"`
	DueDate    Date            `json:"due_date"`
	Items      []LineItem      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
