package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kskeerthana/billing-management/domain"
	"github.com/kskeerthana/billing-management/internal/billing"
	"github.com/kskeerthana/billing-management/internal/store"
)

type lineItemRequest struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

type invoiceRequest struct {
	CustomerID    string            `json:"customer_id"`
	IssueDate     domain.Date       `json:"issue_date"`
	DueDate       domain.Date       `json:"due_date"`
	Items         []lineItemRequest `json:"items"`
	UseGlobalTax  bool              `json:"use_global_tax"`
	GlobalTaxRate decimal.Decimal   `json:"global_tax_rate"`
	DiscountKind  string            `json:"discount_kind"`
	DiscountValue decimal.Decimal   `json:"discount_value"`
	Notes         string            `json:"notes"`
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && status != domain.StatusPaid && status != domain.StatusUnpaid {
		respondError(w, http.StatusBadRequest, "status must be paid or unpaid")
		return
	}
	page := h.store.ListInvoices(store.InvoiceListOptions{
		ListOptions: listParams(r),
		Status:      status,
		CustomerID:  q.Get("customer_id"),
	})
	respondJSON(w, http.StatusOK, page)
}

// createInvoice accepts the invoice builder payload, derives the monetary
// summary and persists the result. Totals are computed exactly once here;
// reads never recompute them.
func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CustomerID == "" {
		respondError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	if req.IssueDate.IsZero() || req.DueDate.IsZero() {
		respondError(w, http.StatusBadRequest, "issue_date and due_date are required")
		return
	}
	if _, err := h.store.GetCustomer(req.CustomerID); err != nil {
		h.storeError(w, err, "unable to verify customer")
		return
	}

	items := make([]domain.LineItem, len(req.Items))
	for i, item := range req.Items {
		rate := item.TaxRate
		if req.UseGlobalTax {
			rate = req.GlobalTaxRate
		}
		items[i] = domain.LineItem{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     rate,
		}
	}

	totals, err := billing.Compute(billing.Input{
		Items:         items,
		UseGlobalTax:  req.UseGlobalTax,
		GlobalTaxRate: req.GlobalTaxRate,
		DiscountKind:  req.DiscountKind,
		DiscountValue: req.DiscountValue,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Rounding to two places happens here, at the persistence boundary.
	for i := range items {
		items[i].LineTotal = totals.LineTotals[i].Round(2)
	}
	invoice := domain.Invoice{
		CustomerID: req.CustomerID,
		IssueDate:  req.IssueDate,
		DueDate:    req.DueDate,
		Items:      items,
		Subtotal:   totals.Subtotal.Round(2),
		TaxTotal:   totals.TaxTotal.Round(2),
		Discount:   totals.DiscountAmount.Round(2),
		Total:      totals.Total.Round(2),
		Status:     domain.StatusUnpaid,
		Notes:      req.Notes,
	}

	if err := h.store.CreateInvoice(&invoice); err != nil {
		h.storeError(w, err, "unable to create invoice")
		return
	}
	respondJSON(w, http.StatusCreated, invoice)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.store.GetInvoice(chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "unable to fetch invoice")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

func (h *Handler) setInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Status != domain.StatusPaid && payload.Status != domain.StatusUnpaid {
		respondError(w, http.StatusBadRequest, "status must be paid or unpaid")
		return
	}
	if err := h.store.SetInvoiceStatus(chi.URLParam(r, "id"), payload.Status); err != nil {
		h.storeError(w, err, "unable to update invoice status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": payload.Status})
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteInvoice(chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "unable to delete invoice")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) nextInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"number": h.store.NextInvoiceNumber()})
}
