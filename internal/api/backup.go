package api

import (
	"net/http"

	"github.com/kskeerthana/billing-management/domain"
	"github.com/kskeerthana/billing-management/internal/store"
)

func (h *Handler) exportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.store.ExportAll()
	if err != nil {
		h.storeError(w, err, "unable to export data")
		return
	}
	respondJSON(w, http.StatusOK, backup)
}

// importBackup validates the payload shape before any mutation happens:
// both fields must be present and be arrays, otherwise the import is
// rejected and the stored data stays untouched.
func (h *Handler) importBackup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Customers *[]domain.Customer `json:"customers"`
		Invoices  *[]domain.Invoice  `json:"invoices"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "import payload is not valid: "+err.Error())
		return
	}
	if payload.Customers == nil || payload.Invoices == nil {
		respondError(w, http.StatusBadRequest, "import payload must contain customers and invoices arrays")
		return
	}

	backup := &store.Backup{Customers: *payload.Customers, Invoices: *payload.Invoices}
	if err := h.store.ImportAll(backup); err != nil {
		h.storeError(w, err, "unable to import data")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "imported",
		"customers": len(backup.Customers),
		"invoices":  len(backup.Invoices),
	})
}

func (h *Handler) resetData(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(); err != nil {
		h.storeError(w, err, "unable to reset data")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
