package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kskeerthana/billing-management/domain"
)

type customerRequest struct {
	Name                  string         `json:"name"`
	Email                 string         `json:"email"`
	Phone                 string         `json:"phone"`
	BillingAddress        domain.Address `json:"billing_address"`
	ShippingAddress       domain.Address `json:"shipping_address"`
	ShippingSameAsBilling bool           `json:"shipping_same_as_billing"`
}

func (req customerRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return "email is required"
	}
	if !strings.Contains(email, "@") {
		return "email is not valid"
	}
	return ""
}

func (req customerRequest) toDomain() domain.Customer {
	return domain.Customer{
		Name:                  strings.TrimSpace(req.Name),
		Email:                 strings.TrimSpace(req.Email),
		Phone:                 strings.TrimSpace(req.Phone),
		BillingAddress:        req.BillingAddress,
		ShippingAddress:       req.ShippingAddress,
		ShippingSameAsBilling: req.ShippingSameAsBilling,
	}
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	opts := listParams(r)
	page := h.store.ListCustomers(opts)
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	customer := req.toDomain()
	if err := h.store.CreateCustomer(&customer); err != nil {
		h.storeError(w, err, "unable to create customer")
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.store.GetCustomer(chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "unable to fetch customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	customer := req.toDomain()
	if err := h.store.UpdateCustomer(chi.URLParam(r, "id"), &customer); err != nil {
		h.storeError(w, err, "unable to update customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCustomer(chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "unable to delete customer")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
