package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/kskeerthana/billing-management/internal/config"
	"github.com/kskeerthana/billing-management/internal/logger"
	"github.com/kskeerthana/billing-management/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	cfg   config.Config
	log   zerolog.Logger
}

// New constructs a Handler.
func New(st *store.Store, cfg config.Config) *Handler {
	return &Handler{store: st, cfg: cfg, log: logger.WithComponent("api")}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.listCustomers)
		r.Post("/", h.createCustomer)
		r.Get("/{id}", h.getCustomer)
		r.Put("/{id}", h.updateCustomer)
		r.Delete("/{id}", h.deleteCustomer)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", h.listInvoices)
		r.Post("/", h.createInvoice)
		r.Get("/next-number", h.nextInvoiceNumber)
		r.Get("/{id}", h.getInvoice)
		r.Post("/{id}/status", h.setInvoiceStatus)
		r.Delete("/{id}", h.deleteInvoice)
	})

	r.Route("/backup", func(r chi.Router) {
		r.Get("/export", h.exportBackup)
		r.Post("/import", h.importBackup)
	})

	// The destructive reset affordance exists only in development mode.
	if h.cfg.IsDevelopment() {
		r.Post("/admin/reset", h.resetData)
	}

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// listParams extracts the common search/sort/pagination query parameters.
func listParams(r *http.Request) store.ListOptions {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	return store.ListOptions{
		Query:    q.Get("q"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
		Page:     page,
		PageSize: size,
	}
}

// storeError maps store failures onto HTTP statuses. Storage faults hide
// behind a generic message; the detail only goes to the log.
func (h *Handler) storeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, store.ErrDuplicateEmail.Error())
	default:
		h.log.Error().Err(err).Msg(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
