package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pos-system/internal/common/logger"
	"pos-system/internal/domain"
	"pos-system/internal/idempotency"
	"pos-system/internal/metrics"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type Handler struct {
	svc   *OrderService
	guard idempotency.Guard
	log   *logger.Logger
}

func NewHandler(svc *OrderService, guard idempotency.Guard, log *logger.Logger) *Handler {
	return &Handler{svc: svc, guard: guard, log: log}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Post("/api/orders", h.createOrder)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]string{"status": "ok"}})
	})
	r.Handle("/metrics", metrics.Handler())
	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	key := idempotency.Key(r)
	if key != "" && h.guard != nil {
		if cached, hit, err := h.guard.Lookup(r.Context(), key); err != nil {
			h.log.Error("idempotency_lookup_failed", err, nil)
		} else if hit {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotent-Replay", "true")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
	}

	var cart domain.Cart
	if err := json.NewDecoder(r.Body).Decode(&cart); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "malformed request body"})
		return
	}

	receipt, err := h.svc.Submit(r.Context(), cart)
	if err != nil {
		status, msg := mapError(err)
		writeJSON(w, status, envelope{Success: false, Message: msg})
		return
	}

	body, _ := json.Marshal(envelope{Success: true, Data: receipt})
	if key != "" && h.guard != nil {
		if err := h.guard.Remember(r.Context(), key, body); err != nil {
			h.log.Error("idempotency_store_failed", err, map[string]any{"order_id": receipt.OrderID})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

// mapError translates the fulfillment taxonomy to HTTP. Storage faults
// surface a generic message; detail stays in the logs.
func mapError(err error) (int, string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		return http.StatusBadRequest, ise.Error()
	}
	return http.StatusInternalServerError, "order could not be completed"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
