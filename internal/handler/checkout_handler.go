package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/entusanojuicio/storefront/internal/domain"
	"github.com/entusanojuicio/storefront/internal/repository"
	"github.com/entusanojuicio/storefront/internal/service"
)

type CheckoutHandler struct {
	svc     *service.CheckoutService
	timeout time.Duration
}

func NewCheckoutHandler(svc *service.CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, timeout: timeout}
}

type stripeCheckoutDTO struct {
	OrderID       string `json:"order_id"`
	OriginURL     string `json:"origin_url"`
	PaymentMethod string `json:"payment_method"`
}

// POST /api/checkout/stripe
func (h *CheckoutHandler) CreateStripe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req stripeCheckoutDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.OrderID == "" || req.OriginURL == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "order_id and origin_url are required")
		return
	}
	if req.PaymentMethod != "" && req.PaymentMethod != domain.ProviderStripe {
		respondError(w, http.StatusBadRequest, "invalid_request", "unsupported payment method")
		return
	}

	result, err := h.svc.CreateStripeSession(ctx, req.OrderID, req.OriginURL)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, "provider_error", "failed to create checkout session")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GET /api/checkout/status/{session_id}
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.svc.Status(ctx, chi.URLParam(r, "session_id"))
	if err != nil {
		respondError(w, http.StatusBadGateway, "provider_error", "failed to query payment status")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type webhookDTO struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
}

// POST /api/webhook/stripe
func (h *CheckoutHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req webhookDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "error", "message": "invalid payload"})
		return
	}

	h.svc.ConfirmWebhook(ctx, req.SessionID, req.PaymentStatus)
	respondJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
