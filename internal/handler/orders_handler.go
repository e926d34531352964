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

type OrdersHandler struct {
	svc     *service.OrderService
	timeout time.Duration
}

func NewOrdersHandler(svc *service.OrderService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{svc: svc, timeout: timeout}
}

type createOrderDTO struct {
	Items          []domain.CartLine `json:"items"`
	CustomerName   string            `json:"customer_name"`
	CustomerEmail  string            `json:"customer_email"`
	CustomerPhone  string            `json:"customer_phone"`
	PickupTime     string            `json:"pickup_time"`
	Notes          string            `json:"notes"`
	IdempotencyKey string            `json:"idempotency_key"`
}

// POST /api/orders
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req createOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "order must contain at least one item")
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 || item.Price < 0 {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid order item")
			return
		}
	}

	order, err := h.svc.CreateOrder(ctx, service.CreateOrderRequest{
		Items: req.Items,
		Contact: domain.ContactInfo{
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			PickupTime:    req.PickupTime,
			Notes:         req.Notes,
		},
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create order")
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// GET /api/orders?status=pending
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.svc.List(ctx, r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// GET /api/orders/{order_id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.svc.Get(ctx, chi.URLParam(r, "order_id"))
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

type updateStatusDTO struct {
	Status string `json:"status"`
}

// PUT /api/orders/{order_id}/status
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req updateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.svc.UpdateStatus(ctx, chi.URLParam(r, "order_id"), domain.OrderStatus(req.Status))
	if errors.Is(err, service.ErrInvalidOrderStatus) {
		respondError(w, http.StatusBadRequest, "invalid_status", "status must be one of: pending, paid, preparing, ready, completed, cancelled")
		return
	}
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update order status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "order status updated to " + req.Status})
}
