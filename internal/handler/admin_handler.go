package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/entusanojuicio/storefront/internal/service"
)

// AdminHandler serves the admin console: a static credential compare for
// login and aggregate stats for the dashboard.
type AdminHandler struct {
	orders   *service.OrderService
	products *service.ProductService
	username string
	password string
	timeout  time.Duration
}

func NewAdminHandler(orders *service.OrderService, products *service.ProductService, username, password string, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		orders:   orders,
		products: products,
		username: username,
		password: password,
		timeout:  timeout,
	}
}

type loginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Username != h.username || req.Password != h.password {
		respondError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"token":   "admin-token-123",
	})
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stats, err := h.orders.Stats(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load stats")
		return
	}
	productCount, err := h.products.Count(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to count products")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_products": productCount,
		"total_orders":   stats.TotalOrders,
		"pending_orders": stats.PendingOrders,
		"paid_orders":    stats.PaidOrders,
		"total_revenue":  stats.TotalRevenue,
	})
}
