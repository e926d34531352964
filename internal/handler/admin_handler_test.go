package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/entusanojuicio/storefront/internal/cache"
	"github.com/entusanojuicio/storefront/internal/domain"
	"github.com/entusanojuicio/storefront/internal/repository"
	"github.com/entusanojuicio/storefront/internal/service"
)

type productRepoMock struct {
	products []domain.Product
}

func (m *productRepoMock) List(_ context.Context, _ repository.ProductFilter) ([]domain.Product, error) {
	return m.products, nil
}

func (m *productRepoMock) Get(_ context.Context, _ string) (*domain.Product, error) {
	return nil, repository.ErrProductNotFound
}

func (m *productRepoMock) Create(_ context.Context, _ *domain.Product) error { return nil }
func (m *productRepoMock) Update(_ context.Context, _ *domain.Product) error { return nil }
func (m *productRepoMock) Delete(_ context.Context, _ string) error          { return nil }

func (m *productRepoMock) Count(_ context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

type productCacheMock struct{}

func (productCacheMock) Get(_ context.Context, _ string) ([]domain.Product, error) {
	return nil, cache.ErrCacheMiss
}
func (productCacheMock) Set(_ context.Context, _ string, _ []domain.Product) error { return nil }
func (productCacheMock) Delete(_ context.Context, _ string) error                  { return nil }

func newAdminHandler(orderRepo *orderRepoMock, productRepo *productRepoMock) *AdminHandler {
	orders := service.NewOrderService(orderRepo, zap.NewNop())
	products := service.NewProductService(productRepo, productCacheMock{})
	return NewAdminHandler(orders, products, "Admin", "Admin", 5*time.Second)
}

func TestLogin_ValidCredentials(t *testing.T) {
	handler := newAdminHandler(newOrderRepoMock(), &productRepoMock{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/admin/login",
		strings.NewReader(`{"username": "Admin", "password": "Admin"}`))

	handler.Login(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
	var response map[string]interface{}
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["token"] != "admin-token-123" {
		t.Errorf("expected admin token, got %v", response["token"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	handler := newAdminHandler(newOrderRepoMock(), &productRepoMock{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/admin/login",
		strings.NewReader(`{"username": "Admin", "password": "nope"}`))

	handler.Login(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestStats_CombinesOrdersAndCatalog(t *testing.T) {
	orderRepo := newOrderRepoMock()
	orderRepo.stats = &repository.Stats{
		TotalOrders:   10,
		PendingOrders: 3,
		PaidOrders:    7,
		TotalRevenue:  152.40,
	}
	productRepo := &productRepoMock{products: []domain.Product{{ID: "p1"}, {ID: "p2"}}}
	handler := newAdminHandler(orderRepo, productRepo)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/admin/stats", nil)

	handler.Stats(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
	var response map[string]float64
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["total_products"] != 2 {
		t.Errorf("expected 2 products, got %v", response["total_products"])
	}
	if response["total_orders"] != 10 {
		t.Errorf("expected 10 orders, got %v", response["total_orders"])
	}
	if response["total_revenue"] != 152.40 {
		t.Errorf("expected revenue 152.40, got %v", response["total_revenue"])
	}
}
