package cache

import (
	"context"
	"errors"

	"github.com/entusanojuicio/storefront/internal/domain"
)

// ProductCache fronts the product repository for catalog reads.
type ProductCache interface {
	Get(ctx context.Context, key string) ([]domain.Product, error)
	Set(ctx context.Context, key string, products []domain.Product) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
