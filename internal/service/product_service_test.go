package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entusanojuicio/storefront/internal/domain"
	"github.com/entusanojuicio/storefront/internal/repository"
)

func catalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Zumo verde", Category: "juices", Price: 4.50, IsAvailable: true},
		{ID: "p2", Name: "Bowl de quinoa", Category: "bowls", Price: 8.90, IsAvailable: true},
		{ID: "p3", Name: "Tarta de zanahoria", Category: "desserts", Price: 5.20, IsAvailable: false},
	}
}

func TestList_CacheHitSkipsRepository(t *testing.T) {
	repo := &MockProductRepository{Products: catalog()}
	pc := newMockProductCache()
	pc.Data[listKey(repository.ProductFilter{})] = catalog()
	svc := NewProductService(repo, pc)

	products, err := svc.List(context.Background(), repository.ProductFilter{})

	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, 0, repo.ListCalls)
}

func TestList_CacheMissFallsThroughAndFilters(t *testing.T) {
	repo := &MockProductRepository{Products: catalog()}
	svc := NewProductService(repo, newMockProductCache())

	products, err := svc.List(context.Background(), repository.ProductFilter{AvailableOnly: true})

	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, repo.ListCalls)
}

func TestList_CacheErrorFallsThroughToRepository(t *testing.T) {
	repo := &MockProductRepository{Products: catalog()}
	pc := newMockProductCache()
	pc.GetErr = errors.New("redis down")
	svc := NewProductService(repo, pc)

	products, err := svc.List(context.Background(), repository.ProductFilter{})

	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestList_RepositoryError(t *testing.T) {
	repo := &MockProductRepository{Err: errors.New("mongo unavailable")}
	svc := NewProductService(repo, newMockProductCache())

	products, err := svc.List(context.Background(), repository.ProductFilter{})

	assert.Error(t, err)
	assert.Nil(t, products)
}

func TestCreate_InvalidatesListCaches(t *testing.T) {
	repo := &MockProductRepository{}
	pc := newMockProductCache()
	pc.Data[listKey(repository.ProductFilter{})] = catalog()
	svc := NewProductService(repo, pc)

	err := svc.Create(context.Background(), &domain.Product{ID: "p4", Name: "Gazpacho", Price: 3.90})

	require.NoError(t, err)
	assert.Contains(t, pc.Deleted, listKey(repository.ProductFilter{AvailableOnly: false}))
	assert.Contains(t, pc.Deleted, listKey(repository.ProductFilter{AvailableOnly: true}))
	assert.Empty(t, pc.Data[listKey(repository.ProductFilter{})])
}

func TestCount_DelegatesToRepository(t *testing.T) {
	repo := &MockProductRepository{Products: catalog()}
	svc := NewProductService(repo, newMockProductCache())

	count, err := svc.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
