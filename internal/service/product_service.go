package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/entusanojuicio/storefront/internal/cache"
	"github.com/entusanojuicio/storefront/internal/domain"
	"github.com/entusanojuicio/storefront/internal/repository"
)

type ProductService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede on catalog reads
}

func NewProductService(repo repository.ProductRepository, cache cache.ProductCache) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: cache,
	}
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	key := listKey(filter)
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		products, errCache := s.cache.Get(ctx, key)
		if errCache == nil {
			return products, nil
		}
		if !errors.Is(errCache, cache.ErrCacheMiss) {
			// log cache error but continue to the repository
			log.Printf("product cache get error: %v\n", errCache)
		}

		products, errList := s.repo.List(ctx, filter)
		if errList != nil {
			return nil, errList
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), key, products); errSet != nil {
				log.Printf("product cache set error: %v\n", errSet)
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, p *domain.Product) error {
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *ProductService) Update(ctx context.Context, p *domain.Product) error {
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// invalidate drops the listing caches after a catalog mutation. Per-filter
// keys expire on TTL; only the common ones are dropped eagerly.
func (s *ProductService) invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, filter := range []repository.ProductFilter{
		{AvailableOnly: true},
		{AvailableOnly: false},
	} {
		if err := s.cache.Delete(ctx, listKey(filter)); err != nil {
			log.Printf("product cache invalidate error: %v\n", err)
		}
	}
}

func listKey(filter repository.ProductFilter) string {
	return fmt.Sprintf("list:%s:%t", filter.Category, filter.AvailableOnly)
}
