package catalog

import (
	"context"
	"strings"
	"sync"

	"gerai-be/internal/category"
	"gerai-be/internal/changefeed"
	"gerai-be/internal/logger"
	"gerai-be/internal/product"

	"go.uber.org/zap"
)

// Store keeps an in-memory snapshot of the catalog, refreshed whole on
// every products/categories change event. No incremental patching; the
// catalog is small enough that a full refetch is the simpler contract.
type Store struct {
	products   product.Repository
	categories category.Repository
	feed       changefeed.Feed

	mu           sync.Mutex
	productList  []product.Product
	categoryList []category.Category
	search       string
	categorySlug string
	loading      bool
}

func NewStore(products product.Repository, categories category.Repository, feed changefeed.Feed) *Store {
	return &Store{
		products:   products,
		categories: categories,
		feed:       feed,
		loading:    true,
	}
}

// Run loads the catalog once, then refetches on every change event
// until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	s.Refresh(ctx)

	sub := s.feed.Subscribe("products", "categories", "*")
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.C:
			if !ok {
				return
			}
			s.Refresh(ctx)
		}
	}
}

// Refresh refetches both lists. On failure the previous snapshot is
// kept; the caller keeps seeing last-known-good data.
func (s *Store) Refresh(ctx context.Context) {
	log := logger.FromCtx(ctx).With(zap.String("store", "catalog"))

	productList, err := s.products.List(ctx, true)
	if err != nil {
		log.Error("product refresh failed", zap.Error(err))
		s.setLoading(false)
		return
	}

	categoryList, err := s.categories.List(ctx, true)
	if err != nil {
		log.Error("category refresh failed", zap.Error(err))
		s.setLoading(false)
		return
	}

	s.mu.Lock()
	s.productList = productList
	s.categoryList = categoryList
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) SetSearch(q string) {
	s.mu.Lock()
	s.search = q
	s.mu.Unlock()
}

func (s *Store) SetCategory(slug string) {
	s.mu.Lock()
	s.categorySlug = slug
	s.mu.Unlock()
}

func (s *Store) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.Product(nil), s.productList...)
}

func (s *Store) Categories() []category.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]category.Category(nil), s.categoryList...)
}

// FilteredProducts applies the current search and category filters.
func (s *Store) FilteredProducts() []product.Product {
	s.mu.Lock()
	list := s.productList
	search := s.search
	slug := s.categorySlug
	s.mu.Unlock()

	return Filter(list, search, slug)
}

// Filter returns the products matching both predicates: name or
// description contains the query case-insensitively (empty query matches
// all), and category slug equals the filter (empty filter matches all).
func Filter(products []product.Product, search, categorySlug string) []product.Product {
	query := strings.ToLower(strings.TrimSpace(search))

	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if query != "" {
			name := strings.ToLower(p.Name)
			desc := ""
			if p.Description != nil {
				desc = strings.ToLower(*p.Description)
			}
			if !strings.Contains(name, query) && !strings.Contains(desc, query) {
				continue
			}
		}
		if categorySlug != "" && p.CategorySlug != categorySlug {
			continue
		}
		out = append(out, p)
	}
	return out
}
