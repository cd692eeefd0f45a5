package feed

import (
	"context"
	"fmt"

	"go.uber.org/ratelimit"

	"mtt/feedgen/internal/domain"
)

// Store is the narrow read capability the generator needs from the catalog.
type Store interface {
	CategoriesForCity(ctx context.Context, cityID int) ([]domain.Category, error)
	ProductsPage(ctx context.Context, cityID, limit, offset int) ([]domain.Product, error)
	AllAttributes(ctx context.Context) ([]domain.Attribute, error)
	ProductCount(ctx context.Context, cityID int) (int64, error)
}

// ProductPager pulls a city's catalog page by page, advancing the offset by
// exactly the page size until a query comes back empty. It is forward-only:
// there is no resume token, a failed run restarts from offset 0.
//
// Pages reflect whatever the store returns at query time; a catalog mutated
// mid-run can skip or duplicate rows at page boundaries.
type ProductPager struct {
	store  Store
	cityID int
	limit  int
	offset int
	done   bool
	rl     ratelimit.Limiter
}

// NewProductPager creates a pager over the city's catalog. pagesPerSecond
// paces page queries against the store; 0 disables pacing.
func NewProductPager(store Store, cityID, pageSize, pagesPerSecond int) *ProductPager {
	rl := ratelimit.NewUnlimited()
	if pagesPerSecond > 0 {
		rl = ratelimit.New(pagesPerSecond)
	}
	return &ProductPager{
		store:  store,
		cityID: cityID,
		limit:  pageSize,
		rl:     rl,
	}
}

// Next returns the next non-empty page, or (nil, nil) once the catalog is
// exhausted.
func (p *ProductPager) Next(ctx context.Context) ([]domain.Product, error) {
	if p.done {
		return nil, nil
	}

	p.rl.Take()

	page, err := p.store.ProductsPage(ctx, p.cityID, p.limit, p.offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products page at offset %d: %w", p.offset, err)
	}
	if len(page) == 0 {
		p.done = true
		return nil, nil
	}

	p.offset += p.limit
	return page, nil
}
