package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mtt/feedgen/internal/domain"
)

type CatalogRepository interface {
	CityByID(ctx context.Context, id int) (domain.City, error)
	CategoriesForCity(ctx context.Context, cityID int) ([]domain.Category, error)
	ProductsPage(ctx context.Context, cityID, limit, offset int) ([]domain.Product, error)
	AllAttributes(ctx context.Context) ([]domain.Attribute, error)
	ProductCount(ctx context.Context, cityID int) (int64, error)
}

type catalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

func (r *catalogRepository) CityByID(ctx context.Context, id int) (domain.City, error) {
	var city domain.City
	err := r.db.QueryRow(ctx, `SELECT id, url FROM cities WHERE id = $1`, id).
		Scan(&city.ID, &city.URL)
	if err != nil {
		return domain.City{}, fmt.Errorf("failed to fetch city %d: %w", id, err)
	}

	return city, nil
}

func (r *catalogRepository) CategoriesForCity(ctx context.Context, cityID int) ([]domain.Category, error) {
	query := `
	SELECT c.id, c.short_name
	FROM categories c
	JOIN city_categories cc ON cc.category_id = c.id
	WHERE cc.city_id = $1
	ORDER BY c.id`
	rows, err := r.db.Query(ctx, query, cityID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories for city %d: %w", cityID, err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}

// ProductsPage returns one bounded page of the city's catalog, joined with
// category, section and image metadata. Ordered by (category id, product id)
// so successive offset windows never overlap for an unchanged catalog. The
// image is picked via a lateral limit so a product with several images still
// yields exactly one row.
func (r *catalogRepository) ProductsPage(ctx context.Context, cityID, limit, offset int) ([]domain.Product, error) {
	query := `
	SELECT p.id, p.name, p.price, COALESCE(p.description, ''),
	       COALESCE(p.attributes_json, '{}'::jsonb),
	       c.id, c.short_name, c.sluggable,
	       COALESCE(cs.sluggable, ''), COALESCE(img.image_name, '')
	FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN city_categories cc ON cc.category_id = c.id
	LEFT JOIN catalog_sections cs ON cs.id = c.section_id
	LEFT JOIN LATERAL (
		SELECT i.image_name
		FROM product_images pi
		JOIN images i ON i.id = pi.image_id
		WHERE pi.product_id = p.id
		ORDER BY pi.image_id
		LIMIT 1
	) img ON true
	WHERE cc.city_id = $1
	ORDER BY c.id, p.id
	LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, cityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for city %d at offset %d: %w", cityID, offset, err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Description,
			&product.Attributes,
			&product.CategoryID,
			&product.CategoryName,
			&product.CategorySluggable,
			&product.SectionSluggable,
			&product.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) AllAttributes(ctx context.Context) ([]domain.Attribute, error) {
	query := `
	SELECT a.category_id, a.key, a.name, a.priority_filter
	FROM attributes a
	ORDER BY a.id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attributes: %w", err)
	}
	defer rows.Close()

	var attributes []domain.Attribute
	for rows.Next() {
		var attribute domain.Attribute
		err := rows.Scan(
			&attribute.CategoryID,
			&attribute.Key,
			&attribute.Name,
			&attribute.PriorityFilter,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attribute: %w", err)
		}
		attributes = append(attributes, attribute)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attributes: %w", err)
	}

	return attributes, nil
}

// ProductCount estimates the offer total for progress reporting. Advisory
// only: the catalog can change between this count and the pagination run.
func (r *catalogRepository) ProductCount(ctx context.Context, cityID int) (int64, error) {
	query := `
	SELECT count(*)
	FROM products p
	JOIN city_categories cc ON cc.category_id = p.category_id
	WHERE cc.city_id = $1`
	var count int64
	if err := r.db.QueryRow(ctx, query, cityID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products for city %d: %w", cityID, err)
	}

	return count, nil
}
