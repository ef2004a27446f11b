package repo

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teesbyshelsea/storefront/internal/database"
	"github.com/teesbyshelsea/storefront/internal/domain"
)

// ProductRepository defines catalog persistence.
type ProductRepository interface {
	Create(product *domain.Product) error
	GetByID(id string) (*domain.Product, error)
	List(filter domain.ProductFilter) ([]*domain.Product, error)
	Update(product *domain.Product) error
	Delete(id string) error
}

type productRepo struct {
	db *database.DB
}

// NewProductRepository creates the MySQL-backed product repository.
func NewProductRepository(db *database.DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, name, category, description, retail_price, wholesale_price,
	stock, sizes, colors, image_url, featured, created_at, updated_at`

func (r *productRepo) Create(product *domain.Product) error {
	sizes, err := json.Marshal(product.Sizes)
	if err != nil {
		return fmt.Errorf("marshal sizes: %w", err)
	}
	colors, err := json.Marshal(product.Colors)
	if err != nil {
		return fmt.Errorf("marshal colors: %w", err)
	}

	query := `
		INSERT INTO products (id, name, category, description, retail_price, wholesale_price,
			stock, sizes, colors, image_url, featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		product.ID,
		product.Name,
		product.Category,
		product.Description,
		product.RetailPrice,
		product.WholesalePrice,
		product.Stock,
		sizes,
		colors,
		product.ImageURL,
		product.Featured,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	product, err := scanProduct(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

func (r *productRepo) List(filter domain.ProductFilter) ([]*domain.Product, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" && filter.Category != "all" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		conds = append(conds, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.FeaturedOnly {
		conds = append(conds, "featured = TRUE")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *productRepo) Update(product *domain.Product) error {
	sizes, err := json.Marshal(product.Sizes)
	if err != nil {
		return fmt.Errorf("marshal sizes: %w", err)
	}
	colors, err := json.Marshal(product.Colors)
	if err != nil {
		return fmt.Errorf("marshal colors: %w", err)
	}

	query := `
		UPDATE products
		SET name = ?, category = ?, description = ?, retail_price = ?, wholesale_price = ?,
			stock = ?, sizes = ?, colors = ?, image_url = ?, featured = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		product.Name,
		product.Category,
		product.Description,
		product.RetailPrice,
		product.WholesalePrice,
		product.Stock,
		sizes,
		colors,
		product.ImageURL,
		product.Featured,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("product not found: %s", product.ID)
	}
	return nil
}

func (r *productRepo) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("product not found: %s", id)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var sizes, colors []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.Description,
		&product.RetailPrice,
		&product.WholesalePrice,
		&product.Stock,
		&sizes,
		&colors,
		&product.ImageURL,
		&product.Featured,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(sizes) > 0 {
		if err := json.Unmarshal(sizes, &product.Sizes); err != nil {
			return nil, fmt.Errorf("unmarshal sizes: %w", err)
		}
	}
	if len(colors) > 0 {
		if err := json.Unmarshal(colors, &product.Colors); err != nil {
			return nil, fmt.Errorf("unmarshal colors: %w", err)
		}
	}
	return product, nil
}
