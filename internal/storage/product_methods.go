package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopgrid/storefront-server/internal/models"
)

// ========== Product Methods ==========

// CreateProduct creates a new product
func (s *PostgresStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `
        INSERT INTO products (
            id, created_at, updated_at, tenant_id, name, description, image_url,
            is_quote_only, min_lead_days, weight_kg, is_active
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		product.ID, product.CreatedAt, product.UpdatedAt, product.TenantID,
		product.Name, product.Description, product.ImageURL,
		product.IsQuoteOnly, product.MinLeadDays, product.WeightKg, product.IsActive,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	return nil
}

// GetProduct gets a product by ID, including its variants
func (s *PostgresStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `
        SELECT id, created_at, updated_at, tenant_id, name, description, image_url,
               is_quote_only, min_lead_days, weight_kg, is_active
        FROM products
        WHERE id = $1`

	product := &models.Product{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.CreatedAt, &product.UpdatedAt, &product.TenantID,
		&product.Name, &product.Description, &product.ImageURL,
		&product.IsQuoteOnly, &product.MinLeadDays, &product.WeightKg, &product.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	variants, err := s.ListVariants(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.Variants = variants

	return product, nil
}

// UpdateProduct updates a product
func (s *PostgresStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()

	query := `
        UPDATE products SET
            updated_at = $2, name = $3, description = $4, image_url = $5,
            is_quote_only = $6, min_lead_days = $7, weight_kg = $8, is_active = $9
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		product.ID, product.UpdatedAt, product.Name, product.Description,
		product.ImageURL, product.IsQuoteOnly, product.MinLeadDays,
		product.WeightKg, product.IsActive,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteProduct deletes a product and its variants
func (s *PostgresStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListProducts lists a tenant's products with pagination
func (s *PostgresStore) ListProducts(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, int64, error) {
	var total int64
	err := s.getDB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE tenant_id = $1`, tenantID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
        SELECT id, created_at, updated_at, tenant_id, name, description, image_url,
               is_quote_only, min_lead_days, weight_kg, is_active
        FROM products
        WHERE tenant_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := s.getDB().QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		err := rows.Scan(
			&product.ID, &product.CreatedAt, &product.UpdatedAt, &product.TenantID,
			&product.Name, &product.Description, &product.ImageURL,
			&product.IsQuoteOnly, &product.MinLeadDays, &product.WeightKg, &product.IsActive,
		)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, product := range products {
		variants, err := s.ListVariants(ctx, product.ID)
		if err != nil {
			return nil, 0, err
		}
		product.Variants = variants
	}

	return products, total, nil
}

// ========== Variant Methods ==========

// CreateVariant creates a new product variant
func (s *PostgresStore) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}

	now := time.Now()
	variant.CreatedAt = now
	variant.UpdatedAt = now

	query := `
        INSERT INTO product_variants (
            id, created_at, updated_at, product_id, name, sku, unit_price, stock, is_active
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		variant.ID, variant.CreatedAt, variant.UpdatedAt, variant.ProductID,
		variant.Name, variant.SKU, variant.UnitPrice, variant.Stock, variant.IsActive,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	return nil
}

// GetVariant gets a variant by ID
func (s *PostgresStore) GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	query := `
        SELECT id, created_at, updated_at, product_id, name, sku, unit_price, stock, is_active
        FROM product_variants
        WHERE id = $1`

	variant := &models.ProductVariant{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&variant.ID, &variant.CreatedAt, &variant.UpdatedAt, &variant.ProductID,
		&variant.Name, &variant.SKU, &variant.UnitPrice, &variant.Stock, &variant.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return variant, nil
}

// UpdateVariant updates a variant
func (s *PostgresStore) UpdateVariant(ctx context.Context, variant *models.ProductVariant) error {
	variant.UpdatedAt = time.Now()

	query := `
        UPDATE product_variants SET
            updated_at = $2, name = $3, sku = $4, unit_price = $5, stock = $6, is_active = $7
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		variant.ID, variant.UpdatedAt, variant.Name, variant.SKU,
		variant.UnitPrice, variant.Stock, variant.IsActive,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteVariant deletes a variant
func (s *PostgresStore) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx, `DELETE FROM product_variants WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListVariants lists a product's variants in creation order
func (s *PostgresStore) ListVariants(ctx context.Context, productID uuid.UUID) ([]*models.ProductVariant, error) {
	query := `
        SELECT id, created_at, updated_at, product_id, name, sku, unit_price, stock, is_active
        FROM product_variants
        WHERE product_id = $1
        ORDER BY created_at ASC`

	rows, err := s.getDB().QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []*models.ProductVariant
	for rows.Next() {
		variant := &models.ProductVariant{}
		err := rows.Scan(
			&variant.ID, &variant.CreatedAt, &variant.UpdatedAt, &variant.ProductID,
			&variant.Name, &variant.SKU, &variant.UnitPrice, &variant.Stock, &variant.IsActive,
		)
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant)
	}

	return variants, rows.Err()
}
