package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/shopgrid/storefront-server/internal/models"
)

// ========== Order Methods ==========

// CreateOrder creates a new order
func (s *PostgresStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	query := `
        INSERT INTO orders (
            id, created_at, updated_at, tenant_id, cart_key, status,
            customer_email, customer_name, items, subtotal, shipping_cost, total, est_ship_date
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		order.ID, order.CreatedAt, order.UpdatedAt, order.TenantID, order.CartKey,
		order.Status, order.CustomerEmail, order.CustomerName, order.Items,
		order.Subtotal, order.ShippingCost, order.Total, order.EstShipDate,
	)

	return err
}

// GetOrder gets an order by ID
func (s *PostgresStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
        SELECT id, created_at, updated_at, tenant_id, cart_key, status,
               customer_email, customer_name, items, subtotal, shipping_cost, total, est_ship_date
        FROM orders
        WHERE id = $1`

	order := &models.Order{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.TenantID, &order.CartKey,
		&order.Status, &order.CustomerEmail, &order.CustomerName, &order.Items,
		&order.Subtotal, &order.ShippingCost, &order.Total, &order.EstShipDate,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateOrderStatus transitions an order's status
func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListOrders lists a tenant's orders with pagination
func (s *PostgresStore) ListOrders(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Order, int64, error) {
	var total int64
	err := s.getDB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE tenant_id = $1`, tenantID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
        SELECT id, created_at, updated_at, tenant_id, cart_key, status,
               customer_email, customer_name, items, subtotal, shipping_cost, total, est_ship_date
        FROM orders
        WHERE tenant_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := s.getDB().QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.TenantID, &order.CartKey,
			&order.Status, &order.CustomerEmail, &order.CustomerName, &order.Items,
			&order.Subtotal, &order.ShippingCost, &order.Total, &order.EstShipDate,
		)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}

	return orders, total, rows.Err()
}

// ========== Quote Request Methods ==========

// CreateQuoteRequest creates a new quote request
func (s *PostgresStore) CreateQuoteRequest(ctx context.Context, quote *models.QuoteRequest) error {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	quote.CreatedAt = time.Now()

	query := `
        INSERT INTO quote_requests (
            id, created_at, tenant_id, cart_key, customer_email, customer_name, message, items
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		quote.ID, quote.CreatedAt, quote.TenantID, quote.CartKey,
		quote.CustomerEmail, quote.CustomerName, quote.Message, quote.Items,
	)

	return err
}

// ListQuoteRequests lists a tenant's quote requests with pagination
func (s *PostgresStore) ListQuoteRequests(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.QuoteRequest, int64, error) {
	var total int64
	err := s.getDB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quote_requests WHERE tenant_id = $1`, tenantID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
        SELECT id, created_at, tenant_id, cart_key, customer_email, customer_name, message, items
        FROM quote_requests
        WHERE tenant_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := s.getDB().QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quotes []*models.QuoteRequest
	for rows.Next() {
		quote := &models.QuoteRequest{}
		err := rows.Scan(
			&quote.ID, &quote.CreatedAt, &quote.TenantID, &quote.CartKey,
			&quote.CustomerEmail, &quote.CustomerName, &quote.Message, &quote.Items,
		)
		if err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, quote)
	}

	return quotes, total, rows.Err()
}
