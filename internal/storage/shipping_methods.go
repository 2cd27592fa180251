package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/shopgrid/storefront-server/internal/models"
)

// CreateShippingZone creates a new shipping zone
func (s *PostgresStore) CreateShippingZone(ctx context.Context, zone *models.ShippingZone) error {
	if zone.ID == uuid.Nil {
		zone.ID = uuid.New()
	}

	now := time.Now()
	zone.CreatedAt = now
	zone.UpdatedAt = now

	query := `
        INSERT INTO shipping_zones (
            id, created_at, updated_at, tenant_id, name, base_cost, cost_per_kg,
            free_shipping_threshold, estimated_days, allows_pickup, is_active
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		zone.ID, zone.CreatedAt, zone.UpdatedAt, zone.TenantID, zone.Name,
		zone.BaseCost, zone.CostPerKg, zone.FreeShippingThreshold,
		zone.EstimatedDays, zone.AllowsPickup, zone.IsActive,
	)

	return err
}

// GetShippingZone gets a shipping zone by ID
func (s *PostgresStore) GetShippingZone(ctx context.Context, id uuid.UUID) (*models.ShippingZone, error) {
	query := `
        SELECT id, created_at, updated_at, tenant_id, name, base_cost, cost_per_kg,
               free_shipping_threshold, estimated_days, allows_pickup, is_active
        FROM shipping_zones
        WHERE id = $1`

	zone := &models.ShippingZone{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&zone.ID, &zone.CreatedAt, &zone.UpdatedAt, &zone.TenantID, &zone.Name,
		&zone.BaseCost, &zone.CostPerKg, &zone.FreeShippingThreshold,
		&zone.EstimatedDays, &zone.AllowsPickup, &zone.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return zone, nil
}

// UpdateShippingZone updates a shipping zone
func (s *PostgresStore) UpdateShippingZone(ctx context.Context, zone *models.ShippingZone) error {
	zone.UpdatedAt = time.Now()

	query := `
        UPDATE shipping_zones SET
            updated_at = $2, name = $3, base_cost = $4, cost_per_kg = $5,
            free_shipping_threshold = $6, estimated_days = $7, allows_pickup = $8, is_active = $9
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		zone.ID, zone.UpdatedAt, zone.Name, zone.BaseCost, zone.CostPerKg,
		zone.FreeShippingThreshold, zone.EstimatedDays, zone.AllowsPickup, zone.IsActive,
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

// DeleteShippingZone deletes a shipping zone
func (s *PostgresStore) DeleteShippingZone(ctx context.Context, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx, `DELETE FROM shipping_zones WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListShippingZones lists a tenant's shipping zones
func (s *PostgresStore) ListShippingZones(ctx context.Context, tenantID uuid.UUID) ([]*models.ShippingZone, error) {
	query := `
        SELECT id, created_at, updated_at, tenant_id, name, base_cost, cost_per_kg,
               free_shipping_threshold, estimated_days, allows_pickup, is_active
        FROM shipping_zones
        WHERE tenant_id = $1
        ORDER BY name ASC`

	rows, err := s.getDB().QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []*models.ShippingZone
	for rows.Next() {
		zone := &models.ShippingZone{}
		err := rows.Scan(
			&zone.ID, &zone.CreatedAt, &zone.UpdatedAt, &zone.TenantID, &zone.Name,
			&zone.BaseCost, &zone.CostPerKg, &zone.FreeShippingThreshold,
			&zone.EstimatedDays, &zone.AllowsPickup, &zone.IsActive,
		)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}

	return zones, rows.Err()
}
