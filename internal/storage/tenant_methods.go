package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopgrid/storefront-server/internal/models"
)

const tenantColumns = `id, created_at, updated_at, slug, domain, name, status,
       primary_color, secondary_color, logo_url,
       decimal_places, thousands_separator, decimal_separator, shipping_workdays,
       welcome_text, contact_email, settings`

// CreateTenant creates a new tenant
func (s *PostgresStore) CreateTenant(ctx context.Context, tenant *models.TenantConfig) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}

	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	if tenant.Status == "" {
		tenant.Status = models.TenantStatusTrial
	}

	query := `
        INSERT INTO tenants (
            id, created_at, updated_at, slug, domain, name, status,
            primary_color, secondary_color, logo_url,
            decimal_places, thousands_separator, decimal_separator, shipping_workdays,
            welcome_text, contact_email, settings
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		tenant.ID, tenant.CreatedAt, tenant.UpdatedAt, tenant.Slug, tenant.Domain,
		tenant.Name, tenant.Status, tenant.PrimaryColor, tenant.SecondaryColor,
		tenant.LogoURL, tenant.DecimalPlaces, tenant.ThousandsSeparator,
		tenant.DecimalSeparator, tenant.ShippingWorkdays, tenant.WelcomeText,
		tenant.ContactEmail, tenant.Settings,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	return nil
}

// GetTenant gets a tenant by ID
func (s *PostgresStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.TenantConfig, error) {
	return s.getTenant(ctx, "id = $1", id)
}

// GetTenantBySlug gets a tenant by its platform subdomain slug
func (s *PostgresStore) GetTenantBySlug(ctx context.Context, slug string) (*models.TenantConfig, error) {
	return s.getTenant(ctx, "slug = $1", slug)
}

// GetTenantByDomain gets a tenant by its custom domain
func (s *PostgresStore) GetTenantByDomain(ctx context.Context, domain string) (*models.TenantConfig, error) {
	return s.getTenant(ctx, "domain = $1", domain)
}

func (s *PostgresStore) getTenant(ctx context.Context, where string, arg interface{}) (*models.TenantConfig, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE ` + where

	tenant := &models.TenantConfig{}
	err := s.getDB().QueryRowContext(ctx, query, arg).Scan(
		&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt, &tenant.Slug, &tenant.Domain,
		&tenant.Name, &tenant.Status, &tenant.PrimaryColor, &tenant.SecondaryColor,
		&tenant.LogoURL, &tenant.DecimalPlaces, &tenant.ThousandsSeparator,
		&tenant.DecimalSeparator, &tenant.ShippingWorkdays, &tenant.WelcomeText,
		&tenant.ContactEmail, &tenant.Settings,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return tenant, nil
}

// UpdateTenant updates a tenant
func (s *PostgresStore) UpdateTenant(ctx context.Context, tenant *models.TenantConfig) error {
	tenant.UpdatedAt = time.Now()

	query := `
        UPDATE tenants SET
            updated_at = $2, slug = $3, domain = $4, name = $5, status = $6,
            primary_color = $7, secondary_color = $8, logo_url = $9,
            decimal_places = $10, thousands_separator = $11, decimal_separator = $12,
            shipping_workdays = $13, welcome_text = $14, contact_email = $15, settings = $16
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		tenant.ID, tenant.UpdatedAt, tenant.Slug, tenant.Domain, tenant.Name,
		tenant.Status, tenant.PrimaryColor, tenant.SecondaryColor, tenant.LogoURL,
		tenant.DecimalPlaces, tenant.ThousandsSeparator, tenant.DecimalSeparator,
		tenant.ShippingWorkdays, tenant.WelcomeText, tenant.ContactEmail, tenant.Settings,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteTenant deletes a tenant
func (s *PostgresStore) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListTenants lists tenants with pagination
func (s *PostgresStore) ListTenants(ctx context.Context, limit, offset int) ([]*models.TenantConfig, int64, error) {
	var total int64
	if err := s.getDB().QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + tenantColumns + `
        FROM tenants
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`

	rows, err := s.getDB().QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tenants []*models.TenantConfig
	for rows.Next() {
		tenant := &models.TenantConfig{}
		err := rows.Scan(
			&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt, &tenant.Slug, &tenant.Domain,
			&tenant.Name, &tenant.Status, &tenant.PrimaryColor, &tenant.SecondaryColor,
			&tenant.LogoURL, &tenant.DecimalPlaces, &tenant.ThousandsSeparator,
			&tenant.DecimalSeparator, &tenant.ShippingWorkdays, &tenant.WelcomeText,
			&tenant.ContactEmail, &tenant.Settings,
		)
		if err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, tenant)
	}

	return tenants, total, rows.Err()
}
