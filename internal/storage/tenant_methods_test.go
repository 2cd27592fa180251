package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopgrid/storefront-server/internal/models"
)

func setupMockStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, NewPostgresStoreWithDB(db)
}

func tenantRows(id uuid.UUID, slug, domain string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "slug", "domain", "name", "status",
		"primary_color", "secondary_color", "logo_url",
		"decimal_places", "thousands_separator", "decimal_separator", "shipping_workdays",
		"welcome_text", "contact_email", "settings",
	}).AddRow(
		id, now, now, slug, domain, "Acme", "ACTIVE",
		"#111111", "#222222", "",
		2, ".", ",", []byte(`[0,1,2,3,4]`),
		"", "", nil,
	)
}

func TestGetTenantBySlug(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE slug = \$1`).
		WithArgs("acme").
		WillReturnRows(tenantRows(id, "acme", ""))

	tenant, err := store.GetTenantBySlug(context.Background(), "acme")

	require.NoError(t, err)
	assert.Equal(t, id, tenant.ID)
	assert.Equal(t, "acme", tenant.Slug)
	assert.Equal(t, models.TenantStatusActive, tenant.Status)
	assert.Equal(t, models.IntArray{0, 1, 2, 3, 4}, tenant.ShippingWorkdays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTenantByDomainNotFound(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE domain = \$1`).
		WithArgs("ghost.com").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetTenantByDomain(context.Background(), "ghost.com")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTenantDefaultsStatus(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO tenants`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tenant := &models.TenantConfig{Slug: "acme", Name: "Acme"}
	err := store.CreateTenant(context.Background(), tenant)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tenant.ID)
	assert.Equal(t, models.TenantStatusTrial, tenant.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTenantNotFound(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE tenants SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateTenant(context.Background(), &models.TenantConfig{ID: uuid.New()})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
