package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopgrid/storefront-server/internal/models"
)

func TestApplyBranding(t *testing.T) {
	cfg := &models.TenantConfig{
		Name:           "Acme Hardware",
		PrimaryColor:   "#112233",
		SecondaryColor: "#445566",
	}

	d := ApplyBranding(cfg)
	assert.Equal(t, "Acme Hardware", d.Title)
	assert.Equal(t, "#112233", d.Properties["--primary-color"])
	assert.Equal(t, "#445566", d.Properties["--secondary-color"])

	// Idempotent: same input, same directive.
	assert.Equal(t, d, ApplyBranding(cfg))
}

func TestApplyBrandingSkipsUnsetColors(t *testing.T) {
	d := ApplyBranding(&models.TenantConfig{Name: "Plain"})
	assert.Empty(t, d.Properties)
	assert.Equal(t, "Plain", d.Title)
}

func TestApplyBrandingNilConfig(t *testing.T) {
	d := ApplyBranding(nil)
	assert.Empty(t, d.Properties)
	assert.Empty(t, d.Title)
}
