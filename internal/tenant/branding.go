package tenant

import (
	"github.com/shopgrid/storefront-server/internal/models"
)

// StyleDirective describes the presentation-layer side effects derived from
// a tenant config. The server never applies it; the presentation layer does.
type StyleDirective struct {
	Properties map[string]string `json:"properties"`
	Title      string            `json:"title"`
}

// ApplyBranding derives the style directive for a tenant. Pure and
// idempotent; identical configs always yield identical directives.
func ApplyBranding(cfg *models.TenantConfig) StyleDirective {
	d := StyleDirective{Properties: map[string]string{}}
	if cfg == nil {
		return d
	}

	if cfg.PrimaryColor != "" {
		d.Properties["--primary-color"] = cfg.PrimaryColor
	}
	if cfg.SecondaryColor != "" {
		d.Properties["--secondary-color"] = cfg.SecondaryColor
	}
	d.Title = cfg.Name

	return d
}
