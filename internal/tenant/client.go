package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shopgrid/storefront-server/internal/models"
)

// Client fetches tenant configuration from the lookup API.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a tenant lookup client. Retries are deliberately left
// to the calling layer; a failed lookup renders as "store not found".
func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: httpClient}
}

// lookupResponse tolerates both response shapes the lookup API may return:
// a bare tenant object, or a {results: [...]} envelope.
type lookupResponse struct {
	models.TenantConfig
	Results []*models.TenantConfig `json:"results"`
}

// FetchConfig resolves an identifier into a tenant config. Exactly one of
// slug/domain is sent per call. Any transport error, non-2xx response, or
// empty result yields nil rather than an error: callers render a
// "store not found" state instead of crashing.
func (c *Client) FetchConfig(ctx context.Context, id Identifier) *models.TenantConfig {
	req := c.httpClient.R().SetContext(ctx)

	switch id.Kind {
	case KindSlug:
		req.SetQueryParam("slug", id.Value)
	case KindDomain:
		req.SetQueryParam("domain", id.Value)
	default:
		return nil
	}

	resp, err := req.Get("/tenants/")
	if err != nil {
		log.Warn().Err(err).Str("identifier", id.Key()).Msg("Tenant lookup failed")
		return nil
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.Warn().
			Int("status", resp.StatusCode()).
			Str("identifier", id.Key()).
			Msg("Tenant lookup returned non-2xx")
		return nil
	}

	var body lookupResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		log.Warn().Err(err).Str("identifier", id.Key()).Msg("Tenant lookup body unreadable")
		return nil
	}

	if len(body.Results) > 0 {
		return body.Results[0]
	}
	if body.TenantConfig.ID != uuid.Nil || body.TenantConfig.Slug != "" {
		cfg := body.TenantConfig
		return &cfg
	}

	return nil
}
