package server

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/shopgrid/storefront-server/internal/models"
)

// Publisher publishes storefront lifecycle events to NATS. A nil receiver
// or absent connection makes every publish a no-op so the server runs
// standalone without a broker.
type Publisher struct {
	nc *nats.Conn
}

// NewPublisher creates an event publisher
func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

// CheckoutCompleted publishes storefront.<slug>.checkout.completed
func (p *Publisher) CheckoutCompleted(tenantSlug string, order *models.Order) {
	p.publish(fmt.Sprintf("storefront.%s.checkout.completed", tenantSlug), map[string]interface{}{
		"tenantId": order.TenantID.String(),
		"orderId":  order.ID.String(),
		"cartKey":  order.CartKey,
		"total":    order.Total,
	})
}

// QuoteRequested publishes storefront.<slug>.quote.requested
func (p *Publisher) QuoteRequested(tenantSlug string, quote *models.QuoteRequest) {
	p.publish(fmt.Sprintf("storefront.%s.quote.requested", tenantSlug), map[string]interface{}{
		"tenantId":      quote.TenantID.String(),
		"quoteId":       quote.ID.String(),
		"cartKey":       quote.CartKey,
		"customerEmail": quote.CustomerEmail,
	})
}

func (p *Publisher) publish(subject string, payload map[string]interface{}) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to marshal event")
		return
	}

	if err := p.nc.Publish(subject, data); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to publish event")
		return
	}

	log.Debug().Str("subject", subject).Int("size", len(data)).Msg("Event published")
}
