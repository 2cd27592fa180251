package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/shopgrid/storefront-server/internal/cart"
	"github.com/shopgrid/storefront-server/internal/models"
	"github.com/shopgrid/storefront-server/internal/storage"
)

// NATSSubscriber NATS subscriber
type NATSSubscriber struct {
	nc    *nats.Conn
	store storage.Store
	carts cart.PersistencePort
	subs  []*nats.Subscription
}

// NewNATSSubscriber creates NATS subscriber
func NewNATSSubscriber(nc *nats.Conn, store storage.Store, carts cart.PersistencePort) *NATSSubscriber {
	return &NATSSubscriber{
		nc:    nc,
		store: store,
		carts: carts,
		subs:  make([]*nats.Subscription, 0),
	}
}

// Start starts subscriptions
func (s *NATSSubscriber) Start(ctx context.Context) error {
	// Subscribe to payment confirmations from the payment provider bridge
	sub, err := s.nc.Subscribe("storefront.*.payment.confirmed", s.handlePaymentConfirmed)
	if err != nil {
		return fmt.Errorf("subscribe payment confirmed: %w", err)
	}
	s.subs = append(s.subs, sub)

	log.Info().
		Int("subscriptions", len(s.subs)).
		Msg("NATS subscriber started")

	<-ctx.Done()

	// Unsubscribe
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}

	return ctx.Err()
}

// handlePaymentConfirmed handles payment confirmation messages. The cart is
// cleared here, once, after the payment succeeds. Clearing is idempotent so
// a redelivered confirmation is harmless.
func (s *NATSSubscriber) handlePaymentConfirmed(msg *nats.Msg) {
	log.Debug().
		Str("subject", msg.Subject).
		Int("size", len(msg.Data)).
		Msg("Received payment confirmation")

	var payMsg struct {
		TenantID string `json:"tenantId"`
		OrderID  string `json:"orderId"`
		CartKey  string `json:"cartKey"`
	}

	if err := json.Unmarshal(msg.Data, &payMsg); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal payment confirmation")
		return
	}

	ctx := context.Background()

	orderID, err := uuid.Parse(payMsg.OrderID)
	if err != nil {
		log.Error().Str("orderId", payMsg.OrderID).Msg("Invalid order id in payment confirmation")
		return
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, models.OrderStatusPaid); err != nil {
		log.Error().Err(err).Str("orderId", payMsg.OrderID).Msg("Failed to mark order paid")
	}

	if payMsg.CartKey != "" {
		if err := s.carts.Clear(ctx, payMsg.CartKey); err != nil {
			log.Warn().Err(err).Str("cartKey", payMsg.CartKey).Msg("Failed to clear cart after payment")
		}
	}

	tenantID, _ := uuid.Parse(payMsg.TenantID)

	event := &models.EventLog{
		TenantID:    &tenantID,
		Type:        models.EventTypePaymentConfirm,
		Level:       models.EventLevelInfo,
		Description: fmt.Sprintf("Payment confirmed for order %s", payMsg.OrderID),
		Details: models.Variables{
			"orderId": payMsg.OrderID,
			"cartKey": payMsg.CartKey,
		},
	}

	if err := s.store.CreateEventLog(ctx, event); err != nil {
		log.Error().Err(err).Msg("Failed to create event log")
	}

	log.Info().
		Str("orderId", payMsg.OrderID).
		Str("cartKey", payMsg.CartKey).
		Msg("Payment confirmation processed")
}
