package models

import (
	"github.com/google/uuid"
)

// CartItem represents one cart line. Uniqueness key is VariantID; a cart
// never holds two lines with the same variant id within one list.
type CartItem struct {
	ProductID   uuid.UUID `json:"productId"`
	VariantID   uuid.UUID `json:"variantId"`
	ProductName string    `json:"productName,omitempty"`
	VariantName string    `json:"variantName,omitempty"`
	UnitPrice   float64   `json:"unitPrice"`
	IsQuoteOnly bool      `json:"isQuoteOnly"`
	Quantity    int       `json:"quantity"`
}

// CartState holds the two ordered item streams a cart bifurcates into.
// A variant id appears in at most one of the two lists.
type CartState struct {
	PurchaseItems []CartItem `json:"purchaseItems"`
	QuoteItems    []CartItem `json:"quoteItems"`
}

// ItemCount counts distinct lines across both lists, not summed quantities
func (s CartState) ItemCount() int {
	return len(s.PurchaseItems) + len(s.QuoteItems)
}

// PurchaseTotal sums unit price times quantity over purchase lines only.
// Quote lines carry no fixed price and are excluded.
func (s CartState) PurchaseTotal() float64 {
	var total float64
	for _, it := range s.PurchaseItems {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// IsEmpty reports whether both lists are empty
func (s CartState) IsEmpty() bool {
	return len(s.PurchaseItems) == 0 && len(s.QuoteItems) == 0
}
