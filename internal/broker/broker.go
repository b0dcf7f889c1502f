// Package broker provides order placement against the brokerage API.
package broker

import (
	"context"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// OrderRequest represents one order placement request: a single leg for
// a single account.
type OrderRequest struct {
	SecurityID      string
	ExchangeSegment models.ExchangeSegment
	Side            models.OrderSide
	Quantity        int
	OrderType       models.OrderType
	Price           float64
	Product         string
	Tag             string
}

// PlacementResult represents the broker's response to an accepted order.
type PlacementResult struct {
	OrderID string
	Status  string
	Raw     string
}

// OrderPlacer defines the interface for placing one order against one
// account. Each account carries its own bearer token.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, account models.Account, req OrderRequest) (*PlacementResult, error)
}
