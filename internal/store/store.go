// Package store provides trade persistence: a SQLite primary store and
// an append-only backup log used when the primary is down.
package store

import (
	"context"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// TradeStore defines the interface for durable trade persistence.
type TradeStore interface {
	SaveTrade(ctx context.Context, trade *models.Trade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	GetTradeByID(ctx context.Context, id string) (*models.Trade, error)
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	Symbol string
	Status models.TradeStatus
	Limit  int
}
