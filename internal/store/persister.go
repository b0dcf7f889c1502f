package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// Persister durably records a dispatched trade: primary store first,
// append-only backup log when the primary is down. Both paths failing
// is a fatal persistence error, never silently dropped.
type Persister struct {
	primary  TradeStore
	backup   *BackupLog
	strategy string
	logger   zerolog.Logger

	now   func() time.Time
	newID func() string
}

// PersisterConfig holds persister configuration.
type PersisterConfig struct {
	Primary  TradeStore
	Backup   *BackupLog
	Strategy string
	Logger   zerolog.Logger
}

// NewPersister creates a new trade persister.
func NewPersister(cfg PersisterConfig) *Persister {
	return &Persister{
		primary:  cfg.Primary,
		backup:   cfg.Backup,
		strategy: cfg.Strategy,
		logger:   cfg.Logger,
		now:      time.Now,
		newID: func() string {
			return fmt.Sprintf("TRD-%d", time.Now().UnixNano())
		},
	}
}

// Persist builds the trade record from the dispatch outcome and writes
// it durably. The trade status is ACTIVE iff every result succeeded.
func (p *Persister) Persist(ctx context.Context, sig *models.Signal, legs []models.OrderLeg, results []models.DispatchResult) (*models.Trade, error) {
	trade := &models.Trade{
		ID:        p.newID(),
		Strategy:  p.strategy,
		Signal:    *sig,
		Legs:      legs,
		Results:   results,
		Status:    models.StatusFor(results),
		CreatedAt: p.now().UTC(),
	}

	primaryErr := p.primary.SaveTrade(ctx, trade)
	if primaryErr == nil {
		return trade, nil
	}

	p.logger.Warn().Err(primaryErr).Str("trade_id", trade.ID).
		Msg("Primary store write failed, falling back to backup log")

	if backupErr := p.backup.Append(trade); backupErr != nil {
		return nil, apperrors.NewPersistenceError("wal", true,
			fmt.Errorf("%w: primary: %v, backup: %v", apperrors.ErrPersistenceFailed, primaryErr, backupErr))
	}

	return trade, nil
}
