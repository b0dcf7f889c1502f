package orders

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/broker"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/logging"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// Dispatcher places each leg against every live account, serialized
// through a rate limiter so broker limits are respected. One logical
// attempt always produces exactly one DispatchResult; a failed attempt
// never aborts sibling attempts.
type Dispatcher struct {
	placer  broker.OrderPlacer
	limiter *rate.Limiter
	logger  zerolog.Logger

	quantity int
	segment  models.ExchangeSegment
	product  string
	tag      string
}

// DispatcherConfig holds dispatcher configuration.
type DispatcherConfig struct {
	Placer          broker.OrderPlacer
	Limiter         *rate.Limiter
	Logger          zerolog.Logger
	Quantity        int
	ExchangeSegment models.ExchangeSegment
	Product         string
	Tag             string
}

// NewDispatcher creates a new multi-account dispatcher. The limiter is
// injected so pacing is testable independently of dispatch logic.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(0.5), 1)
	}
	return &Dispatcher{
		placer:   cfg.Placer,
		limiter:  limiter,
		logger:   cfg.Logger,
		quantity: cfg.Quantity,
		segment:  cfg.ExchangeSegment,
		product:  cfg.Product,
		tag:      cfg.Tag,
	}
}

// Dispatch places legs in definition order, and within each leg walks
// the accounts in their stable book order, skipping paused ones. Results
// preserve that (leg, account) enumeration order.
func (d *Dispatcher) Dispatch(ctx context.Context, legs []models.OrderLeg, accounts []models.Account) []models.DispatchResult {
	results := make([]models.DispatchResult, 0, len(legs)*len(accounts))

	for _, leg := range legs {
		for _, account := range accounts {
			if !account.IsLive() {
				continue
			}
			results = append(results, d.placeOne(ctx, leg, account))
		}
	}

	return results
}

// placeOne performs one paced placement attempt and records its outcome.
func (d *Dispatcher) placeOne(ctx context.Context, leg models.OrderLeg, account models.Account) models.DispatchResult {
	result := models.DispatchResult{
		ClientName: account.ClientName,
		Leg:        leg,
	}

	if err := d.limiter.Wait(ctx); err != nil {
		result.ErrorDetail = err.Error()
		logging.LogDispatch(d.logger, account.ClientName, string(leg.ContractType), string(leg.Action), false)
		return result
	}

	placement, err := d.placer.PlaceOrder(ctx, account, broker.OrderRequest{
		SecurityID:      leg.SecurityID,
		ExchangeSegment: d.segment,
		Side:            leg.Action,
		Quantity:        d.quantity,
		OrderType:       models.OrderTypeLimit,
		Price:           leg.Price,
		Product:         d.product,
		Tag:             d.tag,
	})
	if err != nil {
		result.ErrorDetail = err.Error()
	} else {
		result.Success = true
		result.BrokerResponse = placement.Raw
	}

	logging.LogDispatch(d.logger, account.ClientName, string(leg.ContractType), string(leg.Action), result.Success)
	return result
}
