// Package pipeline orchestrates signal processing end to end: parse,
// select strikes, build legs, dispatch across accounts, persist and
// notify.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/chain"
	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/logging"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/notify"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/orders"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/refdata"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/signal"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/store"
)

// Route labels how a request left the parse stage.
type Route string

const (
	RouteEntry    Route = "entry"
	RouteExit     Route = "exit"
	RouteRejected Route = "rejected"
)

// Outcome is the aggregated result returned to the caller. Even on
// partial failure it carries the signal, the legs attempted, and every
// per-account result.
type Outcome struct {
	RequestID string                  `json:"request_id"`
	Route     Route                   `json:"route"`
	Signal    *models.Signal          `json:"signal,omitempty"`
	Strikes   *models.SelectedStrikes `json:"strikes,omitempty"`
	Legs      []models.OrderLeg       `json:"legs,omitempty"`
	Results   []models.DispatchResult `json:"results,omitempty"`
	Trade     *models.Trade           `json:"trade,omitempty"`
	Notified  *notify.Result          `json:"notified,omitempty"`
}

// Pipeline wires the stages together. One request flows through as a
// single sequential control flow; concurrent requests share only the
// store and the backup log, both of which serialize their own writes.
type Pipeline struct {
	parser     *signal.Parser
	chain      chain.Client
	selector   *chain.Selector
	dispatcher *orders.Dispatcher
	persister  *store.Persister
	sink       notify.Sink
	accounts   []models.Account
	logger     zerolog.Logger
}

// Config holds the pipeline's collaborators.
type Config struct {
	Parser     *signal.Parser
	Chain      chain.Client
	Selector   *chain.Selector
	Dispatcher *orders.Dispatcher
	Persister  *store.Persister
	Sink       notify.Sink
	Accounts   []models.Account
	Logger     zerolog.Logger
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		parser:     cfg.Parser,
		chain:      cfg.Chain,
		selector:   cfg.Selector,
		dispatcher: cfg.Dispatcher,
		persister:  cfg.Persister,
		sink:       cfg.Sink,
		accounts:   cfg.Accounts,
		logger:     cfg.Logger,
	}
}

// Process runs one alert through the pipeline. Failures before dispatch
// abort with no orders placed; failures from dispatch onward are partial
// and reflected in the returned outcome rather than unwound.
func (p *Pipeline) Process(ctx context.Context, text string) (*Outcome, error) {
	requestID := fmt.Sprintf("REQ-%d", time.Now().UnixNano())
	ctx = logging.WithRequestID(logging.WithLogger(ctx, p.logger), requestID)
	logger := logging.FromContext(ctx)

	outcome := &Outcome{RequestID: requestID, Route: RouteRejected}

	sig, err := p.parser.Parse(text)
	if err != nil {
		logger.Info().Str("text", text).Msg("Alert text rejected")
		return outcome, err
	}
	outcome.Signal = sig
	logging.LogSignal(logger, string(sig.Action), sig.Symbol, entryOrExitPrice(sig))

	if !sig.IsEntry() {
		outcome.Route = RouteExit
		res := p.sink.NotifyExit(ctx, sig)
		outcome.Notified = &res
		if !res.Success {
			logger.Warn().Str("detail", res.ErrorDetail).Msg("Exit notification failed")
		}
		return outcome, nil
	}
	outcome.Route = RouteEntry

	live := refdata.LiveAccounts(p.accounts)
	if len(live) == 0 {
		return outcome, apperrors.ErrNoLiveAccounts
	}

	expiries, err := p.chain.ExpiryList(ctx, sig.Symbol)
	if err != nil {
		return outcome, err
	}

	snapshot, err := p.chain.Snapshot(ctx, sig.Symbol, expiries[0])
	if err != nil {
		return outcome, err
	}
	logger.Debug().Float64("last_price", snapshot.LastPrice).Int("strikes", len(snapshot.Strikes)).
		Msg("Chain snapshot fetched")

	strikes, err := p.selector.Select(snapshot)
	if err != nil {
		return outcome, err
	}
	outcome.Strikes = strikes

	legs, err := orders.BuildLegs(sig, strikes)
	if err != nil {
		return outcome, err
	}
	outcome.Legs = legs

	// Orders go out from here; nothing below unwinds them.
	outcome.Results = p.dispatcher.Dispatch(ctx, legs, live)

	trade, err := p.persister.Persist(ctx, sig, legs, outcome.Results)
	if err != nil {
		logger.Error().Err(err).Msg("Trade persistence failed on both paths")
		return outcome, err
	}
	outcome.Trade = trade

	res := p.sink.NotifyTrade(ctx, trade)
	outcome.Notified = &res
	if !res.Success {
		logger.Warn().Str("detail", res.ErrorDetail).Msg("Trade notification failed")
	}

	logger.Info().Str("trade_id", trade.ID).Str("status", string(trade.Status)).
		Int("results", len(outcome.Results)).Msg("Signal processed")
	return outcome, nil
}

func entryOrExitPrice(sig *models.Signal) float64 {
	if sig.IsEntry() {
		return sig.EntryPrice
	}
	return sig.ExitPrice
}
