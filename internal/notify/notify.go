// Package notify delivers trade result summaries to configured channels.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/config"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/pkg/utils"
)

// Sink receives structured result summaries for human-readable
// delivery. Delivery failure never changes a trade's persisted status.
type Sink interface {
	NotifyTrade(ctx context.Context, trade *models.Trade) Result
	NotifyExit(ctx context.Context, sig *models.Signal) Result
}

// Result reports one notification delivery attempt.
type Result struct {
	Success     bool
	MessageID   string
	ErrorDetail string
}

// Notification represents a notification message.
type Notification struct {
	Title     string
	Message   string
	Timestamp time.Time
}

// Channel defines the interface for one delivery channel. Send returns
// the channel's message id when it has one.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) (string, error)
	IsEnabled() bool
}

// MultiNotifier fans a notification out to every enabled channel.
type MultiNotifier struct {
	channels []Channel
	logger   zerolog.Logger
}

// NewMultiNotifier creates a notifier from the notification config.
func NewMultiNotifier(cfg *config.NotificationConfig, logger zerolog.Logger) *MultiNotifier {
	mn := &MultiNotifier{logger: logger}
	if cfg == nil || !cfg.Enabled {
		return mn
	}
	if cfg.Telegram.Enabled {
		mn.channels = append(mn.channels, NewTelegramChannel(cfg.Telegram))
	}
	if cfg.Webhook.Enabled {
		mn.channels = append(mn.channels, NewWebhookChannel(cfg.Webhook))
	}
	return mn
}

// AddChannel registers an additional delivery channel.
func (m *MultiNotifier) AddChannel(ch Channel) {
	m.channels = append(m.channels, ch)
}

// NotifyTrade sends the trade summary. The first successful channel's
// message id is reported; failures are logged per channel.
func (m *MultiNotifier) NotifyTrade(ctx context.Context, trade *models.Trade) Result {
	return m.send(ctx, Notification{
		Title:     fmt.Sprintf("%s %s %s", trade.Strategy, strings.ToUpper(string(trade.Signal.Action)), trade.Signal.Symbol),
		Message:   FormatTradeMessage(trade),
		Timestamp: trade.CreatedAt,
	})
}

// NotifyExit sends a summary for an exit signal; exits place no orders,
// so the message carries only the signal itself.
func (m *MultiNotifier) NotifyExit(ctx context.Context, sig *models.Signal) Result {
	return m.send(ctx, Notification{
		Title:     fmt.Sprintf("EXIT %s", sig.Symbol),
		Message:   FormatExitMessage(sig),
		Timestamp: time.Now(),
	})
}

func (m *MultiNotifier) send(ctx context.Context, n Notification) Result {
	if len(m.channels) == 0 {
		return Result{Success: true}
	}

	var firstID string
	var errs []string
	for _, ch := range m.channels {
		if !ch.IsEnabled() {
			continue
		}
		id, err := ch.Send(ctx, n)
		if err != nil {
			m.logger.Warn().Err(err).Str("channel", ch.Name()).Msg("Notification delivery failed")
			errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
			continue
		}
		if firstID == "" {
			firstID = id
		}
	}

	if len(errs) > 0 && firstID == "" {
		return Result{Success: false, ErrorDetail: strings.Join(errs, "; ")}
	}
	return Result{Success: true, MessageID: firstID}
}

// FormatTradeMessage renders the trade summary: signal, legs, and
// per-account success/failure counts.
func FormatTradeMessage(trade *models.Trade) string {
	var b strings.Builder

	sig := trade.Signal
	fmt.Fprintf(&b, "%s %s %s @ %s\n", trade.Strategy, strings.ToUpper(string(sig.Action)), sig.Symbol,
		utils.FormatIndianCurrency(sig.EntryPrice))
	fmt.Fprintf(&b, "SL %s | Target %s\n\n", utils.FormatIndianCurrency(sig.StopLoss),
		utils.FormatIndianCurrency(sig.Target))

	for _, leg := range trade.Legs {
		fmt.Fprintf(&b, "%s %s %s @ %s\n", leg.Action, utils.FormatStrike(leg.Strike), leg.ContractType,
			utils.FormatIndianCurrency(leg.Price))
	}

	success, failure := 0, 0
	for _, r := range trade.Results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	fmt.Fprintf(&b, "\nPlaced: %d ok, %d failed\n", success, failure)
	fmt.Fprintf(&b, "Status: %s\n", trade.Status)
	fmt.Fprintf(&b, "Time: %s", trade.CreatedAt.In(utils.IndiaLocation).Format("02-Jan-2006 15:04:05"))

	return b.String()
}

// FormatExitMessage renders an exit signal summary.
func FormatExitMessage(sig *models.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "EXIT %s @ %s", sig.Symbol, utils.FormatIndianCurrency(sig.ExitPrice))
	if sig.OriginalDirection != "" {
		fmt.Fprintf(&b, " (was %s)", strings.ToUpper(string(sig.OriginalDirection)))
	}
	if sig.ExitType != "" {
		fmt.Fprintf(&b, "\nReason: %s", sig.ExitType)
	}
	return b.String()
}
