package models

import (
	"fmt"
	"math"
)

// SignalAction represents the action carried by a parsed signal.
type SignalAction string

const (
	ActionBuy  SignalAction = "buy"
	ActionSell SignalAction = "sell"
	ActionExit SignalAction = "exit"
)

// Signal represents a parsed trading alert. Action discriminates the
// variant: buy/sell signals carry entry fields, exit signals carry exit
// fields plus the optional direction of the position being closed.
type Signal struct {
	Action SignalAction `json:"action"`
	Symbol string       `json:"symbol"`

	// Entry fields (Action == buy|sell)
	EntryPrice float64 `json:"entry_price,omitempty"`
	StopLoss   float64 `json:"stop_loss,omitempty"`
	Target     float64 `json:"target,omitempty"`

	// Exit fields (Action == exit)
	OriginalDirection SignalAction `json:"original_direction,omitempty"`
	ExitPrice         float64      `json:"exit_price,omitempty"`
	ExitType          string       `json:"exit_type,omitempty"`
}

// IsEntry returns true for buy/sell signals.
func (s *Signal) IsEntry() bool {
	return s.Action == ActionBuy || s.Action == ActionSell
}

// Validate checks the signal's structural invariants: a known action,
// a symbol, and finite non-negative prices.
func (s *Signal) Validate() error {
	switch s.Action {
	case ActionBuy, ActionSell, ActionExit:
	default:
		return fmt.Errorf("unknown signal action: %q", s.Action)
	}
	if s.Symbol == "" {
		return fmt.Errorf("signal has no symbol")
	}
	for name, v := range map[string]float64{
		"entry_price": s.EntryPrice,
		"stop_loss":   s.StopLoss,
		"target":      s.Target,
		"exit_price":  s.ExitPrice,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("signal field %s is not finite", name)
		}
		if v < 0 {
			return fmt.Errorf("signal field %s is negative: %f", name, v)
		}
	}
	return nil
}
