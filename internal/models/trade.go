package models

import "time"

// Trade is the durable record of one processed entry signal: the signal,
// the legs attempted, and every per-account result. Never mutated after
// persistence.
type Trade struct {
	ID        string           `json:"id"`
	Strategy  string           `json:"strategy"`
	Signal    Signal           `json:"signal"`
	Legs      []OrderLeg       `json:"legs"`
	Results   []DispatchResult `json:"results"`
	Status    TradeStatus      `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// StatusFor derives the aggregate trade status from dispatch results:
// ACTIVE iff every attempt succeeded.
func StatusFor(results []DispatchResult) TradeStatus {
	for _, r := range results {
		if !r.Success {
			return TradeFailed
		}
	}
	return TradeActive
}
