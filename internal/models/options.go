package models

// OptionQuote represents one side (CE or PE) of a strike row in an
// option-chain snapshot.
type OptionQuote struct {
	Delta       float64 `json:"delta"`
	TopAskPrice float64 `json:"top_ask_price"`
}

// StrikeRow holds the call and put quotes for one strike.
type StrikeRow struct {
	CE *OptionQuote `json:"ce,omitempty"`
	PE *OptionQuote `json:"pe,omitempty"`
}

// OptionChain represents a point-in-time option-chain snapshot for one
// underlying. Strike keys are the broker's string form of the strike
// price. The snapshot is built once per request and never mutated.
type OptionChain struct {
	Symbol    string               `json:"symbol"`
	Expiry    string               `json:"expiry"`
	LastPrice float64              `json:"last_price"`
	Strikes   map[string]StrikeRow `json:"oc"`
}

// SelectedContract represents one contract chosen from the chain, with
// delta and ask price rounded to two decimals and the broker security id
// attached when the reference data resolves it.
type SelectedContract struct {
	Strike      float64 `json:"strike"`
	Delta       float64 `json:"delta"`
	TopAskPrice float64 `json:"top_ask_price"`
	SecurityID  string  `json:"security_id,omitempty"`
}

// SelectedStrikes holds the near-the-money call and put chosen for an
// entry signal: the CE closest to +0.50 delta and the PE closest to
// -0.50 delta.
type SelectedStrikes struct {
	CE SelectedContract `json:"ce"`
	PE SelectedContract `json:"pe"`
}
