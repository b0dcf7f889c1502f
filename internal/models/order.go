package models

// OrderLeg represents one side of the two-leg order set built for an
// entry signal. Price is the selected strike's top ask at selection time.
type OrderLeg struct {
	ContractType ContractType `json:"contract_type"`
	Action       OrderSide    `json:"action"`
	Strike       float64      `json:"strike"`
	Price        float64      `json:"price"`
	SecurityID   string       `json:"security_id"`
}

// DispatchResult records the outcome of one (leg, account) placement
// attempt. Exactly one result is produced per attempt, success or not.
type DispatchResult struct {
	Success        bool     `json:"success"`
	ClientName     string   `json:"client_name"`
	Leg            OrderLeg `json:"leg"`
	BrokerResponse string   `json:"broker_response,omitempty"`
	ErrorDetail    string   `json:"error_detail,omitempty"`
}
