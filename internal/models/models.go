// Package models provides domain models for the signal dispatch application.
package models

// ContractType represents an option contract type.
type ContractType string

const (
	ContractCall ContractType = "CE"
	ContractPut  ContractType = "PE"
)

// OrderSide represents the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType represents the type of an order.
type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
)

// ExchangeSegment represents the broker exchange segment an instrument
// trades on.
type ExchangeSegment string

const (
	SegmentNSEFnO ExchangeSegment = "NSE_FNO"
	SegmentBSEFnO ExchangeSegment = "BSE_FNO"
)

// TradeStatus represents the aggregate outcome of a dispatched trade.
type TradeStatus string

const (
	TradeActive TradeStatus = "ACTIVE"
	TradeFailed TradeStatus = "FAILED"
)

// AccountState represents whether an account participates in dispatch.
type AccountState string

const (
	AccountLive   AccountState = "live"
	AccountPaused AccountState = "paused"
)
