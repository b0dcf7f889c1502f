// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNoMatch            = errors.New("signal text matched no known format")
	ErrNoExpiry           = errors.New("no expiry available for underlying")
	ErrEmptyChain         = errors.New("option chain has no strike data")
	ErrNoLastPrice        = errors.New("option chain has no last price")
	ErrUnknownUnderlying  = errors.New("underlying symbol not configured")
	ErrMissingSecurityID  = errors.New("selected strike has no security id")
	ErrNoLiveAccounts     = errors.New("no live accounts to dispatch to")
	ErrOrderRejected      = errors.New("order rejected")
	ErrTimeout            = errors.New("operation timed out")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrPersistenceFailed  = errors.New("primary store and backup log both failed")
	ErrNotificationFailed = errors.New("notification delivery failed")
)

// MarketDataError represents a failure to obtain expiry or chain data.
// It always aborts the pipeline before any order is placed.
type MarketDataError struct {
	Symbol string
	Stage  string // "expiry", "chain", "selection"
	Err    error
}

func (e *MarketDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("market data error [%s] %s: %v", e.Stage, e.Symbol, e.Err)
	}
	return fmt.Sprintf("market data error [%s] %s", e.Stage, e.Symbol)
}

func (e *MarketDataError) Unwrap() error {
	return e.Err
}

// NewMarketDataError creates a new MarketDataError.
func NewMarketDataError(stage, symbol string, err error) *MarketDataError {
	return &MarketDataError{Symbol: symbol, Stage: stage, Err: err}
}

// LegError represents a failure to construct an order leg.
type LegError struct {
	ContractType string
	Strike       float64
	Reason       string
	Err          error
}

func (e *LegError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("leg error [%s %.2f]: %s: %v", e.ContractType, e.Strike, e.Reason, e.Err)
	}
	return fmt.Sprintf("leg error [%s %.2f]: %s", e.ContractType, e.Strike, e.Reason)
}

func (e *LegError) Unwrap() error {
	return e.Err
}

// NewLegError creates a new LegError.
func NewLegError(contractType string, strike float64, reason string, err error) *LegError {
	return &LegError{ContractType: contractType, Strike: strike, Reason: reason, Err: err}
}

// PlacementError represents a per-account order placement failure. It is
// recorded against the attempt and never aborts sibling attempts.
type PlacementError struct {
	ClientName string
	Status     int
	Message    string
	Err        error
}

func (e *PlacementError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("placement error [%s]: %s: %v", e.ClientName, e.Message, e.Err)
	}
	return fmt.Sprintf("placement error [%s] status %d: %s", e.ClientName, e.Status, e.Message)
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}

// NewPlacementError creates a new PlacementError.
func NewPlacementError(clientName string, status int, message string, err error) *PlacementError {
	return &PlacementError{ClientName: clientName, Status: status, Message: message, Err: err}
}

// PersistenceError represents a persistence failure. Fallback indicates
// whether the backup log was also attempted.
type PersistenceError struct {
	Store    string // "sqlite", "wal"
	Fallback bool
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Fallback {
		return fmt.Sprintf("persistence error [%s, after fallback]: %v", e.Store, e.Err)
	}
	return fmt.Sprintf("persistence error [%s]: %v", e.Store, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a new PersistenceError.
func NewPersistenceError(store string, fallback bool, err error) *PersistenceError {
	return &PersistenceError{Store: store, Fallback: fallback, Err: err}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
