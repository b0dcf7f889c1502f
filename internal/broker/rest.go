package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/logging"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// RestPlacer implements OrderPlacer against the broker's REST order API.
// The HTTP client carries a fixed timeout; a timed-out call is reported
// as a placement failure, never retried here.
type RestPlacer struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// RestPlacerConfig holds configuration for the REST order placer.
type RestPlacerConfig struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewRestPlacer creates a new REST order placer.
func NewRestPlacer(cfg RestPlacerConfig) *RestPlacer {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &RestPlacer{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     cfg.Logger,
	}
}

type orderPayload struct {
	ClientID        string  `json:"dhanClientId"`
	TransactionType string  `json:"transactionType"`
	ExchangeSegment string  `json:"exchangeSegment"`
	ProductType     string  `json:"productType"`
	OrderType       string  `json:"orderType"`
	Validity        string  `json:"validity"`
	SecurityID      string  `json:"securityId"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	Tag             string  `json:"correlationId,omitempty"`
}

type orderResponse struct {
	OrderID     string `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
	ErrorType   string `json:"errorType"`
	ErrorCode   string `json:"errorCode"`
	Message     string `json:"errorMessage"`
}

// PlaceOrder places one limit order for one account. Every call is one
// logical attempt: any transport, timeout, or rejection outcome is
// returned as an error for the caller to record.
func (p *RestPlacer) PlaceOrder(ctx context.Context, account models.Account, req OrderRequest) (*PlacementResult, error) {
	if account.AccessToken == "" {
		return nil, apperrors.NewPlacementError(account.ClientName, 0, "account has no access token", apperrors.ErrNotAuthenticated)
	}

	payload, err := json.Marshal(orderPayload{
		ClientID:        account.ClientName,
		TransactionType: string(req.Side),
		ExchangeSegment: string(req.ExchangeSegment),
		ProductType:     req.Product,
		OrderType:       string(req.OrderType),
		Validity:        "DAY",
		SecurityID:      req.SecurityID,
		Quantity:        req.Quantity,
		Price:           req.Price,
		Tag:             req.Tag,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+account.AccessToken)

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	logging.LogAPICall(p.logger, http.MethodPost, "/orders", time.Since(start), err)
	if err != nil {
		return nil, apperrors.NewPlacementError(account.ClientName, 0, "order call failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewPlacementError(account.ClientName, resp.StatusCode, "reading order response", err)
	}

	var decoded orderResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, apperrors.NewPlacementError(account.ClientName, resp.StatusCode, fmt.Sprintf("undecodable order response: %s", string(body)), err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		msg := decoded.Message
		if msg == "" {
			msg = string(body)
		}
		return nil, apperrors.NewPlacementError(account.ClientName, resp.StatusCode, msg, apperrors.ErrOrderRejected)
	}

	return &PlacementResult{
		OrderID: decoded.OrderID,
		Status:  decoded.OrderStatus,
		Raw:     string(body),
	}, nil
}
