// Package chain provides option-chain retrieval and strike selection.
package chain

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

// Client supplies expiry lists and option-chain snapshots for an
// underlying.
type Client interface {
	ExpiryList(ctx context.Context, symbol string) ([]string, error)
	Snapshot(ctx context.Context, symbol, expiry string) (*models.OptionChain, error)
}

// Underlying identifies an index on the data API.
type Underlying struct {
	Scrip   int
	Segment string
}

// RestClient implements Client against the broker's option-chain REST
// API. One instance is shared across requests; every call builds a
// fresh immutable snapshot.
type RestClient struct {
	baseURL     string
	clientID    string
	accessToken string
	underlyings map[string]Underlying
	httpClient  *http.Client
	logger      zerolog.Logger
}

// RestClientConfig holds configuration for the REST chain client.
type RestClientConfig struct {
	BaseURL     string
	ClientID    string
	AccessToken string
	Underlyings map[string]Underlying
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// NewRestClient creates a new option-chain REST client.
func NewRestClient(cfg RestClientConfig) *RestClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &RestClient{
		baseURL:     cfg.BaseURL,
		clientID:    cfg.ClientID,
		accessToken: cfg.AccessToken,
		underlyings: cfg.Underlyings,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      cfg.Logger,
	}
}

type expiryListRequest struct {
	UnderlyingScrip int    `json:"UnderlyingScrip"`
	UnderlyingSeg   string `json:"UnderlyingSeg"`
}

type expiryListResponse struct {
	Status string   `json:"status"`
	Data   []string `json:"data"`
}

type chainRequest struct {
	UnderlyingScrip int    `json:"UnderlyingScrip"`
	UnderlyingSeg   string `json:"UnderlyingSeg"`
	Expiry          string `json:"Expiry"`
}

// Wire DTOs: the API nests greeks under each quote; the domain model
// keeps only the fields the selector consumes.
type chainResponse struct {
	Status string    `json:"status"`
	Data   chainData `json:"data"`
}

type chainData struct {
	LastPrice float64                  `json:"last_price"`
	OC        map[string]chainStrike   `json:"oc"`
}

type chainStrike struct {
	CE *chainQuote `json:"ce"`
	PE *chainQuote `json:"pe"`
}

type chainQuote struct {
	Greeks      chainGreeks `json:"greeks"`
	TopAskPrice float64     `json:"top_ask_price"`
}

type chainGreeks struct {
	Delta float64 `json:"delta"`
}

// ExpiryList returns the available expiries for symbol, nearest first.
func (c *RestClient) ExpiryList(ctx context.Context, symbol string) ([]string, error) {
	u, ok := c.underlyings[symbol]
	if !ok {
		return nil, apperrors.NewMarketDataError("expiry", symbol, apperrors.ErrUnknownUnderlying)
	}

	var resp expiryListResponse
	err := c.post(ctx, "/optionchain/expirylist", expiryListRequest{
		UnderlyingScrip: u.Scrip,
		UnderlyingSeg:   u.Segment,
	}, &resp)
	if err != nil {
		return nil, apperrors.NewMarketDataError("expiry", symbol, err)
	}
	if len(resp.Data) == 0 {
		return nil, apperrors.NewMarketDataError("expiry", symbol, apperrors.ErrNoExpiry)
	}
	return resp.Data, nil
}

// Snapshot fetches the option chain for symbol at expiry and converts
// it to the domain snapshot.
func (c *RestClient) Snapshot(ctx context.Context, symbol, expiry string) (*models.OptionChain, error) {
	u, ok := c.underlyings[symbol]
	if !ok {
		return nil, apperrors.NewMarketDataError("chain", symbol, apperrors.ErrUnknownUnderlying)
	}

	var resp chainResponse
	err := c.post(ctx, "/optionchain", chainRequest{
		UnderlyingScrip: u.Scrip,
		UnderlyingSeg:   u.Segment,
		Expiry:          expiry,
	}, &resp)
	if err != nil {
		return nil, apperrors.NewMarketDataError("chain", symbol, err)
	}

	strikes := make(map[string]models.StrikeRow, len(resp.Data.OC))
	for strike, row := range resp.Data.OC {
		var sr models.StrikeRow
		if row.CE != nil {
			sr.CE = &models.OptionQuote{Delta: row.CE.Greeks.Delta, TopAskPrice: row.CE.TopAskPrice}
		}
		if row.PE != nil {
			sr.PE = &models.OptionQuote{Delta: row.PE.Greeks.Delta, TopAskPrice: row.PE.TopAskPrice}
		}
		strikes[strike] = sr
	}

	return &models.OptionChain{
		Symbol:    symbol,
		Expiry:    expiry,
		LastPrice: resp.Data.LastPrice,
		Strikes:   strikes,
	}, nil
}

func (c *RestClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access-token", c.accessToken)
	req.Header.Set("client-id", c.clientID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	logging.LogAPICall(c.logger, http.MethodPost, path, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
