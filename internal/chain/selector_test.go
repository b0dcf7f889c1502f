package chain

import (
	"testing"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/refdata"
)

func testResolver() refdata.Resolver {
	return refdata.NewResolver([]refdata.SecurityRecord{
		{SecurityID: "1100", StrikePrice: 100, ContractType: "CE"},
		{SecurityID: "1101", StrikePrice: 100, ContractType: "PE"},
		{SecurityID: "1110", StrikePrice: 110, ContractType: "CE"},
		{SecurityID: "1111", StrikePrice: 110, ContractType: "PE"},
		{SecurityID: "1120", StrikePrice: 120, ContractType: "CE"},
		{SecurityID: "1121", StrikePrice: 120, ContractType: "PE"},
	})
}

func row(ceDelta, ceAsk, peDelta, peAsk float64) models.StrikeRow {
	return models.StrikeRow{
		CE: &models.OptionQuote{Delta: ceDelta, TopAskPrice: ceAsk},
		PE: &models.OptionQuote{Delta: peDelta, TopAskPrice: peAsk},
	}
}

func TestSelect_PicksDeltaClosestToTargets(t *testing.T) {
	chain := &models.OptionChain{
		Symbol:    "NIFTY1!",
		LastPrice: 110,
		Strikes: map[string]models.StrikeRow{
			"100": row(0.30, 210.0, -0.70, 55.0),
			"110": row(0.52, 140.5, -0.49, 97.25),
			"120": row(0.70, 80.0, -0.30, 160.0),
		},
	}

	sel, err := NewSelector(testResolver()).Select(chain)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.CE.Strike != 110 {
		t.Errorf("expected CE strike 110, got %f", sel.CE.Strike)
	}
	if sel.CE.Delta != 0.52 {
		t.Errorf("expected CE delta 0.52, got %f", sel.CE.Delta)
	}
	if sel.CE.SecurityID != "1110" {
		t.Errorf("expected CE security id 1110, got %s", sel.CE.SecurityID)
	}
	if sel.PE.Strike != 110 {
		t.Errorf("expected PE strike 110, got %f", sel.PE.Strike)
	}
	if sel.PE.Delta != -0.49 {
		t.Errorf("expected PE delta -0.49, got %f", sel.PE.Delta)
	}
}

func TestSelect_TieKeepsLowerStrike(t *testing.T) {
	// Deltas 0.40 and 0.60 deviate equally from 0.50; the lower strike
	// is encountered first in ascending order and strict comparison
	// keeps it.
	chain := &models.OptionChain{
		Symbol:    "NIFTY1!",
		LastPrice: 105,
		Strikes: map[string]models.StrikeRow{
			"100": row(0.40, 120.0, -0.60, 60.0),
			"110": row(0.60, 90.0, -0.40, 85.0),
		},
	}

	sel, err := NewSelector(testResolver()).Select(chain)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.CE.Strike != 100 {
		t.Errorf("expected tie to keep CE strike 100, got %f", sel.CE.Strike)
	}
	if sel.PE.Strike != 100 {
		t.Errorf("expected tie to keep PE strike 100, got %f", sel.PE.Strike)
	}
}

func TestSelect_RoundsToTwoDecimals(t *testing.T) {
	chain := &models.OptionChain{
		Symbol:    "NIFTY1!",
		LastPrice: 100,
		Strikes: map[string]models.StrikeRow{
			"100": row(0.51789, 140.5555, -0.49123, 97.2549),
		},
	}

	sel, err := NewSelector(testResolver()).Select(chain)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.CE.Delta != 0.52 {
		t.Errorf("expected CE delta rounded to 0.52, got %f", sel.CE.Delta)
	}
	if sel.CE.TopAskPrice != 140.56 {
		t.Errorf("expected CE ask rounded to 140.56, got %f", sel.CE.TopAskPrice)
	}
	if sel.PE.Delta != -0.49 {
		t.Errorf("expected PE delta rounded to -0.49, got %f", sel.PE.Delta)
	}
	if sel.PE.TopAskPrice != 97.25 {
		t.Errorf("expected PE ask rounded to 97.25, got %f", sel.PE.TopAskPrice)
	}
}

func TestSelect_MissingSecurityIDTolerated(t *testing.T) {
	chain := &models.OptionChain{
		Symbol:    "NIFTY1!",
		LastPrice: 100,
		Strikes: map[string]models.StrikeRow{
			"105": row(0.50, 110.0, -0.50, 95.0),
		},
	}

	// Resolver knows nothing about strike 105.
	sel, err := NewSelector(testResolver()).Select(chain)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.CE.SecurityID != "" {
		t.Errorf("expected empty CE security id, got %s", sel.CE.SecurityID)
	}
	if sel.CE.Strike != 105 {
		t.Errorf("expected CE strike 105, got %f", sel.CE.Strike)
	}
}

func TestSelect_FailsOnBadSnapshot(t *testing.T) {
	s := NewSelector(testResolver())

	cases := []struct {
		name  string
		chain *models.OptionChain
	}{
		{"nil chain", nil},
		{"no last price", &models.OptionChain{Symbol: "NIFTY1!", Strikes: map[string]models.StrikeRow{"100": row(0.5, 1, -0.5, 1)}}},
		{"nil strikes", &models.OptionChain{Symbol: "NIFTY1!", LastPrice: 100}},
		{"empty strikes", &models.OptionChain{Symbol: "NIFTY1!", LastPrice: 100, Strikes: map[string]models.StrikeRow{}}},
	}
	for _, tc := range cases {
		if _, err := s.Select(tc.chain); err == nil {
			t.Errorf("%s: expected error", tc.name)
		} else {
			var mdErr *apperrors.MarketDataError
			if !apperrors.As(err, &mdErr) {
				t.Errorf("%s: expected MarketDataError, got %T", tc.name, err)
			}
		}
	}
}
