package orders

import (
	"testing"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

func selected() *models.SelectedStrikes {
	return &models.SelectedStrikes{
		CE: models.SelectedContract{Strike: 25600, Delta: 0.52, TopAskPrice: 140.5, SecurityID: "42885"},
		PE: models.SelectedContract{Strike: 25500, Delta: -0.49, TopAskPrice: 97.25, SecurityID: "42886"},
	}
}

func TestBuildLegs_BuyEntry(t *testing.T) {
	sig := &models.Signal{Action: models.ActionBuy, Symbol: "NIFTY1!", EntryPrice: 25560.2}

	legs, err := BuildLegs(sig, selected())
	if err != nil {
		t.Fatalf("BuildLegs returned error: %v", err)
	}
	if len(legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(legs))
	}

	ce, pe := legs[0], legs[1]
	if ce.ContractType != models.ContractCall || ce.Action != models.OrderSideBuy {
		t.Errorf("expected BUY CE first, got %s %s", ce.Action, ce.ContractType)
	}
	if ce.Strike != 25600 || ce.Price != 140.5 || ce.SecurityID != "42885" {
		t.Errorf("unexpected CE leg: %+v", ce)
	}
	if pe.ContractType != models.ContractPut || pe.Action != models.OrderSideSell {
		t.Errorf("expected SELL PE second, got %s %s", pe.Action, pe.ContractType)
	}
	if pe.Strike != 25500 || pe.Price != 97.25 || pe.SecurityID != "42886" {
		t.Errorf("unexpected PE leg: %+v", pe)
	}
}

func TestBuildLegs_SellEntry(t *testing.T) {
	sig := &models.Signal{Action: models.ActionSell, Symbol: "NIFTY1!", EntryPrice: 25560.2}

	legs, err := BuildLegs(sig, selected())
	if err != nil {
		t.Fatalf("BuildLegs returned error: %v", err)
	}
	if legs[0].Action != models.OrderSideSell || legs[0].ContractType != models.ContractCall {
		t.Errorf("expected SELL CE first, got %s %s", legs[0].Action, legs[0].ContractType)
	}
	if legs[1].Action != models.OrderSideBuy || legs[1].ContractType != models.ContractPut {
		t.Errorf("expected BUY PE second, got %s %s", legs[1].Action, legs[1].ContractType)
	}
}

func TestBuildLegs_MissingSecurityID(t *testing.T) {
	sig := &models.Signal{Action: models.ActionBuy, Symbol: "NIFTY1!"}

	sel := selected()
	sel.PE.SecurityID = ""
	_, err := BuildLegs(sig, sel)
	if !apperrors.Is(err, apperrors.ErrMissingSecurityID) {
		t.Fatalf("expected ErrMissingSecurityID, got %v", err)
	}
	var legErr *apperrors.LegError
	if !apperrors.As(err, &legErr) {
		t.Fatalf("expected LegError, got %T", err)
	}
	if legErr.ContractType != "PE" {
		t.Errorf("expected PE leg error, got %s", legErr.ContractType)
	}
}

func TestBuildLegs_RejectsExitSignal(t *testing.T) {
	sig := &models.Signal{Action: models.ActionExit, Symbol: "NIFTY1!", ExitPrice: 25520.2}

	if _, err := BuildLegs(sig, selected()); err == nil {
		t.Fatal("expected error for exit signal")
	}
}
