package signal

import (
	"errors"
	"testing"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

func TestParse_EntrySignal(t *testing.T) {
	p := NewParser()

	sig, err := p.Parse("BB TRAP Buy NIFTY1! at 25560.2 | SL: 25520.2 | Target: 25640.2")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sig.Action != models.ActionBuy {
		t.Errorf("expected action buy, got %s", sig.Action)
	}
	if sig.Symbol != "NIFTY1!" {
		t.Errorf("expected symbol NIFTY1!, got %s", sig.Symbol)
	}
	if sig.EntryPrice != 25560.2 {
		t.Errorf("expected entry price 25560.2, got %f", sig.EntryPrice)
	}
	if sig.StopLoss != 25520.2 {
		t.Errorf("expected stop loss 25520.2, got %f", sig.StopLoss)
	}
	if sig.Target != 25640.2 {
		t.Errorf("expected target 25640.2, got %f", sig.Target)
	}
}

func TestParse_SellEntrySignal(t *testing.T) {
	p := NewParser()

	sig, err := p.Parse("BB TRAP Sell BANKNIFTY1! at 52100.5 | SL: 52300.0 | Target: 51700.0")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sig.Action != models.ActionSell {
		t.Errorf("expected action sell, got %s", sig.Action)
	}
	if sig.Symbol != "BANKNIFTY1!" {
		t.Errorf("expected symbol BANKNIFTY1!, got %s", sig.Symbol)
	}
}

func TestParse_LegacyExitWithDirection(t *testing.T) {
	p := NewParser()

	sig, err := p.Parse("BB TRAP Exit Buy NIFTY1! at 25520.2 | SL Hit")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sig.Action != models.ActionExit {
		t.Errorf("expected action exit, got %s", sig.Action)
	}
	if sig.OriginalDirection != models.ActionBuy {
		t.Errorf("expected original direction buy, got %s", sig.OriginalDirection)
	}
	if sig.ExitPrice != 25520.2 {
		t.Errorf("expected exit price 25520.2, got %f", sig.ExitPrice)
	}
	if sig.ExitType != "SL Hit" {
		t.Errorf("expected exit type %q, got %q", "SL Hit", sig.ExitType)
	}
}

func TestParse_StructuredExit(t *testing.T) {
	p := NewParser()

	sig, err := p.Parse("BB TRAP SHORT EXIT (Target Hit) NIFTY1! at 25440.0")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sig.Action != models.ActionExit {
		t.Errorf("expected action exit, got %s", sig.Action)
	}
	if sig.OriginalDirection != models.ActionSell {
		t.Errorf("expected original direction sell, got %s", sig.OriginalDirection)
	}
	if sig.ExitType != "Target Hit" {
		t.Errorf("expected exit type %q, got %q", "Target Hit", sig.ExitType)
	}
}

func TestParse_LegacyExitWithoutDirection(t *testing.T) {
	p := NewParser()

	sig, err := p.Parse("BB TRAP Exit NIFTY1! at 25520.2 | Manual")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sig.OriginalDirection != "" {
		t.Errorf("expected no original direction, got %s", sig.OriginalDirection)
	}
	if sig.ExitType != "Manual" {
		t.Errorf("expected exit type Manual, got %q", sig.ExitType)
	}
}

func TestParse_NoMatch(t *testing.T) {
	p := NewParser()

	cases := []string{
		"",
		"hello world",
		"BB TRAP Hold NIFTY1! at 25560.2",
		"Buy NIFTY1! at 25560.2 | SL: 25520.2 | Target: 25640.2",
		"BB TRAP Buy NIFTY1! at 25560.2",
		"BB TRAP Buy NIFTY1! at abc | SL: 25520.2 | Target: 25640.2",
	}
	for _, text := range cases {
		if _, err := p.Parse(text); !errors.Is(err, apperrors.ErrNoMatch) {
			t.Errorf("Parse(%q): expected ErrNoMatch, got %v", text, err)
		}
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	p := NewParser()

	sig, err := p.Parse("  BB TRAP Buy NIFTY1! at 25560.2 | SL: 25520.2 | Target: 25640.2\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sig.Symbol != "NIFTY1!" {
		t.Errorf("expected symbol NIFTY1!, got %s", sig.Symbol)
	}
}

func TestParse_StructuredExitWinsOverLegacy(t *testing.T) {
	p := NewParser()

	// Both the structured and legacy grammars mention EXIT; the
	// structured form must be recognized with its parenthesized reason.
	sig, err := p.Parse("BB TRAP LONG EXIT (SL Hit) NIFTY1! at 25520.2")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sig.ExitType != "SL Hit" {
		t.Errorf("expected exit type from parentheses, got %q", sig.ExitType)
	}
	if sig.OriginalDirection != models.ActionBuy {
		t.Errorf("expected LONG mapped to buy, got %s", sig.OriginalDirection)
	}
}
