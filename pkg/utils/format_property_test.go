package utils

import (
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any finite amount, FormatIndianCurrency should:
// 1. Start with ₹ (or -₹ for negative amounts)
// 2. Have exactly 2 decimal places
// 3. Group digits in the Indian numbering system (3 from the right,
//    then groups of 2)
func TestIndianCurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	properties := gopter.NewProperties(parameters)

	indianPattern := regexp.MustCompile(`^(\d{1,2},)*\d{1,3}$`)

	properties.Property("FormatIndianCurrency produces valid Indian format", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatIndianCurrency(amount)

			if amount >= 0 {
				if !strings.HasPrefix(formatted, "₹") {
					t.Logf("Expected ₹ prefix for %f, got %s", amount, formatted)
					return false
				}
			} else if !strings.HasPrefix(formatted, "-₹") {
				t.Logf("Expected -₹ prefix for %f, got %s", amount, formatted)
				return false
			}

			parts := strings.Split(formatted, ".")
			if len(parts) != 2 || len(parts[1]) != 2 {
				t.Logf("Expected 2 decimal places for %f, got %s", amount, formatted)
				return false
			}

			numPart := strings.TrimPrefix(parts[0], "-")
			numPart = strings.TrimPrefix(numPart, "₹")
			if !indianPattern.MatchString(numPart) {
				t.Logf("Invalid Indian grouping for %f: %s", amount, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.TestingRun(t)
}

// Round2 is idempotent and lands on an exact two-decimal grid.
func TestRound2Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	properties := gopter.NewProperties(parameters)

	properties.Property("Round2 is idempotent", prop.ForAll(
		func(v float64) bool {
			rounded := Round2(v)
			return Round2(rounded) == rounded
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("Round2 moves the value by at most half a paisa", prop.ForAll(
		func(v float64) bool {
			return math.Abs(Round2(v)-v) <= 0.005+1e-9
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

func TestFormatStrike(t *testing.T) {
	tests := []struct {
		strike float64
		want   string
	}{
		{25600, "25600"},
		{25600.5, "25600.50"},
		{0, "0"},
		{19950.25, "19950.25"},
	}
	for _, tt := range tests {
		if got := FormatStrike(tt.strike); got != tt.want {
			t.Errorf("FormatStrike(%v) = %s, want %s", tt.strike, got, tt.want)
		}
	}
}

func TestIsMarketOpen(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"weekday mid-session", time.Date(2026, 8, 31, 10, 30, 0, 0, IndiaLocation), true},
		{"weekday pre-open", time.Date(2026, 8, 31, 9, 0, 0, 0, IndiaLocation), false},
		{"weekday open bell", time.Date(2026, 8, 31, 9, 15, 0, 0, IndiaLocation), true},
		{"weekday close bell", time.Date(2026, 8, 31, 15, 30, 0, 0, IndiaLocation), false},
		{"saturday", time.Date(2026, 9, 5, 10, 30, 0, 0, IndiaLocation), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMarketOpen(tt.t); got != tt.want {
				t.Errorf("IsMarketOpen(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}
