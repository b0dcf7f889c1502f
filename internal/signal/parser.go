// Package signal parses raw alert text into typed signals.
package signal

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// matcher pairs a compiled pattern with a builder that turns its capture
// groups into a signal. Builders return false when a captured number does
// not parse, which counts as no match for that pattern.
type matcher struct {
	re    *regexp.Regexp
	build func(groups []string) (models.Signal, bool)
}

// Parser turns raw alert text into a typed Signal. Matchers are applied
// in order and the first match wins, so newer structured formats are
// listed before the legacy free-form ones.
type Parser struct {
	matchers []matcher
}

// NewParser creates a parser recognizing all supported alert formats.
func NewParser() *Parser {
	return &Parser{
		matchers: []matcher{
			// Exit with explicit direction and parenthesized reason:
			// "BB TRAP LONG EXIT (Target Hit) NIFTY1! at 25640.2"
			{
				re: regexp.MustCompile(`^BB TRAP (LONG|SHORT) EXIT \(([^)]+)\) (\S+) at ([0-9.]+)$`),
				build: func(g []string) (models.Signal, bool) {
					price, ok := parsePrice(g[4])
					if !ok {
						return models.Signal{}, false
					}
					dir := models.ActionBuy
					if g[1] == "SHORT" {
						dir = models.ActionSell
					}
					return models.Signal{
						Action:            models.ActionExit,
						OriginalDirection: dir,
						Symbol:            g[3],
						ExitPrice:         price,
						ExitType:          g[2],
					}, true
				},
			},
			// Entry:
			// "BB TRAP Buy NIFTY1! at 25560.2 | SL: 25520.2 | Target: 25640.2"
			{
				re: regexp.MustCompile(`^BB TRAP (Buy|Sell) (\S+) at ([0-9.]+) \| SL: ([0-9.]+) \| Target: ([0-9.]+)$`),
				build: func(g []string) (models.Signal, bool) {
					entry, ok1 := parsePrice(g[3])
					sl, ok2 := parsePrice(g[4])
					target, ok3 := parsePrice(g[5])
					if !ok1 || !ok2 || !ok3 {
						return models.Signal{}, false
					}
					action := models.ActionBuy
					if g[1] == "Sell" {
						action = models.ActionSell
					}
					return models.Signal{
						Action:     action,
						Symbol:     g[2],
						EntryPrice: entry,
						StopLoss:   sl,
						Target:     target,
					}, true
				},
			},
			// Legacy exit with direction and pipe-delimited reason:
			// "BB TRAP Exit Buy NIFTY1! at 25520.2 | SL Hit"
			{
				re: regexp.MustCompile(`^BB TRAP Exit (Buy|Sell) (\S+) at ([0-9.]+)(?: \| (.+))?$`),
				build: func(g []string) (models.Signal, bool) {
					price, ok := parsePrice(g[3])
					if !ok {
						return models.Signal{}, false
					}
					dir := models.ActionBuy
					if g[1] == "Sell" {
						dir = models.ActionSell
					}
					return models.Signal{
						Action:            models.ActionExit,
						OriginalDirection: dir,
						Symbol:            g[2],
						ExitPrice:         price,
						ExitType:          g[4],
					}, true
				},
			},
			// Legacy exit without direction:
			// "BB TRAP Exit NIFTY1! at 25520.2 | Manual"
			{
				re: regexp.MustCompile(`^BB TRAP Exit (\S+) at ([0-9.]+)(?: \| (.+))?$`),
				build: func(g []string) (models.Signal, bool) {
					price, ok := parsePrice(g[2])
					if !ok {
						return models.Signal{}, false
					}
					return models.Signal{
						Action:    models.ActionExit,
						Symbol:    g[1],
						ExitPrice: price,
						ExitType:  g[3],
					}, true
				},
			},
		},
	}
}

// Parse applies the ordered matchers to text and returns the first
// matching signal. Unrecognized text returns ErrNoMatch; parsing has no
// side effects and never panics on malformed input.
func (p *Parser) Parse(text string) (*models.Signal, error) {
	text = strings.TrimSpace(text)
	for _, m := range p.matchers {
		groups := m.re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		sig, ok := m.build(groups)
		if !ok {
			continue
		}
		if err := sig.Validate(); err != nil {
			continue
		}
		return &sig, nil
	}
	return nil, apperrors.ErrNoMatch
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
