package chain

import (
	"math"
	"sort"
	"strconv"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/refdata"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/pkg/utils"
)

const (
	callTargetDelta = 0.50
	putTargetDelta  = -0.50
)

// Selector picks the near-the-money call and put from a chain snapshot:
// the CE whose delta is closest to +0.50 and the PE closest to -0.50.
type Selector struct {
	resolver refdata.Resolver
}

// NewSelector creates a selector backed by the security-id resolver.
func NewSelector(resolver refdata.Resolver) *Selector {
	return &Selector{resolver: resolver}
}

// Select scans the snapshot in ascending strike order keeping a running
// minimum of the absolute deviation from each target delta. Comparison
// is strict, so an exact tie keeps the earlier (lower) strike. A strike
// without a resolvable security id is still selectable; the missing id
// surfaces later as an order-construction error.
func (s *Selector) Select(chain *models.OptionChain) (*models.SelectedStrikes, error) {
	if chain == nil || chain.LastPrice == 0 {
		return nil, apperrors.NewMarketDataError("selection", symbolOf(chain), apperrors.ErrNoLastPrice)
	}
	if len(chain.Strikes) == 0 {
		return nil, apperrors.NewMarketDataError("selection", chain.Symbol, apperrors.ErrEmptyChain)
	}

	type candidate struct {
		found     bool
		deviation float64
		contract  models.SelectedContract
	}
	ce := candidate{deviation: math.Inf(1)}
	pe := candidate{deviation: math.Inf(1)}

	for _, strike := range sortedStrikes(chain.Strikes) {
		row := chain.Strikes[strike.key]

		if row.CE != nil {
			dev := math.Abs(row.CE.Delta - callTargetDelta)
			if dev < ce.deviation {
				ce.found = true
				ce.deviation = dev
				ce.contract = s.contractFor(strike.price, models.ContractCall, row.CE)
			}
		}
		if row.PE != nil {
			dev := math.Abs(row.PE.Delta - putTargetDelta)
			if dev < pe.deviation {
				pe.found = true
				pe.deviation = dev
				pe.contract = s.contractFor(strike.price, models.ContractPut, row.PE)
			}
		}
	}

	if !ce.found || !pe.found {
		return nil, apperrors.NewMarketDataError("selection", chain.Symbol, apperrors.ErrEmptyChain)
	}

	return &models.SelectedStrikes{CE: ce.contract, PE: pe.contract}, nil
}

func (s *Selector) contractFor(strike float64, contractType models.ContractType, quote *models.OptionQuote) models.SelectedContract {
	contract := models.SelectedContract{
		Strike:      strike,
		Delta:       utils.Round2(quote.Delta),
		TopAskPrice: utils.Round2(quote.TopAskPrice),
	}
	if id, ok := s.resolver.Resolve(strike, contractType); ok {
		contract.SecurityID = id
	}
	return contract
}

type strikeKey struct {
	key   string
	price float64
}

// sortedStrikes returns the chain's strike keys in ascending numeric
// order. Keys that do not parse as numbers are skipped.
func sortedStrikes(strikes map[string]models.StrikeRow) []strikeKey {
	out := make([]strikeKey, 0, len(strikes))
	for k := range strikes {
		price, err := strconv.ParseFloat(k, 64)
		if err != nil {
			continue
		}
		out = append(out, strikeKey{key: k, price: price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].price < out[j].price })
	return out
}

func symbolOf(chain *models.OptionChain) string {
	if chain == nil {
		return ""
	}
	return chain.Symbol
}
