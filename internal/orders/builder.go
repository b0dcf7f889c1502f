// Package orders builds the two-leg order set for an entry signal and
// dispatches it across accounts.
package orders

import (
	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// BuildLegs turns an entry signal and the selected strikes into the
// fixed two-leg order set. Direction table: buy entries BUY the call
// and SELL the put; sell entries SELL the call and BUY the put. The
// call leg always comes first. Prices are the selection-time top asks;
// nothing is re-fetched here.
func BuildLegs(sig *models.Signal, sel *models.SelectedStrikes) ([]models.OrderLeg, error) {
	if sig == nil || !sig.IsEntry() {
		return nil, apperrors.NewLegError("", 0, "order legs require an entry signal", nil)
	}
	if sel.CE.SecurityID == "" {
		return nil, apperrors.NewLegError(string(models.ContractCall), sel.CE.Strike, "unresolved security id", apperrors.ErrMissingSecurityID)
	}
	if sel.PE.SecurityID == "" {
		return nil, apperrors.NewLegError(string(models.ContractPut), sel.PE.Strike, "unresolved security id", apperrors.ErrMissingSecurityID)
	}

	ceAction, peAction := models.OrderSideBuy, models.OrderSideSell
	if sig.Action == models.ActionSell {
		ceAction, peAction = models.OrderSideSell, models.OrderSideBuy
	}

	return []models.OrderLeg{
		{
			ContractType: models.ContractCall,
			Action:       ceAction,
			Strike:       sel.CE.Strike,
			Price:        sel.CE.TopAskPrice,
			SecurityID:   sel.CE.SecurityID,
		},
		{
			ContractType: models.ContractPut,
			Action:       peAction,
			Strike:       sel.PE.Strike,
			Price:        sel.PE.TopAskPrice,
			SecurityID:   sel.PE.SecurityID,
		},
	}, nil
}
