package refdata

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// LoadAccounts reads the account book. File order is preserved: the
// dispatcher enumerates accounts in exactly this order on every leg.
func LoadAccounts(path string) ([]models.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts file: %w", err)
	}
	defer f.Close()

	var accounts []models.Account
	if err := gocsv.UnmarshalFile(f, &accounts); err != nil {
		return nil, fmt.Errorf("parsing accounts file: %w", err)
	}

	for i := range accounts {
		if accounts[i].ClientName == "" {
			return nil, fmt.Errorf("account row %d has no client name", i+1)
		}
	}

	return accounts, nil
}

// LiveAccounts filters the account book down to accounts eligible for
// dispatch, preserving order.
func LiveAccounts(accounts []models.Account) []models.Account {
	live := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.IsLive() {
			live = append(live, a)
		}
	}
	return live
}
