package cli

import (
	"github.com/spf13/cobra"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/refdata"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/pkg/utils"
)

// newAccountsCmd lists the account book in its stable dispatch order.
func newAccountsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the account book",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if len(app.Accounts) == 0 {
				output.Warning("No accounts loaded from %s", app.Config.Storage.AccountsCSV)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(app.Accounts)
			}

			table := NewTable(output, "#", "CLIENT", "CAPITAL", "STATE")
			for i, account := range app.Accounts {
				table.AddRow(
					utils.FormatQuantity(int64(i+1)),
					account.ClientName,
					utils.FormatIndianCurrency(account.Capital),
					output.StatusText(string(account.State)),
				)
			}
			table.Render()

			live := refdata.LiveAccounts(app.Accounts)
			output.Println()
			output.Printf("%d accounts, %d live\n", len(app.Accounts), len(live))
			return nil
		},
	}
}
