package cli

import (
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/store"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/pkg/utils"
)

// newTradesCmd lists persisted trades and shows individual records.
func newTradesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "List dispatched trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrPersistenceFailed, "trade store unavailable")
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			status, _ := cmd.Flags().GetString("status")
			limit, _ := cmd.Flags().GetInt("limit")

			trades, err := app.Store.GetTrades(cmd.Context(), store.TradeFilter{
				Symbol: symbol,
				Status: models.TradeStatus(strings.ToUpper(status)),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Dim("No trades found")
				return nil
			}

			table := NewTable(output, "ID", "SYMBOL", "ACTION", "ENTRY", "OK/TOTAL", "STATUS", "TIME")
			for _, trade := range trades {
				ok := 0
				for _, r := range trade.Results {
					if r.Success {
						ok++
					}
				}
				table.AddRow(
					trade.ID,
					trade.Signal.Symbol,
					strings.ToUpper(string(trade.Signal.Action)),
					utils.FormatIndianCurrency(trade.Signal.EntryPrice),
					utils.FormatQuantity(int64(ok))+"/"+utils.FormatQuantity(int64(len(trade.Results))),
					output.StatusText(string(trade.Status)),
					trade.CreatedAt.In(utils.IndiaLocation).Format("02-Jan 15:04"),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "filter by alert symbol")
	cmd.Flags().String("status", "", "filter by status (ACTIVE, FAILED)")
	cmd.Flags().Int("limit", 20, "maximum number of trades")

	cmd.AddCommand(newTradeShowCmd(app))
	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show one trade in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrPersistenceFailed, "trade store unavailable")
			}

			trade, err := app.Store.GetTradeByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(trade)
			}

			sig := trade.Signal
			output.Bold("%s  %s %s @ %s", trade.ID, strings.ToUpper(string(sig.Action)), sig.Symbol,
				utils.FormatIndianCurrency(sig.EntryPrice))
			output.Printf("SL %s | Target %s\n", utils.FormatIndianCurrency(sig.StopLoss),
				utils.FormatIndianCurrency(sig.Target))
			output.Printf("Status %s  at %s\n\n", output.StatusText(string(trade.Status)),
				trade.CreatedAt.In(utils.IndiaLocation).Format("02-Jan-2006 15:04:05"))

			for _, leg := range trade.Legs {
				output.Printf("  %s %s %s @ %s  (security %s)\n", leg.Action, utils.FormatStrike(leg.Strike),
					leg.ContractType, utils.FormatIndianCurrency(leg.Price), leg.SecurityID)
			}

			table := NewTable(output, "ACCOUNT", "LEG", "SIDE", "RESULT")
			for _, r := range trade.Results {
				result := output.Green("ok")
				if !r.Success {
					result = output.Red(r.ErrorDetail)
				}
				table.AddRow(r.ClientName, string(r.Leg.ContractType), string(r.Leg.Action), result)
			}
			output.Println()
			table.Render()
			return nil
		},
	}
}
