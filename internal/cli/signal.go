package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/pipeline"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/pkg/utils"
)

// newSignalCmd processes a single alert passed as an argument or piped
// on stdin.
func newSignalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signal [text]",
		Short: "Process one alert text",
		Long: `Parse one BB TRAP alert and run it through the dispatch pipeline.

The alert text is taken from the first argument, or from stdin when no
argument is given. Entry alerts place orders on every live account;
exit alerts only notify.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requirePipeline(app); err != nil {
				return err
			}

			text, err := alertText(cmd, args)
			if err != nil {
				return err
			}

			outcome, err := app.Pipeline.Process(cmd.Context(), text)
			if output.IsJSON() {
				if jsonErr := output.JSON(outcome); jsonErr != nil {
					return jsonErr
				}
				return err
			}
			renderOutcome(output, outcome, err)
			return err
		},
	}
}

func alertText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", apperrors.Wrap(err, "reading alert from stdin")
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", apperrors.Wrap(apperrors.ErrNoMatch, "empty alert text")
	}
	return text, nil
}

func renderOutcome(output *Output, outcome *pipeline.Outcome, err error) {
	switch outcome.Route {
	case pipeline.RouteRejected:
		output.Warning("Alert did not match any known pattern")
		return
	case pipeline.RouteExit:
		sig := outcome.Signal
		output.Info("EXIT %s @ %s", sig.Symbol, utils.FormatIndianCurrency(sig.ExitPrice))
		if sig.ExitType != "" {
			output.Dim("Reason: %s", sig.ExitType)
		}
		output.Println("No orders placed for exit alerts.")
		return
	}

	sig := outcome.Signal
	output.Bold("%s %s @ %s", strings.ToUpper(string(sig.Action)), sig.Symbol,
		utils.FormatIndianCurrency(sig.EntryPrice))

	if err != nil && len(outcome.Results) == 0 {
		output.Error("Aborted before dispatch: %v", err)
		return
	}

	for _, leg := range outcome.Legs {
		output.Printf("  %s %s %s @ %s\n", leg.Action, utils.FormatStrike(leg.Strike),
			leg.ContractType, utils.FormatIndianCurrency(leg.Price))
	}

	table := NewTable(output, "ACCOUNT", "LEG", "SIDE", "RESULT")
	for _, r := range outcome.Results {
		result := output.Green("ok")
		if !r.Success {
			result = output.Red(r.ErrorDetail)
		}
		table.AddRow(r.ClientName, string(r.Leg.ContractType), string(r.Leg.Action), result)
	}
	output.Println()
	table.Render()

	if outcome.Trade != nil {
		output.Println()
		output.Printf("Trade %s  status %s\n", outcome.Trade.ID, output.StatusText(string(outcome.Trade.Status)))
	}
	if err != nil {
		output.Error("Persistence failed: %v", err)
	}
}
