package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
)

// newReplayCmd drains the backup log into the primary store once it is
// reachable again.
func newReplayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Replay backup-logged trades into the primary store",
		Long: `Load trades recorded in the backup log while the primary store was
down, insert the ones the store does not already have, and truncate the
log on success.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrPersistenceFailed, "trade store unavailable")
			}

			replayed, err := app.Backup.Replay(cmd.Context(), app.Store)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"replayed": replayed})
			}
			if replayed == 0 {
				output.Dim("Backup log empty, nothing to replay")
			} else {
				output.Success("Replayed %d trade(s) into the primary store", replayed)
			}
			return nil
		},
	}
}
