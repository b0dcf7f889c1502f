package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/pipeline"
)

const maxAlertBody = 64 << 10

// newServeCmd runs the webhook listener that feeds alert bodies into
// the pipeline.
func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the alert webhook listener",
		Long: `Listen for alert webhooks and dispatch each one through the pipeline.

The request body is the raw alert text. When server.auth_token is set,
requests must carry it in the X-Auth-Token header.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requirePipeline(app); err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.HandleFunc(app.Config.Server.Path, webhookHandler(app))
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, "ok")
			})

			server := &http.Server{
				Addr:              app.Config.Server.Addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info().Str("addr", server.Addr).Str("path", app.Config.Server.Path).
					Msg("Webhook listener started")
				errCh <- server.ListenAndServe()
			}()

			output.Info("Listening on %s%s", app.Config.Server.Addr, app.Config.Server.Path)

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
				app.Logger.Info().Msg("Webhook listener stopped")
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}
}

func webhookHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token := app.Config.Server.AuthToken; token != "" {
			if r.Header.Get("X-Auth-Token") != token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxAlertBody))
		if err != nil {
			http.Error(w, "reading body", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(string(body))
		if text == "" {
			http.Error(w, "empty alert", http.StatusBadRequest)
			return
		}

		outcome, err := app.Pipeline.Process(r.Context(), text)
		switch {
		case apperrors.Is(err, apperrors.ErrNoMatch):
			writeJSON(w, http.StatusUnprocessableEntity, outcome)
		case err != nil && len(outcome.Results) == 0:
			// Aborted before any order went out.
			writeJSON(w, http.StatusBadGateway, outcome)
		default:
			writeJSON(w, http.StatusOK, outcome)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, outcome *pipeline.Outcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(outcome)
}
