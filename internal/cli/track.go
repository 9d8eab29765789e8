package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bookit/internal/format"
	"bookit/internal/ledger"
	"bookit/internal/tui"
)

func newTrackCommand(app *App) *cobra.Command {
	var message, ticket string
	cmd := &cobra.Command{
		Use:   "track <alias>",
		Short: "Run a stopwatch and book the tracked time on an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.Store.GetAlias(ctx, args[0])
			if errors.Is(err, ledger.ErrNotFound) {
				return fmt.Errorf("%w: %s", ledger.ErrUnknownAlias, args[0])
			}
			if err != nil {
				return err
			}

			m := tui.NewTrack(a.Slug, ticket, app.Now, func(minutes int64, msg, ticket string) (*ledger.TimeEntry, error) {
				now := app.Now()
				return ledger.Book(ctx, app.Store, app.Hashes, ledger.Booking{
					Alias:   a.Slug,
					Minutes: minutes,
					Date:    ledger.DateOf(now),
					Message: msg,
					Ticket:  ticket,
				}, now)
			})
			m.MessageInput = message

			if _, err := app.RunTUI(m); err != nil {
				return err
			}
			if m.Booked == nil {
				app.Log.Debug().Str("alias", a.Slug).Dur("elapsed", m.Timer.Elapsed()).Msg("tracking ended without booking")
				fmt.Fprintln(out(cmd), "Nothing booked.")
				return nil
			}
			e := m.Booked
			app.Log.Debug().Str("hash", e.Hash).Str("alias", e.Alias).Int64("minutes", e.Minutes).Msg("time booked")
			fmt.Fprintf(out(cmd), "Booked %s on %s for %s (%s)\n", format.Minutes(e.Minutes), e.Alias, e.Day(), e.Hash)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "prefill the booking message")
	cmd.Flags().StringVarP(&ticket, "ticket", "t", "", "ticket or issue reference")
	return cmd
}
