package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bookit/internal/format"
	"bookit/internal/ledger"
	"bookit/internal/parse"
)

func newBookCommand(app *App) *cobra.Command {
	var date, message, ticket string
	cmd := &cobra.Command{
		Use:   "book <alias> <time>",
		Short: "Book time on an alias",
		Long: `Book time on an alias. The time is one of
  90          minutes
  h::1.5      hours
  s::08:00    since 08:00 today
  t::17:30    until 17:30 today
The date defaults to today and accepts yesterday, a weekday name or YYYY-MM-DD.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.Now()
			minutes, err := parse.Minutes(args[1], now)
			if err != nil {
				return err
			}
			day, err := parse.Date(date, now)
			if err != nil {
				return err
			}
			entry, err := ledger.Book(cmd.Context(), app.Store, app.Hashes, ledger.Booking{
				Alias:   args[0],
				Minutes: minutes,
				Date:    day,
				Message: message,
				Ticket:  ticket,
			}, now)
			if err != nil {
				if errors.Is(err, ledger.ErrNonPositiveDuration) {
					app.Log.Debug().Str("time", args[1]).Int64("minutes", minutes).Msg("booking rejected")
				}
				return err
			}
			app.Log.Debug().Str("hash", entry.Hash).Str("alias", entry.Alias).Int64("minutes", entry.Minutes).Msg("time booked")
			fmt.Fprintf(out(cmd), "Booked %s on %s for %s (%s)\n", format.Minutes(entry.Minutes), entry.Alias, entry.Day(), entry.Hash)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "today", "day the work was done")
	cmd.Flags().StringVarP(&message, "message", "m", "", "what was done")
	cmd.Flags().StringVarP(&ticket, "ticket", "t", "", "ticket or issue reference")
	return cmd
}
