package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookit/internal/ident"
	"bookit/internal/query"
)

func newHoursCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hours",
		Aliases: []string{"h"},
		Short:   "Inspect and correct booked time",
	}

	show := &cobra.Command{
		Use:     "show [field::value...]",
		Aliases: []string{"ls"},
		Short:   "List booked entries",
		Long: "List booked entries. Filters are given as flags or as field::value\n" +
			"directives with field one of alias, contractor, from, to and ticket.\n" +
			"Entries are listed by date, or newest booking first with --sort ts.",
	}
	showFilters := addFilterFlags(show, true)
	var order string
	show.Flags().StringVar(&order, "sort", "date", "list entries by date or by booking time (ts, newest first)")
	show.RunE = func(cmd *cobra.Command, args []string) error {
		o, err := query.ParseOrder(order)
		if err != nil {
			return err
		}
		report, err := app.report(cmd, showFilters, args)
		if err != nil {
			return err
		}
		report.Sort(o)
		rates, err := app.rates(cmd.Context())
		if err != nil {
			return err
		}
		return renderEntries(out(cmd), report, rates, app.currency())
	}

	var message, ticket string
	amend := &cobra.Command{
		Use:   "amend <hash>",
		Short: "Change the message or ticket of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := ident.ValidateHash(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("message") && !cmd.Flags().Changed("ticket") {
				return fmt.Errorf("nothing to amend, pass --message or --ticket")
			}
			e, err := app.Store.GetTimeEntry(cmd.Context(), hash)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("message") {
				e.Message = message
			}
			if cmd.Flags().Changed("ticket") {
				e.Ticket = ticket
			}
			if err := app.Store.AmendTimeEntry(cmd.Context(), hash, e.Message, e.Ticket); err != nil {
				return err
			}
			app.Log.Debug().Str("hash", hash).Msg("entry amended")
			fmt.Fprintf(out(cmd), "Amended %s\n", hash)
			return nil
		},
	}
	amend.Flags().StringVarP(&message, "message", "m", "", "new message")
	amend.Flags().StringVarP(&ticket, "ticket", "t", "", "new ticket")

	cmd.AddCommand(
		show,
		&cobra.Command{
			Use:   "detail <hash>",
			Short: "Show one entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hash, err := ident.ValidateHash(args[0])
				if err != nil {
					return err
				}
				e, err := app.Store.GetTimeEntry(cmd.Context(), hash)
				if err != nil {
					return err
				}
				a, err := app.Store.GetAlias(cmd.Context(), e.Alias)
				if err != nil {
					return err
				}
				amount, err := query.Amount(e.Minutes, a.Rate)
				if err != nil {
					return err
				}
				renderEntry(out(cmd), e, a, amount, app.currency())
				return nil
			},
		},
		&cobra.Command{
			Use:     "delete <hash>",
			Aliases: []string{"rm"},
			Short:   "Delete an entry",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hash, err := ident.ValidateHash(args[0])
				if err != nil {
					return err
				}
				if err := app.Store.DeleteTimeEntry(cmd.Context(), hash); err != nil {
					return err
				}
				app.Log.Debug().Str("hash", hash).Msg("entry deleted")
				fmt.Fprintf(out(cmd), "Deleted %s\n", hash)
				return nil
			},
		},
		amend,
	)
	return cmd
}
