package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookit/internal/format"
	"bookit/internal/ledger"
	"bookit/internal/parse"
	"bookit/internal/query"
)

func newAliasCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alias",
		Aliases: []string{"a"},
		Short:   "Manage aliases, the billable engagements under a contractor",
	}

	var contractor string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List aliases",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			aliases, err := app.Store.ListAliases(cmd.Context())
			if err != nil {
				return err
			}
			if contractor != "" {
				if _, err := app.Store.GetContractor(cmd.Context(), contractor); err != nil {
					return err
				}
				kept := aliases[:0]
				for _, a := range aliases {
					if a.Contractor == contractor {
						kept = append(kept, a)
					}
				}
				aliases = kept
			}
			renderAliases(out(cmd), aliases, app.currency())
			return nil
		},
	}
	list.Flags().StringVar(&contractor, "contractor", "", "only aliases of this contractor")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <slug> <contractor> <rate>",
			Short: "Add an alias with an hourly rate (e.g. 90 or 90.50)",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				rate, err := parse.Rate(args[2])
				if err != nil {
					return err
				}
				a, err := ledger.NewAlias(args[0], args[1], rate)
				if err != nil {
					return err
				}
				if err := app.Store.InsertAlias(cmd.Context(), a); err != nil {
					return err
				}
				app.Log.Debug().Str("alias", a.Slug).Str("contractor", a.Contractor).Int64("rate", a.Rate).Msg("alias added")
				fmt.Fprintf(out(cmd), "Added alias %s for %s at %s\n", a.Slug, a.Contractor, format.Rate(a.Rate, app.currency()))
				return nil
			},
		},
		list,
		&cobra.Command{
			Use:   "detail <slug>",
			Short: "Show an alias with its rate and booked totals",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				a, err := app.Store.GetAlias(ctx, args[0])
				if err != nil {
					return err
				}
				report, err := app.engine().Report(ctx, query.Criteria{Alias: a.Slug}, query.ByNone)
				if err != nil {
					return err
				}
				renderAlias(out(cmd), a, report, app.currency())
				return nil
			},
		},
		&cobra.Command{
			Use:   "rate <slug> <rate>",
			Short: "Change an alias's hourly rate",
			Long:  "Change an alias's hourly rate. Reports price all of the alias's entries at its current rate.",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				rate, err := parse.Rate(args[1])
				if err != nil {
					return err
				}
				if err := app.Store.SetAliasRate(cmd.Context(), args[0], rate); err != nil {
					return err
				}
				app.Log.Debug().Str("alias", args[0]).Int64("rate", rate).Msg("alias rate changed")
				fmt.Fprintf(out(cmd), "Alias %s now bills %s\n", args[0], format.Rate(rate, app.currency()))
				return nil
			},
		},
		&cobra.Command{
			Use:     "delete <slug>",
			Aliases: []string{"rm"},
			Short:   "Delete an alias that has no booked time",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Store.DeleteAlias(cmd.Context(), args[0]); err != nil {
					return err
				}
				app.Log.Debug().Str("alias", args[0]).Msg("alias deleted")
				fmt.Fprintf(out(cmd), "Deleted alias %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
