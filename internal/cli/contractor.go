package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookit/internal/ident"
	"bookit/internal/ledger"
	"bookit/internal/query"
)

func newContractorCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contractor",
		Aliases: []string{"contract", "c"},
		Short:   "Manage contractors",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <slug> [name...]",
			Short: "Add a contractor",
			Long: "Add a contractor under a unique slug. Without a name the single argument is\n" +
				"taken as the name and the slug is derived from it.",
			Args: cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				slug, name := args[0], strings.Join(args[1:], " ")
				if name == "" {
					slug, name = ident.Slugify(args[0]), args[0]
				}
				c, err := ledger.NewContractor(slug, name)
				if err != nil {
					return err
				}
				if err := app.Store.InsertContractor(cmd.Context(), c); err != nil {
					return err
				}
				app.Log.Debug().Str("contractor", c.Slug).Msg("contractor added")
				fmt.Fprintf(out(cmd), "Added contractor %s (%s)\n", c.Slug, c.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List contractors",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				contractors, err := app.Store.ListContractors(cmd.Context())
				if err != nil {
					return err
				}
				renderContractors(out(cmd), contractors)
				return nil
			},
		},
		&cobra.Command{
			Use:   "detail <slug>",
			Short: "Show a contractor with its aliases and booked totals",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				c, err := app.Store.GetContractor(ctx, args[0])
				if err != nil {
					return err
				}
				aliases, err := app.Store.ListAliases(ctx)
				if err != nil {
					return err
				}
				kept := aliases[:0]
				for _, a := range aliases {
					if a.Contractor == c.Slug {
						kept = append(kept, a)
					}
				}
				report, err := app.engine().Report(ctx, query.Criteria{Contractor: c.Slug}, query.ByAlias)
				if err != nil {
					return err
				}
				renderContractor(out(cmd), c, kept, report, app.currency())
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <slug> <name...>",
			Short: "Change a contractor's display name",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.TrimSpace(strings.Join(args[1:], " "))
				if err := app.Store.RenameContractor(cmd.Context(), args[0], name); err != nil {
					return err
				}
				app.Log.Debug().Str("contractor", args[0]).Str("name", name).Msg("contractor renamed")
				fmt.Fprintf(out(cmd), "Renamed contractor %s to %s\n", args[0], name)
				return nil
			},
		},
		&cobra.Command{
			Use:     "delete <slug>",
			Aliases: []string{"rm"},
			Short:   "Delete a contractor that has no aliases",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Store.DeleteContractor(cmd.Context(), args[0]); err != nil {
					return err
				}
				app.Log.Debug().Str("contractor", args[0]).Msg("contractor deleted")
				fmt.Fprintf(out(cmd), "Deleted contractor %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
