package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookit/internal/export"
	"bookit/internal/query"
	"bookit/internal/tui"
)

func newReportCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [field::value...]",
		Short: "Total booked time and billable amounts",
	}
	filters := addFilterFlags(cmd, true)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		report, err := app.report(cmd, filters, args)
		if err != nil {
			return err
		}
		renderReport(out(cmd), report, app.currency())
		return nil
	}
	return cmd
}

func newExportCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.xlsx> [field::value...]",
		Short: "Write a report to a spreadsheet",
		Args:  cobra.MinimumNArgs(1),
	}
	filters := addFilterFlags(cmd, true)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
			return fmt.Errorf("export file %q must end in .xlsx", path)
		}
		report, err := app.report(cmd, filters, args[1:])
		if err != nil {
			return err
		}
		if err := export.NewGenerator(app.currency()).WriteFile(path, report); err != nil {
			return err
		}
		n := entryCount(report)
		app.Log.Debug().Str("path", path).Int("entries", n).Msg("report exported")
		fmt.Fprintf(out(cmd), "Wrote %d entries to %s\n", n, path)
		return nil
	}
	return cmd
}

func newBrowseCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [field::value...]",
		Short: "Browse booked time interactively",
	}
	filters := addFilterFlags(cmd, true)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := filters.criteria(args, app.Now())
		if err != nil {
			return err
		}
		by, err := filters.groupBy()
		if err != nil {
			return err
		}
		engine := app.engine()
		ctx := cmd.Context()
		m, err := tui.NewBrowse(func(by query.GroupBy) (*query.Report, error) {
			return engine.Report(ctx, c, by)
		}, by, app.currency())
		if err != nil {
			return err
		}
		_, err = app.RunTUI(m)
		return err
	}
	return cmd
}

func (a *App) report(cmd *cobra.Command, filters *filterFlags, directives []string) (*query.Report, error) {
	c, err := filters.criteria(directives, a.Now())
	if err != nil {
		return nil, err
	}
	by, err := filters.groupBy()
	if err != nil {
		return nil, err
	}
	a.Log.Debug().Str("group", string(by)).Bool("filtered", !c.IsZero()).Msg("building report")
	return a.engine().Report(cmd.Context(), c, by)
}

// rates maps every alias slug to its current rate.
func (a *App) rates(ctx context.Context) (map[string]int64, error) {
	aliases, err := a.Store.ListAliases(ctx)
	if err != nil {
		return nil, err
	}
	rates := make(map[string]int64, len(aliases))
	for _, al := range aliases {
		rates[al.Slug] = al.Rate
	}
	return rates, nil
}
