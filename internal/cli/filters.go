package cli

import (
	"time"

	"github.com/spf13/cobra"

	"bookit/internal/parse"
	"bookit/internal/query"
)

type filterFlags struct {
	contractor string
	alias      string
	from       string
	to         string
	ticket     string
	group      string
}

func addFilterFlags(cmd *cobra.Command, withGroup bool) *filterFlags {
	f := &filterFlags{}
	flags := cmd.Flags()
	flags.StringVar(&f.contractor, "contractor", "", "only entries of this contractor's aliases")
	flags.StringVar(&f.alias, "alias", "", "only entries booked on this alias")
	flags.StringVar(&f.from, "from", "", "first day to include (today, yesterday, weekday or YYYY-MM-DD)")
	flags.StringVar(&f.to, "to", "", "last day to include")
	flags.StringVar(&f.ticket, "ticket", "", "only entries with this ticket")
	if withGroup {
		flags.StringVarP(&f.group, "group", "g", "", "group by alias, contractor, day, week or month")
	}
	return f
}

// criteria merges field::value directives with the filter flags. Flags win.
func (f *filterFlags) criteria(directives []string, now time.Time) (query.Criteria, error) {
	c, err := parse.Filters(directives, now)
	if err != nil {
		return c, err
	}
	if f.contractor != "" {
		c.Contractor = f.contractor
	}
	if f.alias != "" {
		c.Alias = f.alias
	}
	if f.ticket != "" {
		c.Ticket = f.ticket
	}
	if f.from != "" {
		if c.From, err = parse.Date(f.from, now); err != nil {
			return c, err
		}
	}
	if f.to != "" {
		if c.To, err = parse.Date(f.to, now); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (f *filterFlags) groupBy() (query.GroupBy, error) {
	return query.ParseGroupBy(f.group)
}
