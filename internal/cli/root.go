// Package cli implements the bookit command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bookit/internal/config"
	"bookit/internal/ident"
	"bookit/internal/ledger"
	"bookit/internal/ledger/memory"
	"bookit/internal/ledger/sqlite"
	"bookit/internal/logger"
	"bookit/internal/query"
	"bookit/internal/tui"
)

// App holds what every command needs. Fields left nil are filled from the
// configuration before the first command runs.
type App struct {
	Config *config.Config
	Store  ledger.Store
	Hashes ledger.HashSource
	Log    zerolog.Logger
	Now    func() time.Time
	RunTUI func(tea.Model) (tea.Model, error)

	overrides config.Overrides
	verbose   bool
	opened    bool
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	app := &App{}
	cmd := NewRootCommand(app)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func NewRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bookit",
		Short:         "Book freelance hours against contractors and report what to bill",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.open(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.overrides.Dir, "dir", "", "ledger directory (default $BOOKIT_DIR or ~/.bookit)")
	flags.StringVar(&app.overrides.Backend, "backend", "", "storage backend: sqlite or memory")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(
		newContractorCommand(app),
		newAliasCommand(app),
		newBookCommand(app),
		newHoursCommand(app),
		newReportCommand(app),
		newExportCommand(app),
		newBrowseCommand(app),
		newTrackCommand(app),
	)
	return cmd
}

func (a *App) open(ctx context.Context) error {
	if a.opened {
		return nil
	}
	if a.Config == nil {
		if a.verbose {
			a.overrides.LogLevel = "debug"
		}
		cfg, err := config.Load(a.overrides)
		if err != nil {
			return err
		}
		a.Config = cfg
		a.Log = logger.New(cfg.LogLevel)
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.RunTUI == nil {
		a.RunTUI = func(m tea.Model) (tea.Model, error) { return tui.Run(m) }
	}
	if a.Hashes == nil {
		g, err := ident.NewGenerator(a.Config.Salt, a.Now)
		if err != nil {
			return err
		}
		a.Hashes = g
	}
	if a.Store == nil {
		s, err := openStore(ctx, a.Config, a.Log)
		if err != nil {
			return err
		}
		a.Store = s
	}
	a.opened = true
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ledger.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Debug().Msg("using in-memory ledger")
		return memory.New(), nil
	default:
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
		path := cfg.DatabasePath()
		log.Debug().Str("path", path).Msg("opening ledger")
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Close releases the store if one was opened.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

func (a *App) engine() *query.Engine {
	return query.New(a.Store)
}

func (a *App) currency() string {
	if a.Config == nil {
		return ""
	}
	return a.Config.Currency
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
