// Package cli wires the callscope commands: flag parsing, configuration
// and logging setup, store dialing and result rendering.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/callscope/callscope/adapters"
	"github.com/callscope/callscope/config"
	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/output/format"
	"github.com/callscope/callscope/queries"
)

// app carries the state every command shares: the resolved configuration,
// the selected output format and the destination streams. One app serves
// one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	loader config.Loader
	cfg    *config.Config

	formatName string
	format     output.Format
	storePath  string
	project    string
	limit      int64
	exact      bool
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// New assembles the root command with every subcommand attached, writing
// results to out and logs to errOut.
func New(out, errOut io.Writer) *cobra.Command {
	return newApp(out, errOut).rootCommand()
}

// Execute runs the CLI against the real process streams and returns the
// exit code. Error reporting happens here and nowhere else.
func Execute() int {
	root := New(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		return 1
	}

	return 0
}

// describe turns an error into the user-facing message, attaching the
// actionable hint where one exists.
func describe(err error) string {
	var empty *core.EmptyStoreError
	if errors.As(err, &empty) {
		return fmt.Sprintf("%v\nThe store has no %q relation yet. Run \"callscope setup\" or import a call graph first.",
			err, empty.Relation)
	}

	if errors.Is(err, adapters.ErrUnsupportedEngine) {
		return fmt.Sprintf("%v\nAvailable engines: %s.", err, strings.Join(adapters.Engines(), ", "))
	}

	return err.Error()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "callscope",
		Short: "Query an Elixir call graph from a local store",
		Long: `Callscope answers structural questions about an extracted Elixir call
graph: what calls what, which modules depend on which, what is unused
or duplicated. Extracts are imported into a local sqlite or duckdb
store and queried from there.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.formatName, "format", "o", "table", "Output format: table, json or compact")
	flags.StringVar(&a.storePath, "db", "", "Store path, overriding configuration")
	flags.StringVar(&a.project, "project", "default", "Project whose call graph to query")
	flags.Int64Var(&a.limit, "limit", queries.DefaultLimit, "Maximum result rows")
	flags.BoolVar(&a.exact, "exact", false, "Match names exactly instead of by substring")

	root.AddCommand(
		a.setupCommand(),
		a.importCommand(),
		a.callsToCommand(),
		a.callsFromCommand(),
		a.dependsOnCommand(),
		a.dependedByCommand(),
		a.unusedCommand(),
		a.searchCommand(),
		a.functionCommand(),
		a.duplicatesCommand(),
		a.statsCommand(),
	)

	return root
}

// setup resolves format and configuration and initializes logging. Runs
// before every subcommand.
func (a *app) setup() error {
	parsed, err := output.ParseFormat(a.formatName)
	if err != nil {
		return err
	}
	a.format = parsed

	cfg, err := a.loader.Load()
	if err != nil {
		return err
	}
	if a.storePath != "" {
		cfg.Location = a.storePath
	}
	a.cfg = cfg

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == config.LogFormatJSON {
		handler = slog.NewJSONHandler(a.errOut, opts)
	} else {
		handler = slog.NewTextHandler(a.errOut, opts)
	}
	a.logger = slog.New(handler)

	a.logger.Debug("configuration resolved",
		"source", cfg.Source, "engine", cfg.Engine, "location", cfg.Location)

	return nil
}

// withStore dials the configured store for the span of one command.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, driver core.Driver) error) error {
	if err := a.cfg.EnsureStoreDir(); err != nil {
		return fmt.Errorf("config.EnsureStoreDir: %w", err)
	}

	driver, err := adapters.Dial(a.cfg.Engine, a.cfg.Location)
	if err != nil {
		return err
	}
	defer driver.Close()

	return fn(cmd.Context(), driver)
}

// render writes one command result in the selected format. Table output
// always ends with exactly one newline whatever the result's own trailing
// convention is.
func (a *app) render(result output.Tabler) error {
	switch a.format {
	case output.FormatJSON:
		node, err := output.BuildTree(result)
		if err != nil {
			return err
		}
		return format.NewJSON().Encode(a.out, node)
	case output.FormatCompact:
		node, err := output.BuildTree(result)
		if err != nil {
			return err
		}
		return format.NewCompact().Encode(a.out, node)
	default:
		text := result.Table()
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}

		_, err := io.WriteString(a.out, text)
		return err
	}
}

func (a *app) mode() core.MatchMode {
	if a.exact {
		return core.MatchExact
	}
	return core.MatchSubstring
}
