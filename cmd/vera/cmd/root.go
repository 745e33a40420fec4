package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/vera/foundation/core/error"
	mdwlog "github.com/msto63/vera/foundation/core/log"
	"github.com/msto63/vera/foundation/vera"
	"github.com/msto63/vera/internal/store"
	"github.com/msto63/vera/pkg/core/config"
	"github.com/msto63/vera/pkg/core/logging"
)

// errReported marks failures whose diagnostics were already printed
var errReported = errors.New("errors reported")

// app is the state shared by all subcommands, filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfgFile string
	verbose bool

	config *config.Config
	logger *mdwlog.Logger
	engine *vera.Engine
}

// newRootCmd builds the complete command tree
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "vera",
		Short: "vera - tokenizer and parser for the vera language",
		Long: `vera tokenizes and parses programs written in the vera language.

Commands read a file argument, or standard input when the argument is
missing or "-".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: discovered vera.toml / vera.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logging)")

	root.AddCommand(
		newTokensCmd(a),
		newParseCmd(a),
		newFmtCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newExploreCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI with os.Args
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil && !errors.Is(err, errReported) {
		printError(root.ErrOrStderr(), err)
	}
	return err
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.LoadOrDefault(a.cfgFile)
	if err != nil {
		return err
	}
	a.config = cfg

	level := cfg.General.LogLevel
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: "vera",
		Level:       level,
		Format:      cfg.General.LogFormat,
		Output:      stderr,
	})
	if src := cfg.Source(); src != "" {
		a.logger.Debug("configuration loaded", mdwlog.Fields{"path": src})
	}

	a.engine = vera.NewEngine(vera.Options{
		Logger:          a.logger,
		MaxInputLength:  cfg.Parser.MaxInputLength,
		MaxNestingDepth: cfg.Parser.MaxNestingDepth,
	})
	return nil
}

// openHistory returns the configured history store, or nil when history is
// disabled
func (a *app) openHistory() (store.HistoryStore, error) {
	if !a.config.History.Enabled {
		return nil, nil
	}
	return a.historyStore()
}

// historyStore opens the sqlite history at the configured path
func (a *app) historyStore() (store.HistoryStore, error) {
	path := a.config.History.Path
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, mdwerror.Wrap(err, "creating history directory").
				WithCode(mdwerror.CodeStorage).
				WithDetail("path", dir)
		}
	}
	return store.NewSQLiteHistoryStore(store.SQLiteConfig{Path: path})
}

// readSource reads the named file, or stdin for "" and "-". The returned
// name is used in diagnostics.
func readSource(in io.Reader, arg string) (name, src string, err error) {
	if arg == "" || arg == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", "", mdwerror.Wrap(err, "reading standard input").WithCode(mdwerror.CodeInvalidInput)
		}
		return "<stdin>", string(data), nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return "", "", mdwerror.Wrap(err, "reading source file").WithCode(code).WithDetail("path", arg)
	}
	return arg, string(data), nil
}

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", strings.TrimSpace(err.Error()))
}
