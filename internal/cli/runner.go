// Package cli is the mytasks command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/mytasks/internal/app"
	"github.com/idilsaglam/mytasks/internal/config"
	"github.com/idilsaglam/mytasks/internal/logger"
	"github.com/idilsaglam/mytasks/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks a mistake on the command line. An empty message means
// help was already printed.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error {
	return usageError{msg: fmt.Sprintf(format, a...)}
}

// Execute runs one command and returns the process exit code.
func Execute(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	e := &env{out: stdout, errOut: stderr}
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cerr := e.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		return ExitOK
	}

	var ue usageError
	if errors.As(err, &ue) {
		if ue.msg != "" {
			ui.Fail(stderr, ue.msg)
		}
		return ExitUsage
	}
	ui.Fail(stderr, err.Error())
	if strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintln(stderr, ui.Current().Muted.Render("Hint: run `mytasks --help`"))
		return ExitUsage
	}
	return ExitError
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "mytasks",
		Short: "Tasks, habits, goals and expenses from the terminal",
		Long: `mytasks keeps four lists in local JSON documents:

  tasks     prioritized to-dos
  habits    daily or weekly routines with streaks
  goals     goals broken into subtasks
  expenses  income and spending with a running balance

Ids can be abbreviated to any unique prefix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usageError{}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&e.dataDir, "data-dir", "", "directory holding the JSON documents")
	pf.StringVar(&e.backend, "backend", "", "storage backend: file, sqlite or memory")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	root.AddCommand(
		newTaskCmd(e),
		newHabitCmd(e),
		newGoalCmd(e),
		newExpenseCmd(e),
		newStatusCmd(e),
		newConfigCmd(e),
		newTUICmd(e),
	)
	return root
}

// env carries what commands share: output streams, root flags and the
// lazily opened app.
type env struct {
	out, errOut io.Writer

	configPath string
	dataDir    string
	backend    string

	cfg    *config.Config
	app    *app.App
	logger *slog.Logger
}

func (e *env) config() (config.Config, error) {
	if e.cfg != nil {
		return *e.cfg, nil
	}
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Override(e.dataDir, e.backend); err != nil {
		return config.Config{}, usageError{msg: err.Error()}
	}
	ui.SetTheme(cfg.Theme)
	if err := ui.SetLocale(cfg.Locale); err != nil {
		e.log(cfg).Warn("invalid locale, keeping default", "locale", cfg.Locale, "err", err)
	}
	e.cfg = &cfg
	return cfg, nil
}

func (e *env) log(cfg config.Config) *slog.Logger {
	if e.logger == nil {
		e.logger = logger.New(e.errOut, cfg.LogLevel, cfg.LogFormat)
		slog.SetDefault(e.logger)
	}
	return e.logger
}

// open loads the stores. The app is closed, and its writes drained, when
// the command returns.
func (e *env) open() (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg, app.Options{Logger: e.log(cfg)})
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

func (e *env) close() error {
	if e.app == nil {
		return nil
	}
	a := e.app
	e.app = nil
	if err := a.Close(); err != nil {
		return err
	}
	var failed []string
	for _, st := range a.Status() {
		if st.SaveFailures > 0 {
			failed = append(failed, st.Name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("could not save %s", strings.Join(failed, ", "))
	}
	return nil
}

// needArgs rejects fewer than n positional arguments with the command's
// usage line.
func needArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}
