// Package cli implements the todos command-line interface: the
// interactive TUI, scriptable item commands, and the reference server.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/todos/internal/logging"
	"github.com/mesh-intelligence/todos/internal/paths"
)

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
}

// app carries state resolved once in PersistentPreRunE and shared by
// every subcommand.
type app struct {
	flags    rootFlags
	viper    *viper.Viper
	settings settings
}

// NewRootCmd creates the top-level "todos" command with global flags and
// all subcommands registered. Running it without a subcommand starts the
// TUI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "todos",
		Short: "A to-do list client with optimistic updates",
		Long: `todos manages one owner's to-do collection on a remote collection API.
Changes show up immediately and are reconciled with the server in the
background. Run without arguments for the interactive interface.`,
		Version:      Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/todos)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.todos-db)")
	pf.Int64("owner-id", 0, "owner whose collection is managed")
	pf.String("base-url", "", "collection API base URL")
	pf.Duration("request-timeout", 0, "per-request timeout (0 for none)")
	pf.String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newVersionCmd(),
		newConfigCmd(a),
		newTUICmd(a),
		newListCmd(a),
		newAddCmd(a),
		newToggleCmd(a),
		newRenameCmd(a),
		newDeleteCmd(a),
		newToggleAllCmd(a),
		newClearCompletedCmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(exitError)
	}
}

// setup resolves directories, loads config.yaml, and binds flags.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, configDataDir, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	bindings := map[string]string{
		cfgKeyOwnerID:        "owner-id",
		cfgKeyBaseURL:        "base-url",
		cfgKeyRequestTimeout: "request-timeout",
		cfgKeyLogLevel:       "log-level",
		cfgKeyListenAddr:     "addr",
		cfgKeyServerLatency:  "latency",
	}
	for key, name := range bindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, configDataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	s, err := readSettings(v, configDir, dataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.viper = v
	a.settings = s
	return nil
}

// logger returns a logger writing to w at the configured level.
func (a *app) logger(w io.Writer) *slog.Logger {
	opts := logging.DefaultOptions()
	opts.Level = a.settings.LogLevel
	l, err := logging.New(w, opts)
	if err != nil {
		// The level was checked in setup.
		return logging.Discard()
	}
	return l
}
