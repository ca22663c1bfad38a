package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/paths"
	"github.com/mesh-intelligence/todos/internal/reconcile"
	"github.com/mesh-intelligence/todos/internal/remote"
	"github.com/mesh-intelligence/todos/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive interface (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}
}

// runTUI starts the bubbletea program. The terminal belongs to the TUI,
// so logs go to the configured log file.
func (a *app) runTUI(cmd *cobra.Command) error {
	if err := paths.EnsureDir(filepath.Dir(a.settings.LogFile)); err != nil {
		return err
	}
	logFile, err := os.OpenFile(a.settings.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := a.logger(logFile)

	ctx := cmd.Context()
	opts := []tui.Option{
		tui.WithLogger(logger),
		tui.WithContext(ctx),
		tui.WithSetupHint(fmt.Sprintf(setupNotice, a.configPath())),
	}

	var model tui.Model
	if a.settings.OwnerID <= 0 {
		logger.Warn("owner id not configured; showing setup notice")
		model = tui.New(nil, opts...)
	} else {
		client, err := remote.NewFromConfig(a.settings.clientConfig(), remote.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("remote client: %w", err)
		}
		r, err := reconcile.New(client, a.settings.OwnerID, reconcile.WithLogger(logger))
		if err != nil {
			return err
		}
		logger.Info("starting tui", "owner", r.OwnerID(), "base_url", a.settings.BaseURL)
		model = tui.New(r, opts...)
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
