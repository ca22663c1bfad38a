package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/reconcile"
	"github.com/mesh-intelligence/todos/internal/remote"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// setupNotice is printed when no owner is configured.
const setupNotice = "setup required: set owner_id in %s, TODOS_OWNER_ID, or --owner-id"

// withReconciler builds a reconciler over the remote API, loads the
// collection, and runs fn. Item commands share this path with the TUI.
func (a *app) withReconciler(cmd *cobra.Command, fn func(ctx context.Context, r *reconcile.Reconciler) error) error {
	if a.settings.OwnerID <= 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), setupNotice+"\n", a.configPath())
		return types.ErrOwnerUnset
	}

	logger := a.logger(cmd.ErrOrStderr())
	client, err := remote.NewFromConfig(a.settings.clientConfig(), remote.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("remote client: %w", err)
	}
	r, err := reconcile.New(client, a.settings.OwnerID, reconcile.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := r.Load(ctx); err != nil {
		return reportKind(r, err)
	}
	return fn(ctx, r)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, s)
	}
	return id, nil
}

func printItem(w io.Writer, it types.Item) {
	check := "[ ]"
	if it.Completed {
		check = "[x]"
	}
	fmt.Fprintf(w, "%s %d\t%s\n", check, it.ID, it.Title)
}

func newListCmd(a *app) *cobra.Command {
	var filter string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Long: `List the owner's todos in server order.

Example:
  todos list
  todos list --filter active
  todos list --filter completed --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := types.ParseFilterMode(filter)
			if err != nil {
				return err
			}
			return a.withReconciler(cmd, func(ctx context.Context, r *reconcile.Reconciler) error {
				r.SetFilter(mode)
				snap := r.Snapshot()
				out := cmd.OutOrStdout()

				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(snap.Items)
				}
				for _, it := range snap.Items {
					printItem(out, it)
				}
				fmt.Fprintln(out, snap.ItemsLeft())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all, active, or completed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withReconciler(cmd, func(ctx context.Context, r *reconcile.Reconciler) error {
				it, err := r.Create(ctx, strings.Join(args, " "))
				if err != nil {
					return reportKind(r, err)
				}
				printItem(cmd.OutOrStdout(), it)
				return nil
			})
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a todo between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withReconciler(cmd, func(ctx context.Context, r *reconcile.Reconciler) error {
				if err := r.Toggle(ctx, id); err != nil {
					return reportKind(r, err)
				}
				return printByID(cmd.OutOrStdout(), r, id)
			})
		},
	}
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title...>",
		Short: "Change a todo's title; an empty title deletes it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			return a.withReconciler(cmd, func(ctx context.Context, r *reconcile.Reconciler) error {
				outcome, err := r.Rename(ctx, id, title)
				if err != nil {
					return reportKind(r, err)
				}
				out := cmd.OutOrStdout()
				switch outcome {
				case reconcile.RenameDeleted:
					fmt.Fprintf(out, "deleted %d\n", id)
					return nil
				case reconcile.RenameUnchanged:
					fmt.Fprintf(out, "unchanged %d\n", id)
					return nil
				}
				return printByID(out, r, id)
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withReconciler(cmd, func(ctx context.Context, r *reconcile.Reconciler) error {
				if err := r.Delete(ctx, id); err != nil {
					return reportKind(r, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
				return nil
			})
		},
	}
}

func newToggleAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-all",
		Short: "Complete every todo, or reactivate all when all are completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withReconciler(cmd, func(ctx context.Context, r *reconcile.Reconciler) error {
				if err := r.ToggleAll(ctx); err != nil {
					return reportKind(r, err)
				}
				for _, it := range r.Items() {
					printItem(cmd.OutOrStdout(), it)
				}
				return nil
			})
		},
	}
}

func newClearCompletedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withReconciler(cmd, func(ctx context.Context, r *reconcile.Reconciler) error {
				before := r.Snapshot().CompletedCount
				err := r.ClearCompleted(ctx)
				after := r.Snapshot().CompletedCount
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d of %d completed\n", before-after, before)
				if err != nil {
					return reportKind(r, err)
				}
				return nil
			})
		},
	}
}

func printByID(w io.Writer, r *reconcile.Reconciler, id int64) error {
	items := r.Items()
	if i := types.IndexOf(items, id); i >= 0 {
		printItem(w, items[i])
		return nil
	}
	return fmt.Errorf("todo %d: %w", id, types.ErrNotFound)
}

// reportKind prefixes err with the user-facing message the reconciler
// recorded, if any.
func reportKind(r *reconcile.Reconciler, err error) error {
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInputDisabled) {
		return err
	}
	if msg := r.ErrorKind().Message(); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
