package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/server"
	"github.com/mesh-intelligence/todos/internal/sqlite"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference collection API backed by SQLite",
		Long: `Serve the /todos collection API from a SQLite database in the data
directory. Use --latency to slow responses down so pending indicators are
visible in the interactive interface.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := a.logger(cmd.ErrOrStderr())

			repo := sqlite.NewRepository()
			if err := repo.Attach(a.settings.DataDir); err != nil {
				return fmt.Errorf("attach database: %w", err)
			}
			defer repo.Detach()
			logger.Info("database attached", "path", repo.Path())

			srv := server.New(repo,
				server.WithLogger(logger),
				server.WithLatency(a.settings.ServerLatency),
			)
			return srv.Run(cmd.Context(), a.settings.ListenAddr)
		},
	}
	cmd.Flags().String("addr", defaultListenAddr, "listen address")
	cmd.Flags().Duration("latency", time.Duration(0), "artificial delay before each response")
	return cmd
}
