package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/app"
	mcpserver "github.com/ziadkadry99/officespace/internal/mcp"
	"github.com/ziadkadry99/officespace/internal/occupancy"
)

var serveRemote string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing floor plan and occupant lookup tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		ctx := context.Background()

		mcpserver.Version = Version

		var source app.Source
		var b *backend
		if serveRemote != "" {
			c, err := remoteClient(cfg, serveRemote, logger)
			if err != nil {
				return err
			}
			source = c
		} else {
			b, err = openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()
			source = occupancy.NewBackend(b.svc)
		}

		state, err := newState(cfg, logger)
		if err != nil {
			return err
		}
		if err := state.Load(ctx, source); err != nil {
			// Tools retry the load on every call.
			logger.Warn("initial office load failed", zap.Error(err))
		}

		srv := mcpserver.NewServer(state, source, logger)
		if b != nil {
			srv.SetHistory(b.audit)
		}

		fmt.Fprintf(os.Stderr, "officespace MCP server started on stdio (%d floors)\n", len(state.Plan().Floors()))
		return srv.Serve()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveRemote, "remote", "", "read offices from a running officespace server instead of the local database")
	rootCmd.AddCommand(serveCmd)
}
