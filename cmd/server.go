package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/app"
	"github.com/ziadkadry99/officespace/internal/audit"
	"github.com/ziadkadry99/officespace/internal/occupancy"
	"github.com/ziadkadry99/officespace/internal/server"
	"github.com/ziadkadry99/officespace/internal/web"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the floor plan web server and occupancy API",
	Long:  `Starts the officespace HTTP server: the floor plan page, the occupancy REST API, the audit trail and the live update websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := openBackend(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()
		pruneAudit(ctx, b.audit, cfg.Audit.RetentionDays, logger)

		source := occupancy.NewBackend(b.svc)
		state, err := newState(cfg, logger, app.WithPersister(source))
		if err != nil {
			return err
		}
		if err := state.Load(ctx, source); err != nil {
			// The page shows the error banner until a later reload succeeds.
			logger.Error("loading offices", zap.Error(err))
		}

		srv := server.New(cfg.Server, logger)
		front := web.New(state, source, logger)
		registerAllRoutes(srv, b, front)

		go front.Run(ctx, b.bus)

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			front.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "officespace server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", b.db.Path())
		if n, err := b.svc.Store().Count(ctx); err == nil {
			fmt.Fprintf(os.Stderr, "  Occupants: %d\n", n)
		}

		return srv.Start()
	},
}

// registerAllRoutes wires the feature routes onto the server.
func registerAllRoutes(srv *server.Server, b *backend, front *web.Web) {
	r := srv.Router()

	// Occupancy API
	occupancy.RegisterRoutes(r, b.svc)

	// Audit Trail
	audit.RegisterRoutes(r, b.audit)

	// Floor plan page, popup sessions and websocket
	front.RegisterRoutes(r)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
