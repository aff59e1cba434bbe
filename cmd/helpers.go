package cmd

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/app"
	"github.com/ziadkadry99/officespace/internal/audit"
	"github.com/ziadkadry99/officespace/internal/client"
	"github.com/ziadkadry99/officespace/internal/config"
	"github.com/ziadkadry99/officespace/internal/db"
	"github.com/ziadkadry99/officespace/internal/events"
	"github.com/ziadkadry99/officespace/internal/logging"
	"github.com/ziadkadry99/officespace/internal/occupancy"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `officespace init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setup loads the config and builds the logger every command shares.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}

// backend bundles the local database and the service writing to it.
type backend struct {
	db    *db.DB
	audit *audit.Store
	bus   events.Bus
	svc   *occupancy.Service
}

func (b *backend) Close() {
	if b.bus != nil {
		b.bus.Close()
	}
	b.db.Close()
}

// openBackend opens the configured database and wires the occupancy
// service to the audit trail and the change bus.
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	bus, err := events.New(ctx, cfg.Redis, logger)
	if err != nil {
		database.Close()
		return nil, err
	}
	b := &backend{db: database, audit: audit.NewStore(database), bus: bus}
	b.svc = occupancy.NewService(occupancy.NewStore(database), b.audit, bus, logger)
	if host, err := os.Hostname(); err == nil {
		b.svc.SetSource(host)
	}
	return b, nil
}

// remoteClient builds an API client for url, falling back to the
// configured remote.
func remoteClient(cfg *config.Config, url string, logger *zap.Logger) (*client.Client, error) {
	rc := cfg.Remote
	if url != "" {
		rc.BaseURL = url
	}
	c, err := client.New(rc, logger)
	if err != nil {
		return nil, err
	}
	if actor := currentUser(); actor != "" {
		c.SetActor(actor)
	}
	return c, nil
}

// currentUser names the person running the CLI in the audit trail.
func currentUser() string {
	if u := os.Getenv("OFFICESPACE_ACTOR"); u != "" {
		return u
	}
	return os.Getenv("USER")
}

// withUser tags ctx with the CLI user for local writes.
func withUser(ctx context.Context) context.Context {
	if u := currentUser(); u != "" {
		return audit.WithActor(ctx, u)
	}
	return ctx
}

// newState builds the application state from the config's floors, grid and
// text settings.
func newState(cfg *config.Config, logger *zap.Logger, opts ...app.Option) (*app.State, error) {
	opts = append([]app.Option{app.WithLogger(logger)}, opts...)
	return app.NewFromConfig(cfg, opts...)
}
