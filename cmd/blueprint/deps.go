package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/challenge-blueprint/internal/calendar"
	"github.com/yourusername/challenge-blueprint/internal/challenge"
	"github.com/yourusername/challenge-blueprint/internal/config"
	"github.com/yourusername/challenge-blueprint/internal/preferences"
	"github.com/yourusername/challenge-blueprint/internal/service"
	"github.com/yourusername/challenge-blueprint/internal/storage"
	"github.com/yourusername/challenge-blueprint/internal/storage/clickhouse"
	"github.com/yourusername/challenge-blueprint/internal/storage/memory"
	"github.com/yourusername/challenge-blueprint/internal/storage/migrations"
	"github.com/yourusername/challenge-blueprint/internal/storage/postgres"
	"github.com/yourusername/challenge-blueprint/internal/storage/sqlite"
)

const defaultHistoryCapacity = 500

// dependencies are the long-lived collaborators shared by the commands.
type dependencies struct {
	kv          storage.KVStore
	history     storage.RunHistoryStore
	prefs       *preferences.Store
	simulations *service.SimulationService
	// calendar is nil when the feed is disabled.
	calendar *calendar.Client
}

func setupDependencies(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*dependencies, error) {
	base, err := challenge.FromConfig(&cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	kv, err := openKVStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	history, err := openHistory(ctx, cfg)
	if err != nil {
		kv.Close()
		return nil, err
	}

	d := &dependencies{
		kv:          kv,
		history:     history,
		prefs:       preferences.NewStore(kv, log),
		simulations: service.NewSimulationService(base, service.NewResultCache(cfg.Engine.CacheTTL(), 256), history, log),
	}

	client, err := calendar.NewClient(cfg.Calendar, log)
	switch {
	case err == nil:
		d.calendar = client
	case !errors.Is(err, calendar.ErrDisabled):
		d.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"storage":  cfg.Storage.Driver,
		"history":  cfg.History.Enabled,
		"calendar": d.calendar != nil,
	}).Debug("Dependencies ready")
	return d, nil
}

// openKVStore opens the configured preference backend, migrating it if needed.
func openKVStore(ctx context.Context, cfg *config.Config) (storage.KVStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.NewKVStore(), nil
	case config.DriverSQLite:
		store, err := sqlite.NewKVStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.GetPostgresDSN(), postgres.PoolConfig{
			MaxConnections: cfg.Storage.Postgres.MaxConnections,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		return postgres.NewKVStore(pool), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// openHistory returns the ClickHouse history sink when enabled and an
// in-memory ring otherwise.
func openHistory(ctx context.Context, cfg *config.Config) (storage.RunHistoryStore, error) {
	if !cfg.History.Enabled {
		return memory.NewRunHistoryStore(defaultHistoryCapacity), nil
	}
	conn, err := clickhouse.NewConn(ctx, cfg.History.ClickHouseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate clickhouse: %w", err)
	}
	return clickhouse.NewRunHistoryStore(conn), nil
}

func (d *dependencies) Close() {
	if d.calendar != nil {
		_ = d.calendar.Close()
	}
	if d.history != nil {
		_ = d.history.Close()
	}
	if d.kv != nil {
		_ = d.kv.Close()
	}
}
