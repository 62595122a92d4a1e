// Package postgres stores checkout sessions in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"raffle-storefront/config"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"go.uber.org/zap"
)

// Postgres is the checkout session store backed by a pgx pool.
type Postgres struct {
	baseCtx context.Context
	log     *zap.SugaredLogger
	db      *pgxpool.Pool
	cfg     config.PostgresConfig
}

// New creates the store; the pool is opened in OnStart.
func New(ctx context.Context, log *zap.SugaredLogger, cfg *config.Config) *Postgres {
	return &Postgres{
		baseCtx: ctx,
		log:     log.Named("repo.postgres"),
		cfg:     cfg.Postgres,
	}
}

// OnStart applies pending migrations and opens the pool.
func (p *Postgres) OnStart(_ context.Context) error {
	version, err := p.migrate()
	if err != nil {
		return err
	}

	pool, err := p.connect()
	if err != nil {
		return err
	}

	p.db = pool
	p.log.Infow("postgres ready", "host", p.cfg.Host, "port", p.cfg.Port, "db", p.cfg.DBName, "schema_version", version)
	return nil
}

func (p *Postgres) connect() (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(p.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = p.cfg.MaxConns
	poolCfg.MinConns = p.cfg.MinConns

	ctx, cancel := context.WithTimeout(p.baseCtx, p.cfg.QueryTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pool: %w", err)
	}
	return pool, nil
}

// migrate runs goose over MigrationsDir through a short-lived lib/pq handle
// and returns the resulting schema version.
func (p *Postgres) migrate() (int64, error) {
	sqlDB, err := sql.Open("postgres", p.cfg.DSN())
	if err != nil {
		return 0, fmt.Errorf("open sql: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	provider, err := goose.NewProvider(database.DialectPostgres, sqlDB, os.DirFS(p.cfg.MigrationsDir))
	if err != nil {
		return 0, fmt.Errorf("migrate provider: %w", err)
	}

	ctx, cancel := context.WithTimeout(p.baseCtx, p.cfg.MigrateTimeout)
	defer cancel()

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	for _, r := range results {
		p.log.Infow("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate version: %w", err)
	}
	return version, nil
}

// OnStop closes pool connections.
func (p *Postgres) OnStop(_ context.Context) error {
	if p.db != nil {
		p.db.Close()
	}
	return nil
}
