package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cudagame/cudasim/internal/config"
)

// pingTimeout bounds the connection check in NewDB.
const pingTimeout = 5 * time.Second

// DB wraps the pgx pool the run log writes through. The simulation only
// writes telemetry, so the pool stays small.
type DB struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// NewDB connects to cfg.DSN and verifies the connection. Sessions are tagged
// with application_name so run log writers show up in pg_stat_activity.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	if _, set := poolCfg.ConnConfig.RuntimeParams["application_name"]; !set {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = "cudasim"
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Info("database connected",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns))
	return &DB{Pool: pool, log: log.Named("persist")}, nil
}

// Close releases every pooled connection and logs what the pool did.
func (db *DB) Close() {
	st := db.Pool.Stat()
	db.log.Debug("database pool closing",
		zap.Int64("acquires", st.AcquireCount()),
		zap.Duration("acquire_wait", st.AcquireDuration()))
	db.Pool.Close()
}
