package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrRunNotFound is returned by Finish and Get for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// RunRow represents a row from the runs table.
type RunRow struct {
	RunID      int64
	Label      string
	TickRate   time.Duration
	StartedAt  time.Time
	FinishedAt *time.Time
	Ticks      int64
}

// DeathRow is one character death recorded during a run.
type DeathRow struct {
	Tick   uint64
	Entity uint64
	Name   string
}

// SnapshotRow is a periodic summary of the simulation.
type SnapshotRow struct {
	Tick       uint64
	Entities   int
	Characters int
	Alive      int
	Spawned    uint64
	Destroyed  uint64
	Failures   uint64
}

// RunRepo handles simulation run telemetry.
type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Start opens a new run and returns its id.
func (r *RunRepo) Start(ctx context.Context, label string, tickRate time.Duration) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO runs (label, tick_rate) VALUES ($1, $2) RETURNING run_id`,
		label, int64(tickRate),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// Finish stamps the end time and final tick count of a run.
func (r *RunRepo) Finish(ctx context.Context, runID int64, ticks uint64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE runs SET finished_at = now(), ticks = $2 WHERE run_id = $1`,
		runID, int64(ticks),
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finish run %d: %w", runID, ErrRunNotFound)
	}
	return nil
}

// Get loads one run.
func (r *RunRepo) Get(ctx context.Context, runID int64) (*RunRow, error) {
	var row RunRow
	var rate int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT run_id, label, tick_rate, started_at, finished_at, ticks
		 FROM runs WHERE run_id = $1`, runID,
	).Scan(&row.RunID, &row.Label, &rate, &row.StartedAt, &row.FinishedAt, &row.Ticks)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	row.TickRate = time.Duration(rate)
	return &row, nil
}

// WriteDeaths atomically writes a batch of deaths in a single transaction.
func (r *RunRepo) WriteDeaths(ctx context.Context, runID int64, deaths []DeathRow) error {
	if len(deaths) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("deaths begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, d := range deaths {
		batch.Queue(
			`INSERT INTO run_deaths (run_id, tick, entity_id, name) VALUES ($1, $2, $3, $4)`,
			runID, int64(d.Tick), int64(d.Entity), d.Name,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("deaths insert: %w", err)
	}
	return tx.Commit(ctx)
}

// WriteSnapshot records a summary row. A second snapshot for the same tick
// replaces the first.
func (r *RunRepo) WriteSnapshot(ctx context.Context, runID int64, s SnapshotRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO run_snapshots (run_id, tick, entities, characters, alive, spawned, destroyed, failures)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (run_id, tick) DO UPDATE SET
		   entities = EXCLUDED.entities, characters = EXCLUDED.characters, alive = EXCLUDED.alive,
		   spawned = EXCLUDED.spawned, destroyed = EXCLUDED.destroyed, failures = EXCLUDED.failures`,
		runID, int64(s.Tick), s.Entities, s.Characters, s.Alive,
		int64(s.Spawned), int64(s.Destroyed), int64(s.Failures),
	)
	if err != nil {
		return fmt.Errorf("snapshot insert: %w", err)
	}
	return nil
}

// Deaths lists the deaths of a run in tick order.
func (r *RunRepo) Deaths(ctx context.Context, runID int64) ([]DeathRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT tick, entity_id, name FROM run_deaths WHERE run_id = $1 ORDER BY tick, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeathRow
	for rows.Next() {
		var d DeathRow
		var tick, entity int64
		if err := rows.Scan(&tick, &entity, &d.Name); err != nil {
			return nil, err
		}
		d.Tick, d.Entity = uint64(tick), uint64(entity)
		out = append(out, d)
	}
	return out, rows.Err()
}

// RunLog binds a RunRepo to one run.
type RunLog struct {
	repo  *RunRepo
	runID int64
}

func NewRunLog(repo *RunRepo, runID int64) *RunLog {
	return &RunLog{repo: repo, runID: runID}
}

func (l *RunLog) RunID() int64 { return l.runID }

func (l *RunLog) WriteDeaths(ctx context.Context, deaths []DeathRow) error {
	return l.repo.WriteDeaths(ctx, l.runID, deaths)
}

func (l *RunLog) WriteSnapshot(ctx context.Context, s SnapshotRow) error {
	return l.repo.WriteSnapshot(ctx, l.runID, s)
}

func (l *RunLog) Finish(ctx context.Context, ticks uint64) error {
	return l.repo.Finish(ctx, l.runID, ticks)
}
