package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sworrl/WanderMage-sub002/internal/db"
	"github.com/sworrl/WanderMage-sub002/internal/geo"
	"github.com/sworrl/WanderMage-sub002/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// the hot read/write paths of dashboard refresh and sync.
var preparedStatements = map[string]string{
	"upsert_trip": `INSERT INTO trips (id, name, status, data, updated_at, synced_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, status = EXCLUDED.status, data = EXCLUDED.data,
		updated_at = EXCLUDED.updated_at, synced_at = EXCLUDED.synced_at`,
	"insert_snapshot": `INSERT INTO snapshots (id, taken_at, data) VALUES ($1, $2, $3)`,
	"latest_snapshot": `SELECT taken_at, data FROM snapshots ORDER BY taken_at DESC LIMIT 1`,
	"insert_sync":     `INSERT INTO sync_log (id, started_at, duration_ms, trips, pois, visits, error) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"last_sync":       `SELECT id, started_at, duration_ms, trips, pois, visits, error FROM sync_log ORDER BY started_at DESC LIMIT 1`,
	"list_visits":     `SELECT state, visits, first_visited, last_visited FROM state_visits ORDER BY state`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need direct
// query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS trips (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	status     TEXT NOT NULL,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	synced_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS pois (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	type       TEXT NOT NULL,
	state      TEXT NOT NULL,
	latitude   DOUBLE PRECISION NOT NULL,
	longitude  DOUBLE PRECISION NOT NULL,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	synced_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS state_visits (
	state         TEXT PRIMARY KEY,
	visits        INTEGER NOT NULL,
	first_visited TIMESTAMPTZ,
	last_visited  TIMESTAMPTZ,
	synced_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	id       TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	taken_at TIMESTAMPTZ NOT NULL,
	data     JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_log (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	started_at  TIMESTAMPTZ NOT NULL,
	duration_ms BIGINT NOT NULL,
	trips       INTEGER NOT NULL,
	pois        INTEGER NOT NULL,
	visits      INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trips_status ON trips(status);
CREATE INDEX IF NOT EXISTS idx_pois_state ON pois(state);
CREATE INDEX IF NOT EXISTS idx_pois_type ON pois(type);
CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at DESC);
CREATE INDEX IF NOT EXISTS idx_sync_log_started_at ON sync_log(started_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveTrips(ctx context.Context, trips []model.Trip) (int, error) {
	if len(trips) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	for _, tr := range trips {
		data, err := json.Marshal(tr)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal trip %s", tr.ID)
		}
		_, err = s.pool.Exec(ctx,
			`INSERT INTO trips (id, name, status, data, updated_at, synced_at) VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, status = EXCLUDED.status, data = EXCLUDED.data,
			 updated_at = EXCLUDED.updated_at, synced_at = EXCLUDED.synced_at`,
			tr.ID, tr.Name, string(tr.Status), data, tr.UpdatedAt.UTC(), now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: upsert trip %s", tr.ID)
		}
	}
	return len(trips), nil
}

func (s *PostgresStore) ListTrips(ctx context.Context, filter model.TripFilter) ([]model.Trip, error) {
	query := `SELECT data FROM trips WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list trips")
	}
	defer rows.Close()

	var trips []model.Trip
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan trip")
		}
		var tr model.Trip
		if err := json.Unmarshal(data, &tr); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal trip")
		}
		if filter.Year != 0 && !tripInYear(tr, filter.Year) {
			continue
		}
		trips = append(trips, tr)
		if filter.Limit > 0 && len(trips) == filter.Limit {
			break
		}
	}
	return trips, eris.Wrap(rows.Err(), "postgres: list trips iterate")
}

// SavePOIs loads POIs through a COPY-backed bulk upsert; syncs routinely
// carry thousands of rows.
func (s *PostgresStore) SavePOIs(ctx context.Context, pois []model.POI) (int, error) {
	if len(pois) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	rows := make([][]any, 0, len(pois))
	for _, p := range pois {
		data, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal poi %s", p.ID)
		}
		rows = append(rows, []any{p.ID, p.Name, string(p.Type), p.State, p.Latitude, p.Longitude, data, p.UpdatedAt.UTC(), now})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "pois",
		Columns:      []string{"id", "name", "type", "state", "latitude", "longitude", "data", "updated_at", "synced_at"},
		ConflictKeys: []string{"id"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: save pois")
	}
	return int(n), nil
}

func (s *PostgresStore) ListPOIs(ctx context.Context, q model.POIQuery) ([]model.POI, error) {
	query := `SELECT data FROM pois WHERE true`
	args := []any{}
	argIdx := 1

	if q.State != "" {
		query += fmt.Sprintf(` AND state = $%d`, argIdx)
		args = append(args, q.State)
		argIdx++
	}
	if q.Type != "" {
		query += fmt.Sprintf(` AND type = $%d`, argIdx)
		args = append(args, string(q.Type))
		argIdx++
	}
	bbox := q.BBox
	if bbox == nil && q.Near() {
		w := geo.Window(q.Lat, q.Lon, q.Radius)
		bbox = &w
	}
	if bbox != nil {
		query += fmt.Sprintf(` AND latitude BETWEEN $%d AND $%d AND longitude BETWEEN $%d AND $%d`,
			argIdx, argIdx+1, argIdx+2, argIdx+3)
		args = append(args, bbox.MinLat, bbox.MaxLat, bbox.MinLon, bbox.MaxLon)
		argIdx += 4
	}
	query += ` ORDER BY state, name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list pois")
	}
	defer rows.Close()

	var pois []model.POI
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan poi")
		}
		var p model.POI
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal poi")
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: list pois iterate")
	}

	if q.Near() {
		pois = nearFilter(pois, q)
	}
	return applyLimit(pois, q.Limit), nil
}

// SaveStateVisits replaces the whole table inside one transaction: a
// re-count upstream can legitimately shrink, so upserting would leave ghosts.
func (s *PostgresStore) SaveStateVisits(ctx context.Context, visits []model.StateVisit) (int, error) {
	if len(visits) == 0 {
		return 0, nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin visits tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM state_visits`); err != nil {
		return 0, eris.Wrap(err, "postgres: clear state visits")
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, []any{v.State, v.Visits, v.FirstVisited, v.LastVisited, now})
	}
	n, err := db.CopyFrom(ctx, tx, "state_visits",
		[]string{"state", "visits", "first_visited", "last_visited", "synced_at"}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: load state visits")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit visits")
	}
	return int(n), nil
}

func (s *PostgresStore) ListStateVisits(ctx context.Context) ([]model.StateVisit, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT state, visits, first_visited, last_visited FROM state_visits ORDER BY state`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list state visits")
	}
	defer rows.Close()

	var visits []model.StateVisit
	for rows.Next() {
		var v model.StateVisit
		if err := rows.Scan(&v.State, &v.Visits, &v.FirstVisited, &v.LastVisited); err != nil {
			return nil, eris.Wrap(err, "postgres: scan state visit")
		}
		visits = append(visits, v)
	}
	return visits, eris.Wrap(rows.Err(), "postgres: list state visits iterate")
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO snapshots (id, taken_at, data) VALUES ($1, $2, $3)`,
		uuid.New().String(), snap.TakenAt.UTC(), snap.Data,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert snapshot")
	}
	_, err = s.pool.Exec(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY taken_at DESC LIMIT $1)`,
		snapshotKeep,
	)
	return eris.Wrap(err, "postgres: prune snapshots")
}

func (s *PostgresStore) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT taken_at, data FROM snapshots ORDER BY taken_at DESC LIMIT 1`,
	).Scan(&snap.TakenAt, &snap.Data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: latest snapshot")
	}
	return &snap, nil
}

func (s *PostgresStore) RecordSync(ctx context.Context, rec SyncRecord) error {
	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sync_log (id, started_at, duration_ms, trips, pois, visits, error) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, rec.StartedAt.UTC(), rec.Duration.Milliseconds(), rec.Trips, rec.POIs, rec.Visits, rec.Error,
	)
	return eris.Wrap(err, "postgres: record sync")
}

func (s *PostgresStore) LastSync(ctx context.Context) (*SyncRecord, error) {
	var rec SyncRecord
	var ms int64
	err := s.pool.QueryRow(ctx,
		`SELECT id, started_at, duration_ms, trips, pois, visits, error FROM sync_log ORDER BY started_at DESC LIMIT 1`,
	).Scan(&rec.ID, &rec.StartedAt, &ms, &rec.Trips, &rec.POIs, &rec.Visits, &rec.Error)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: last sync")
	}
	rec.Duration = time.Duration(ms) * time.Millisecond
	return &rec, nil
}

func (s *PostgresStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM trips), (SELECT COUNT(*) FROM pois), (SELECT COUNT(*) FROM state_visits)`,
	).Scan(&c.Trips, &c.POIs, &c.Visits)
	return c, eris.Wrap(err, "postgres: counts")
}
