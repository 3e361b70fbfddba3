package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sworrl/WanderMage-sub002/internal/geo"
	"github.com/sworrl/WanderMage-sub002/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite mirror at the given path, creating parent
// directories as needed, and configures WAL mode.
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "sqlite: create dir %s", dir)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS trips (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	status     TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	synced_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS pois (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	type       TEXT NOT NULL,
	state      TEXT NOT NULL,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	synced_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS state_visits (
	state         TEXT PRIMARY KEY,
	visits        INTEGER NOT NULL,
	first_visited DATETIME,
	last_visited  DATETIME,
	synced_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	id       TEXT PRIMARY KEY,
	taken_at DATETIME NOT NULL,
	data     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_log (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL,
	trips       INTEGER NOT NULL,
	pois        INTEGER NOT NULL,
	visits      INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trips_status ON trips(status);
CREATE INDEX IF NOT EXISTS idx_pois_state ON pois(state);
CREATE INDEX IF NOT EXISTS idx_pois_type ON pois(type);
CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
CREATE INDEX IF NOT EXISTS idx_sync_log_started_at ON sync_log(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveTrips(ctx context.Context, trips []model.Trip) (int, error) {
	if len(trips) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin trips tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trips (id, name, status, data, updated_at, synced_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, status=excluded.status, data=excluded.data,
		 updated_at=excluded.updated_at, synced_at=excluded.synced_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare trip upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, tr := range trips {
		data, err := json.Marshal(tr)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: marshal trip %s", tr.ID)
		}
		if _, err := stmt.ExecContext(ctx, tr.ID, tr.Name, string(tr.Status), string(data), tr.UpdatedAt.UTC(), now); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert trip %s", tr.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit trips")
	}
	return len(trips), nil
}

func (s *SQLiteStore) ListTrips(ctx context.Context, filter model.TripFilter) ([]model.Trip, error) {
	query := `SELECT data FROM trips WHERE 1=1`
	var args []any
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list trips")
	}
	defer rows.Close()

	var trips []model.Trip
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan trip")
		}
		var tr model.Trip
		if err := json.Unmarshal([]byte(data), &tr); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal trip")
		}
		if filter.Year != 0 && !tripInYear(tr, filter.Year) {
			continue
		}
		trips = append(trips, tr)
		if filter.Limit > 0 && len(trips) == filter.Limit {
			break
		}
	}
	return trips, eris.Wrap(rows.Err(), "sqlite: list trips iterate")
}

func (s *SQLiteStore) SavePOIs(ctx context.Context, pois []model.POI) (int, error) {
	if len(pois) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin pois tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pois (id, name, type, state, latitude, longitude, data, updated_at, synced_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, type=excluded.type, state=excluded.state,
		 latitude=excluded.latitude, longitude=excluded.longitude, data=excluded.data,
		 updated_at=excluded.updated_at, synced_at=excluded.synced_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare poi upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range pois {
		data, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: marshal poi %s", p.ID)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, string(p.Type), p.State, p.Latitude, p.Longitude, string(data), p.UpdatedAt.UTC(), now); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert poi %s", p.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit pois")
	}
	return len(pois), nil
}

func (s *SQLiteStore) ListPOIs(ctx context.Context, q model.POIQuery) ([]model.POI, error) {
	query := `SELECT data FROM pois WHERE 1=1`
	var args []any
	if q.State != "" {
		query += ` AND state = ?`
		args = append(args, q.State)
	}
	if q.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(q.Type))
	}
	bbox := q.BBox
	if bbox == nil && q.Near() {
		w := geo.Window(q.Lat, q.Lon, q.Radius)
		bbox = &w
	}
	if bbox != nil {
		query += ` AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`
		args = append(args, bbox.MinLat, bbox.MaxLat, bbox.MinLon, bbox.MaxLon)
	}
	query += ` ORDER BY state, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list pois")
	}
	defer rows.Close()

	var pois []model.POI
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan poi")
		}
		var p model.POI
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal poi")
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: list pois iterate")
	}

	if q.Near() {
		pois = nearFilter(pois, q)
	}
	return applyLimit(pois, q.Limit), nil
}

func (s *SQLiteStore) SaveStateVisits(ctx context.Context, visits []model.StateVisit) (int, error) {
	if len(visits) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin visits tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM state_visits`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear state visits")
	}

	now := time.Now().UTC()
	for _, v := range visits {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state_visits (state, visits, first_visited, last_visited, synced_at) VALUES (?, ?, ?, ?, ?)`,
			v.State, v.Visits, v.FirstVisited, v.LastVisited, now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert visit %s", v.State)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit visits")
	}
	return len(visits), nil
}

func (s *SQLiteStore) ListStateVisits(ctx context.Context) ([]model.StateVisit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT state, visits, first_visited, last_visited FROM state_visits ORDER BY state`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list state visits")
	}
	defer rows.Close()

	var visits []model.StateVisit
	for rows.Next() {
		var v model.StateVisit
		var first, last sql.NullTime
		if err := rows.Scan(&v.State, &v.Visits, &first, &last); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan state visit")
		}
		if first.Valid {
			t := first.Time
			v.FirstVisited = &t
		}
		if last.Valid {
			t := last.Time
			v.LastVisited = &t
		}
		visits = append(visits, v)
	}
	return visits, eris.Wrap(rows.Err(), "sqlite: list state visits iterate")
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, taken_at, data) VALUES (?, ?, ?)`,
		uuid.New().String(), snap.TakenAt.UTC(), string(snap.Data),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert snapshot")
	}
	// Bound history growth.
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY taken_at DESC LIMIT ?)`,
		snapshotKeep,
	)
	return eris.Wrap(err, "sqlite: prune snapshots")
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT taken_at, data FROM snapshots ORDER BY taken_at DESC LIMIT 1`)

	var snap Snapshot
	var data string
	err := row.Scan(&snap.TakenAt, &data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest snapshot")
	}
	snap.Data = []byte(data)
	return &snap, nil
}

func (s *SQLiteStore) RecordSync(ctx context.Context, rec SyncRecord) error {
	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_log (id, started_at, duration_ms, trips, pois, visits, error) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rec.StartedAt.UTC(), rec.Duration.Milliseconds(), rec.Trips, rec.POIs, rec.Visits, rec.Error,
	)
	return eris.Wrap(err, "sqlite: record sync")
}

func (s *SQLiteStore) LastSync(ctx context.Context) (*SyncRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, duration_ms, trips, pois, visits, error FROM sync_log ORDER BY started_at DESC LIMIT 1`)

	var rec SyncRecord
	var ms int64
	err := row.Scan(&rec.ID, &rec.StartedAt, &ms, &rec.Trips, &rec.POIs, &rec.Visits, &rec.Error)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: last sync")
	}
	rec.Duration = time.Duration(ms) * time.Millisecond
	return &rec, nil
}

func (s *SQLiteStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM trips), (SELECT COUNT(*) FROM pois), (SELECT COUNT(*) FROM state_visits)`,
	).Scan(&c.Trips, &c.POIs, &c.Visits)
	return c, eris.Wrap(err, "sqlite: counts")
}
