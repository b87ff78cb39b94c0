// Package storage caches fetched snapshots in sqlite and records how the
// published cutoffs move between fetches.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/snapshot"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout matches sqlite's CURRENT_TIMESTAMP so rows sort as text.
const timeLayout = "2006-01-02 15:04:05"

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS snapshots (
  id          TEXT PRIMARY KEY,
  fetched_at  TEXT NOT NULL,
  as_of       TEXT NOT NULL,
  payload     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_fetched ON snapshots(fetched_at);
CREATE TABLE IF NOT EXISTS cutoff_changes (
  id            INTEGER PRIMARY KEY,
  snapshot_id   TEXT NOT NULL,
  occurred_at   TEXT NOT NULL,
  chart         TEXT NOT NULL,
  category      TEXT NOT NULL,
  chargeability TEXT,
  old_value     TEXT,
  new_value     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON cutoff_changes(occurred_at);
`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SaveSnapshot stores snap and logs every cutoff that differs from the most
// recent stored snapshot. The first snapshot logs nothing.
func (d *DB) SaveSnapshot(ctx context.Context, snap *snapshot.Snapshot, fetchedAt time.Time) (rec Record, changes []Change, err error) {
	if snap == nil {
		return Record{}, nil, errors.New("storage: nil snapshot")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return Record{}, nil, fmt.Errorf("storage: encode snapshot: %w", err)
	}
	fetchedAt = fetchedAt.UTC().Truncate(time.Second)
	rec = Record{
		ID:        uuid.NewString(),
		FetchedAt: fetchedAt,
		AsOf:      snap.AsOf,
		Snapshot:  snap,
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return Record{}, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	prev, err := latest(ctx, tx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		err = nil
	case err != nil:
		return Record{}, nil, err
	default:
		changes = Diff(prev.Snapshot, snap, fetchedAt)
	}

	ts := fetchedAt.Format(timeLayout)
	_, err = tx.ExecContext(ctx, `INSERT INTO snapshots(id, fetched_at, as_of, payload) VALUES(?,?,?,?)`, rec.ID, ts, snap.AsOf.String(), string(payload))
	if err != nil {
		return Record{}, nil, err
	}
	for _, c := range changes {
		_, err = tx.ExecContext(ctx, `INSERT INTO cutoff_changes(snapshot_id, occurred_at, chart, category, chargeability, old_value, new_value) VALUES(?,?,?,?,?,?,?)`,
			rec.ID, ts, c.Chart, c.Category, nullIfEmpty(c.Chargeability), nullIfEmpty(c.Old), c.New)
		if err != nil {
			return Record{}, nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return Record{}, nil, err
	}
	return rec, changes, nil
}

// Diff lists the cutoffs that moved from prev to cur. Cells missing from cur
// are not reported.
func Diff(prev, cur *snapshot.Snapshot, at time.Time) []Change {
	var out []Change
	for _, kind := range []bulletin.ChartKind{bulletin.FinalAction, bulletin.DatesForFiling} {
		for _, cat := range bulletin.Categories {
			for _, ch := range bulletin.Chargeabilities {
				var old string
				if prev != nil {
					old, _ = prev.Bulletin.Chart(kind).Cutoff(cat, ch)
				}
				now, ok := cur.Bulletin.Chart(kind).Cutoff(cat, ch)
				if !ok || now == old {
					continue
				}
				out = append(out, Change{OccurredAt: at, Chart: string(kind), Category: string(cat), Chargeability: string(ch), Old: old, New: now})
			}
		}
	}
	for _, q := range []catalog.DOLQueue{catalog.QueuePrevailingWage, catalog.QueuePERM} {
		var old string
		if prev != nil {
			old = prev.DOL.Queue(q)
		}
		now := cur.DOL.Queue(q)
		if now == "" || now == old {
			continue
		}
		out = append(out, Change{OccurredAt: at, Chart: ChartDOL, Category: string(q), Old: old, New: now})
	}
	return out
}

// LatestSnapshot returns the most recently fetched snapshot, or
// ErrNoSnapshot.
func (d *DB) LatestSnapshot(ctx context.Context) (Record, error) {
	return latest(ctx, d.sql)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func latest(ctx context.Context, q querier) (Record, error) {
	var (
		rec                   Record
		fetchedAt, asOf, body string
	)
	err := q.QueryRowContext(ctx, "SELECT id, fetched_at, as_of, payload FROM snapshots ORDER BY fetched_at DESC, rowid DESC LIMIT 1").
		Scan(&rec.ID, &fetchedAt, &asOf, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNoSnapshot
	}
	if err != nil {
		return Record{}, err
	}
	rec.FetchedAt = parseTime(fetchedAt)
	if err := rec.AsOf.UnmarshalText([]byte(asOf)); err != nil {
		return Record{}, fmt.Errorf("storage: snapshot %s: %w", rec.ID, err)
	}
	var snap snapshot.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return Record{}, fmt.Errorf("storage: decode snapshot %s: %w", rec.ID, err)
	}
	rec.Snapshot = &snap
	return rec, nil
}

// ListRecentChanges returns the most recent N cutoff movements.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, chart, category, chargeability, old_value, new_value FROM cutoff_changes ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var (
			c           Change
			occurredAt  string
			charge, old sql.NullString
		)
		if err := rows.Scan(&occurredAt, &c.Chart, &c.Category, &charge, &old, &c.New); err != nil {
			return nil, err
		}
		c.OccurredAt = parseTime(occurredAt)
		c.Chargeability = charge.String
		c.Old = old.String
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

func (d *DB) GetStats(ctx context.Context) (Stats, error) {
	var (
		s              Stats
		oldest, newest sql.NullString
	)
	err := d.sql.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			MIN(fetched_at),
			MAX(fetched_at)
		FROM
			snapshots;
	`).Scan(&s.Snapshots, &oldest, &newest)
	if err != nil {
		return Stats{}, err
	}
	if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM cutoff_changes").Scan(&s.Changes); err != nil {
		return Stats{}, err
	}
	if s.Snapshots == 0 {
		return s, nil
	}
	s.OldestFetch = parseTime(oldest.String)
	s.LatestFetch = parseTime(newest.String)
	rec, err := d.LatestSnapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	s.LatestID = rec.ID
	s.LatestAsOf = rec.AsOf.String()
	return s, nil
}

// parseTime accepts the sqlite timestamp format, then RFC3339.
func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
