// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists Result Tables as snapshots in SQLite so a fetched
// table can be exported or linked later without querying the archives
// again. Cells are stored with their kinds; a loaded table equals the saved
// one.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/biofetch/pkg/types"
)

// DefaultPath is the database file used when the config leaves it empty.
const DefaultPath = "biofetch.db"

// ErrNotFound is returned when no snapshot matches an ID.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot describes a stored table.
type Snapshot struct {
	ID        string
	Source    string // geo, sra, ena, or merge
	Query     string // accession or search term the table came from
	Notice    string
	Rows      int
	Columns   []string
	CreatedAt time.Time
}

// Store manages the snapshot database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at cfg.Path.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores t under a new snapshot ID and returns it. Source, Query and
// Notice are taken from meta; the remaining fields are derived.
func (s *Store) Save(ctx context.Context, meta Snapshot, t *types.Table) (string, error) {
	id := uuid.NewString()
	created := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, query, notice, row_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, meta.Source, meta.Query, meta.Notice, t.Len(), created,
	); err != nil {
		return "", fmt.Errorf("inserting snapshot: %w", err)
	}

	for pos, name := range t.Columns() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_columns (snapshot_id, position, name) VALUES (?, ?, ?)`,
			id, pos, name,
		); err != nil {
			return "", fmt.Errorf("inserting column %s: %w", name, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_cells (snapshot_id, row_index, col_index, kind, str_value, int_value, real_value)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing cell insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			var (
				str  sql.NullString
				ival sql.NullInt64
				fval sql.NullFloat64
			)
			switch v.Kind() {
			case types.KindString:
				str.String, str.Valid = v.Str()
			case types.KindInt:
				ival.Int64, ival.Valid = v.Int64()
			case types.KindFloat:
				fval.Float64, fval.Valid = v.Float64()
			}
			if _, err := stmt.ExecContext(ctx, id, i, j, v.Kind().String(), str, ival, fval); err != nil {
				return "", fmt.Errorf("inserting cell (%d, %d): %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing snapshot: %w", err)
	}
	return id, nil
}

// Load returns the snapshot named by id and its table. id may be a unique
// prefix of a snapshot ID.
func (s *Store) Load(ctx context.Context, id string) (Snapshot, *types.Table, error) {
	full, err := s.resolve(ctx, id)
	if err != nil {
		return Snapshot{}, nil, err
	}
	snap, err := s.snapshot(ctx, full)
	if err != nil {
		return Snapshot{}, nil, err
	}

	rows := make([]types.Row, snap.Rows)
	for i := range rows {
		rows[i] = make(types.Row, len(snap.Columns))
	}

	cur, err := s.db.QueryContext(ctx,
		`SELECT row_index, col_index, kind, str_value, int_value, real_value
		 FROM snapshot_cells WHERE snapshot_id = ? ORDER BY row_index, col_index`, full)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("querying cells: %w", err)
	}
	defer cur.Close()

	for cur.Next() {
		var (
			i, j int
			kind string
			str  sql.NullString
			ival sql.NullInt64
			fval sql.NullFloat64
		)
		if err := cur.Scan(&i, &j, &kind, &str, &ival, &fval); err != nil {
			return Snapshot{}, nil, fmt.Errorf("scanning cell: %w", err)
		}
		if i >= len(rows) || j >= len(snap.Columns) {
			return Snapshot{}, nil, fmt.Errorf("snapshot %s: cell (%d, %d) out of range", full, i, j)
		}
		k, err := types.ParseKind(kind)
		if err != nil {
			return Snapshot{}, nil, fmt.Errorf("snapshot %s: %w", full, err)
		}
		switch k {
		case types.KindString:
			rows[i][j] = types.String(str.String)
		case types.KindInt:
			rows[i][j] = types.Int(ival.Int64)
		case types.KindFloat:
			rows[i][j] = types.Float(fval.Float64)
		default:
			rows[i][j] = types.Null()
		}
	}
	if err := cur.Err(); err != nil {
		return Snapshot{}, nil, fmt.Errorf("iterating cells: %w", err)
	}

	t, err := types.NewTable(snap.Columns, rows)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("rebuilding snapshot %s: %w", full, err)
	}
	return snap, t, nil
}

// List returns all snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM snapshots ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}

	out := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := s.snapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// Delete removes the snapshot named by id (or a unique prefix of it).
func (s *Store) Delete(ctx context.Context, id string) error {
	full, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, full); err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", full, err)
	}
	return nil
}

// resolve expands a unique ID prefix to the full snapshot ID.
func (s *Store) resolve(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("empty snapshot id: %w", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM snapshots WHERE substr(id, 1, length(?)) = ? LIMIT 2`, id, id)
	if err != nil {
		return "", fmt.Errorf("resolving snapshot id: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return "", fmt.Errorf("scanning snapshot id: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolving snapshot id: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s: %w", id, ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("snapshot id %q is ambiguous", id)
}

func (s *Store) snapshot(ctx context.Context, id string) (Snapshot, error) {
	var (
		snap         Snapshot
		query, note  sql.NullString
		createdAtStr string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, query, notice, row_count, created_at FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.Source, &query, &note, &snap.Rows, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot %s: %w", id, err)
	}
	snap.Query, snap.Notice = query.String, note.String
	if t, err := time.Parse(time.RFC3339Nano, createdAtStr); err == nil {
		snap.CreatedAt = t
	}

	cols, err := s.db.QueryContext(ctx,
		`SELECT name FROM snapshot_columns WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading columns of %s: %w", id, err)
	}
	defer cols.Close()
	for cols.Next() {
		var name string
		if err := cols.Scan(&name); err != nil {
			return Snapshot{}, fmt.Errorf("scanning column: %w", err)
		}
		snap.Columns = append(snap.Columns, name)
	}
	return snap, cols.Err()
}
