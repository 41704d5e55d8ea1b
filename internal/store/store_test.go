// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biofetch/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "db", "biofetch.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func runTable(t *testing.T) *types.Table {
	t.Helper()
	tbl, err := types.NewTable(
		[]string{"Run", "SampleName", "spots", "size_MB", "empty"},
		[]types.Row{
			{types.String("SRR1"), types.String("GSM1"), types.Int(math.MaxInt64), types.Float(12.25), types.String("")},
			{types.String("SRR2"), types.Null(), types.Null(), types.Float(-0.5), types.Null()},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tbl := runTable(t)

	id, err := s.Save(ctx, Snapshot{Source: "sra", Query: "PRJNA730495"}, tbl)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	snap, got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(got), "loaded table differs: %v", got)
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, "sra", snap.Source)
	assert.Equal(t, "PRJNA730495", snap.Query)
	assert.Equal(t, 2, snap.Rows)
	assert.Equal(t, tbl.Columns(), snap.Columns)
	assert.False(t, snap.CreatedAt.IsZero())

	// Empty string and null stay distinct.
	empty, _ := got.Value(0, "empty")
	assert.Equal(t, types.KindString, empty.Kind())
	null, _ := got.Value(1, "empty")
	assert.True(t, null.IsNull())
}

func TestSaveEmptyTableKeepsSchema(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tbl, err := types.EmptyTable([]string{"GSE", "GSM", "Run"})
	require.NoError(t, err)

	id, err := s.Save(ctx, Snapshot{Source: "merge", Notice: "no sample key in left table"}, tbl)
	require.NoError(t, err)

	snap, got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []string{"GSE", "GSM", "Run"}, got.Columns())
	assert.Equal(t, "no sample key in left table", snap.Notice)
}

func TestLoadByPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, err := s.Save(ctx, Snapshot{Source: "geo"}, runTable(t))
	require.NoError(t, err)

	snap, _, err := s.Load(ctx, id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, _, err := s.Load(context.Background(), "00000000")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = s.Load(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, Snapshot{Source: "geo", Query: "GSE1"}, runTable(t))
	require.NoError(t, err)
	second, err := s.Save(ctx, Snapshot{Source: "ena", Query: "ERR1"}, runTable(t))
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{first, second}, ids)
	assert.False(t, list[0].CreatedAt.Before(list[1].CreatedAt), "newest first")

	require.NoError(t, s.Delete(ctx, first))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second, list[0].ID)

	_, _, err = s.Load(ctx, first)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, first), ErrNotFound))

	// Cells of the deleted snapshot are gone with it.
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM snapshot_cells WHERE snapshot_id = ?`, first).Scan(&n))
	assert.Zero(t, n)
}

func TestReopenKeepsSnapshots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biofetch.db")
	s, err := Open(types.StoreConfig{Path: path})
	require.NoError(t, err)
	id, err := s.Save(context.Background(), Snapshot{Source: "sra"}, runTable(t))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(types.StoreConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()
	_, got, err := s.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biofetch.db")
	for range 2 {
		s, err := Open(types.StoreConfig{Path: path})
		require.NoError(t, err)

		var version int64
		require.NoError(t, s.db.QueryRow(`SELECT max(version_id) FROM goose_db_version`).Scan(&version))
		assert.Equal(t, int64(1), version)
		require.NoError(t, s.Close())
	}
}
