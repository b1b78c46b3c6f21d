package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := Open(Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "trifle.db")})
	require.NoError(t, err)
	mem, err := Open(Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sq.Close()
		mem.Close()
	})
	return map[string]Store{"memory": mem, "sqlite": sq}
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			recs, err := s.List(ctx, "notes")
			require.NoError(t, err)
			assert.Empty(t, recs)

			require.NoError(t, s.Put(ctx, "notes", Record{ID: "b", Fields: map[string]string{"title": "second"}}))
			require.NoError(t, s.Put(ctx, "notes", Record{ID: "a", Fields: map[string]string{"title": "first"}}))
			require.NoError(t, s.Put(ctx, "other", Record{ID: "a", Fields: map[string]string{"title": "elsewhere"}}))

			recs, err = s.List(ctx, "notes")
			require.NoError(t, err)
			require.Len(t, recs, 2)
			assert.Equal(t, "a", recs[0].ID)
			assert.Equal(t, "b", recs[1].ID)

			require.NoError(t, s.Put(ctx, "notes", Record{ID: "a", Fields: map[string]string{"title": "updated"}}))
			got, err := s.Get(ctx, "notes", "a")
			require.NoError(t, err)
			assert.Equal(t, "updated", got.Fields["title"])

			other, err := s.Get(ctx, "other", "a")
			require.NoError(t, err)
			assert.Equal(t, "elsewhere", other.Fields["title"])

			require.NoError(t, s.Delete(ctx, "notes", "a"))
			_, err = s.Get(ctx, "notes", "a")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "notes", "a"), ErrNotFound)
		})
	}
}

func TestStore_RejectsEmptyKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Put(ctx, "", Record{ID: "a"}))
			assert.Error(t, s.Put(ctx, "notes", Record{ID: " "}))
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	fields := map[string]string{"k": "v"}
	require.NoError(t, s.Put(ctx, "c", Record{ID: "1", Fields: fields}))
	fields["k"] = "changed"

	got, err := s.Get(ctx, "c", "1")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Fields["k"])

	got.Fields["k"] = "mutated"
	again, _ := s.Get(ctx, "c", "1")
	assert.Equal(t, "v", again.Fields["k"])
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "postgres"})
	assert.Error(t, err)
}
