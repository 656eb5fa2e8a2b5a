package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/budget-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_GetMissingKey(t *testing.T) {
	s := newStore(t)

	_, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Set(ctx, "app_settings", []byte(`{"monthStartDay":15}`)))

	got, ok, err := s.Get(ctx, "app_settings")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"monthStartDay":15}`, string(got))
}

func TestStore_SetReplacesExistingValue(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Set(ctx, "k", []byte("one")))
	require.NoError(t, s.Set(ctx, "k", []byte("two")))

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", string(got))
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is fine
	require.NoError(t, s.Delete(ctx, "k"))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "budget.db")

	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "payment_logs", []byte(`[]`)))
	require.NoError(t, s.Close())

	s, err = sqlite.New(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get(ctx, "payment_logs")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(got))
}
