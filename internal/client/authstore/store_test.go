package authstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themisai/themis/internal/client/localdb"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	repos, err := localdb.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	return map[string]Store{
		"sqlite": NewSQLiteStore(repos.Metadata),
		"memory": NewMemoryStore(),
	}
}

func TestStore_EmptyIsLoggedOut(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tok, ok, err := s.Token(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, tok)

			u, ok, err := s.User(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, u)
		})
	}
}

func TestStore_SaveAndClear(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			profile := json.RawMessage(`{"id":"1","email":"a@b.c"}`)

			require.NoError(t, s.Save(ctx, "tok", profile))

			tok, ok, err := s.Token(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "tok", tok)

			u, ok, err := s.User(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, string(profile), string(u))

			require.NoError(t, s.Clear(ctx))

			_, ok, err = s.Token(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
			_, ok, err = s.User(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_SaveWithoutUserKeepsProfile(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, "first", json.RawMessage(`{"id":"1"}`)))
			require.NoError(t, s.Save(ctx, "second", nil))

			tok, _, err := s.Token(ctx)
			require.NoError(t, err)
			assert.Equal(t, "second", tok)

			u, ok, err := s.User(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"id":"1"}`, string(u))
		})
	}
}
