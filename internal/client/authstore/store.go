// Package authstore keeps the client's auth session: a bearer token and the
// cached profile of the signed-in user. Absence of a token means logged out.
//
// A Store is created once at startup and injected into every component that
// reads or clears credentials.
package authstore

import (
	"context"
	"encoding/json"

	"github.com/themisai/themis/internal/client/repositories/metadata"
)

const (
	TokenKey = "themis:token"
	UserKey  = "themis:user"
)

type Store interface {
	// Save stores the token. A nil user leaves the cached profile untouched.
	Save(ctx context.Context, token string, user json.RawMessage) error
	Token(ctx context.Context) (string, bool, error)
	User(ctx context.Context) (json.RawMessage, bool, error)
	// Clear removes token and profile together.
	Clear(ctx context.Context) error
}

type SQLiteStore struct {
	repo metadata.Repository
}

func NewSQLiteStore(repo metadata.Repository) *SQLiteStore {
	return &SQLiteStore{repo: repo}
}

func (s *SQLiteStore) Save(ctx context.Context, token string, user json.RawMessage) error {
	if err := s.repo.Set(ctx, TokenKey, []byte(token)); err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return s.repo.Set(ctx, UserKey, user)
}

func (s *SQLiteStore) Token(ctx context.Context) (string, bool, error) {
	v, ok, err := s.repo.Get(ctx, TokenKey)
	if err != nil || !ok || len(v) == 0 {
		return "", false, err
	}
	return string(v), true, nil
}

func (s *SQLiteStore) User(ctx context.Context) (json.RawMessage, bool, error) {
	v, ok, err := s.repo.Get(ctx, UserKey)
	if err != nil || !ok {
		return nil, false, err
	}
	return json.RawMessage(v), true, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey, UserKey)
}
