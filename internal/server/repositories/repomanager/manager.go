// Package repomanager bundles the backend repositories and hands them out
// either bound to the connection pool or to a single transaction.
package repomanager

import (
	"context"

	"github.com/themisai/themis/internal/server/repositories/documents"
	"github.com/themisai/themis/internal/server/repositories/messages"
	"github.com/themisai/themis/internal/server/repositories/persons"
	"github.com/themisai/themis/internal/server/repositories/sessions"
)

// Repositories is one consistent set of repositories.
type Repositories struct {
	Persons   persons.Repository
	Sessions  sessions.Repository
	Messages  messages.Repository
	Documents documents.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Repositories returns repositories that run each call on its own.
	Repositories() Repositories
	// WithinTx runs fn with repositories bound to one transaction. fn's
	// error aborts the transaction and is returned as is.
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Close() error
}
