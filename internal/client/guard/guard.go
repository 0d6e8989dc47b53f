// Package guard decides whether a client route may be shown, given the
// stored credentials and, for private routes, the server's opinion of them.
package guard

import (
	"context"
	"encoding/json"

	"github.com/themisai/themis/internal/client/authstore"
	"github.com/themisai/themis/internal/logging"
)

type Status int

const (
	Checking Status = iota
	OK
	No       // must leave for the landing page
	Redirect // signed in, send to chat
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case No:
		return "no"
	case Redirect:
		return "redir"
	default:
		return "checking"
	}
}

type Mode int

const (
	Public Mode = iota
	Private
)

// Verifier confirms that the stored token is still accepted.
type Verifier interface {
	Me(ctx context.Context) (json.RawMessage, error)
}

type Guard struct {
	store    authstore.Store
	verifier Verifier
	log      logging.Logger
}

func New(store authstore.Store, verifier Verifier, log logging.Logger) *Guard {
	return &Guard{store: store, verifier: verifier, log: log}
}

// Check resolves a route's status. Public routes never touch the network.
// A private route with a token the server rejects clears the store.
func (g *Guard) Check(ctx context.Context, mode Mode) Status {
	_, hasToken, err := g.store.Token(ctx)
	if err != nil {
		g.log.Warn(ctx, "failed to read stored token", "err", err)
		hasToken = false
	}

	if mode == Public {
		if hasToken {
			return Redirect
		}
		return OK
	}

	if !hasToken {
		return No
	}

	if _, err := g.verifier.Me(ctx); err != nil {
		g.log.Info(ctx, "stored token rejected", "err", err)
		if err := g.store.Clear(ctx); err != nil {
			g.log.Error(ctx, "failed to clear auth store", "err", err)
		}
		return No
	}
	return OK
}
