// Package chat keeps the client's view of sessions and the current transcript
// in step with the server.
//
// The Engine applies local changes first and then replaces them with what the
// server reports. Every exported method is safe for concurrent use; network
// calls are made without holding the engine lock.
package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/themisai/themis/internal/client/api"
	"github.com/themisai/themis/internal/client/authstore"
	"github.com/themisai/themis/internal/client/models"
	"github.com/themisai/themis/internal/logging"
)

const (
	DefaultTitle   = "Percakapan baru"
	UntitledTitle  = "Untitled"
	WelcomeText    = "Halo, saya ThemisAI. Apa pertanyaan hukum Anda?"
	SendFailedText = "Maaf, pesan gagal dikirim."

	// LandingPath is where the engine navigates after losing authorization.
	LandingPath = "/"
)

var (
	ErrBusy          = errors.New("a message is already being sent")
	ErrEmptyMessage  = errors.New("message is empty")
	ErrNoSuchSession = errors.New("no such session")
	ErrNoSuchFile    = errors.New("no such pending file")
)

// API is the part of api.Client the engine uses.
type API interface {
	ListSessions(ctx context.Context) ([]models.Session, error)
	CreateSession(ctx context.Context, title *string) (models.Session, error)
	RenameSession(ctx context.Context, id, title string) (models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	ListMessages(ctx context.Context, sessionID string) ([]models.Message, error)
	SendMessage(ctx context.Context, sessionID, content string, documentIDs []string) (models.Message, error)
	UploadDocuments(ctx context.Context, files []api.Upload) (models.UploadResult, error)
}

type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// TranscriptState tracks a send in progress.
type TranscriptState int

const (
	Idle TranscriptState = iota
	Sending
	Reconciling
)

func (s TranscriptState) String() string {
	switch s {
	case Sending:
		return "sending"
	case Reconciling:
		return "reconciling"
	default:
		return "idle"
	}
}

type PendingFile struct {
	Name string
	Size int64
}

// Snapshot is a copy of the engine state.
type Snapshot struct {
	Sessions     []models.Session
	CurrentID    string
	Transcript   []Message
	Pending      []PendingFile
	State        TranscriptState
	RenamingID   string
	Bootstrapped bool
}

// Current returns the current session, if any.
func (s Snapshot) Current() (models.Session, bool) {
	for _, sess := range s.Sessions {
		if sess.ID == s.CurrentID {
			return sess, true
		}
	}
	return models.Session{}, false
}

type Engine struct {
	api   API
	store authstore.Store
	nav   Navigator
	log   logging.Logger

	mu           sync.Mutex
	sessions     []models.Session
	currentID    string
	transcript   []Message
	pending      []api.Upload
	state        TranscriptState
	renamingID   string
	bootstrapped bool

	// gen changes whenever the current transcript is replaced by a different
	// source; results captured under an older gen are dropped.
	gen        uint64
	cancelLoad context.CancelFunc
}

func New(client API, store authstore.Store, nav Navigator, log logging.Logger) *Engine {
	return &Engine{api: client, store: store, nav: nav, log: log}
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Sessions:     append([]models.Session(nil), e.sessions...),
		CurrentID:    e.currentID,
		Transcript:   append([]Message(nil), e.transcript...),
		State:        e.state,
		RenamingID:   e.renamingID,
		Bootstrapped: e.bootstrapped,
	}
	for _, p := range e.pending {
		snap.Pending = append(snap.Pending, PendingFile{Name: p.Name, Size: p.Size})
	}
	return snap
}

// Bootstrap loads the session list once. With no sessions on the server a
// new one is created and greeted; otherwise the first session is selected.
// Later calls are no-ops until the engine is reset by a logout.
func (e *Engine) Bootstrap(ctx context.Context) error {
	e.mu.Lock()
	if e.bootstrapped {
		e.mu.Unlock()
		return nil
	}
	e.bootstrapped = true
	e.mu.Unlock()

	list, err := e.api.ListSessions(ctx)
	if err != nil {
		return e.fail(ctx, "failed to list sessions", err)
	}

	if len(list) == 0 {
		return e.createSeeded(ctx)
	}

	e.mu.Lock()
	e.sessions = list
	e.mu.Unlock()

	return e.SelectSession(ctx, list[0].ID)
}

// Logout forgets the credentials and all session state.
func (e *Engine) Logout(ctx context.Context) error {
	err := e.store.Clear(ctx)
	e.reset()
	e.nav.Navigate(LandingPath)
	return err
}

// fail logs err, or performs the unauthorized teardown when err says the
// token is no longer accepted. It returns err.
func (e *Engine) fail(ctx context.Context, msg string, err error) error {
	if api.IsUnauthorized(err) {
		e.unauthorized(ctx)
		return err
	}
	e.log.Warn(ctx, msg, "err", err)
	return err
}

func (e *Engine) unauthorized(ctx context.Context) {
	if err := e.store.Clear(ctx); err != nil {
		e.log.Error(ctx, "failed to clear auth store", "err", err)
	}
	e.reset()
	e.nav.Navigate(LandingPath)
}

func (e *Engine) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.bumpLocked()
	e.sessions = nil
	e.currentID = ""
	e.transcript = nil
	e.pending = nil
	e.state = Idle
	e.renamingID = ""
	e.bootstrapped = false
}

// bumpLocked invalidates in-flight transcript loads and returns the new gen.
func (e *Engine) bumpLocked() uint64 {
	e.gen++
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
	return e.gen
}
