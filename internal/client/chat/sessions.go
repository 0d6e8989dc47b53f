package chat

import (
	"context"
	"strings"

	"github.com/themisai/themis/internal/client/api"
	"github.com/themisai/themis/internal/client/models"
)

// SelectSession makes id current and loads its transcript. A load that is
// overtaken by another selection is discarded. A session that vanished on the
// server makes the engine refresh the list and fall back to its first entry.
func (e *Engine) SelectSession(ctx context.Context, id string) error {
	e.mu.Lock()
	if !e.hasSessionLocked(id) {
		e.mu.Unlock()
		return ErrNoSuchSession
	}
	gen := e.bumpLocked()
	loadCtx, cancel := context.WithCancel(ctx)
	e.cancelLoad = cancel
	e.currentID = id
	e.mu.Unlock()

	msgs, err := e.api.ListMessages(loadCtx, id)

	e.mu.Lock()
	stale := e.gen != gen
	if !stale {
		e.cancelLoad = nil
	}
	e.mu.Unlock()
	cancel()

	if stale {
		e.log.Debug(ctx, "discarding stale transcript", "session_id", id)
		return nil
	}

	if err != nil {
		switch {
		case api.IsNotFound(err):
			e.log.Info(ctx, "session vanished, refreshing list", "session_id", id)
			return e.recoverMissing(ctx, gen)
		case api.IsUnauthorized(err):
			e.unauthorized(ctx)
			return err
		default:
			// The previous transcript stays on screen.
			e.log.Warn(ctx, "failed to load messages", "session_id", id, "err", err)
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen == gen {
		e.transcript = transcriptFor(msgs)
	}
	return nil
}

// recoverMissing refetches the list after the current session disappeared.
func (e *Engine) recoverMissing(ctx context.Context, gen uint64) error {
	list, err := e.api.ListSessions(ctx)
	if err != nil {
		return e.fail(ctx, "failed to refresh sessions", err)
	}

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		return nil
	}
	e.sessions = list
	if len(list) == 0 {
		e.bumpLocked()
		e.currentID = ""
		e.transcript = nil
		e.mu.Unlock()
		return e.createSeeded(ctx)
	}
	e.mu.Unlock()

	return e.SelectSession(ctx, list[0].ID)
}

// NewChat creates a session, puts it first and makes it current with a
// greeting. Nothing is fetched for the new transcript.
func (e *Engine) NewChat(ctx context.Context) error {
	return e.createSeeded(ctx)
}

func (e *Engine) createSeeded(ctx context.Context) error {
	title := DefaultTitle
	s, err := e.api.CreateSession(ctx, &title)
	if err != nil {
		return e.fail(ctx, "failed to create session", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions = append([]models.Session{s}, e.sessions...)
	e.bumpLocked()
	e.currentID = s.ID
	e.transcript = []Message{welcomeMessage()}
	return nil
}

// DeleteSession removes a session. When it was current the next remaining
// session is selected; when none remain a replacement is created before
// DeleteSession returns.
func (e *Engine) DeleteSession(ctx context.Context, id string) error {
	if err := e.api.DeleteSession(ctx, id); err != nil {
		return e.fail(ctx, "failed to delete session", err)
	}

	e.mu.Lock()
	next := make([]models.Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		if s.ID != id {
			next = append(next, s)
		}
	}
	e.sessions = next
	if e.renamingID == id {
		e.renamingID = ""
	}

	wasCurrent := e.currentID == id
	if wasCurrent {
		e.bumpLocked()
		e.currentID = ""
		e.transcript = nil
	}
	e.mu.Unlock()

	if len(next) == 0 {
		return e.createSeeded(ctx)
	}
	if wasCurrent {
		return e.SelectSession(ctx, next[0].ID)
	}
	return nil
}

func (e *Engine) BeginRename(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasSessionLocked(id) {
		return ErrNoSuchSession
	}
	e.renamingID = id
	return nil
}

func (e *Engine) CancelRename() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renamingID = ""
}

// RenameSession sends the trimmed draft, or "Untitled" when it is blank, and
// applies the title the server confirms. The rename is closed either way.
func (e *Engine) RenameSession(ctx context.Context, id, draft string) error {
	title := strings.TrimSpace(draft)
	if title == "" {
		title = UntitledTitle
	}

	updated, err := e.api.RenameSession(ctx, id, title)

	e.mu.Lock()
	if e.renamingID == id {
		e.renamingID = ""
	}
	e.mu.Unlock()

	if err != nil {
		return e.fail(ctx, "failed to rename session", err)
	}

	confirmed := title
	if updated.Title != nil && *updated.Title != "" {
		confirmed = *updated.Title
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.sessions {
		if e.sessions[i].ID == id {
			t := confirmed
			e.sessions[i].Title = &t
			if !updated.UpdatedAt.IsZero() {
				e.sessions[i].UpdatedAt = updated.UpdatedAt
			}
		}
	}
	return nil
}

func (e *Engine) hasSessionLocked(id string) bool {
	for _, s := range e.sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}
