package chat

import (
	"context"
	"strings"

	"github.com/themisai/themis/internal/client/api"
	"github.com/themisai/themis/internal/client/models"
)

// AddPendingFile queues a file for the next Send.
func (e *Engine) AddPendingFile(u api.Upload) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, u)
}

// RemovePendingFile drops the i-th queued file.
func (e *Engine) RemovePendingFile(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.pending) {
		return ErrNoSuchFile
	}
	e.pending = append(e.pending[:i:i], e.pending[i+1:]...)
	return nil
}

func (e *Engine) PendingFiles() []PendingFile {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]PendingFile, 0, len(e.pending))
	for _, p := range e.pending {
		out = append(out, PendingFile{Name: p.Name, Size: p.Size})
	}
	return out
}

// Send posts text and the pending files to the current session, creating a
// session first when there is none.
//
// The user's entry is shown and the pending files are cleared before any
// request is made; transcript loads still in flight are discarded from then
// on. Files are uploaded before the message is submitted. Once the server has
// answered, the transcript is replaced by a fresh copy from the server. On
// failure an apology is appended and the optimistic entry is left as it is.
// When the session itself cannot be created nothing is shown and the pending
// files stay queued.
func (e *Engine) Send(ctx context.Context, text string) error {
	content := strings.TrimSpace(text)

	e.mu.Lock()
	if e.state != Idle {
		e.mu.Unlock()
		return ErrBusy
	}
	if content == "" && len(e.pending) == 0 {
		e.mu.Unlock()
		return ErrEmptyMessage
	}
	e.state = Sending
	sessionID := e.currentID
	e.mu.Unlock()

	if sessionID == "" {
		title := DefaultTitle
		s, err := e.api.CreateSession(ctx, &title)
		if err != nil {
			return e.sessionFailed(ctx, err)
		}
		e.mu.Lock()
		e.sessions = append([]models.Session{s}, e.sessions...)
		e.bumpLocked()
		e.currentID = s.ID
		sessionID = s.ID
		e.mu.Unlock()
	}

	e.mu.Lock()
	gen := e.bumpLocked()
	files := e.pending
	e.pending = nil
	optimistic := Message{Role: RoleUser, Text: content}
	for _, f := range files {
		optimistic.Attachments = append(optimistic.Attachments, AttachmentMeta{Name: f.Name, Size: f.Size})
	}
	e.transcript = append(e.transcript, optimistic)
	e.mu.Unlock()

	var documentIDs []string
	if len(files) > 0 {
		res, err := e.api.UploadDocuments(ctx, files)
		if err != nil {
			return e.sendFailed(ctx, gen, err)
		}
		documentIDs = res.DocumentIDs()
	}

	if _, err := e.api.SendMessage(ctx, sessionID, content, documentIDs); err != nil {
		return e.sendFailed(ctx, gen, err)
	}

	e.setState(Reconciling)

	msgs, err := e.api.ListMessages(ctx, sessionID)
	if err != nil {
		return e.sendFailed(ctx, gen, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen == gen && e.currentID == sessionID {
		e.transcript = fromAPI(msgs)
	}
	e.state = Idle
	return nil
}

// sessionFailed ends a send that never got a session to post to.
func (e *Engine) sessionFailed(ctx context.Context, err error) error {
	if api.IsUnauthorized(err) {
		e.unauthorized(ctx)
		return err
	}
	e.log.Warn(ctx, "failed to create session for message", "err", err)
	e.setState(Idle)
	return err
}

// sendFailed ends a send. The apology is only shown if the transcript it
// belongs to is still displayed.
func (e *Engine) sendFailed(ctx context.Context, gen uint64, err error) error {
	if api.IsUnauthorized(err) {
		e.unauthorized(ctx)
		return err
	}
	e.log.Warn(ctx, "failed to send message", "err", err)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen == gen {
		e.transcript = append(e.transcript, apologyMessage())
	}
	e.state = Idle
	return err
}

func (e *Engine) setState(s TranscriptState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = s
}
