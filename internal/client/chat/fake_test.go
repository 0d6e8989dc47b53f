package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/themisai/themis/internal/client/api"
	"github.com/themisai/themis/internal/client/models"
)

var (
	errUnauthorized = &api.Error{Kind: api.KindUnauthorized, Status: 401, Message: "Could not validate credentials"}
	errNotFound     = &api.Error{Kind: api.KindNotFound, Status: 404, Message: "session not found"}
	errServer       = &api.Error{Kind: api.KindUnknown, Status: 500, Message: "HTTP 500"}
)

// fakeAPI is an in-memory backend. Hooks run before the fake does its own
// work; a non-nil error from a hook is returned as the call's result.
type fakeAPI struct {
	mu        sync.Mutex
	sessions  []models.Session
	messages  map[string][]models.Message
	documents map[string]models.Document
	seq       int
	calls     []string

	renameTitles []string
	sentDocIDs   [][]string

	// normalize, when set, rewrites titles on rename.
	normalize func(string) string

	// frozenLists makes ListMessages take its result before running the
	// hook, like a response already on the wire.
	frozenLists bool

	onListSessions func() error
	onCreate       func() error
	onRename       func() error
	onDelete       func() error
	onListMessages func(ctx context.Context, id string) error
	onSend         func() error
	onUpload       func() error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{messages: map[string][]models.Message{}, documents: map[string]models.Document{}}
}

func (f *fakeAPI) id(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// seed adds a session with alternating user/bot messages, newest session first.
func (f *fakeAPI) seed(title string, texts ...string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("s")
	t := title
	f.sessions = append([]models.Session{{ID: id, Title: &t, Status: models.SessionActive}}, f.sessions...)
	for i, text := range texts {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleBot
		}
		f.messages[id] = append(f.messages[id], models.Message{ID: f.id("m"), SessionID: id, Role: role, Content: text})
	}
	return id
}

func (f *fakeAPI) ListSessions(context.Context) ([]models.Session, error) {
	f.record("ListSessions")
	if f.onListSessions != nil {
		if err := f.onListSessions(); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Session(nil), f.sessions...), nil
}

func (f *fakeAPI) CreateSession(_ context.Context, title *string) (models.Session, error) {
	f.record("CreateSession")
	if f.onCreate != nil {
		if err := f.onCreate(); err != nil {
			return models.Session{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.Session{ID: f.id("s"), Title: title, Status: models.SessionActive, CreatedAt: time.Now()}
	f.sessions = append([]models.Session{s}, f.sessions...)
	return s, nil
}

func (f *fakeAPI) RenameSession(_ context.Context, id, title string) (models.Session, error) {
	f.record("RenameSession")
	if f.onRename != nil {
		if err := f.onRename(); err != nil {
			return models.Session{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renameTitles = append(f.renameTitles, title)
	if f.normalize != nil {
		title = f.normalize(title)
	}
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			t := title
			f.sessions[i].Title = &t
			return f.sessions[i], nil
		}
	}
	return models.Session{}, errNotFound
}

func (f *fakeAPI) DeleteSession(_ context.Context, id string) error {
	f.record("DeleteSession")
	if f.onDelete != nil {
		if err := f.onDelete(); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			delete(f.messages, id)
			return nil
		}
	}
	return errNotFound
}

func (f *fakeAPI) ListMessages(ctx context.Context, id string) ([]models.Message, error) {
	f.record("ListMessages")
	if f.frozenLists {
		msgs, err := f.listMessages(id)
		if f.onListMessages != nil {
			if err := f.onListMessages(ctx, id); err != nil {
				return nil, err
			}
		}
		return msgs, err
	}
	if f.onListMessages != nil {
		if err := f.onListMessages(ctx, id); err != nil {
			return nil, err
		}
	}
	return f.listMessages(id)
}

func (f *fakeAPI) listMessages(id string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[id]; !ok && !f.hasSession(id) {
		return nil, errNotFound
	}
	return append([]models.Message(nil), f.messages[id]...), nil
}

func (f *fakeAPI) hasSession(id string) bool {
	for _, s := range f.sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (f *fakeAPI) SendMessage(_ context.Context, sessionID, content string, documentIDs []string) (models.Message, error) {
	f.record("SendMessage")
	if f.onSend != nil {
		if err := f.onSend(); err != nil {
			return models.Message{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentDocIDs = append(f.sentDocIDs, documentIDs)

	user := models.Message{ID: f.id("m"), SessionID: sessionID, Role: models.RoleUser, Content: content}
	for _, d := range documentIDs {
		doc := f.documents[d]
		user.Attachments = append(user.Attachments, models.Attachment{ID: f.id("a"), DocumentID: d, Document: &doc})
	}
	bot := models.Message{ID: f.id("m"), SessionID: sessionID, Role: models.RoleBot, Content: "jawaban: " + strings.ToLower(content)}
	f.messages[sessionID] = append(f.messages[sessionID], user, bot)
	return bot, nil
}

func (f *fakeAPI) UploadDocuments(_ context.Context, files []api.Upload) (models.UploadResult, error) {
	f.record("UploadDocuments")
	if f.onUpload != nil {
		if err := f.onUpload(); err != nil {
			return models.UploadResult{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var res models.UploadResult
	for _, u := range files {
		name := u.Name
		doc := models.Document{ID: f.id("d"), Path: "uploads/" + name, DocType: models.DocOther, Title: &name}
		f.documents[doc.ID] = doc
		res.Saved = append(res.Saved, models.SavedDocument{ID: doc.ID})
	}
	return res, nil
}

// serverTranscript is what a fresh load of id would show.
func (f *fakeAPI) serverTranscript(id string) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return transcriptFor(f.messages[id])
}

func (f *fakeAPI) serverSessions() []models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Session(nil), f.sessions...)
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}
