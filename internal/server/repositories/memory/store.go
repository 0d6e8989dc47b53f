// Package memory keeps every backend table in process memory. It backs the
// server when no database DSN is configured and in end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/server/models"
)

// Store holds the tables. The repositories it vends share one mutex.
type Store struct {
	mu sync.RWMutex

	persons     map[string]*models.Person
	emails      map[string]string
	sessions    map[string]*models.Session
	messages    map[string]*models.Message
	attachments map[string][]models.Attachment
	documents   map[string]*models.Document

	// seq orders rows that share a timestamp.
	seq     int64
	ordinal map[string]int64
}

func NewStore() *Store {
	return &Store{
		persons:     make(map[string]*models.Person),
		emails:      make(map[string]string),
		sessions:    make(map[string]*models.Session),
		messages:    make(map[string]*models.Message),
		attachments: make(map[string][]models.Attachment),
		documents:   make(map[string]*models.Document),
		ordinal:     make(map[string]int64),
	}
}

func (s *Store) nextLocked(id string) {
	s.seq++
	s.ordinal[id] = s.seq
}

// Persons

type PersonRepository struct{ s *Store }

func (s *Store) Persons() *PersonRepository { return &PersonRepository{s: s} }

func (r *PersonRepository) Create(ctx context.Context, p *models.Person) (*models.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.emails[p.Email]; ok && p.Email != "" {
		return nil, common.ErrorAlreadyExists
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Address.Empty() {
		p.Address = nil
	}

	cp := *p
	r.s.persons[p.ID] = &cp
	if p.Email != "" {
		r.s.emails[p.Email] = p.ID
	}
	return p, nil
}

func (r *PersonRepository) GetByEmail(ctx context.Context, email string) (*models.Person, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r.s.persons[id]
	return &cp, nil
}

func (r *PersonRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.persons[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.PasswordHash = hash
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Sessions

type SessionRepository struct{ s *Store }

func (s *Store) Sessions() *SessionRepository { return &SessionRepository{s: s} }

func (r *SessionRepository) Create(ctx context.Context, sess *models.Session) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.Status == "" {
		sess.Status = models.SessionActive
	}
	now := time.Now().UTC()
	sess.CreatedAt, sess.UpdatedAt = now, now

	cp := *sess
	r.s.sessions[sess.ID] = &cp
	r.s.nextLocked(sess.ID)
	return sess, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *sess
	return &cp, nil
}

func (r *SessionRepository) ListByPerson(ctx context.Context, personID string, status models.SessionStatus, limit, offset int) ([]models.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]models.Session, 0)
	for _, sess := range r.s.sessions {
		if sess.PersonID == personID && (status == "" || sess.Status == status) {
			all = append(all, *sess)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return r.s.ordinal[all[i].ID] > r.s.ordinal[all[j].ID]
	})
	return page(all, limit, offset), nil
}

func (r *SessionRepository) UpdateTitle(ctx context.Context, id, title string) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	sess.Title = &title
	sess.UpdatedAt = time.Now().UTC()
	cp := *sess
	return &cp, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.sessions, id)
	for mid, m := range r.s.messages {
		if m.SessionID == id {
			delete(r.s.messages, mid)
			delete(r.s.attachments, mid)
		}
	}
	return nil
}

// Messages

type MessageRepository struct{ s *Store }

func (s *Store) Messages() *MessageRepository { return &MessageRepository{s: s} }

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}
	m.Attachments = []models.Attachment{}

	cp := *m
	cp.Attachments = nil
	r.s.messages[m.ID] = &cp
	r.s.nextLocked(m.ID)
	return m, nil
}

func (r *MessageRepository) AddAttachment(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.messages[a.MessageID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.documents[a.DocumentID]; !ok {
		return nil, common.ErrorNotFound
	}
	for _, existing := range r.s.attachments[a.MessageID] {
		if existing.DocumentID == a.DocumentID {
			return nil, common.ErrorAlreadyExists
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	cp := *a
	cp.Document = nil
	r.s.attachments[a.MessageID] = append(r.s.attachments[a.MessageID], cp)
	return a, nil
}

func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]models.Message, 0)
	for _, m := range r.s.messages {
		if m.SessionID == sessionID {
			all = append(all, *m)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return r.s.ordinal[all[i].ID] < r.s.ordinal[all[j].ID]
	})
	all = page(all, limit, offset)

	for i := range all {
		atts := make([]models.Attachment, 0, len(r.s.attachments[all[i].ID]))
		for _, a := range r.s.attachments[all[i].ID] {
			if d, ok := r.s.documents[a.DocumentID]; ok {
				dc := *d
				a.Document = &dc
			}
			atts = append(atts, a)
		}
		all[i].Attachments = atts
	}
	return all, nil
}

// Documents

type DocumentRepository struct{ s *Store }

func (s *Store) Documents() *DocumentRepository { return &DocumentRepository{s: s} }

func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.DocType == "" {
		d.DocType = models.DocOther
	}
	d.UploadedAt = time.Now().UTC()

	cp := *d
	r.s.documents[d.ID] = &cp
	return d, nil
}

func (r *DocumentRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.documents[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *d
	return &cp, nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return all[:0]
	}
	all = all[offset:]
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
