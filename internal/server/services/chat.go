package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/logging"
	"github.com/themisai/themis/internal/server/models"
	"github.com/themisai/themis/internal/server/repositories/repomanager"
	"github.com/themisai/themis/internal/server/responder"
)

// UntitledTitle replaces blank titles on rename.
const UntitledTitle = "Untitled"

// ChatService manages sessions and messages. Every call is scoped to the
// calling person; sessions of other people look exactly like missing ones.
type ChatService struct {
	repomanager repomanager.RepositoryManager
	responder   responder.Responder
	log         logging.Logger
	now         func() time.Time
}

func NewChatService(m repomanager.RepositoryManager, r responder.Responder, log logging.Logger) *ChatService {
	return &ChatService{repomanager: m, responder: r, log: log, now: time.Now}
}

func (s *ChatService) CreateSession(ctx context.Context, personID string, title *string) (*models.Session, error) {
	sess, err := s.repomanager.Repositories().Sessions.Create(ctx, &models.Session{
		PersonID: personID,
		Title:    title,
		Status:   models.SessionActive,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	return sess, nil
}

// ListSessions returns the person's sessions, newest first. A non-empty
// status keeps only sessions in that state.
func (s *ChatService) ListSessions(ctx context.Context, personID string, status models.SessionStatus, limit, offset int) ([]models.Session, error) {
	if status != "" && !status.Valid() {
		return nil, validation("unknown session status")
	}
	list, err := s.repomanager.Repositories().Sessions.ListByPerson(ctx, personID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return list, nil
}

// GetSession returns the session if personID owns it.
func (s *ChatService) GetSession(ctx context.Context, personID, id string) (*models.Session, error) {
	sess, err := s.repomanager.Repositories().Sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	if sess.PersonID != personID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// RenameSession trims title; a blank title becomes "Untitled". A nil title
// leaves the session unchanged.
func (s *ChatService) RenameSession(ctx context.Context, personID, id string, title *string) (*models.Session, error) {
	sess, err := s.GetSession(ctx, personID, id)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return sess, nil
	}

	t := strings.TrimSpace(*title)
	if t == "" {
		t = UntitledTitle
	}
	updated, err := s.repomanager.Repositories().Sessions.UpdateTitle(ctx, id, t)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error renaming session: %w", err)
	}
	return updated, nil
}

func (s *ChatService) DeleteSession(ctx context.Context, personID, id string) error {
	if _, err := s.GetSession(ctx, personID, id); err != nil {
		return err
	}
	if err := s.repomanager.Repositories().Sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// ListMessages returns the session's messages oldest first.
func (s *ChatService) ListMessages(ctx context.Context, personID, sessionID string, limit, offset int) ([]models.Message, error) {
	if _, err := s.GetSession(ctx, personID, sessionID); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Repositories().Messages.ListBySession(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	return list, nil
}

// CreateMessageInput is a user turn. Captions pair with DocumentIDs by index.
type CreateMessageInput struct {
	SessionID   string
	Content     string
	DocumentIDs []string
	Captions    []*string
}

// CreateMessage stores the user's message with its attachments, asks the
// responder for an answer and stores that as a bot message, which is
// returned. Document ids that are unknown or belong to someone else are
// skipped. Content may be blank only when documents are attached.
func (s *ChatService) CreateMessage(ctx context.Context, person *models.Person, in CreateMessageInput) (*models.Message, error) {
	if _, err := s.GetSession(ctx, person.ID, in.SessionID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" && len(in.DocumentIDs) == 0 {
		return nil, validation("content must not be empty")
	}

	var docs []models.Document
	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		userMsg, err := r.Messages.Create(ctx, &models.Message{
			SessionID: in.SessionID,
			Role:      models.RoleUser,
			Content:   in.Content,
		})
		if err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(in.DocumentIDs))
		for i, id := range in.DocumentIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			doc, err := r.Documents.Get(ctx, id)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					continue
				}
				return err
			}
			if doc.OwnerID != "" && doc.OwnerID != person.ID {
				continue
			}

			var caption *string
			if i < len(in.Captions) {
				caption = in.Captions[i]
			}
			if _, err := r.Messages.AddAttachment(ctx, &models.Attachment{
				MessageID:  userMsg.ID,
				DocumentID: doc.ID,
				Caption:    caption,
			}); err != nil {
				return err
			}
			docs = append(docs, *doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error storing message: %w", err)
	}

	start := s.now()
	answer, err := s.responder.Respond(ctx, responder.Prompt{
		Question:  in.Content,
		Person:    person,
		Documents: docs,
	})
	if err != nil {
		s.log.Error(ctx, "responder failed", "session_id", in.SessionID, "err", err)
		return nil, ErrResponderFailed
	}
	latency := int(s.now().Sub(start).Milliseconds())

	bot, err := s.repomanager.Repositories().Messages.Create(ctx, &models.Message{
		SessionID:        in.SessionID,
		Role:             models.RoleBot,
		Content:          answer.Content,
		ReasoningContext: answer.ReasoningContext,
		LatencyMS:        &latency,
	})
	if err != nil {
		return nil, fmt.Errorf("error storing answer: %w", err)
	}
	return bot, nil
}
