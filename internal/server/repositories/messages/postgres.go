// Package messages provides storage for chat messages and attachments.
package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/dbx"
	"github.com/themisai/themis/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO chat_message (id, session_id, role, content, sent_at, reasoning_context, latency_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `
	if _, err := r.db.ExecContext(ctx, query,
		m.ID, m.SessionID, string(m.Role), m.Content, m.SentAt, m.ReasoningContext, m.LatencyMS); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if m.Attachments == nil {
		m.Attachments = []models.Attachment{}
	}
	return m, nil
}

func (r *PostgresRepository) AddAttachment(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	query :=
		`INSERT INTO chat_attachment (id, message_id, document_id, caption, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.MessageID, a.DocumentID, a.Caption, a.CreatedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// ListBySession loads the page of messages, then every attachment of the
// session in one query, and stitches them together.
func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]models.Message, error) {
	query := `SELECT id, session_id, role, content, sent_at, reasoning_context, latency_ms
		FROM chat_message
		WHERE session_id = $1
		ORDER BY sent_at ASC, id ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	result := make([]models.Message, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			m       models.Message
			role    string
			latency *int64
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &m.SentAt, &m.ReasoningContext, &latency); err != nil {
			return nil, err
		}
		m.Role = models.Role(role)
		if latency != nil {
			ms := int(*latency)
			m.LatencyMS = &ms
		}
		m.Attachments = []models.Attachment{}
		index[m.ID] = len(result)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	if err := r.loadAttachments(ctx, sessionID, result, index); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) loadAttachments(ctx context.Context, sessionID string, msgs []models.Message, index map[string]int) error {
	query := `SELECT a.id, a.message_id, a.document_id, a.caption, a.created_at,
		       d.id, d.path, d.doc_type, d.title, d.uploaded_at
		FROM chat_attachment a
		JOIN chat_message m ON m.id = a.message_id
		JOIN document_store d ON d.id = a.document_id
		WHERE m.session_id = $1
		ORDER BY a.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a       models.Attachment
			d       models.Document
			docType string
		)
		if err := rows.Scan(&a.ID, &a.MessageID, &a.DocumentID, &a.Caption, &a.CreatedAt,
			&d.ID, &d.Path, &docType, &d.Title, &d.UploadedAt); err != nil {
			return err
		}
		i, ok := index[a.MessageID]
		if !ok {
			// outside the requested page
			continue
		}
		d.DocType = models.DocType(docType)
		a.Document = &d
		msgs[i].Attachments = append(msgs[i].Attachments, a)
	}
	return rows.Err()
}
