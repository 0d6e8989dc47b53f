// Package sessions provides storage for chat sessions.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/dbx"
	"github.com/themisai/themis/internal/server/models"
)

const sessionColumns = `id, person_id, title, status, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*models.Session, error) {
	var (
		s      models.Session
		status string
	)
	if err := row.Scan(&s.ID, &s.PersonID, &s.Title, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Status = models.SessionStatus(status)
	return &s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = models.SessionActive
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now

	query :=
		`INSERT INTO chat_session (id, person_id, title, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `
	if _, err := r.db.ExecContext(ctx, query,
		s.ID, s.PersonID, s.Title, string(s.Status), s.CreatedAt, s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_session WHERE id = $1`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListByPerson(ctx context.Context, personID string, status models.SessionStatus, limit, offset int) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_session
		WHERE person_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	args := []any{personID, limit, offset}

	if status != "" {
		query = `SELECT ` + sessionColumns + ` FROM chat_session
		WHERE person_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
		args = []any{personID, string(status), limit, offset}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select sessions: %w", err)
	}
	defer rows.Close()

	result := make([]models.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateTitle(ctx context.Context, id, title string) (*models.Session, error) {
	query := `UPDATE chat_session SET title = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id, title, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// Delete relies on ON DELETE CASCADE for messages and attachments.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chat_session WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
