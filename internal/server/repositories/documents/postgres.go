// Package documents provides storage for uploaded document metadata.
package documents

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.DocType == "" {
		d.DocType = models.DocOther
	}
	d.UploadedAt = time.Now().UTC()

	var owner *string
	if d.OwnerID != "" {
		owner = &d.OwnerID
	}

	query :=
		`INSERT INTO document_store (id, owner_id, path, doc_type, title, uploaded_at, extracted_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `
	if _, err := r.db.ExecContext(ctx, query,
		d.ID, owner, d.Path, string(d.DocType), d.Title, d.UploadedAt, d.ExtractedText); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	query :=
		`SELECT id, owner_id, path, doc_type, title, uploaded_at, extracted_text
		 FROM document_store WHERE id = $1
		 `

	var (
		d       models.Document
		owner   sql.NullString
		docType string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &owner, &d.Path, &docType, &d.Title, &d.UploadedAt, &d.ExtractedText)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	d.OwnerID = owner.String
	d.DocType = models.DocType(docType)
	return &d, nil
}
