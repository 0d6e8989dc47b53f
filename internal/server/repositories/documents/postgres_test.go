package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	title := "putusan.txt"

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+document_store`).
		WithArgs(sqlmock.AnyArg(), "p-1", "uploads/putusan.txt", "other", title, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	d, err := repo.Create(context.Background(), &models.Document{OwnerID: "p-1", Path: "uploads/putusan.txt", Title: &title})
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, models.DocOther, d.DocType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO document_store`).WillReturnError(errors.New("down"))

	_, err := repo.Create(context.Background(), &models.Document{Path: "x"})
	assert.ErrorContains(t, err, "db error: down")
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	cols := []string{"id", "owner_id", "path", "doc_type", "title", "uploaded_at", "extracted_text"}

	mock.ExpectQuery(`FROM document_store WHERE id = \$1`).
		WithArgs("d-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("d-1", "p-1", "uploads/a.txt", "statute", nil, now, "Pasal 1"))
	mock.ExpectQuery(`FROM document_store WHERE id = \$1`).
		WithArgs("d-2").
		WillReturnError(sql.ErrNoRows)

	d, err := repo.Get(context.Background(), "d-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", d.OwnerID)
	assert.Equal(t, models.DocStatute, d.DocType)
	assert.Nil(t, d.Title)
	require.NotNil(t, d.ExtractedText)
	assert.Equal(t, "Pasal 1", *d.ExtractedText)

	_, err = repo.Get(context.Background(), "d-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
