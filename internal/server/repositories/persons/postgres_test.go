package persons

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strp(s string) *string { return &s }

var personColumns = []string{
	"id", "full_name", "date_of_birth", "gender", "phone_number", "email", "password_hash",
	"is_active", "created_at", "updated_at",
	"id", "line1", "city", "state", "postal_code", "country",
}

func TestCreate_WithoutAddress(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+person\s*\(`).
		WithArgs(sqlmock.AnyArg(), "Alice", nil, "female", nil, "alice@example.com", "hash", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Person{FullName: "Alice", Gender: models.GenderFemale, Email: "alice@example.com", PasswordHash: "hash", IsActive: true}
	got, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Fatalf("id and timestamps must be assigned: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_WithAddress(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+person\s*\(`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+address\s*\(`).
		WithArgs(sqlmock.AnyArg(), "p-1", nil, "Jakarta", nil, nil, "ID").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Person{
		ID: "p-1", FullName: "Budi", Gender: models.GenderMale, Email: "budi@example.com",
		Address: &models.Address{City: strp("Jakarta"), Country: strp("ID")},
	}
	if _, err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+person`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Person{FullName: "A", Email: "a@example.com"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+person`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Person{FullName: "A", Email: "a@example.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_FoundWithAddress(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	dob := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows(personColumns).
		AddRow("p-1", "Alice", dob, "female", nil, "alice@example.com", "hash", true, now, now,
			"a-1", "Jl. Merdeka 1", "Jakarta", nil, "10110", "ID")
	mock.ExpectQuery(`(?s)^SELECT .* FROM person p LEFT JOIN address a ON a\.person_id = p\.id\s+WHERE p\.email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "p-1" || got.Gender != models.GenderFemale || got.PasswordHash != "hash" {
		t.Fatalf("unexpected person: %+v", got)
	}
	if got.DateOfBirth == nil || !got.DateOfBirth.Equal(dob) {
		t.Fatalf("unexpected date of birth: %v", got.DateOfBirth)
	}
	if got.Address == nil || got.Address.City == nil || *got.Address.City != "Jakarta" || got.Address.State != nil {
		t.Fatalf("unexpected address: %+v", got.Address)
	}
}

func TestGetByEmail_NoAddress(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(personColumns).
		AddRow("p-2", "Bob", nil, "unknown", nil, "bob@example.com", nil, true, now, now,
			nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(`(?s)^SELECT .* FROM person`).
		WithArgs("bob@example.com").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.Address != nil || got.DateOfBirth != nil || got.PasswordHash != "" {
		t.Fatalf("expected empty optional fields: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT .* FROM person`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+person\s+SET\s+password_hash\s*=\s*\$2,\s*updated_at\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("p-1", "new", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("p-x", "new", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdatePasswordHash(context.Background(), "p-1", "new"); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}
	if err := repo.UpdatePasswordHash(context.Background(), "p-x", "new"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
