// Package persons provides storage for registered accounts.
package persons

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

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the person row and, when any address field is set, the
// address row. Run it inside a transaction to keep both rows together.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Person) (*models.Person, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	query :=
		`INSERT INTO person (id, full_name, date_of_birth, gender, phone_number, email, password_hash, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.FullName, p.DateOfBirth, string(p.Gender), p.PhoneNumber, p.Email, p.PasswordHash, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if !p.Address.Empty() {
		a := p.Address
		query :=
			`INSERT INTO address (id, person_id, line1, city, state, postal_code, country)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 `
		if _, err := r.db.ExecContext(ctx, query,
			uuid.NewString(), p.ID, a.Line1, a.City, a.State, a.PostalCode, a.Country); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return p, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Person, error) {
	query :=
		`SELECT p.id, p.full_name, p.date_of_birth, p.gender, p.phone_number, p.email, p.password_hash,
		        p.is_active, p.created_at, p.updated_at,
		        a.id, a.line1, a.city, a.state, a.postal_code, a.country
		 FROM person p LEFT JOIN address a ON a.person_id = p.id
		 WHERE p.email = $1
		 `

	var (
		p      models.Person
		dob    sql.NullTime
		gender string
		mail   sql.NullString
		hash   sql.NullString
		addrID sql.NullString
		addr   models.Address
	)
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.FullName, &dob, &gender, &p.PhoneNumber, &mail, &hash,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&addrID, &addr.Line1, &addr.City, &addr.State, &addr.PostalCode, &addr.Country,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if dob.Valid {
		p.DateOfBirth = &dob.Time
	}
	p.Gender = models.Gender(gender)
	p.Email = mail.String
	p.PasswordHash = hash.String
	if addrID.Valid {
		p.Address = &addr
	}

	return &p, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query :=
		`UPDATE person SET password_hash = $2, updated_at = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, hash, time.Now().UTC())
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
