package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrAlreadyExists is returned when a unique key is already taken.
var ErrAlreadyExists = errors.New("already exists")

const uniqueViolation = "23505"

// AccountRow mirrors the accounts table.
type AccountRow struct {
	AccountID    pgtype.UUID
	Email        string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
}

type CreateAccountParams struct {
	AccountID    pgtype.UUID
	Email        string
	PasswordHash string
}

const createAccount = `
INSERT INTO accounts (account_id, email, password_hash)
VALUES ($1, $2, $3)
RETURNING account_id, email, password_hash, created_at`

const getAccountByEmail = `
SELECT account_id, email, password_hash, created_at
FROM accounts
WHERE email = $1`

const getAccountByID = `
SELECT account_id, email, password_hash, created_at
FROM accounts
WHERE account_id = $1`

// AccountRepository stores login identities. Inserting a row fires the
// account_created notification.
type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, p CreateAccountParams) (AccountRow, error) {
	var a AccountRow
	err := r.db.QueryRow(ctx, createAccount, p.AccountID, p.Email, p.PasswordHash).Scan(
		&a.AccountID, &a.Email, &a.PasswordHash, &a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return AccountRow{}, ErrAlreadyExists
		}
		return AccountRow{}, err
	}
	return a, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (AccountRow, error) {
	return r.get(ctx, getAccountByEmail, email)
}

func (r *AccountRepository) GetByID(ctx context.Context, accountID pgtype.UUID) (AccountRow, error) {
	return r.get(ctx, getAccountByID, accountID)
}

func (r *AccountRepository) get(ctx context.Context, query string, arg any) (AccountRow, error) {
	var a AccountRow
	err := r.db.QueryRow(ctx, query, arg).Scan(&a.AccountID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return AccountRow{}, notFound(err)
	}
	return a, nil
}
