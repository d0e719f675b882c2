package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// UserRow is the identity-keyed copy of a candidate's profile.
type UserRow struct {
	UserID    pgtype.UUID
	FirstName string
	LastName  string
	ExamCode  string
}

const mergeUser = `
INSERT INTO users (user_id, first_name, last_name, exam_code)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE
SET first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    exam_code = EXCLUDED.exam_code,
    updated_at = now()`

const getUser = `
SELECT user_id, first_name, last_name, exam_code
FROM users
WHERE user_id = $1`

// UserRepository exposes the users collection.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Merge upserts the profile fields for an identity.
func (r *UserRepository) Merge(ctx context.Context, u UserRow) error {
	_, err := r.db.Exec(ctx, mergeUser, u.UserID, u.FirstName, u.LastName, u.ExamCode)
	return err
}

func (r *UserRepository) Get(ctx context.Context, userID pgtype.UUID) (UserRow, error) {
	var u UserRow
	err := r.db.QueryRow(ctx, getUser, userID).Scan(&u.UserID, &u.FirstName, &u.LastName, &u.ExamCode)
	if err != nil {
		return UserRow{}, notFound(err)
	}
	return u, nil
}
