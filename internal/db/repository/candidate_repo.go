package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// ErrConditionFailed means a conditional update matched no row.
var ErrConditionFailed = errors.New("condition failed")

// CandidateStatusRow mirrors the candidate_status table.
type CandidateStatusRow struct {
	Email           string
	ExamCode        string
	FirstName       pgtype.Text
	LastName        pgtype.Text
	ScreeningStatus int16
}

// SaveProfileParams carries the profile merge for one candidate.
type SaveProfileParams struct {
	Email     string
	ExamCode  string
	FirstName string
	LastName  string
	Status    int16
}

// AdvanceStatusParams raises a candidate's status. ExamCode, when valid,
// makes the update conditional on the stored code.
type AdvanceStatusParams struct {
	Email    string
	ExamCode pgtype.Text
	Status   int16
}

const getCandidateStatus = `
SELECT email, exam_code, first_name, last_name, screening_status
FROM candidate_status
WHERE email = $1`

const createCandidateStatus = `
INSERT INTO candidate_status (email, exam_code, screening_status)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO NOTHING`

const saveCandidateProfile = `
UPDATE candidate_status
SET first_name = $3,
    last_name = $4,
    screening_status = GREATEST(screening_status, $5),
    updated_at = now()
WHERE email = $1 AND exam_code = $2`

const advanceCandidateStatus = `
UPDATE candidate_status
SET screening_status = GREATEST(screening_status, $3),
    updated_at = now()
WHERE email = $1 AND ($2::text IS NULL OR exam_code = $2)`

const listUnregisteredAccounts = `
SELECT a.email
FROM accounts a
LEFT JOIN candidate_status c ON c.email = lower(btrim(a.email))
WHERE c.email IS NULL
ORDER BY a.created_at`

const completeFinishedExams = `
UPDATE candidate_status c
SET screening_status = GREATEST(c.screening_status, $1),
    updated_at = now()
FROM exams e
WHERE e.email = c.email AND e.exam_done AND c.screening_status < $1`

// CandidateStatusRepository stores workflow state keyed by email.
type CandidateStatusRepository struct {
	db DBTX
}

func NewCandidateStatusRepository(db DBTX) *CandidateStatusRepository {
	return &CandidateStatusRepository{db: db}
}

// Get returns ErrNotFound when the email has no status record.
func (r *CandidateStatusRepository) Get(ctx context.Context, email string) (CandidateStatusRow, error) {
	var row CandidateStatusRow
	err := r.db.QueryRow(ctx, getCandidateStatus, email).Scan(
		&row.Email, &row.ExamCode, &row.FirstName, &row.LastName, &row.ScreeningStatus,
	)
	if err != nil {
		return CandidateStatusRow{}, notFound(err)
	}
	return row, nil
}

// CreateIfAbsent inserts the initial record. It reports false when a record
// already existed, in which case nothing is changed.
func (r *CandidateStatusRepository) CreateIfAbsent(ctx context.Context, email, examCode string, status int16) (bool, error) {
	tag, err := r.db.Exec(ctx, createCandidateStatus, email, examCode, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SaveProfile merges names and raises the status, only while the stored
// exam code still matches.
func (r *CandidateStatusRepository) SaveProfile(ctx context.Context, p SaveProfileParams) error {
	tag, err := r.db.Exec(ctx, saveCandidateProfile, p.Email, p.ExamCode, p.FirstName, p.LastName, p.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConditionFailed
	}
	return nil
}

// AdvanceStatus never lowers a status; re-applying the same value is a no-op.
func (r *CandidateStatusRepository) AdvanceStatus(ctx context.Context, p AdvanceStatusParams) error {
	tag, err := r.db.Exec(ctx, advanceCandidateStatus, p.Email, p.ExamCode, p.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConditionFailed
	}
	return nil
}

// ListUnregistered returns account emails that have no status record yet,
// oldest account first.
func (r *CandidateStatusRepository) ListUnregistered(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, listUnregisteredAccounts)
	if err != nil {
		return nil, fmt.Errorf("query unregistered accounts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan account email: %w", err)
		}
		out = append(out, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unregistered accounts: %w", err)
	}
	return out, nil
}

// CompleteFinishedExams raises every candidate whose exam is done to at
// least status and reports how many records moved.
func (r *CandidateStatusRepository) CompleteFinishedExams(ctx context.Context, status int16) (int64, error) {
	tag, err := r.db.Exec(ctx, completeFinishedExams, status)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
