package repository

import (
	"context"
)

// ExamRow mirrors the exams table; Questions holds the JSONB document.
type ExamRow struct {
	Email                string
	Questions            []byte
	CurrentQuestionIndex int32
	ExamStarted          bool
	ExamDone             bool
	LanguageTaken        string
}

const putExam = `
INSERT INTO exams (email, questions, current_question_index, exam_started, exam_done, language_taken)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (email) DO UPDATE
SET questions = EXCLUDED.questions,
    current_question_index = EXCLUDED.current_question_index,
    exam_started = EXCLUDED.exam_started,
    exam_done = EXCLUDED.exam_done,
    language_taken = EXCLUDED.language_taken,
    updated_at = now()`

const getExam = `
SELECT email, questions, current_question_index, exam_started, exam_done, language_taken
FROM exams
WHERE email = $1`

// ExamRepository stores one generated exam per candidate email.
type ExamRepository struct {
	db DBTX
}

func NewExamRepository(db DBTX) *ExamRepository {
	return &ExamRepository{db: db}
}

// Put writes the whole exam document, replacing any earlier one.
func (r *ExamRepository) Put(ctx context.Context, e ExamRow) error {
	_, err := r.db.Exec(ctx, putExam,
		e.Email, e.Questions, e.CurrentQuestionIndex, e.ExamStarted, e.ExamDone, e.LanguageTaken)
	return err
}

func (r *ExamRepository) Get(ctx context.Context, email string) (ExamRow, error) {
	var e ExamRow
	err := r.db.QueryRow(ctx, getExam, email).Scan(
		&e.Email, &e.Questions, &e.CurrentQuestionIndex, &e.ExamStarted, &e.ExamDone, &e.LanguageTaken,
	)
	if err != nil {
		return ExamRow{}, notFound(err)
	}
	return e, nil
}
