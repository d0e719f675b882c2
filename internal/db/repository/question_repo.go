package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// QuestionRow mirrors a row of the questions table.
type QuestionRow struct {
	ID             int64
	QuestionText   string
	Duration       int32
	Type           string
	Options        []string
	CodeSnippet    pgtype.Text
	AnswerTemplate pgtype.Text
}

const listQuestionsByDuration = `
SELECT id, question_text, duration, type, options, code_snippet, answer_template
FROM questions
ORDER BY duration, id`

// QuestionRepository reads the question bank. Questions are authored
// elsewhere; this service never writes them.
type QuestionRepository struct {
	db DBTX
}

func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListByDuration scans the whole bank, shortest questions first.
func (r *QuestionRepository) ListByDuration(ctx context.Context) ([]QuestionRow, error) {
	rows, err := r.db.Query(ctx, listQuestionsByDuration)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []QuestionRow
	for rows.Next() {
		var q QuestionRow
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.Duration, &q.Type, &q.Options, &q.CodeSnippet, &q.AnswerTemplate); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}
