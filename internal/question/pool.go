package question

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/candidate-screening/internal/db/repository"
)

// PoolCache defines cache behavior (implemented by Redis-backed Cache).
type PoolCache interface {
	Get(ctx context.Context) (*Pools, error)
	Set(ctx context.Context, pools Pools) error
}

type questionLister interface {
	ListByDuration(ctx context.Context) ([]repository.QuestionRow, error)
}

// Pool reads the question bank, partitioned by type.
type Pool struct {
	repo   questionLister
	cache  PoolCache
	logger zerolog.Logger
}

// NewPool wires the bank reader. cache may be nil.
func NewPool(repo questionLister, cache PoolCache, logger zerolog.Logger) *Pool {
	return &Pool{
		repo:   repo,
		cache:  cache,
		logger: logger.With().Str("component", "question_pool").Logger(),
	}
}

// Load returns every question ordered by duration, split into MCQ and
// challenge pools.
func (p *Pool) Load(ctx context.Context) (Pools, error) {
	if p.cache != nil {
		cached, err := p.cache.Get(ctx)
		if err != nil {
			p.logger.Warn().Err(err).Msg("question pool cache read failed")
		} else if cached != nil {
			return *cached, nil
		}
	}

	rows, err := p.repo.ListByDuration(ctx)
	if err != nil {
		return Pools{}, fmt.Errorf("list questions: %w", err)
	}

	questions := make([]Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, toDomain(row))
	}

	pools, skipped := Partition(questions)
	if skipped > 0 {
		p.logger.Warn().Int("skipped", skipped).Msg("questions with unknown type ignored")
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, pools)
	}
	return pools, nil
}

func toDomain(row repository.QuestionRow) Question {
	q := Question{
		QuestionText: row.QuestionText,
		Duration:     int(row.Duration),
		Type:         row.Type,
	}
	switch row.Type {
	case TypeMCQ:
		q.Options = row.Options
		q.CodeSnippet = row.CodeSnippet.String
	case TypeChallenge:
		q.AnswerTemplate = row.AnswerTemplate.String
	}
	return q
}
