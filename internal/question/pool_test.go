package question

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/candidate-screening/internal/db/repository"
)

type stubLister struct {
	rows  []repository.QuestionRow
	err   error
	calls int
}

func (s *stubLister) ListByDuration(context.Context) ([]repository.QuestionRow, error) {
	s.calls++
	return s.rows, s.err
}

type memoryCache struct {
	pools  *Pools
	getErr error
	sets   int
}

func (c *memoryCache) Get(context.Context) (*Pools, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.pools, nil
}

func (c *memoryCache) Set(_ context.Context, pools Pools) error {
	c.sets++
	c.pools = &pools
	return nil
}

func bankRows() []repository.QuestionRow {
	return []repository.QuestionRow{
		{ID: 1, QuestionText: "m-short", Duration: 20, Type: TypeMCQ, Options: []string{"a"}, CodeSnippet: pgtype.Text{String: "x := 1", Valid: true}},
		{ID: 2, QuestionText: "c-short", Duration: 300, Type: TypeChallenge, AnswerTemplate: pgtype.Text{String: "// start", Valid: true}},
		{ID: 3, QuestionText: "m-long", Duration: 60, Type: TypeMCQ},
		{ID: 4, QuestionText: "other", Duration: 90, Type: "poll"},
	}
}

func TestPoolLoadPartitionsInOrder(t *testing.T) {
	repo := &stubLister{rows: bankRows()}
	pool := NewPool(repo, nil, zerolog.Nop())

	pools, err := pool.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, pools.MCQ, 2)
	require.Len(t, pools.Challenges, 1)
	assert.Equal(t, "m-short", pools.MCQ[0].QuestionText)
	assert.Equal(t, "x := 1", pools.MCQ[0].CodeSnippet)
	assert.Equal(t, "m-long", pools.MCQ[1].QuestionText)
	assert.Equal(t, "// start", pools.Challenges[0].AnswerTemplate)
}

func TestPoolLoadUsesCache(t *testing.T) {
	repo := &stubLister{rows: bankRows()}
	cache := &memoryCache{}
	pool := NewPool(repo, cache, zerolog.Nop())

	first, err := pool.Load(context.Background())
	require.NoError(t, err)
	second, err := pool.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls, "second load should be served from cache")
	assert.Equal(t, 1, cache.sets)
}

func TestPoolLoadFallsThroughCacheErrors(t *testing.T) {
	repo := &stubLister{rows: bankRows()}
	pool := NewPool(repo, &memoryCache{getErr: errors.New("redis down")}, zerolog.Nop())

	pools, err := pool.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, pools.MCQ, 2)
	assert.Equal(t, 1, repo.calls)
}

func TestPoolLoadWrapsRepositoryError(t *testing.T) {
	boom := errors.New("db down")
	pool := NewPool(&stubLister{err: boom}, nil, zerolog.Nop())

	_, err := pool.Load(context.Background())
	assert.ErrorIs(t, err, boom)
}
