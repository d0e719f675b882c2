package candidate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/candidate-screening/internal/db/repository"
	"github.com/gokatarajesh/candidate-screening/internal/metrics"
	"github.com/gokatarajesh/candidate-screening/internal/question"
)

type statusStore interface {
	Get(ctx context.Context, email string) (repository.CandidateStatusRow, error)
	CreateIfAbsent(ctx context.Context, email, examCode string, status int16) (bool, error)
	SaveProfile(ctx context.Context, p repository.SaveProfileParams) error
	AdvanceStatus(ctx context.Context, p repository.AdvanceStatusParams) error
	ListUnregistered(ctx context.Context) ([]string, error)
	CompleteFinishedExams(ctx context.Context, status int16) (int64, error)
}

type userStore interface {
	Merge(ctx context.Context, u repository.UserRow) error
}

type examStore interface {
	Put(ctx context.Context, e repository.ExamRow) error
}

type poolLoader interface {
	Load(ctx context.Context) (question.Pools, error)
}

// Locker serializes work per candidate email.
type Locker interface {
	Lock(ctx context.Context, email string) (func(context.Context) error, error)
}

// Service drives a candidate through the screening workflow.
type Service struct {
	statuses statusStore
	users    userStore
	exams    examStore
	pool     poolLoader
	selector *question.Selector
	locker   Locker
	metrics  *metrics.Metrics
	newCode  func() string
	logger   zerolog.Logger
}

// ServiceDeps groups the collaborators of Service. Locker, Metrics and
// NewCode are optional.
type ServiceDeps struct {
	Statuses statusStore
	Users    userStore
	Exams    examStore
	Pool     poolLoader
	Selector *question.Selector
	Locker   Locker
	Metrics  *metrics.Metrics
	NewCode  func() string
}

func NewService(deps ServiceDeps, logger zerolog.Logger) *Service {
	selector := deps.Selector
	if selector == nil {
		selector = question.NewSelector(question.SelectorOptions{})
	}
	newCode := deps.NewCode
	if newCode == nil {
		newCode = NewExamCode
	}
	return &Service{
		statuses: deps.Statuses,
		users:    deps.Users,
		exams:    deps.Exams,
		pool:     deps.Pool,
		selector: selector,
		locker:   deps.Locker,
		metrics:  deps.Metrics,
		newCode:  newCode,
		logger:   logger.With().Str("component", "candidate").Logger(),
	}
}

// NewExamCode returns an 8 character upper-case hexadecimal code.
func NewExamCode() string {
	id := uuid.New()
	return strings.ToUpper(fmt.Sprintf("%x", id[:4]))
}

// SaveProfile records the candidate's names once their exam code checks out.
func (s *Service) SaveProfile(ctx context.Context, identity uuid.UUID, req SaveProfileRequest) (string, error) {
	if identity == uuid.Nil {
		return "", unauthenticated()
	}
	if field := firstMissing(
		[2]string{"email", req.Email},
		[2]string{"examCode", req.ExamCode},
		[2]string{"firstName", req.FirstName},
		[2]string{"lastName", req.LastName},
	); field != "" {
		return "", missingArgument(field)
	}

	email := normalizeEmail(req.Email)
	if err := s.checkCode(ctx, email, req.ExamCode); err != nil {
		return "", err
	}

	err := s.statuses.SaveProfile(ctx, repository.SaveProfileParams{
		Email:     email,
		ExamCode:  req.ExamCode,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    int16(StatusProfileSubmitted),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConditionFailed) {
			return "", codeMismatch()
		}
		return "", s.fail("save profile", err)
	}
	s.metrics.StatusTransition(StatusProfileSubmitted.String())

	err = s.users.Merge(ctx, repository.UserRow{
		UserID:    pgtype.UUID{Bytes: identity, Valid: true},
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ExamCode:  req.ExamCode,
	})
	if err != nil {
		return "", s.fail("merge user", err)
	}

	s.logger.Info().Str("email", email).Msg("profile saved")
	return MsgProfileSaved, nil
}

// GenerateExam marks the exam as generated and writes a freshly drawn exam
// for the candidate.
func (s *Service) GenerateExam(ctx context.Context, identity uuid.UUID, req GenerateExamRequest) (string, error) {
	if identity == uuid.Nil {
		return "", unauthenticated()
	}
	if field := firstMissing(
		[2]string{"email", req.Email},
		[2]string{"examCode", req.ExamCode},
		[2]string{"language", req.Language},
	); field != "" {
		return "", missingArgument(field)
	}

	email := normalizeEmail(req.Email)
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, email)
		if err != nil {
			return "", s.fail("lock exam generation", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn().Err(err).Str("email", email).Msg("release generate lock")
			}
		}()
	}

	if err := s.checkCode(ctx, email, req.ExamCode); err != nil {
		return "", err
	}

	err := s.statuses.AdvanceStatus(ctx, repository.AdvanceStatusParams{
		Email:    email,
		ExamCode: pgtype.Text{String: req.ExamCode, Valid: true},
		Status:   int16(StatusExamGenerated),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConditionFailed) {
			return "", codeMismatch()
		}
		return "", s.fail("advance status", err)
	}
	s.metrics.StatusTransition(StatusExamGenerated.String())

	pools, err := s.pool.Load(ctx)
	if err != nil {
		return "", s.fail("load question pools", err)
	}

	exam := Exam{
		Questions:            question.ShapeAll(s.selector.Select(pools)),
		CurrentQuestionIndex: 1,
		LanguageTaken:        req.Language,
	}
	row, err := exam.row(email)
	if err != nil {
		return "", s.fail("encode exam", err)
	}
	if err := s.exams.Put(ctx, row); err != nil {
		return "", s.fail("write exam", err)
	}
	s.metrics.ExamGenerated()

	s.logger.Info().
		Str("email", email).
		Int("questions", len(exam.Questions)).
		Msg("exam generated")
	return MsgExamGenerated, nil
}

// OnAccountCreated opens a screening record for a new login identity.
// Redelivery keeps the code issued the first time.
func (s *Service) OnAccountCreated(ctx context.Context, evt AccountCreated) error {
	email := normalizeEmail(evt.Email)
	if email == "" {
		s.logger.Warn().Str("account_id", evt.AccountID.String()).Msg("account created without email, skipping")
		return nil
	}
	_, err := s.register(ctx, email)
	return err
}

// Reconcile catches up on notifications that were never delivered: accounts
// without a status record get one, and finished exams move their candidate
// to exam-done. Both steps are idempotent.
func (s *Service) Reconcile(ctx context.Context) error {
	emails, err := s.statuses.ListUnregistered(ctx)
	if err != nil {
		return fmt.Errorf("list unregistered accounts: %w", err)
	}
	registered := 0
	for _, raw := range emails {
		email := normalizeEmail(raw)
		if email == "" {
			continue
		}
		created, err := s.register(ctx, email)
		if err != nil {
			return err
		}
		if created {
			registered++
		}
	}

	completed, err := s.statuses.CompleteFinishedExams(ctx, int16(StatusExamDone))
	if err != nil {
		return fmt.Errorf("complete finished exams: %w", err)
	}
	for range completed {
		s.metrics.StatusTransition(StatusExamDone.String())
	}

	if registered > 0 || completed > 0 {
		s.logger.Info().
			Int("registered", registered).
			Int64("completed", completed).
			Msg("reconciled missed events")
	}
	return nil
}

func (s *Service) register(ctx context.Context, email string) (bool, error) {
	created, err := s.statuses.CreateIfAbsent(ctx, email, s.newCode(), int16(StatusRegistered))
	if err != nil {
		return false, fmt.Errorf("create candidate status: %w", err)
	}
	if !created {
		s.logger.Debug().Str("email", email).Msg("candidate status already exists")
		return false, nil
	}

	s.metrics.StatusTransition(StatusRegistered.String())
	s.logger.Info().Str("email", email).Msg("candidate registered")
	return true, nil
}

// OnExamUpdated moves the candidate to exam-done when the exam flips to done.
func (s *Service) OnExamUpdated(ctx context.Context, evt ExamUpdated) error {
	if !ExamCompleted(evt.OldExamDone, evt.NewExamDone) {
		return nil
	}

	email := normalizeEmail(evt.Email)
	err := s.statuses.AdvanceStatus(ctx, repository.AdvanceStatusParams{
		Email:  email,
		Status: int16(StatusExamDone),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConditionFailed) {
			return fmt.Errorf("no candidate status for %s", email)
		}
		return fmt.Errorf("advance status: %w", err)
	}

	s.metrics.StatusTransition(StatusExamDone.String())
	s.logger.Info().Str("email", email).Msg("exam completed")
	return nil
}

// checkCode is the read half of validate-then-write. A missing record is
// reported the same way as a wrong code.
func (s *Service) checkCode(ctx context.Context, email, examCode string) error {
	row, err := s.statuses.Get(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return codeMismatch()
		}
		return s.fail("read candidate status", err)
	}
	if row.ExamCode != examCode {
		return codeMismatch()
	}
	return nil
}

func (s *Service) fail(op string, err error) error {
	s.logger.Error().Err(err).Str("op", op).Msg("candidate operation failed")
	return internal(op, err)
}
