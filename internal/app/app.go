package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/candidate-screening/internal/auth"
	"github.com/gokatarajesh/candidate-screening/internal/auth/jwt"
	"github.com/gokatarajesh/candidate-screening/internal/candidate"
	"github.com/gokatarajesh/candidate-screening/internal/config"
	"github.com/gokatarajesh/candidate-screening/internal/db/repository"
	"github.com/gokatarajesh/candidate-screening/internal/events"
	"github.com/gokatarajesh/candidate-screening/internal/logging"
	"github.com/gokatarajesh/candidate-screening/internal/metrics"
	"github.com/gokatarajesh/candidate-screening/internal/notify"
	"github.com/gokatarajesh/candidate-screening/internal/question"
	"github.com/gokatarajesh/candidate-screening/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	listener  *events.Listener
	bgCancels []context.CancelFunc
}

// New bootstraps logger, Postgres, Redis, the workflow services and the
// HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	accountRepo := repository.NewAccountRepository(pool)
	statusRepo := repository.NewCandidateStatusRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	authSvc := auth.NewService(accountRepo, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte(cfg.Security.JWTSecret),
			RefreshSecret: []byte(cfg.Security.JWTSecret + "_refresh"),
			Issuer:        cfg.Name,
		},
	}, logger)

	questionCache := question.NewCache(redisClient, cfg.Screening.PoolCacheTTL)
	candidateSvc := candidate.NewService(candidate.ServiceDeps{
		Statuses: statusRepo,
		Users:    userRepo,
		Exams:    examRepo,
		Pool:     question.NewPool(questionRepo, questionCache, logger),
		Selector: question.NewSelector(question.SelectorOptions{PerType: cfg.Screening.QuestionsPerType}),
		Locker:   candidate.NewRedisLocker(redisClient, cfg.Screening.GenerateLockTTL),
		Metrics:  m,
	}, logger)

	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			Timeout:  cfg.SMTP.SendTimeout,
		})
	} else {
		logger.Warn().Msg("SMTP_HOST not set; invitations will only be logged")
		mailer = notify.NewLogMailer(logger)
	}
	inviter := notify.NewInviter(mailer, cfg.SMTP.FromEmail, cfg.Screening.RegistrationURL, m, logger)

	dispatcher := events.NewDispatcher(m, logger)
	registerEventHandlers(dispatcher, candidateSvc, inviter, questionCache, logger)
	listener := events.NewListener(cfg.Postgres.DSN(), cfg.Events.Channel, cfg.Events.ReconnectBackoff, dispatcher, logger)
	listener.OnConnect(candidateSvc.Reconcile)
	listener.OnConnect(questionCache.Invalidate)

	apiServer := server.NewHTTPServer(cfg.HTTPAddr, logger, server.Routes{
		Auth:       auth.NewHTTPHandlers(authSvc, logger),
		Candidates: candidate.NewHTTPHandlers(candidateSvc, logger),
		Validator:  authSvc,
		Gatherer:   registry,
		Deps:       []server.Pinger{pool, server.RedisPinger(redisClient)},
	})

	return &Application{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		redis:     redisClient,
		http:      apiServer,
		listener:  listener,
		bgCancels: make([]context.CancelFunc, 0, 1),
	}, nil
}

func registerEventHandlers(d *events.Dispatcher, svc *candidate.Service, inviter *notify.Inviter, cache *question.Cache, logger zerolog.Logger) {
	d.Handle(events.KindAccountCreated, func(ctx context.Context, evt events.Event) error {
		return svc.OnAccountCreated(ctx, candidate.AccountCreated{Email: evt.Email, AccountID: evt.AccountID})
	})
	d.Handle(events.KindCandidateStatusCreated, func(ctx context.Context, evt events.Event) error {
		return inviter.Invite(ctx, notify.Invitation{Email: evt.Email, ExamCode: evt.ExamCode, FirstName: evt.FirstName})
	})
	d.Handle(events.KindExamUpdated, func(ctx context.Context, evt events.Event) error {
		return svc.OnExamUpdated(ctx, candidate.ExamUpdated{Email: evt.Email, OldExamDone: evt.OldExamDone, NewExamDone: evt.NewExamDone})
	})
	d.Handle(events.KindQuestionsChanged, func(ctx context.Context, _ events.Event) error {
		logger.Info().Msg("question bank changed, dropping cached pools")
		return cache.Invalidate(ctx)
	})
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.listener == nil {
		return
	}
	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, cancel)
	go func() {
		if err := a.listener.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Msg("event listener stopped")
		}
	}()
}
