package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/candidate-screening/internal/auth"
	"github.com/gokatarajesh/candidate-screening/internal/candidate"
	"github.com/gokatarajesh/candidate-screening/internal/logging"
	httperrors "github.com/gokatarajesh/candidate-screening/pkg/http/errors"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Routes carries the handlers mounted by NewHandler. Any of them may be nil.
type Routes struct {
	Auth       *auth.HTTPHandlers
	Candidates *candidate.HTTPHandlers
	// Validator guards the candidate routes.
	Validator auth.TokenValidator
	Gatherer  prometheus.Gatherer
	Deps      []Pinger
}

// NewHTTPServer wires routes for the API service.
func NewHTTPServer(addr string, logger zerolog.Logger, routes Routes) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: NewHandler(logger, routes),
	}
}

// NewHandler builds the route table.
func NewHandler(logger zerolog.Logger, routes Routes) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	gatherer := routes.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, routes.Deps); err != nil {
			l := logging.FromContext(ctx)
			l.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "upstream error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if routes.Auth != nil {
		mux.HandleFunc("/v1/auth/register", routes.Auth.Register)
		mux.HandleFunc("/v1/auth/login", routes.Auth.Login)
		mux.HandleFunc("/v1/auth/refresh", routes.Auth.RefreshToken)
	}

	if routes.Candidates != nil && routes.Validator != nil {
		authn := auth.AuthMiddleware(routes.Validator, logger)
		mux.Handle("/v1/profile", authn(http.HandlerFunc(routes.Candidates.SaveProfile)))
		mux.Handle("/v1/exams", authn(http.HandlerFunc(routes.Candidates.GenerateExam)))
	}

	return mux
}

func pingDependencies(ctx context.Context, deps []Pinger) error {
	for _, d := range deps {
		if err := d.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

type redisPinger struct {
	client redis.Cmdable
}

// RedisPinger adapts a Redis client to Pinger.
func RedisPinger(client redis.Cmdable) Pinger {
	return redisPinger{client: client}
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
