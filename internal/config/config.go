package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"candidate-screening"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres  Postgres
	Redis     Redis
	Security  Security
	Screening Screening
	SMTP      SMTP
	Events    Events
}

// Postgres captures connection info for the document store.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the libpq-style DSN for a single connection.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// ConnString is DSN plus the pgxpool sizing.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("%s pool_max_conns=%d", p.DSN(), p.MaxConns)
}

// Redis holds cache + lock configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing and auth.
type Security struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
}

// Screening groups exam generation and candidate workflow knobs.
type Screening struct {
	QuestionsPerType int           `env:"EXAM_QUESTIONS_PER_TYPE" envDefault:"5"`
	PoolCacheTTL     time.Duration `env:"QUESTION_POOL_CACHE_TTL" envDefault:"5m"`
	GenerateLockTTL  time.Duration `env:"EXAM_GENERATE_LOCK_TTL" envDefault:"30s"`
	RegistrationURL  string        `env:"REGISTRATION_BASE_URL" envDefault:"http://localhost:3000"`
}

// SMTP holds email server configuration.
type SMTP struct {
	Host        string        `env:"SMTP_HOST" envDefault:""`
	Port        int           `env:"SMTP_PORT" envDefault:"587"`
	Username    string        `env:"SMTP_USERNAME" envDefault:""`
	Password    string        `env:"SMTP_PASSWORD" envDefault:""`
	FromEmail   string        `env:"SMTP_FROM_EMAIL" envDefault:"noreply@screening.local"`
	SendTimeout time.Duration `env:"SMTP_SEND_TIMEOUT" envDefault:"10s"`
}

// Events configures the Postgres LISTEN/NOTIFY consumer.
type Events struct {
	Channel          string        `env:"EVENTS_CHANNEL" envDefault:"screening_events"`
	ReconnectBackoff time.Duration `env:"EVENTS_RECONNECT_BACKOFF" envDefault:"2s"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Screening.QuestionsPerType <= 0 {
		return nil, fmt.Errorf("EXAM_QUESTIONS_PER_TYPE must be positive, got %d", cfg.Screening.QuestionsPerType)
	}
	return cfg, nil
}
