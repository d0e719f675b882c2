package events

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

const defaultReconnectBackoff = 2 * time.Second

type notificationConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, evt Event)
}

// Listener keeps a dedicated connection LISTENing on the events channel.
type Listener struct {
	connect  func(ctx context.Context) (notificationConn, error)
	channel  string
	backoff  time.Duration
	dispatch dispatcher
	resync   []func(ctx context.Context) error
	logger   zerolog.Logger
}

// NewListener creates a listener that opens its own connection from
// connString. It does not share the request pool.
func NewListener(connString, channel string, backoff time.Duration, d dispatcher, logger zerolog.Logger) *Listener {
	return newListener(func(ctx context.Context) (notificationConn, error) {
		conn, err := pgx.Connect(ctx, connString)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}, channel, backoff, d, logger)
}

func newListener(connect func(context.Context) (notificationConn, error), channel string, backoff time.Duration, d dispatcher, logger zerolog.Logger) *Listener {
	if backoff <= 0 {
		backoff = defaultReconnectBackoff
	}
	return &Listener{
		connect:  connect,
		channel:  channel,
		backoff:  backoff,
		dispatch: d,
		logger:   logger.With().Str("component", "event_listener").Str("channel", channel).Logger(),
	}
}

// OnConnect registers fn to run after every successful LISTEN, before any
// notification is read. Notifications sent while no connection was
// listening are lost, so fn should rebuild whatever state they would have
// produced. An error from fn is logged and listening continues.
func (l *Listener) OnConnect(fn func(ctx context.Context) error) {
	l.resync = append(l.resync, fn)
}

// Run blocks until ctx is cancelled, reconnecting after connection loss.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.logger.Warn().Err(err).Dur("backoff", l.backoff).Msg("listener disconnected")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.backoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(context.WithoutCancel(ctx))

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return err
	}
	l.logger.Info().Msg("listening for events")

	for _, fn := range l.resync {
		if err := fn(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Warn().Err(err).Msg("resync after connect failed")
		}
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		evt, err := Decode(n.Payload)
		if err != nil {
			l.logger.Warn().Err(err).Str("payload", n.Payload).Msg("dropping malformed event")
			continue
		}
		l.dispatch.Dispatch(ctx, evt)
	}
}
