package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ecolearn-hub/ecolearn-progression/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE CHANGE LISTENER
// Holds a dedicated connection on LISTEN profiles_changed and invokes an
// opaque callback for every notification. Dropped connections are re-acquired
// with exponential backoff; the callback payload is the raw notification text.
// ══════════════════════════════════════════════════════════════════════════════

// ChannelProfilesChanged is the notification channel fired by the remote
// store whenever a profile row changes.
const ChannelProfilesChanged = "profiles_changed"

// ChangeCallback receives the raw payload of a change notification.
type ChangeCallback func(payload string)

// ProfileListener subscribes to profile change notifications over a dedicated
// postgres connection.
type ProfileListener struct {
	cfg     Config
	channel string
	logger  *slog.Logger

	mu       sync.Mutex
	callback ChangeCallback
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewProfileListener creates a listener for the profiles change channel.
func NewProfileListener(cfg Config, logger *slog.Logger) *ProfileListener {
	return &ProfileListener{
		cfg:     cfg,
		channel: ChannelProfilesChanged,
		logger:  logger,
	}
}

// Start begins listening and invokes callback for every notification until
// Stop is called or the context is cancelled. Calling Start on a running
// listener is an error.
func (l *ProfileListener) Start(ctx context.Context, callback ChangeCallback) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		return fmt.Errorf("listener already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.callback = callback
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.run(runCtx)
	return nil
}

// Stop cancels the listen loop and waits for it to exit. Safe to call more
// than once.
func (l *ProfileListener) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	done := l.done
	l.cancel = nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *ProfileListener) run(ctx context.Context) {
	defer close(l.done)

	retrier := retry.New(retry.Config{
		MaxAttempts:  0, // reconnect until stopped
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Multiplier:   2.0,
		JitterFactor: 0.2,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			l.logger.Warn("profile listener connection lost, reconnecting",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.String("error", err.Error()),
			)
		},
	})

	err := retrier.Do(ctx, l.listen)
	if err != nil && ctx.Err() == nil {
		l.logger.Error("profile listener stopped", slog.String("error", err.Error()))
	}
}

// listen holds one dedicated connection for the lifetime of the session and
// returns when the connection drops or the context is cancelled.
func (l *ProfileListener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect for listen: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.channel, err)
	}

	l.logger.Info("profile change listener attached", slog.String("channel", l.channel))

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to wait for notification: %w", err)
		}
		l.callback(notification.Payload)
	}
}
