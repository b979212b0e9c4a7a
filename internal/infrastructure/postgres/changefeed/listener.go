package changefeed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const (
	DefaultChannel = "booking_changes"

	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener pumps LISTEN/NOTIFY payloads from Postgres into a Feed.
type Listener struct {
	dsn     string
	channel string
	feed    *Feed
	logger  *slog.Logger
}

func NewListener(dsn, channel string, feed *Feed, logger *slog.Logger) *Listener {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{dsn: dsn, channel: channel, feed: feed, logger: logger}
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, minReconnectInterval, maxReconnectInterval, l.onConnEvent)
	defer listener.Close()

	if err := listener.Listen(l.channel); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	l.logger.Info("Change feed listening", "channel", l.channel)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil после переподключения - часть уведомлений могла потеряться
			if n == nil {
				l.feed.Resync()
				continue
			}
			if err := l.feed.Dispatch(n.Extra); err != nil {
				l.logger.Warn("Dropped change notification", "error", err)
			}
		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					l.logger.Warn("Change feed ping failed", "error", err)
				}
			}()
		}
	}
}

func (l *Listener) onConnEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventDisconnected:
		l.logger.Warn("Change feed disconnected", "error", err)
	case pq.ListenerEventReconnected:
		l.logger.Info("Change feed reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		l.logger.Error("Change feed connection attempt failed", "error", err)
	}
}
