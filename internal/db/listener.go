package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designer-studio/internal/logger"
	"github.com/ignatzorin/designer-studio/internal/realtime"
)

// ChangesChannel канал pg_notify, в который пишут триггеры из миграций.
const ChangesChannel = "row_changes"

// ChangeFeed слушает LISTEN row_changes и отдаёт события в канал.
type ChangeFeed struct {
	listener *pq.Listener
	events   chan realtime.Event
	log      *logrus.Entry
}

// NewChangeFeed подключается к PostgreSQL отдельным соединением и подписывается на ChangesChannel.
func NewChangeFeed(dsn string) (*ChangeFeed, error) {
	log := logger.Component("change_feed")

	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed, pq.ListenerEventDisconnected:
			log.WithError(err).Warn("соединение LISTEN потеряно")
		case pq.ListenerEventReconnected:
			log.Info("соединение LISTEN восстановлено")
		}
	})

	if err := listener.Listen(ChangesChannel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("postgres: не удалось выполнить LISTEN %s: %w", ChangesChannel, err)
	}

	return &ChangeFeed{
		listener: listener,
		events:   make(chan realtime.Event, 64),
		log:      log,
	}, nil
}

// Events канал декодированных изменений. Закрывается после завершения Run.
func (f *ChangeFeed) Events() <-chan realtime.Event {
	return f.events
}

// Run перекладывает уведомления PostgreSQL в Events до отмены ctx.
func (f *ChangeFeed) Run(ctx context.Context) {
	defer close(f.events)

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-f.listener.Notify:
			// nil приходит после переподключения, часть событий могла потеряться
			if n == nil {
				continue
			}
			ev, err := DecodeChange(n.Extra)
			if err != nil {
				f.log.WithError(err).WithField("payload", n.Extra).Warn("некорректное уведомление")
				continue
			}
			select {
			case f.events <- ev:
			case <-ctx.Done():
				return
			}
		case <-ping.C:
			if err := f.listener.Ping(); err != nil {
				f.log.WithError(err).Warn("ping LISTEN соединения не прошёл")
			}
		}
	}
}

// Close закрывает соединение LISTEN.
func (f *ChangeFeed) Close() error {
	return f.listener.Close()
}

// DecodeChange разбирает JSON из notify_row_change().
func DecodeChange(payload string) (realtime.Event, error) {
	var ev realtime.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return realtime.Event{}, fmt.Errorf("change feed: decode: %w", err)
	}
	if ev.Table == "" || ev.ID == "" {
		return realtime.Event{}, fmt.Errorf("change feed: пустые table или id в %q", payload)
	}
	return ev, nil
}
