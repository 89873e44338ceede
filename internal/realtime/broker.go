package realtime

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designer-studio/internal/logger"
)

const subscriptionBuffer = 16

// Subscription поток событий по одной паре (таблица, фильтр).
// Должна быть закрыта владельцем через Close.
type Subscription struct {
	topic  Topic
	ch     chan Event
	broker *Broker
	once   sync.Once
}

// C канал событий. Закрывается после Close.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Topic возвращает пару (таблица, фильтр) подписки.
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Close освобождает подписку. Повторный вызов безопасен.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.remove(s)
	})
}

// Broker раздаёт события ленты изменений активным подпискам.
type Broker struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
	log  *logrus.Entry
}

// NewBroker создаёт пустой брокер.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[*Subscription]struct{}),
		log:  logger.Component("realtime"),
	}
}

// Subscribe открывает подписку на topic.
func (b *Broker) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic:  topic,
		ch:     make(chan Event, subscriptionBuffer),
		broker: b,
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Active количество открытых подписок.
func (b *Broker) Active() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish отправляет событие во все подходящие подписки.
// Медленный подписчик пропускает событие, остальные не ждут его.
func (b *Broker) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if !sub.topic.Matches(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			b.log.WithFields(logrus.Fields{
				"topic": sub.topic.String(),
				"id":    e.ID,
			}).Warn("подписчик не успевает, событие пропущено")
		}
	}
}

// Run читает события из ленты до закрытия канала или отмены ctx.
func (b *Broker) Run(ctx context.Context, feed <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-feed:
			if !ok {
				return
			}
			b.Publish(e)
		}
	}
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}
