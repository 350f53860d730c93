package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"spinny_backend/internal/lib/logger/sl"
	"spinny_backend/internal/model"
)

const subscriberQueue = 16

// channelRef - запись канала со счетчиком ссылок. Канал живет, пока refs > 0
type channelRef struct {
	subscribers map[*Subscription]struct{}
	refs        int
}

// Hub - локальная раздача событий подписчикам websocket
type Hub struct {
	mu       sync.Mutex
	channels map[string]*channelRef
	log      *slog.Logger
	now      func() time.Time
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		channels: make(map[string]*channelRef),
		log:      log,
		now:      time.Now,
	}
}

// Subscription - подписка на канал. Release обязателен
type Subscription struct {
	hub     *Hub
	channel string
	out     chan []byte
	once    sync.Once
}

func (s *Subscription) C() <-chan []byte {
	return s.out
}

func (s *Subscription) Channel() string {
	return s.channel
}

// Release отпускает ссылку на канал. Повторный вызов ничего не делает
func (s *Subscription) Release() {
	s.once.Do(func() {
		s.hub.release(s)
	})
}

// Acquire подписывается на канал, создавая запись при первой ссылке
func (h *Hub) Acquire(channel string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	ref, ok := h.channels[channel]
	if !ok {
		ref = &channelRef{subscribers: make(map[*Subscription]struct{})}
		h.channels[channel] = ref
	}

	sub := &Subscription{hub: h, channel: channel, out: make(chan []byte, subscriberQueue)}
	ref.subscribers[sub] = struct{}{}
	ref.refs++

	return sub
}

func (h *Hub) release(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ref, ok := h.channels[sub.channel]
	if !ok {
		return
	}
	delete(ref.subscribers, sub)
	close(sub.out)
	ref.refs--
	if ref.refs <= 0 {
		delete(h.channels, sub.channel)
	}
}

// Refs - число активных ссылок на канал
func (h *Hub) Refs(channel string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ref, ok := h.channels[channel]; ok {
		return ref.refs
	}
	return 0
}

// Publish рассылает событие подписчикам канала колеса.
// Медленный подписчик теряет сообщение, а не блокирует остальных
func (h *Hub) Publish(_ context.Context, wheelID string, kind model.EventKind, payload map[string]any) error {
	msg := newMessage(wheelID, kind, payload, h.now())
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ref, ok := h.channels[msg.Channel]
	if !ok {
		return nil
	}
	for sub := range ref.subscribers {
		select {
		case sub.out <- data:
		default:
			h.log.Warn("subscriber queue full, message dropped",
				sl.String("channel", msg.Channel),
				sl.String("event", msg.Event),
			)
		}
	}
	return nil
}
