// Package broadcast доставляет события колеса другим зрителям.
// Доставка best effort: вызывающий код логирует ошибки и не откатывает операцию.
package broadcast

import (
	"context"
	"time"

	"spinny_backend/internal/model"
)

const channelPrefix = "private-wheel-"

// Publisher - получатель событий колеса
type Publisher interface {
	Publish(ctx context.Context, wheelID string, kind model.EventKind, payload map[string]any) error
}

// Message - кадр, который получают подписчики канала
type Message struct {
	Channel string         `json:"channel"`
	Event   string         `json:"event"`
	Data    map[string]any `json:"data"`
	At      time.Time      `json:"at"`
}

// ChannelName - имя канала колеса
func ChannelName(wheelID string) string {
	return channelPrefix + wheelID
}

func newMessage(wheelID string, kind model.EventKind, payload map[string]any, at time.Time) Message {
	return Message{
		Channel: ChannelName(wheelID),
		Event:   string(kind),
		Data:    payload,
		At:      at.UTC(),
	}
}

// SpinPayload и остальные конструкторы задают форму данных каждого события
func SpinPayload(selectedUserID string) map[string]any {
	return map[string]any{"selectedUserId": selectedUserID}
}

func JoinPayload(userID string) map[string]any {
	return map[string]any{"userId": userID}
}

func LeavePayload(userID string) map[string]any {
	return map[string]any{"userId": userID}
}

func DeletePayload(wheelID string) map[string]any {
	return map[string]any{"wheelId": wheelID}
}
