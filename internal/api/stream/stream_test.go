package stream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/model"
)

func TestWatchReceivesWheelEvents(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := broadcast.NewHub(log)
	h := NewHandler(HandlerDeps{Hub: hub, Log: log})

	r := chi.NewRouter()
	r.Get("/wheel/{publicId}/ws", h.Watch)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/wheel/abc/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	channel := broadcast.ChannelName("abc")
	waitRefs(t, hub, channel, 1)

	if err := hub.Publish(context.Background(), "other", model.EventJoin, broadcast.JoinPayload("x")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := hub.Publish(context.Background(), "abc", model.EventSpin, broadcast.SpinPayload("u2")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg broadcast.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Channel != "private-wheel-abc" || msg.Event != "spin" || msg.Data["selectedUserId"] != "u2" {
		raw, _ := json.Marshal(msg)
		t.Fatalf("message = %s", raw)
	}

	// Закрытие соединения отпускает ссылку на канал
	conn.Close()
	waitRefs(t, hub, channel, 0)
}

func waitRefs(t *testing.T, hub *broadcast.Hub, channel string, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.Refs(channel) != want {
		if time.Now().After(deadline) {
			t.Fatalf("refs(%s) = %d, want %d", channel, hub.Refs(channel), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
