package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"spinny_backend/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHubRefCounting(t *testing.T) {
	hub := NewHub(quietLogger())
	ch := ChannelName("abc")

	a := hub.Acquire(ch)
	b := hub.Acquire(ch)
	if got := hub.Refs(ch); got != 2 {
		t.Fatalf("refs = %d, want 2", got)
	}

	a.Release()
	a.Release()
	if got := hub.Refs(ch); got != 1 {
		t.Fatalf("refs after double release = %d, want 1", got)
	}
	if _, ok := <-a.C(); ok {
		t.Fatal("released subscription channel is still open")
	}

	b.Release()
	if got := hub.Refs(ch); got != 0 {
		t.Fatalf("refs = %d, want 0", got)
	}
	hub.mu.Lock()
	_, exists := hub.channels[ch]
	hub.mu.Unlock()
	if exists {
		t.Fatal("channel record kept after last release")
	}
}

func TestHubPublish(t *testing.T) {
	hub := NewHub(quietLogger())
	hub.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	sub := hub.Acquire(ChannelName("w1"))
	defer sub.Release()
	other := hub.Acquire(ChannelName("w2"))
	defer other.Release()

	if err := hub.Publish(context.Background(), "w1", model.EventSpin, SpinPayload("u7")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case data := <-sub.C():
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Channel != "private-wheel-w1" || msg.Event != "spin" || msg.Data["selectedUserId"] != "u7" {
			t.Fatalf("message = %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	select {
	case data := <-other.C():
		t.Fatalf("message leaked to another wheel: %s", data)
	default:
	}

	// Публикация без подписчиков не ошибка
	if err := hub.Publish(context.Background(), "nobody", model.EventJoin, JoinPayload("u1")); err != nil {
		t.Fatalf("Publish without subscribers: %v", err)
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	hub := NewHub(quietLogger())
	sub := hub.Acquire(ChannelName("w"))
	defer sub.Release()

	for i := 0; i < subscriberQueue+5; i++ {
		if err := hub.Publish(context.Background(), "w", model.EventJoin, JoinPayload("u")); err != nil {
			t.Fatalf("Publish %d: %v", i, err)
		}
	}
	if got := len(sub.C()); got != subscriberQueue {
		t.Fatalf("queued = %d, want %d", got, subscriberQueue)
	}
}

type recordingPublisher struct {
	kinds []model.EventKind
	err   error
}

func (r *recordingPublisher) Publish(_ context.Context, _ string, kind model.EventKind, _ map[string]any) error {
	r.kinds = append(r.kinds, kind)
	return r.err
}

func TestValidatingPublisher(t *testing.T) {
	next := &recordingPublisher{}
	v, err := NewValidatingPublisher(next)
	if err != nil {
		t.Fatalf("NewValidatingPublisher: %v", err)
	}

	tests := []struct {
		name    string
		kind    model.EventKind
		payload map[string]any
		wantErr bool
	}{
		{name: "spin", kind: model.EventSpin, payload: SpinPayload("u1")},
		{name: "join", kind: model.EventJoin, payload: JoinPayload("u1")},
		{name: "leave", kind: model.EventLeave, payload: LeavePayload("u1")},
		{name: "delete", kind: model.EventDelete, payload: DeletePayload("w1")},
		{name: "spin without winner", kind: model.EventSpin, payload: map[string]any{}, wantErr: true},
		{name: "join with number", kind: model.EventJoin, payload: map[string]any{"userId": 5}, wantErr: true},
		{name: "extra field", kind: model.EventDelete, payload: map[string]any{"wheelId": "w", "x": 1}, wantErr: true},
		{name: "unknown kind", kind: model.EventKind("boom"), payload: map[string]any{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(next.kinds)
			err := v.Publish(context.Background(), "w1", tt.kind, tt.payload)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidInput) {
					t.Fatalf("err = %v, want ErrInvalidInput", err)
				}
				if len(next.kinds) != before {
					t.Fatal("invalid event forwarded")
				}
				return
			}
			if err != nil {
				t.Fatalf("Publish: %v", err)
			}
			if len(next.kinds) != before+1 {
				t.Fatal("valid event not forwarded")
			}
		})
	}
}

func TestMultiPublisher(t *testing.T) {
	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: errors.New("down")}

	err := MultiPublisher{failing, ok}.Publish(context.Background(), "w", model.EventLeave, LeavePayload("u"))
	if err == nil {
		t.Fatal("error from one publisher was swallowed")
	}
	if len(ok.kinds) != 1 || len(failing.kinds) != 1 {
		t.Fatal("not every publisher was called")
	}
}

type fakeTrigger struct {
	channel, event string
	data           interface{}
	err            error
}

func (f *fakeTrigger) Trigger(channel string, eventName string, data interface{}) error {
	f.channel, f.event, f.data = channel, eventName, data
	return f.err
}

func TestPusherPublisher(t *testing.T) {
	tr := &fakeTrigger{}
	p := &PusherPublisher{log: quietLogger(), pusher: tr}

	if err := p.Publish(context.Background(), "abc", model.EventDelete, DeletePayload("abc")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if tr.channel != "private-wheel-abc" || tr.event != "delete" {
		t.Fatalf("triggered %q on %q", tr.event, tr.channel)
	}

	tr.err = errors.New("401")
	if err := p.Publish(context.Background(), "abc", model.EventSpin, SpinPayload("u")); err == nil {
		t.Fatal("trigger error swallowed")
	}
}
