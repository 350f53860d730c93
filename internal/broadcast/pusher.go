package broadcast

import (
	"context"
	"log/slog"

	"github.com/pusher/pusher-http-go/v5"

	"spinny_backend/internal/config"
	"spinny_backend/internal/lib/logger/sl"
	"spinny_backend/internal/model"
)

type trigger interface {
	Trigger(channel string, eventName string, data interface{}) error
}

// PusherPublisher отправляет события в Pusher Channels
type PusherPublisher struct {
	log    *slog.Logger
	pusher trigger
}

func NewPusherClient(cfg config.PusherConfig) *pusher.Client {
	return &pusher.Client{
		AppID:   cfg.AppID(),
		Key:     cfg.Key(),
		Secret:  cfg.Secret(),
		Cluster: cfg.Cluster(),
		Host:    cfg.Host(),
		Secure:  cfg.Secure(),
	}
}

func NewPusherPublisher(log *slog.Logger, client *pusher.Client) *PusherPublisher {
	return &PusherPublisher{
		log:    log,
		pusher: client,
	}
}

func (p *PusherPublisher) Publish(_ context.Context, wheelID string, kind model.EventKind, payload map[string]any) error {
	channel := ChannelName(wheelID)
	if err := p.pusher.Trigger(channel, string(kind), payload); err != nil {
		p.log.Error("failed to trigger pusher event", sl.String("channel", channel), sl.Err(err))
		return err
	}
	return nil
}
