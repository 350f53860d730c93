package repository

import (
	"context"

	"spinny_backend/internal/model"
)

type WheelRepository interface {
	Create(ctx context.Context, wheel *model.Wheel) (int64, error)
	GetByPublicID(ctx context.Context, publicID string) (*model.Wheel, error)
	// LockByPublicID читает колесо с блокировкой строки до конца транзакции
	LockByPublicID(ctx context.Context, publicID string) (*model.Wheel, error)
	Delete(ctx context.Context, id int64) error
	ListOwned(ctx context.Context, ownerID string) ([]model.Wheel, error)
	ListParticipating(ctx context.Context, userID string) ([]model.Wheel, error)
}

type ParticipantRepository interface {
	LoadParticipants(ctx context.Context, wheelID int64) ([]model.Participant, error)
	SaveWeights(ctx context.Context, wheelID int64, weights map[string]int) error
	Join(ctx context.Context, wheelID int64, userID string, weight int) (bool, error)
	Leave(ctx context.Context, wheelID int64, userID string) (bool, error)
	DeleteByWheel(ctx context.Context, wheelID int64) error
}

type HistoryRepository interface {
	AppendHistory(ctx context.Context, selection *model.Selection) error
	ListHistory(ctx context.Context, wheelID int64, limit uint64) ([]model.Selection, error)
	DeleteByWheel(ctx context.Context, wheelID int64) error
}

// UserRepository хранит имена пользователей для отображения на колесе
type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
}

type RenderLogRepository interface {
	Record(ctx context.Context, entry *model.RenderLogEntry) (int64, error)
	Recent(ctx context.Context, limit int) ([]model.RenderLogEntry, error)
	Close() error
}
