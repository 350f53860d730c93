package service

import (
	"context"

	"spinny_backend/internal/model"
)

type WheelService interface {
	CreateWheel(ctx context.Context, name string) (*model.Wheel, error)
	DeleteWheel(ctx context.Context, publicID string) error
	JoinWheel(ctx context.Context, publicID string) error
	LeaveWheel(ctx context.Context, publicID string) error
	MyWheels(ctx context.Context) ([]model.Wheel, error)
	ParticipatingWheels(ctx context.Context) ([]model.Wheel, error)
	GetWheel(ctx context.Context, publicID string) (*model.Wheel, error)
	SpinWheel(ctx context.Context, publicID string) (*model.SpinOutcome, error)
	// RenderLastSpin - GIF с анимацией последней прокрутки колеса
	RenderLastSpin(ctx context.Context, publicID string) ([]byte, error)
}
