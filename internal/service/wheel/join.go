package wheel

import (
	"context"

	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/model"
)

// JoinWheel добавляет вызывающего в участники с весом по умолчанию
func (s *serv) JoinWheel(ctx context.Context, publicID string) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}

	// Блокировка колеса не дает вступить посреди розыгрыша
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		wheel, err := s.wheelRepo.LockByPublicID(txCtx, publicID)
		if err != nil {
			return err
		}

		if err := s.remember(txCtx); err != nil {
			return err
		}

		added, err := s.participantRepo.Join(txCtx, wheel.ID, userID, model.DefaultWeight)
		if err != nil {
			return err
		}
		if !added {
			return model.ErrAlreadyJoined
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, publicID, model.EventJoin, broadcast.JoinPayload(userID))

	return nil
}
