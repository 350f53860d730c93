package wheel

import (
	"context"

	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/model"
)

// DeleteWheel удаляет колесо вместе с участниками и историей. Только владелец
func (s *serv) DeleteWheel(ctx context.Context, publicID string) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		wheel, err := s.wheelRepo.LockByPublicID(txCtx, publicID)
		if err != nil {
			return err
		}
		if wheel.OwnerID != userID {
			return model.ErrForbidden
		}

		if err := s.historyRepo.DeleteByWheel(txCtx, wheel.ID); err != nil {
			return err
		}
		if err := s.participantRepo.DeleteByWheel(txCtx, wheel.ID); err != nil {
			return err
		}
		return s.wheelRepo.Delete(txCtx, wheel.ID)
	})
	if err != nil {
		return err
	}

	s.lastSpins.Delete(publicID)
	s.publish(ctx, publicID, model.EventDelete, broadcast.DeletePayload(publicID))

	return nil
}
