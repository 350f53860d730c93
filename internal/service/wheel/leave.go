package wheel

import (
	"context"

	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/model"
)

func (s *serv) LeaveWheel(ctx context.Context, publicID string) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		wheel, err := s.wheelRepo.LockByPublicID(txCtx, publicID)
		if err != nil {
			return err
		}

		removed, err := s.participantRepo.Leave(txCtx, wheel.ID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return model.ErrNotJoined
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, publicID, model.EventLeave, broadcast.LeavePayload(userID))

	return nil
}
