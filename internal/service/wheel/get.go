package wheel

import (
	"context"

	"spinny_backend/internal/model"
)

// GetWheel - колесо с участниками и историей выборов. Доступно без авторизации
func (s *serv) GetWheel(ctx context.Context, publicID string) (*model.Wheel, error) {
	wheel, err := s.wheelRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	wheel.Participants, err = s.participantRepo.LoadParticipants(ctx, wheel.ID)
	if err != nil {
		return nil, err
	}

	wheel.History, err = s.historyRepo.ListHistory(ctx, wheel.ID, historyLimit)
	if err != nil {
		return nil, err
	}

	return wheel, nil
}
