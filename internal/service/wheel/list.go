package wheel

import (
	"context"

	"spinny_backend/internal/model"
)

// MyWheels - колеса вызывающего вместе с участниками
func (s *serv) MyWheels(ctx context.Context) ([]model.Wheel, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	wheels, err := s.wheelRepo.ListOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withParticipants(ctx, wheels)
}

// ParticipatingWheels - колеса, в которых участвует вызывающий
func (s *serv) ParticipatingWheels(ctx context.Context) ([]model.Wheel, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	wheels, err := s.wheelRepo.ListParticipating(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withParticipants(ctx, wheels)
}

func (s *serv) withParticipants(ctx context.Context, wheels []model.Wheel) ([]model.Wheel, error) {
	for i := range wheels {
		ps, err := s.participantRepo.LoadParticipants(ctx, wheels[i].ID)
		if err != nil {
			return nil, err
		}
		wheels[i].Participants = ps
	}
	return wheels, nil
}
