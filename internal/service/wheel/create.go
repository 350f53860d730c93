package wheel

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"spinny_backend/internal/model"
)

const maxNameRunes = 100

// CreateWheel создает колесо. Владелец сразу становится участником с весом 1
func (s *serv) CreateWheel(ctx context.Context, name string) (*model.Wheel, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameRunes {
		return nil, fmt.Errorf("%w: wheel name must be 1..%d characters", model.ErrInvalidInput, maxNameRunes)
	}

	wheel := &model.Wheel{
		PublicID: s.newID(),
		Name:     name,
		OwnerID:  userID,
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.remember(txCtx); err != nil {
			return err
		}

		id, err := s.wheelRepo.Create(txCtx, wheel)
		if err != nil {
			return err
		}
		wheel.ID = id

		if _, err := s.participantRepo.Join(txCtx, id, userID, model.DefaultWeight); err != nil {
			return err
		}

		wheel.Participants, err = s.participantRepo.LoadParticipants(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return wheel, nil
}
