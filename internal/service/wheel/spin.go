package wheel

import (
	"context"
	"log/slog"

	"github.com/patrickmn/go-cache"

	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/model"
	"spinny_backend/pkg/lottery"
)

// SpinWheel разыгрывает победителя. Только владелец колеса.
// Блокировка, розыгрыш, история и новые веса - одна транзакция
func (s *serv) SpinWheel(ctx context.Context, publicID string) (*model.SpinOutcome, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var out *model.SpinOutcome

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		wheel, err := s.wheelRepo.LockByPublicID(txCtx, publicID)
		if err != nil {
			return err
		}
		if wheel.OwnerID != userID {
			return model.ErrForbidden
		}

		participants, err := s.participantRepo.LoadParticipants(txCtx, wheel.ID)
		if err != nil {
			return err
		}

		// КЛЮЧЕВОЙ ВЫЗОВ
		res, err := lottery.Draw(participants, s.rnd)
		if err != nil {
			return err
		}

		selection := model.Selection{
			PublicID:           s.newID(),
			WheelID:            wheel.ID,
			UserID:             res.Winner.UserID,
			UserName:           res.Winner.Name,
			PointsWhenSelected: res.Winner.Weight,
			DateSelected:       s.now().UTC(),
		}
		if err := s.historyRepo.AppendHistory(txCtx, &selection); err != nil {
			return err
		}
		if err := s.participantRepo.SaveWeights(txCtx, wheel.ID, res.UpdatedWeights); err != nil {
			return err
		}

		out = &model.SpinOutcome{
			WheelPublicID: publicID,
			Winner:        res.Winner,
			Before:        participants,
			After:         lottery.Apply(participants, res),
			Selection:     selection,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.lastSpins.Set(publicID, out, cache.DefaultExpiration)
	s.log.Info("wheel spun",
		slog.String("wheel", publicID),
		slog.String("winner", out.Winner.UserID),
		slog.Int("participants", len(out.Before)),
	)
	s.publish(ctx, publicID, model.EventSpin, broadcast.SpinPayload(out.Winner.UserID))

	return out, nil
}
