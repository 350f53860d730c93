// Package lottery реализует самобалансирующуюся взвешенную лотерею:
// победитель сбрасывает вес до 1, остальные получают +1.
package lottery

import (
	"fmt"

	"spinny_backend/internal/model"
)

var ErrInvalidInput = model.ErrInvalidInput

// Draw выбирает победителя пропорционально весам и пересчитывает веса.
// Порядок участников определяет отображение r -> участник.
func Draw(participants []model.Participant, src RandomSource) (*model.DrawResult, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: empty participant set", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if p.Weight < model.DefaultWeight {
			return nil, fmt.Errorf("%w: participant %q has weight %d", ErrInvalidInput, p.UserID, p.Weight)
		}
		if _, ok := seen[p.UserID]; ok {
			return nil, fmt.Errorf("%w: duplicate participant %q", ErrInvalidInput, p.UserID)
		}
		seen[p.UserID] = struct{}{}
	}

	// Единственный участник выигрывает всегда, случайность не нужна
	idx := 0
	if len(participants) > 1 {
		if src == nil {
			src = NewSource()
		}
		idx = Pick(participants, src.Float64())
	}

	return &model.DrawResult{
		Winner:         participants[idx],
		UpdatedWeights: Rebalance(participants, idx),
	}, nil
}

// Pick возвращает индекс первого участника, чья накопленная вероятность >= r.
// Если из-за округления такого нет, возвращается последний.
func Pick(participants []model.Participant, r float64) int {
	total := 0
	for _, p := range participants {
		total += p.Weight
	}

	cumulative := 0.0
	for i, p := range participants {
		cumulative += float64(p.Weight) / float64(total)
		if cumulative >= r {
			return i
		}
	}

	return len(participants) - 1
}

// Rebalance - вес победителя сбрасывается до 1, остальным +1
func Rebalance(participants []model.Participant, winner int) map[string]int {
	weights := make(map[string]int, len(participants))
	for i, p := range participants {
		if i == winner {
			weights[p.UserID] = model.DefaultWeight
			continue
		}
		weights[p.UserID] = p.Weight + 1
	}
	return weights
}

// Apply возвращает копию участников с весами из результата розыгрыша
func Apply(participants []model.Participant, res *model.DrawResult) []model.Participant {
	out := make([]model.Participant, len(participants))
	for i, p := range participants {
		out[i] = p
		if w, ok := res.UpdatedWeights[p.UserID]; ok {
			out[i].Weight = w
		}
	}
	return out
}
