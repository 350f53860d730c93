package wheel

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"spinny_backend/internal/model"
	"spinny_backend/internal/spin"
)

// RenderLastSpin отдает GIF последней прокрутки. Каждая прокрутка рендерится один раз,
// повторные запросы получают байты из кэша
func (s *serv) RenderLastSpin(ctx context.Context, publicID string) ([]byte, error) {
	segments, winner, selectionID, err := s.lastSpin(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if data, ok := s.renders.Get(selectionID); ok {
		return data.([]byte), nil
	}

	// Одновременные запросы одной прокрутки ждут один рендер
	v, err, _ := s.renderGroup.Do(selectionID, func() (any, error) {
		if data, ok := s.renders.Get(selectionID); ok {
			return data, nil
		}

		if err := s.renderSem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer s.renderSem.Release(1)

		data, err := s.render(ctx, publicID, segments, winner)
		if err != nil {
			return nil, err
		}
		s.renders.Set(selectionID, data, cache.DefaultExpiration)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// renderGIF проигрывает прокрутку на виртуальных часах и кодирует ее в GIF.
// Победитель известен заранее, анимация только на нем останавливается
func (s *serv) renderGIF(ctx context.Context, publicID string, segments []model.Participant, winner model.Participant) ([]byte, error) {
	canvasOpts := []spin.CanvasOption{spin.WithBackground(s.spinCfg.Background())}
	if path := s.spinCfg.FontPath(); path != "" {
		canvasOpts = append(canvasOpts, spin.WithFont(path, s.spinCfg.FontPoints()))
	}
	cv, err := spin.NewCanvas(s.spinCfg.Width(), s.spinCfg.Height(), canvasOpts...)
	if err != nil {
		return nil, fmt.Errorf("create canvas: %w", err)
	}

	frames := spin.FrameCount(len(segments), s.spinCfg.UpDuration(), s.spinCfg.DownDuration())
	step := spin.GIFFrameStep(s.spinCfg.GIFFrameStep(), frames, maxGIFFrames)
	// При увеличенном шаге пауза растет так же, чтобы GIF играл с прежней скоростью
	delay := s.spinCfg.GIFDelay()
	if base := max(s.spinCfg.GIFFrameStep(), 1); step > base {
		delay = delay * time.Duration(step) / time.Duration(base)
	}
	rec := spin.NewGIFRecorder(cv, step, delay)

	engine, err := spin.New(spin.Config[model.Participant]{
		Segments:      segments,
		DisplayText:   displayName,
		Colors:        s.spinCfg.Colors(),
		Winner:        &winner,
		UpDuration:    s.spinCfg.UpDuration(),
		DownDuration:  s.spinCfg.DownDuration(),
		Size:          s.spinCfg.Size(),
		ButtonText:    s.spinCfg.ButtonText(),
		LabelMaxRunes: s.spinCfg.LabelMaxRunes(),
	}, rec, spin.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	res, err := engine.Simulate(ctx)
	if err != nil && !spin.IsDiverged(err) {
		return nil, err
	}
	if res.Diverged {
		s.log.Warn("rendered spin does not show the recorded winner",
			slog.String("wheel", publicID),
			slog.String("winner", winner.UserID),
			slog.String("landed", res.Segment.UserID),
		)
	}

	var buf bytes.Buffer
	if err := rec.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

// lastSpin - сегменты, победитель и ID записи истории последней прокрутки.
// Сначала кэш, потом история: тогда сегменты - текущие участники
func (s *serv) lastSpin(ctx context.Context, publicID string) ([]model.Participant, model.Participant, string, error) {
	if v, ok := s.lastSpins.Get(publicID); ok {
		out := v.(*model.SpinOutcome)
		return out.Before, out.Winner, out.Selection.PublicID, nil
	}

	wheel, err := s.wheelRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, model.Participant{}, "", err
	}

	history, err := s.historyRepo.ListHistory(ctx, wheel.ID, 1)
	if err != nil {
		return nil, model.Participant{}, "", err
	}
	if len(history) == 0 {
		return nil, model.Participant{}, "", model.ErrNoSpin
	}

	participants, err := s.participantRepo.LoadParticipants(ctx, wheel.ID)
	if err != nil {
		return nil, model.Participant{}, "", err
	}
	for _, p := range participants {
		if p.UserID == history[0].UserID {
			return participants, p, history[0].PublicID, nil
		}
	}

	// Победитель уже покинул колесо
	return nil, model.Participant{}, "", model.ErrNoSpin
}

func displayName(p model.Participant) string {
	if p.Name != "" {
		return p.Name
	}
	return p.UserID
}
