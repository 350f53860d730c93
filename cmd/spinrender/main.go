// Command spinrender рисует прокрутку колеса в GIF без сервера и базы.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/config/env"
	"spinny_backend/internal/lib/logger/sl"
	"spinny_backend/internal/model"
	"spinny_backend/internal/repository/render_log_repo"
	"spinny_backend/internal/spin"
	"spinny_backend/pkg/lottery"
)

func main() {
	var (
		names      = flag.String("names", "", "comma separated segment names")
		winner     = flag.String("winner", "", "segment to land on; empty draws one with the weighted lottery")
		out        = flag.String("out", "spin.gif", "output gif path")
		up         = flag.Duration("up", 0, "acceleration time per segment (0 = config)")
		down       = flag.Duration("down", 0, "deceleration time per segment (0 = config)")
		seed       = flag.Uint64("seed", 0, "lottery seed, 0 = random")
		dbPath     = flag.String("db", "", "sqlite render log path, empty disables the log")
		configPath = flag.String("config", "config.yaml", "yaml with the spin section")
		journal    = flag.String("journal", "", "print a .jsonl.zst event journal as JSON lines and exit")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *journal != "" {
		if err := dumpJournal(os.Stdout, *journal); err != nil {
			log.Error("journal dump failed", sl.Err(err))
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, options{
		names:      *names,
		winner:     *winner,
		out:        *out,
		up:         *up,
		down:       *down,
		seed:       *seed,
		dbPath:     *dbPath,
		configPath: *configPath,
	}); err != nil {
		log.Error("render failed", sl.Err(err))
		os.Exit(1)
	}
}

type options struct {
	names      string
	winner     string
	out        string
	up         time.Duration
	down       time.Duration
	seed       uint64
	dbPath     string
	configPath string
}

func run(ctx context.Context, log *slog.Logger, o options) error {
	cfg, err := env.NewSpinConfigFromYAML(o.configPath)
	if err != nil {
		return err
	}

	participants := parseNames(o.names)
	if len(participants) == 0 {
		return errors.New("-names is required")
	}

	target, err := pickWinner(participants, o.winner, o.seed)
	if err != nil {
		return err
	}

	upDur, downDur := cfg.UpDuration(), cfg.DownDuration()
	if o.up != 0 {
		upDur = o.up
	}
	if o.down != 0 {
		downDur = o.down
	}

	canvasOpts := []spin.CanvasOption{spin.WithBackground(cfg.Background())}
	if cfg.FontPath() != "" {
		canvasOpts = append(canvasOpts, spin.WithFont(cfg.FontPath(), cfg.FontPoints()))
	}
	cv, err := spin.NewCanvas(cfg.Width(), cfg.Height(), canvasOpts...)
	if err != nil {
		return err
	}
	rec := spin.NewGIFRecorder(cv, cfg.GIFFrameStep(), cfg.GIFDelay())

	engine, err := spin.New(spin.Config[model.Participant]{
		Segments:      participants,
		DisplayText:   func(p model.Participant) string { return p.Name },
		Colors:        cfg.Colors(),
		Winner:        &target,
		UpDuration:    upDur,
		DownDuration:  downDur,
		Size:          cfg.Size(),
		ButtonText:    cfg.ButtonText(),
		LabelMaxRunes: cfg.LabelMaxRunes(),
		OnFinished: func(p model.Participant) {
			log.Info("wheel stopped", slog.String("segment", p.Name))
		},
	}, rec, spin.WithLogger(log))
	if err != nil {
		return err
	}

	res, err := engine.Simulate(ctx)
	if err != nil && !spin.IsDiverged(err) {
		return err
	}

	var buf bytes.Buffer
	if err := rec.Encode(&buf); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	if err := os.WriteFile(o.out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	log.Info("gif written",
		slog.String("path", o.out),
		slog.String("winner", target.Name),
		slog.String("landed", res.Segment.Name),
		slog.Int("frames", res.Frames),
		slog.Int("gif_frames", rec.Frames()),
		slog.Bool("diverged", res.Diverged),
	)

	if o.dbPath == "" {
		return nil
	}
	return record(ctx, o.dbPath, &model.RenderLogEntry{
		Names:     names(participants),
		Winner:    target.Name,
		Landed:    res.Segment.Name,
		Frames:    res.Frames,
		Virtual:   res.Elapsed,
		Diverged:  res.Diverged,
		Output:    o.out,
		CreatedAt: time.Now().UTC(),
	})
}

func parseNames(raw string) []model.Participant {
	var ps []model.Participant
	for _, n := range strings.Split(raw, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		ps = append(ps, model.Participant{UserID: n, Name: n, Weight: model.DefaultWeight})
	}
	return ps
}

// pickWinner - явно заданный победитель или розыгрыш лотереей
func pickWinner(ps []model.Participant, winner string, seed uint64) (model.Participant, error) {
	if winner != "" {
		for _, p := range ps {
			if p.Name == winner {
				return p, nil
			}
		}
		return model.Participant{}, fmt.Errorf("winner %q is not among -names", winner)
	}

	src := lottery.NewSource()
	if seed != 0 {
		src = lottery.NewSeededSource(seed)
	}
	res, err := lottery.Draw(ps, src)
	if err != nil {
		return model.Participant{}, err
	}
	return res.Winner, nil
}

func names(ps []model.Participant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func record(ctx context.Context, path string, e *model.RenderLogEntry) error {
	repo, err := render_log_repo.Open(path)
	if err != nil {
		return err
	}
	defer repo.Close()

	_, err = repo.Record(ctx, e)
	return err
}

// dumpJournal - печатает сообщения журнала по одному JSON на строку
func dumpJournal(w io.Writer, path string) error {
	msgs, err := broadcast.ReadJournal(path)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	enc := json.NewEncoder(w)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}
