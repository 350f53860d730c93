package spin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spinny_backend/internal/lib/logger/sl"
)

// Engine - колесо с одной неподвижной стрелкой.
// Победитель выбирается заранее, анимация его только показывает.
type Engine[T comparable] struct {
	cfg     Config[T]
	surface Surface
	layout  layout
	clock   Clock
	log     *slog.Logger
	observe func(State)

	period   time.Duration
	upTime   time.Duration
	downTime time.Duration
	speed    float64
	target   int

	mu      sync.Mutex
	state   State
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	result  Result[T]
	err     error
}

type Option func(*options)

type options struct {
	clock   Clock
	log     *slog.Logger
	period  time.Duration
	observe func(State)
}

func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTickPeriod переопределяет период тика. По умолчанию - число сегментов в миллисекундах
func WithTickPeriod(d time.Duration) Option {
	return func(o *options) { o.period = d }
}

// WithObserver - колбэк со снимком состояния после каждого тика
func WithObserver(f func(State)) Option {
	return func(o *options) { o.observe = f }
}

// New проверяет конфигурацию и создает движок. Ошибки конфигурации оборачивают ErrInvalidConfiguration
func New[T comparable](cfg Config[T], surface Surface, opts ...Option) (*Engine[T], error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidConfiguration)
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	target, err := cfg.targetIndex()
	if err != nil {
		return nil, err
	}

	n := len(cfg.Segments)
	o := options{
		clock:  realClock{},
		log:    slog.Default(),
		period: time.Duration(n) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.period <= 0 {
		return nil, fmt.Errorf("%w: tick period must be positive", ErrInvalidConfiguration)
	}

	return &Engine[T]{
		cfg:      cfg,
		surface:  surface,
		layout:   newLayout(cfg),
		clock:    o.clock,
		log:      o.log.With(slog.String("component", "spin")),
		observe:  o.observe,
		period:   o.period,
		upTime:   time.Duration(n) * cfg.UpDuration,
		downTime: time.Duration(n) * cfg.DownDuration,
		speed:    maxSpeed(n),
		target:   target,
		state:    newState(target, n),
	}, nil
}

// Draw рисует колесо в покое
func (e *Engine[T]) Draw() error {
	e.mu.Lock()
	st := e.state
	e.mu.Unlock()

	if err := e.layout.draw(e.surface, st.Angle, st.Current, false); err != nil {
		return fmt.Errorf("%w: %w", ErrSurface, err)
	}
	return e.endFrame()
}

// State возвращает копию текущего состояния
func (e *Engine[T]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start запускает прокрутку в реальном времени.
// Повторный вызов во время прокрутки ничего не делает и возвращает false
func (e *Engine[T]) Start(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return false
	}

	e.state = newState(e.target, len(e.cfg.Segments))
	e.running = true
	e.result, e.err = Result[T]{}, nil
	e.done = make(chan struct{})

	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	start := e.clock.Now()
	ticker := e.clock.NewTicker(e.period)
	go e.loop(ctx, ticker, start, e.done)

	return true
}

// Stop отменяет тикер текущей прокрутки
func (e *Engine[T]) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Wait ждет окончания прокрутки, запущенной через Start
func (e *Engine[T]) Wait(ctx context.Context) (Result[T], error) {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done == nil {
		return Result[T]{}, ErrNotStarted
	}

	select {
	case <-done:
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.result, e.err
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	}
}

// Simulate прогоняет ту же прокрутку на виртуальных часах: каждый тик ровно один период.
// Используется для офлайн рендера и детерминированных тестов
func (e *Engine[T]) Simulate(ctx context.Context) (Result[T], error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return Result[T]{}, ErrSpinInProgress
	}
	e.state = newState(e.target, len(e.cfg.Segments))
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	for k := 1; ; k++ {
		if err := ctx.Err(); err != nil {
			return Result[T]{}, fmt.Errorf("%w: %w", ErrStopped, err)
		}
		res, settled, err := e.step(time.Duration(k) * e.period)
		if err != nil {
			return res, err
		}
		if settled {
			return res, e.verdict(res)
		}
	}
}

func (e *Engine[T]) loop(ctx context.Context, ticker Ticker, start time.Time, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	finish := func(res Result[T], err error) {
		e.mu.Lock()
		e.result, e.err = res, err
		e.running = false
		if e.cancel != nil {
			e.cancel()
			e.cancel = nil
		}
		e.mu.Unlock()
	}

	for {
		select {
		case <-ctx.Done():
			finish(Result[T]{}, ErrStopped)
			return
		case now := <-ticker.C():
			res, settled, err := e.step(now.Sub(start))
			if err != nil {
				finish(res, err)
				return
			}
			if settled {
				finish(res, e.verdict(res))
				return
			}
		}
	}
}

// step - один тик: фаза, скорость, угол, сегмент под стрелкой, отрисовка, проверка остановки
func (e *Engine[T]) step(elapsed time.Duration) (Result[T], bool, error) {
	n := len(e.cfg.Segments)

	e.mu.Lock()
	st := &e.state
	st.Frames++
	st.Elapsed = elapsed
	st.Phase = nextPhase(st.Phase, transition{
		elapsed:  elapsed,
		upTime:   e.upTime,
		frames:   st.Frames,
		segments: n,
		target:   st.Target,
		current:  st.Current,
	})
	st.Progress = progress(st.Phase, elapsed, e.upTime, e.downTime)
	st.Velocity = velocity(st.Phase, st.Progress, e.speed)
	st.Angle = normalizeAngle(st.Angle + st.Velocity)
	st.Current = pointerIndex(st.Angle, n)

	terminal := st.Phase != PhaseAccelerating && st.Progress >= 1
	if terminal {
		st.Phase = PhaseSettled
		st.Velocity = 0
	}
	snapshot := *st
	e.mu.Unlock()

	if err := e.layout.draw(e.surface, snapshot.Angle, snapshot.Current, true); err != nil {
		e.log.Error("surface failed, spin halted", sl.Err(err), slog.Int("frame", snapshot.Frames))
		return Result[T]{}, true, fmt.Errorf("%w: %w", ErrSurface, err)
	}
	if err := e.endFrame(); err != nil {
		e.log.Error("surface failed, spin halted", sl.Err(err), slog.Int("frame", snapshot.Frames))
		return Result[T]{}, true, fmt.Errorf("%w: %w", ErrSurface, err)
	}

	if e.observe != nil {
		e.observe(snapshot)
	}

	if !terminal {
		return Result[T]{}, false, nil
	}

	res := Result[T]{
		Segment:  e.cfg.Segments[snapshot.Current],
		Index:    snapshot.Current,
		Frames:   snapshot.Frames,
		Elapsed:  snapshot.Elapsed,
		Diverged: snapshot.Target >= 0 && snapshot.Current != snapshot.Target,
	}
	if res.Diverged {
		e.log.Warn("spin settled off the locked winner",
			slog.Int("target", snapshot.Target),
			slog.Int("landed", snapshot.Current),
			slog.Int("frames", snapshot.Frames),
		)
	}
	if e.cfg.OnFinished != nil {
		e.cfg.OnFinished(res.Segment)
	}

	return res, true, nil
}

func (e *Engine[T]) verdict(res Result[T]) error {
	if res.Diverged {
		return ErrAnimationDiverged
	}
	return nil
}

func (e *Engine[T]) endFrame() error {
	if sink, ok := e.surface.(FrameSink); ok {
		return sink.EndFrame()
	}
	return nil
}

// IsDiverged - удобная проверка для вызывающего кода
func IsDiverged(err error) bool {
	return errors.Is(err, ErrAnimationDiverged)
}
