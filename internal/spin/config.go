package spin

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultSize          = 290
	DefaultUpDuration    = 100 * time.Millisecond
	DefaultDownDuration  = 1000 * time.Millisecond
	DefaultButtonText    = "Spin"
	DefaultLabelMaxRunes = 21
	DefaultCenterX       = 300
	DefaultCenterY       = 300
	DefaultWidth         = 1000
	DefaultHeight        = 800
)

// DefaultColors - палитра, если цвета сегментов не заданы
var DefaultColors = []string{"red", "blue", "green"}

// Config - параметры колеса. Нулевые значения заменяются значениями по умолчанию
type Config[T comparable] struct {
	Segments    []T
	DisplayText func(T) string
	Colors      []string
	// Winner - заранее выбранный победитель, nil для свободной остановки
	Winner *T

	// UpDuration и DownDuration умножаются на число сегментов
	UpDuration   time.Duration
	DownDuration time.Duration

	Size          float64
	CenterX       float64
	CenterY       float64
	ButtonText    string
	LabelMaxRunes int

	OnFinished func(T)
}

func (c Config[T]) withDefaults() Config[T] {
	if c.DisplayText == nil {
		c.DisplayText = func(v T) string { return fmt.Sprint(v) }
	}
	if len(c.Colors) == 0 {
		c.Colors = DefaultColors
	}
	if c.UpDuration == 0 {
		c.UpDuration = DefaultUpDuration
	}
	if c.DownDuration == 0 {
		c.DownDuration = DefaultDownDuration
	}
	if c.Size == 0 {
		c.Size = DefaultSize
	}
	if c.CenterX == 0 {
		c.CenterX = DefaultCenterX
	}
	if c.CenterY == 0 {
		c.CenterY = DefaultCenterY
	}
	if c.ButtonText == "" {
		c.ButtonText = DefaultButtonText
	}
	if c.LabelMaxRunes == 0 {
		c.LabelMaxRunes = DefaultLabelMaxRunes
	}
	return c
}

func (c Config[T]) validate() error {
	n := len(c.Segments)
	if n == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidConfiguration)
	}
	if c.UpDuration <= 0 || c.DownDuration <= 0 {
		return fmt.Errorf("%w: durations must be positive (up=%s, down=%s)", ErrInvalidConfiguration, c.UpDuration, c.DownDuration)
	}
	// n * duration не должно переполнять time.Duration
	if c.UpDuration > math.MaxInt64/time.Duration(n) || c.DownDuration > math.MaxInt64/time.Duration(n) {
		return fmt.Errorf("%w: durations overflow for %d segments", ErrInvalidConfiguration, n)
	}
	for _, v := range []float64{c.Size, c.CenterX, c.CenterY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite geometry", ErrInvalidConfiguration)
		}
	}
	if c.Size < 0 {
		return fmt.Errorf("%w: negative size %v", ErrInvalidConfiguration, c.Size)
	}
	if c.LabelMaxRunes < 0 {
		return fmt.Errorf("%w: negative label limit", ErrInvalidConfiguration)
	}
	return nil
}

// targetIndex - индекс победителя среди сегментов или -1
func (c Config[T]) targetIndex() (int, error) {
	if c.Winner == nil {
		return -1, nil
	}
	for i, s := range c.Segments {
		if s == *c.Winner {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: winner is not one of the segments", ErrInvalidConfiguration)
}

// FrameCount - верхняя граница числа тиков прокрутки n сегментов при периоде по умолчанию.
// Нулевые длительности заменяются значениями по умолчанию, как в Config
func FrameCount(segments int, up, down time.Duration) int {
	if segments < 1 {
		return 0
	}
	if up == 0 {
		up = DefaultUpDuration
	}
	if down == 0 {
		down = DefaultDownDuration
	}
	// upTime и downTime растут в n раз, как и период, поэтому n сокращается
	total := up + down
	frames := int(total / time.Millisecond)
	if total%time.Millisecond != 0 {
		frames++
	}
	return frames + 1
}

// GIFFrameStep - шаг сохранения кадров, при котором в GIF попадет не больше maxFrames кадров
// плюс последний, который GIFRecorder сохраняет всегда
func GIFFrameStep(minStep, frames, maxFrames int) int {
	step := max(minStep, 1)
	if maxFrames < 1 {
		return step
	}
	return max(step, (frames+maxFrames-1)/maxFrames)
}
