package spin

import (
	"math"
	"time"
)

const fullTurn = 2 * math.Pi

// maxSpeed - пиковая скорость, радиан за тик. Половина сегмента, поэтому сегменты не проскакивают
func maxSpeed(segments int) float64 {
	return math.Pi / float64(segments)
}

// progress - доля пройденной фазы
func progress(phase Phase, elapsed, upTime, downTime time.Duration) float64 {
	switch phase {
	case PhaseAccelerating:
		return clamp01(float64(elapsed) / float64(upTime))
	case PhaseLocking:
		return 1
	case PhaseDecelerating:
		return clamp01(float64(elapsed-upTime) / float64(downTime))
	}
	return 0
}

// velocity - четверть синуса на разгоне и на торможении
func velocity(phase Phase, p, peak float64) float64 {
	switch phase {
	case PhaseAccelerating:
		return peak * math.Sin(p*math.Pi/2)
	case PhaseLocking, PhaseDecelerating:
		if p >= 1 {
			return 0
		}
		return peak * math.Sin(p*math.Pi/2+math.Pi/2)
	}
	return 0
}

// normalizeAngle приводит угол к [0, 2π)
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, fullTurn)
	if a < 0 {
		a += fullTurn
	}
	if a >= fullTurn {
		a = 0
	}
	return a
}

// pointerIndex - индекс сегмента под неподвижной стрелкой сверху
func pointerIndex(angle float64, segments int) int {
	i := segments - int(math.Floor((angle+math.Pi/2)/fullTurn*float64(segments))) - 1
	i %= segments
	if i < 0 {
		i += segments
	}
	return i
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
