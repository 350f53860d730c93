package spin

import "time"

// State - состояние одной прокрутки. Создается заново при каждом запуске
type State struct {
	Angle    float64
	Velocity float64
	Progress float64
	Elapsed  time.Duration
	Frames   int
	Phase    Phase
	Target   int
	Current  int
}

func newState(target, segments int) State {
	return State{
		Phase:   PhaseIdle,
		Target:  target,
		Current: pointerIndex(0, segments),
	}
}

// Result - итог прокрутки
type Result[T comparable] struct {
	Segment  T
	Index    int
	Frames   int
	Elapsed  time.Duration
	Diverged bool
}
