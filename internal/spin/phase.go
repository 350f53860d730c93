package spin

import "time"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAccelerating
	PhaseLocking
	PhaseDecelerating
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccelerating:
		return "accelerating"
	case PhaseLocking:
		return "locking"
	case PhaseDecelerating:
		return "decelerating"
	case PhaseSettled:
		return "settled"
	}
	return "unknown"
}

// transition - входные данные для выбора фазы очередного тика
type transition struct {
	elapsed  time.Duration
	upTime   time.Duration
	frames   int
	segments int
	target   int // -1, если победитель не задан
	current  int // сегмент под стрелкой до сдвига на этом тике
}

// nextPhase - переходы конечного автомата.
// Settled терминальна, Accelerating длится upTime,
// Locking требует совпадения сегмента с целью и больше segments кадров.
func nextPhase(from Phase, in transition) Phase {
	if from == PhaseSettled {
		return PhaseSettled
	}
	if in.elapsed < in.upTime {
		return PhaseAccelerating
	}
	if in.target >= 0 && in.current == in.target && in.frames > in.segments {
		return PhaseLocking
	}
	return PhaseDecelerating
}
