package lottery

import (
	"math/rand/v2"
	"sync"
)

// RandomSource - источник равномерных чисел из [0, 1)
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

// NewSource возвращает потокобезопасный источник на глобальном генераторе math/rand/v2
func NewSource() RandomSource {
	return globalSource{}
}

type seededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededSource возвращает воспроизводимый источник на PCG
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{rnd: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}
