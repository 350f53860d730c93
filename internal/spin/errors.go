package spin

import "errors"

var (
	// ErrInvalidConfiguration - пустой список сегментов, неположительные или бесконечные размеры
	ErrInvalidConfiguration = errors.New("spin: invalid configuration")
	// ErrAnimationDiverged - колесо остановилось не на заранее выбранном сегменте
	ErrAnimationDiverged = errors.New("spin: animation diverged from the locked winner")
	ErrSurface           = errors.New("spin: rendering surface failed")
	ErrStopped           = errors.New("spin: stopped before settling")
	ErrSpinInProgress    = errors.New("spin: a spin is already in progress")
	ErrNotStarted        = errors.New("spin: not started")
)
