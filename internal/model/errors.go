package model

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrWheelNotFound = errors.New("wheel not found")
	ErrAlreadyJoined = errors.New("user already joined the wheel")
	ErrNotJoined     = errors.New("user is not a participant of the wheel")
	ErrNoSpin        = errors.New("wheel has not been spun yet")
)
