package model

type EventKind string

const (
	EventSpin   EventKind = "spin"
	EventJoin   EventKind = "join"
	EventLeave  EventKind = "leave"
	EventDelete EventKind = "delete"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventSpin, EventJoin, EventLeave, EventDelete:
		return true
	}
	return false
}
