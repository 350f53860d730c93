package model

import "time"

type Wheel struct {
	ID           int64
	PublicID     string
	Name         string
	OwnerID      string
	Participants []Participant
	History      []Selection
}

// Selection - запись в истории выборов колеса
type Selection struct {
	PublicID           string
	WheelID            int64
	UserID             string
	UserName           string
	PointsWhenSelected int
	DateSelected       time.Time
}

// SpinOutcome - результат прокрутки колеса на сервере
type SpinOutcome struct {
	WheelPublicID string
	Winner        Participant
	Before        []Participant // Участники до розыгрыша, в порядке сегментов
	After         []Participant // Участники с обновленными весами
	Selection     Selection
}

// RenderLogEntry - запись о локальном рендере прокрутки
type RenderLogEntry struct {
	ID        int64
	Names     []string
	Winner    string
	Landed    string
	Frames    int
	Virtual   time.Duration
	Diverged  bool
	Output    string
	CreatedAt time.Time
}
