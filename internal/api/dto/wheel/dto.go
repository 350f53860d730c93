package wheel

import "time"

type CreateWheelRequest struct {
	Name string `json:"name"` // Название колеса (1-100 символов)
}

type ParticipantResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"` // Очки, растут на 1 за каждый розыгрыш без победы
}

type SelectionResponse struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	UserName           string    `json:"user_name"`
	PointsWhenSelected int       `json:"points_when_selected"`
	DateSelected       time.Time `json:"date_selected"`
}

type WheelResponse struct {
	ID           string                `json:"id"` // Публичный ID
	Name         string                `json:"name"`
	OwnerID      string                `json:"owner_id"`
	Participants []ParticipantResponse `json:"participants"`
	History      []SelectionResponse   `json:"history,omitempty"`
}

type SpinResponse struct {
	WheelID      string                `json:"wheel_id"`
	Winner       ParticipantResponse   `json:"winner"`
	Participants []ParticipantResponse `json:"participants"` // Веса после розыгрыша
	Selection    SelectionResponse     `json:"selection"`
}
