package converter

import (
	"spinny_backend/internal/api/dto/wheel"
	"spinny_backend/internal/model"
)

func ToWheelResponse(w model.Wheel) wheel.WheelResponse {
	return wheel.WheelResponse{
		ID:           w.PublicID,
		Name:         w.Name,
		OwnerID:      w.OwnerID,
		Participants: toParticipants(w.Participants),
		History:      toSelections(w.History),
	}
}

func ToWheelsResponse(ws []model.Wheel) []wheel.WheelResponse {
	result := make([]wheel.WheelResponse, len(ws))
	for i, w := range ws {
		result[i] = ToWheelResponse(w)
	}
	return result
}

func ToSpinResponse(out model.SpinOutcome) wheel.SpinResponse {
	return wheel.SpinResponse{
		WheelID:      out.WheelPublicID,
		Winner:       toParticipant(out.Winner),
		Participants: toParticipants(out.After),
		Selection:    toSelection(out.Selection),
	}
}

func toParticipant(p model.Participant) wheel.ParticipantResponse {
	return wheel.ParticipantResponse{
		UserID: p.UserID,
		Name:   p.Name,
		Weight: p.Weight,
	}
}

func toParticipants(ps []model.Participant) []wheel.ParticipantResponse {
	result := make([]wheel.ParticipantResponse, len(ps))
	for i, p := range ps {
		result[i] = toParticipant(p)
	}
	return result
}

func toSelection(s model.Selection) wheel.SelectionResponse {
	return wheel.SelectionResponse{
		ID:                 s.PublicID,
		UserID:             s.UserID,
		UserName:           s.UserName,
		PointsWhenSelected: s.PointsWhenSelected,
		DateSelected:       s.DateSelected,
	}
}

func toSelections(ss []model.Selection) []wheel.SelectionResponse {
	if len(ss) == 0 {
		return nil
	}
	result := make([]wheel.SelectionResponse, len(ss))
	for i, s := range ss {
		result[i] = toSelection(s)
	}
	return result
}
