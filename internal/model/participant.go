package model

// DefaultWeight - стартовый и минимальный вес участника колеса
const DefaultWeight = 1

// Participant - участник колеса. Идентичность определяется UserID
type Participant struct {
	UserID string
	Name   string
	Weight int
}

// DrawResult - итог одного розыгрыша.
// Winner.Weight хранит вес победителя на момент выбора
type DrawResult struct {
	Winner         Participant
	UpdatedWeights map[string]int
}
