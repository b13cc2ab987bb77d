package events

import "time"

// Event types
const (
	CardCreated = "card.created"
	CardUpdated = "card.updated"
)

// Stream names
const (
	CardEventsStream = "card.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Amounts travel as decimal strings so consumers never see a float.

type CardCreatedEvent struct {
	CardID int64  `json:"cardId"`
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
}

type CardUpdatedEvent struct {
	CardID         int64  `json:"cardId"`
	Owner          string `json:"owner"`
	Amount         string `json:"amount"`
	PreviousAmount string `json:"previousAmount"`
}
