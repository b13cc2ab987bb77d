package cqrs

import "github.com/christianEkogha/basic-cash-card/internal/models"

// CreateCardCommand creates a card owned by Owner, the authenticated caller.
type CreateCardCommand struct {
	Owner  string
	Amount models.Amount
}

// UpdateCardCommand replaces the amount of card ID if Owner owns it.
type UpdateCardCommand struct {
	ID     int64
	Owner  string
	Amount models.Amount
}
