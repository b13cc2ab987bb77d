package repository

import (
	"context"

	"github.com/christianEkogha/basic-cash-card/internal/models"
	"github.com/christianEkogha/basic-cash-card/internal/paging"
)

// CardStore is durable keyed storage for cards. Each method is atomic on its
// own; nothing here spans more than one card.
//
// Lookups that miss return models.ErrCardNotFound. FindByIDAndOwner and Update
// match on id and owner together, so a card owned by someone else is
// reported exactly like a card that does not exist.
type CardStore interface {
	// Insert assigns card.ID from a monotonically increasing sequence.
	Insert(ctx context.Context, card *models.Card) error
	FindByID(ctx context.Context, id int64) (*models.Card, error)
	FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Card, error)
	// ListByOwner orders by plan.Field and plan.Direction, then by ascending id.
	ListByOwner(ctx context.Context, owner string, plan paging.Plan) ([]models.Card, error)
	// Update replaces the amount of the card matching card.ID and card.Owner.
	// It never inserts.
	Update(ctx context.Context, card *models.Card) error
	Close() error
}
