// Package guard decides whether a caller may touch a card.
package guard

import (
	"context"

	"github.com/christianEkogha/basic-cash-card/internal/models"
)

// CardFinder is the single lookup the guard needs.
type CardFinder interface {
	FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Card, error)
}

// Guard resolves id+caller to a card in one lookup. A card owned by someone
// else is reported as models.ErrCardNotFound, never as forbidden, so callers
// cannot discover ids they do not own.
type Guard struct {
	finder CardFinder
}

func New(finder CardFinder) *Guard {
	return &Guard{finder: finder}
}

// Authorize returns the card if it exists and belongs to owner.
func (g *Guard) Authorize(ctx context.Context, id int64, owner string) (*models.Card, error) {
	if owner == "" {
		return nil, models.ErrCardNotFound
	}
	return g.finder.FindByIDAndOwner(ctx, id, owner)
}
