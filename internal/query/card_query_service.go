package query

import (
	"context"

	"github.com/christianEkogha/basic-cash-card/internal/cqrs"
	"github.com/christianEkogha/basic-cash-card/internal/guard"
	"github.com/christianEkogha/basic-cash-card/internal/models"
	"github.com/christianEkogha/basic-cash-card/internal/paging"
)

// CardReader is the read model the query side serves from.
type CardReader interface {
	FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Card, error)
	ListByOwner(ctx context.Context, owner string, plan paging.Plan) ([]models.Card, error)
}

type CardQueryService struct {
	reader   CardReader
	guard    *guard.Guard
	resolver *paging.Resolver
}

func NewCardQueryService(reader CardReader, resolver *paging.Resolver) *CardQueryService {
	return &CardQueryService{
		reader:   reader,
		guard:    guard.New(reader),
		resolver: resolver,
	}
}

// GetCard returns the card only if q.Owner owns it.
func (s *CardQueryService) GetCard(ctx context.Context, q cqrs.GetCardQuery) (*models.Card, error) {
	return s.guard.Authorize(ctx, q.ID, q.Owner)
}

// ListCards returns one page of the owner's cards, never nil.
func (s *CardQueryService) ListCards(ctx context.Context, q cqrs.ListCardsQuery) ([]models.Card, error) {
	plan, err := s.resolver.Resolve(paging.RawParams{Page: q.Page, Size: q.Size, Sort: q.Sort})
	if err != nil {
		return nil, err
	}

	cards, err := s.reader.ListByOwner(ctx, q.Owner, plan)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}
