package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/christianEkogha/basic-cash-card/internal/cqrs"
	"github.com/christianEkogha/basic-cash-card/internal/events"
	"github.com/christianEkogha/basic-cash-card/internal/guard"
	"github.com/christianEkogha/basic-cash-card/internal/models"
)

// CardWriter is the write side of the card store.
type CardWriter interface {
	Insert(ctx context.Context, card *models.Card) error
	FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
}

// CardViews keeps the cached read model in step with writes. New cards are
// cached eagerly; updated cards are invalidated.
type CardViews interface {
	CacheCardView(ctx context.Context, card *models.Card)
	InvalidateCardView(ctx context.Context, owner string, id int64)
}

// EventPublisher appends domain events to a stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// CardCommandService writes card state and keeps the read model in sync.
type CardCommandService struct {
	writer    CardWriter
	views     CardViews
	guard     *guard.Guard
	publisher EventPublisher
}

// NewCardCommandService wires the write side. publisher may be nil, in which
// case no events are emitted.
func NewCardCommandService(writer CardWriter, views CardViews, publisher EventPublisher) *CardCommandService {
	return &CardCommandService{
		writer:    writer,
		views:     views,
		guard:     guard.New(writer),
		publisher: publisher,
	}
}

// CreateCard stores a new card for the caller. Any owner the client may have
// sent never reaches this point; cmd.Owner is always the authenticated user.
func (s *CardCommandService) CreateCard(ctx context.Context, cmd cqrs.CreateCardCommand) (*models.Card, error) {
	if cmd.Owner == "" {
		return nil, errors.New("card owner is required")
	}
	if err := cmd.Amount.Validate(); err != nil {
		return nil, err
	}

	card := &models.Card{
		Amount: cmd.Amount.Normalize(),
		Owner:  cmd.Owner,
	}
	if err := s.writer.Insert(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	s.views.CacheCardView(ctx, card)
	s.publish(ctx, events.CardCreated, events.CardCreatedEvent{
		CardID: card.ID,
		Owner:  card.Owner,
		Amount: card.Amount.String(),
	})
	return card, nil
}

// UpdateCard replaces the amount of a card the caller owns. Id and owner are
// carried over from the stored card, never from the command.
func (s *CardCommandService) UpdateCard(ctx context.Context, cmd cqrs.UpdateCardCommand) (*models.Card, error) {
	if err := cmd.Amount.Validate(); err != nil {
		return nil, err
	}

	current, err := s.guard.Authorize(ctx, cmd.ID, cmd.Owner)
	if err != nil {
		return nil, err
	}

	updated := &models.Card{
		ID:     current.ID,
		Owner:  current.Owner,
		Amount: cmd.Amount.Normalize(),
	}
	err = s.writer.Update(ctx, updated)
	// Overlapping updates can reach the cache out of order, so the view is
	// dropped, never overwritten. The next read warms it from the store.
	s.views.InvalidateCardView(ctx, current.Owner, current.ID)
	if err != nil {
		if errors.Is(err, models.ErrCardNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update card %d: %w", current.ID, err)
	}

	s.publish(ctx, events.CardUpdated, events.CardUpdatedEvent{
		CardID:         updated.ID,
		Owner:          updated.Owner,
		Amount:         updated.Amount.String(),
		PreviousAmount: current.Amount.String(),
	})
	return updated, nil
}

func (s *CardCommandService) publish(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.CardEventsStream, eventType, data); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
