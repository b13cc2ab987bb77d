package repository

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/christianEkogha/basic-cash-card/internal/models"
	"github.com/christianEkogha/basic-cash-card/internal/paging"
	sharedredis "github.com/christianEkogha/basic-cash-card/internal/redis"
)

const cardViewKeyPrefix = "card:view:"

// cardViewKey scopes cache entries by owner as well as id, so a cache read
// is itself an id+owner lookup and can never surface another owner's card.
func cardViewKey(owner string, id int64) string {
	return cardViewKeyPrefix + owner + ":" + strconv.FormatInt(id, 10)
}

// CardReadRepository handles all read operations for cards.
// Single-card reads try the Redis read model first and fall back to the
// store, warming the cache on every cold read. Listing always goes to the
// store so pages reflect its ordering exactly.
type CardReadRepository struct {
	store CardStore
	cache *sharedredis.ViewCache[models.Card]
}

// NewCardReadRepository fronts store with a Redis view cache. A nil
// redisClient disables caching.
func NewCardReadRepository(store CardStore, redisClient *goredis.Client, ttl time.Duration) *CardReadRepository {
	r := &CardReadRepository{store: store}
	if redisClient != nil {
		r.cache = sharedredis.NewViewCache[models.Card](redisClient, ttl)
	}
	return r
}

func (r *CardReadRepository) FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Card, error) {
	if r.cache != nil {
		if card, ok := r.cache.Get(ctx, cardViewKey(owner, id)); ok && card.ID == id && card.Owner == owner {
			return card, nil
		}
	}

	card, err := r.store.FindByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	// Warm the cache
	r.CacheCardView(ctx, card)
	return card, nil
}

func (r *CardReadRepository) ListByOwner(ctx context.Context, owner string, plan paging.Plan) ([]models.Card, error) {
	return r.store.ListByOwner(ctx, owner, plan)
}

// CacheCardView stores or refreshes the Redis read model for a card.
// Called by the command service after every mutation to keep the read model current.
func (r *CardReadRepository) CacheCardView(ctx context.Context, card *models.Card) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, cardViewKey(card.Owner, card.ID), card)
}

// InvalidateCardView drops a cached card, forcing the next read to the store.
func (r *CardReadRepository) InvalidateCardView(ctx context.Context, owner string, id int64) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, cardViewKey(owner, id))
}
