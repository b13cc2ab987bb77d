package repository

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/christianEkogha/basic-cash-card/internal/models"
	"github.com/christianEkogha/basic-cash-card/internal/paging"
)

var (
	cardsBucket      = []byte("cards")
	ownersBucket     = []byte("cards_by_owner")
	amountAscBucket  = []byte("cards_by_amount")
	amountDescBucket = []byte("cards_by_amount_desc")
	initialBucket    = [][]byte{cardsBucket, ownersBucket, amountAscBucket, amountDescBucket}
)

// BoltCardStore keeps cards in a single BoltDB file. It suits single-node
// deployments where running PostgreSQL is not worth it.
//
// Layout: cards/<id> holds the JSON card. Three per-owner index buckets hold
// empty markers whose key order is a listing order:
//
//	cards_by_owner/<owner>/<id>                       id
//	cards_by_amount/<owner>/<cents><id>               amount asc, id asc
//	cards_by_amount_desc/<owner>/<^cents><id>         amount desc, id asc
//
// All integers are 8-byte big-endian, so a cursor walk yields a page in
// order after skipping only the keys before it.
type BoltCardStore struct {
	db *bolt.DB
}

func NewBoltCardStore(path string) (*BoltCardStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		// Files written before the amount indexes existed get them built once.
		reindex := tx.Bucket(amountAscBucket) == nil || tx.Bucket(amountDescBucket) == nil
		for _, name := range initialBucket {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		if !reindex {
			return nil
		}
		return tx.Bucket(cardsBucket).ForEach(func(_, v []byte) error {
			var card models.Card
			if err := json.Unmarshal(v, &card); err != nil {
				return err
			}
			return indexCard(tx, &card)
		})
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare buckets: %w", err)
	}

	return &BoltCardStore{db: db}, nil
}

func (s *BoltCardStore) Close() error {
	return s.db.Close()
}

func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// amountKey encodes amount in cents followed by id. desc inverts the cents
// so a forward walk runs from the largest amount while ids stay ascending.
func amountKey(amount models.Amount, id int64, desc bool) ([]byte, error) {
	cents := amount.Shift(models.AmountScale).BigInt()
	if cents.Sign() < 0 || !cents.IsUint64() {
		return nil, fmt.Errorf("%w: cannot index %s", models.ErrInvalidAmount, amount)
	}
	c := cents.Uint64()
	if desc {
		c = ^c
	}
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], c)
	binary.BigEndian.PutUint64(key[8:], uint64(id))
	return key, nil
}

func ownerBucket(tx *bolt.Tx, index []byte, owner string) (*bolt.Bucket, error) {
	return tx.Bucket(index).CreateBucketIfNotExists([]byte(owner))
}

func indexCard(tx *bolt.Tx, card *models.Card) error {
	owned, err := ownerBucket(tx, ownersBucket, card.Owner)
	if err != nil {
		return err
	}
	if err := owned.Put(itob(card.ID), nil); err != nil {
		return err
	}
	return indexAmount(tx, card, (*bolt.Bucket).Put)
}

func indexAmount(tx *bolt.Tx, card *models.Card, op func(*bolt.Bucket, []byte, []byte) error) error {
	for _, index := range []struct {
		bucket []byte
		desc   bool
	}{{amountAscBucket, false}, {amountDescBucket, true}} {
		key, err := amountKey(card.Amount, card.ID, index.desc)
		if err != nil {
			return err
		}
		b, err := ownerBucket(tx, index.bucket, card.Owner)
		if err != nil {
			return err
		}
		if err := op(b, key, nil); err != nil {
			return err
		}
	}
	return nil
}

func unindexAmount(tx *bolt.Tx, card *models.Card) error {
	return indexAmount(tx, card, func(b *bolt.Bucket, key, _ []byte) error {
		return b.Delete(key)
	})
}

func (s *BoltCardStore) Insert(_ context.Context, card *models.Card) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		cards := tx.Bucket(cardsBucket)
		seq, err := cards.NextSequence()
		if err != nil {
			return err
		}
		stored := *card
		stored.ID = int64(seq)

		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		if err := cards.Put(itob(stored.ID), data); err != nil {
			return err
		}
		if err := indexCard(tx, &stored); err != nil {
			return err
		}
		card.ID = stored.ID
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (s *BoltCardStore) FindByID(_ context.Context, id int64) (*models.Card, error) {
	var card *models.Card
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		card, err = getCard(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *BoltCardStore) FindByIDAndOwner(_ context.Context, id int64, owner string) (*models.Card, error) {
	var card *models.Card
	err := s.db.View(func(tx *bolt.Tx) error {
		found, err := getCard(tx, id)
		if err != nil {
			return err
		}
		if found.Owner != owner {
			return models.ErrCardNotFound
		}
		card = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func getCard(tx *bolt.Tx, id int64) (*models.Card, error) {
	v := tx.Bucket(cardsBucket).Get(itob(id))
	if v == nil {
		return nil, models.ErrCardNotFound
	}
	var card models.Card
	if err := json.Unmarshal(v, &card); err != nil {
		return nil, fmt.Errorf("failed to decode card %d: %w", id, err)
	}
	return &card, nil
}

// ListByOwner walks the index matching the plan's order, skipping Offset
// keys and decoding only the cards on the page.
func (s *BoltCardStore) ListByOwner(_ context.Context, owner string, plan paging.Plan) ([]models.Card, error) {
	index, reverse := ownersBucket, false
	switch {
	case plan.Field == paging.FieldID:
		reverse = plan.Direction == paging.Desc
	case plan.Direction == paging.Desc:
		index = amountDescBucket
	default:
		index = amountAscBucket
	}

	cards := []models.Card{}
	err := s.db.View(func(tx *bolt.Tx) error {
		owned := tx.Bucket(index).Bucket([]byte(owner))
		if owned == nil {
			return nil
		}
		for _, id := range pageIDs(owned, reverse, plan.Offset(), plan.Size) {
			card, err := getCard(tx, id)
			if err != nil {
				return err
			}
			cards = append(cards, *card)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// pageIDs reads ids from the last 8 bytes of each index key.
func pageIDs(b *bolt.Bucket, reverse bool, offset int64, size int) []int64 {
	c := b.Cursor()
	first, next := c.First, c.Next
	if reverse {
		first, next = c.Last, c.Prev
	}

	ids := make([]int64, 0, size)
	var skipped int64
	for k, _ := first(); k != nil && len(ids) < size; k, _ = next() {
		if skipped < offset {
			skipped++
			continue
		}
		ids = append(ids, int64(binary.BigEndian.Uint64(k[len(k)-8:])))
	}
	return ids
}

func (s *BoltCardStore) Update(_ context.Context, card *models.Card) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		existing, err := getCard(tx, card.ID)
		if err != nil {
			return err
		}
		if existing.Owner != card.Owner {
			return models.ErrCardNotFound
		}
		previous := *existing
		existing.Amount = card.Amount

		data, err := json.Marshal(existing)
		if err != nil {
			return fmt.Errorf("failed to encode card: %w", err)
		}
		current := tx.Bucket(cardsBucket).Get(itob(card.ID))
		if bytes.Equal(current, data) {
			return nil
		}
		if err := unindexAmount(tx, &previous); err != nil {
			return err
		}
		if err := indexAmount(tx, existing, (*bolt.Bucket).Put); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		if err := tx.Bucket(cardsBucket).Put(itob(card.ID), data); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		return nil
	})
}
