package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/christianEkogha/basic-cash-card/internal/models"
	"github.com/christianEkogha/basic-cash-card/internal/paging"
)

const cardSchema = `
	CREATE TABLE IF NOT EXISTS cash_cards (
		id     BIGSERIAL PRIMARY KEY,
		amount NUMERIC(19, 2) NOT NULL CHECK (amount >= 0),
		owner  VARCHAR(256) NOT NULL
	);
	CREATE INDEX IF NOT EXISTS cash_cards_owner_amount_id_idx ON cash_cards (owner, amount, id);
`

// PostgresCardStore keeps cards in PostgreSQL, the source of truth in
// production deployments.
type PostgresCardStore struct {
	db *sql.DB
}

func NewPostgresCardStore(db *sql.DB) *PostgresCardStore {
	return &PostgresCardStore{db: db}
}

// EnsureSchema creates the cash_cards table and its listing index if missing.
func (r *PostgresCardStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, cardSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *PostgresCardStore) Insert(ctx context.Context, card *models.Card) error {
	query := `INSERT INTO cash_cards (amount, owner) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, card.Amount, card.Owner).Scan(&card.ID); err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *PostgresCardStore) FindByID(ctx context.Context, id int64) (*models.Card, error) {
	query := `SELECT id, amount, owner FROM cash_cards WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresCardStore) FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Card, error) {
	query := `SELECT id, amount, owner FROM cash_cards WHERE id = $1 AND owner = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, owner))
}

func (r *PostgresCardStore) scanOne(row *sql.Row) (*models.Card, error) {
	var card models.Card
	err := row.Scan(&card.ID, &card.Amount, &card.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *PostgresCardStore) ListByOwner(ctx context.Context, owner string, plan paging.Plan) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, listQuery(plan), owner, plan.Size, plan.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(&card.ID, &card.Amount, &card.Owner); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// listQuery only ever interpolates allow-listed column names and keywords
// from the plan.
func listQuery(plan paging.Plan) string {
	order := plan.Field.Column() + " " + plan.Direction.SQL()
	if plan.Field != paging.FieldID {
		order += ", id ASC"
	}
	return `SELECT id, amount, owner FROM cash_cards WHERE owner = $1 ORDER BY ` + order + ` LIMIT $2 OFFSET $3`
}

func (r *PostgresCardStore) Update(ctx context.Context, card *models.Card) error {
	query := `UPDATE cash_cards SET amount = $3 WHERE id = $1 AND owner = $2`
	result, err := r.db.ExecContext(ctx, query, card.ID, card.Owner, card.Amount)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrCardNotFound
	}
	return nil
}

func (r *PostgresCardStore) Close() error {
	return r.db.Close()
}
