package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christianEkogha/basic-cash-card/internal/models"
	"github.com/christianEkogha/basic-cash-card/internal/paging"
)

func newMockStore(t *testing.T) (*PostgresCardStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresCardStore(db), mock
}

func TestPostgresEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(cardSchema).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, store.EnsureSchema(context.Background()))
}

func TestPostgresInsert(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO cash_cards (amount, owner) VALUES ($1, $2) RETURNING id`).
		WithArgs("250.00", "christian").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(103)))

	card := &models.Card{Amount: models.MustAmount("250"), Owner: "christian"}
	require.NoError(t, store.Insert(context.Background(), card))
	assert.Equal(t, int64(103), card.ID)
}

func TestPostgresFindByIDAndOwner(t *testing.T) {
	store, mock := newMockStore(t)
	query := `SELECT id, amount, owner FROM cash_cards WHERE id = $1 AND owner = $2`

	mock.ExpectQuery(query).WithArgs(int64(99), "christian").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "owner"}).AddRow(int64(99), []byte("123.45"), "christian"))
	card, err := store.FindByIDAndOwner(context.Background(), 99, "christian")
	require.NoError(t, err)
	assert.Equal(t, int64(99), card.ID)
	assert.True(t, card.Amount.Equal(models.MustAmount("123.45")))

	mock.ExpectQuery(query).WithArgs(int64(102), "christian").WillReturnError(sql.ErrNoRows)
	_, err = store.FindByIDAndOwner(context.Background(), 102, "christian")
	assert.ErrorIs(t, err, models.ErrCardNotFound)

	mock.ExpectQuery(query).WithArgs(int64(1), "christian").WillReturnError(errors.New("connection reset"))
	_, err = store.FindByIDAndOwner(context.Background(), 1, "christian")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrCardNotFound)
}

func TestPostgresFindByID(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT id, amount, owner FROM cash_cards WHERE id = $1`).WithArgs(int64(102)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "owner"}).AddRow(int64(102), []byte("200.00"), "karl"))

	card, err := store.FindByID(context.Background(), 102)
	require.NoError(t, err)
	assert.Equal(t, "karl", card.Owner)
}

func TestListQuery(t *testing.T) {
	tests := []struct {
		plan paging.Plan
		want string
	}{
		{
			plan: paging.Plan{Size: 20, Field: paging.FieldAmount, Direction: paging.Asc},
			want: `SELECT id, amount, owner FROM cash_cards WHERE owner = $1 ORDER BY amount ASC, id ASC LIMIT $2 OFFSET $3`,
		},
		{
			plan: paging.Plan{Size: 1, Field: paging.FieldAmount, Direction: paging.Desc},
			want: `SELECT id, amount, owner FROM cash_cards WHERE owner = $1 ORDER BY amount DESC, id ASC LIMIT $2 OFFSET $3`,
		},
		{
			plan: paging.Plan{Size: 5, Field: paging.FieldID, Direction: paging.Desc},
			want: `SELECT id, amount, owner FROM cash_cards WHERE owner = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`,
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, listQuery(tt.plan))
	}
}

func TestPostgresListByOwner(t *testing.T) {
	store, mock := newMockStore(t)
	plan := paging.Plan{Page: 1, Size: 2, Field: paging.FieldAmount, Direction: paging.Desc}

	mock.ExpectQuery(listQuery(plan)).WithArgs("christian", 2, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "owner"}).
			AddRow(int64(100), []byte("1.00"), "christian"))

	cards, err := store.ListByOwner(context.Background(), "christian", plan)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "1.00", cards[0].Amount.String())
}

func TestPostgresListByOwnerEmpty(t *testing.T) {
	store, mock := newMockStore(t)
	plan := paging.Plan{Size: 20, Field: paging.FieldAmount, Direction: paging.Asc}
	mock.ExpectQuery(listQuery(plan)).WithArgs("nobody", 20, int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "owner"}))

	cards, err := store.ListByOwner(context.Background(), "nobody", plan)
	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestPostgresUpdate(t *testing.T) {
	store, mock := newMockStore(t)
	query := `UPDATE cash_cards SET amount = $3 WHERE id = $1 AND owner = $2`

	mock.ExpectExec(query).WithArgs(int64(99), "christian", "19.99").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Update(context.Background(), &models.Card{ID: 99, Owner: "christian", Amount: models.MustAmount("19.99")}))

	mock.ExpectExec(query).WithArgs(int64(99999), "christian", "19.99").WillReturnResult(sqlmock.NewResult(0, 0))
	err := store.Update(context.Background(), &models.Card{ID: 99999, Owner: "christian", Amount: models.MustAmount("19.99")})
	assert.ErrorIs(t, err, models.ErrCardNotFound)
}
