package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkowalczyk/goldvault/internal/domain"
)

// insertTransaction commits a single transaction row in its own tx.
func insertTransaction(t *testing.T, db *DB, repo domain.TransactionRepository, txn *domain.Transaction) int64 {
	t.Helper()
	ctx := context.Background()

	tx, err := db.Begin(ctx)
	require.NoError(t, err)

	id, err := repo.Insert(ctx, tx, txn)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return id
}

func seedItem(t *testing.T, db *DB, category, typeLabel, purity string) int64 {
	t.Helper()
	id, err := NewItemRepository(db).Create(context.Background(), testItem(category, typeLabel, purity))
	require.NoError(t, err)
	return id
}

func testTransaction(itemID int64, kind domain.Kind, date string) *domain.Transaction {
	parsed, err := time.ParseInLocation(dateTimeLayout, date, time.Local)
	if err != nil {
		panic(err)
	}
	return &domain.Transaction{
		ItemID:       itemID,
		Kind:         kind,
		Quantity:     dec("3"),
		UnitPrice:    dec("250.50"),
		TotalWeight:  dec("30"),
		PricePerGram: dec("25.05"),
		Date:         parsed,
		Description:  "test trade",
	}
}

func TestTransactionRepository_InsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	itemID := seedItem(t, db, "bar", "Bar 10g", "99.99")

	id := insertTransaction(t, db, repo, testTransaction(itemID, domain.KindBuy, "2024-05-12 10:00:00"))

	txn, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, itemID, txn.ItemID)
	assert.Equal(t, domain.KindBuy, txn.Kind)
	assert.True(t, txn.Quantity.Equal(dec("3")))
	assert.True(t, txn.UnitPrice.Equal(dec("250.50")))
	assert.True(t, txn.TotalWeight.Equal(dec("30")))
	assert.True(t, txn.PricePerGram.Equal(dec("25.05")))
	assert.Equal(t, "2024-05-12 10:00:00", txn.Date.Format(dateTimeLayout))
	assert.Equal(t, "test trade", txn.Description)
}

func TestTransactionRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)

	_, err := repo.GetByID(context.Background(), 404)

	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestTransactionRepository_GetDetail(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	itemID := seedItem(t, db, "coin", "Eagle", "91.67")

	id := insertTransaction(t, db, repo, testTransaction(itemID, domain.KindSell, "2024-05-12 10:00:00"))

	entry, err := repo.GetDetail(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "coin", entry.Category)
	assert.Equal(t, "Eagle", entry.TypeLabel)
	assert.True(t, entry.Purity.Equal(dec("91.67")))
	assert.Equal(t, "pcs", entry.Unit)
	assert.Equal(t, domain.KindSell, entry.Kind)
}

func TestTransactionRepository_ListEntries_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	barID := seedItem(t, db, "bar", "Bar 10g", "99.99")
	coinID := seedItem(t, db, "coin", "Eagle", "91.67")

	first := insertTransaction(t, db, repo, testTransaction(barID, domain.KindBuy, "2024-05-10 09:00:00"))
	second := insertTransaction(t, db, repo, testTransaction(barID, domain.KindSell, "2024-05-12 10:00:00"))
	third := insertTransaction(t, db, repo, testTransaction(coinID, domain.KindBuy, "2024-05-14 11:00:00"))

	entryIDs := func(entries []*domain.LedgerEntry) []int64 {
		ids := make([]int64, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		return ids
	}

	tests := []struct {
		name   string
		filter domain.LedgerFilter
		want   []int64
	}{
		{
			name:   "no filter returns everything",
			filter: domain.LedgerFilter{},
			want:   []int64{first, second, third},
		},
		{
			name:   "date from is inclusive",
			filter: domain.LedgerFilter{DateFrom: "2024-05-12"},
			want:   []int64{second, third},
		},
		{
			// A bound of 2024-05-12 keeps the entry timestamped later
			// that same day.
			name:   "date to is inclusive of the whole day",
			filter: domain.LedgerFilter{DateTo: "2024-05-12"},
			want:   []int64{first, second},
		},
		{
			name:   "category",
			filter: domain.LedgerFilter{Category: "coin"},
			want:   []int64{third},
		},
		{
			name:   "kind",
			filter: domain.LedgerFilter{Kind: domain.KindBuy},
			want:   []int64{first, third},
		},
		{
			name: "conditions combine",
			filter: domain.LedgerFilter{
				DateFrom: "2024-05-11",
				Category: "bar",
				Kind:     domain.KindSell,
			},
			want: []int64{second},
		},
		{
			name:   "no match",
			filter: domain.LedgerFilter{Category: "jewelry"},
			want:   []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := repo.ListEntries(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, entryIDs(entries))
		})
	}
}

func TestTransactionRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	itemID := seedItem(t, db, "bar", "Bar 10g", "99.99")
	ctx := context.Background()

	id := insertTransaction(t, db, repo, testTransaction(itemID, domain.KindBuy, "2024-05-12 10:00:00"))

	replacement := testTransaction(itemID, domain.KindSell, "2024-05-13 08:30:00")
	replacement.ID = id
	replacement.Quantity = dec("1")
	replacement.TotalWeight = dec("10")

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, tx, replacement))
	require.NoError(t, tx.Commit())

	txn, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.KindSell, txn.Kind)
	assert.True(t, txn.Quantity.Equal(dec("1")))
	assert.True(t, txn.TotalWeight.Equal(dec("10")))
	assert.Equal(t, "2024-05-13 08:30:00", txn.Date.Format(dateTimeLayout))
}

func TestTransactionRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	itemID := seedItem(t, db, "bar", "Bar 10g", "99.99")
	ctx := context.Background()

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	missing := testTransaction(itemID, domain.KindBuy, "2024-05-12 10:00:00")
	missing.ID = 404

	assert.ErrorIs(t, repo.Update(ctx, tx, missing), domain.ErrTransactionNotFound)
}

func TestTransactionRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	itemID := seedItem(t, db, "bar", "Bar 10g", "99.99")
	ctx := context.Background()

	id := insertTransaction(t, db, repo, testTransaction(itemID, domain.KindBuy, "2024-05-12 10:00:00"))

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, tx, id))
	require.NoError(t, tx.Commit())

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestTransactionRepository_Delete_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	assert.ErrorIs(t, repo.Delete(ctx, tx, 404), domain.ErrTransactionNotFound)
}
