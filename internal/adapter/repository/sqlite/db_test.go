package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkowalczyk/goldvault/internal/domain"
)

// newTestDB opens a fresh in-memory database with the schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesSchema(t *testing.T) {
	db := newTestDB(t)

	columns, err := tableColumns(db.DB, "inventory")
	require.NoError(t, err)
	assert.Contains(t, columns, "category")
	assert.Contains(t, columns, "quantity")

	columns, err = tableColumns(db.DB, "transactions")
	require.NoError(t, err)
	assert.Contains(t, columns, "weight_total")
	assert.Contains(t, columns, "price_per_gram")
}

func TestOpen_IsIdempotent(t *testing.T) {
	db := newTestDB(t)

	// Re-running schema init against an up-to-date database changes nothing.
	require.NoError(t, initSchema(db.DB))
}

func TestInitSchema_MigratesLegacyLayout(t *testing.T) {
	raw, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	// Legacy layout: no category/unit on inventory, no derived columns on
	// transactions.
	_, err = raw.Exec(`CREATE TABLE inventory (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		unit_weight REAL NOT NULL,
		purity REAL NOT NULL,
		quantity REAL NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER,
		kind TEXT NOT NULL,
		quantity REAL NOT NULL,
		unit_price REAL NOT NULL,
		transaction_date TEXT NOT NULL,
		description TEXT
	)`)
	require.NoError(t, err)

	_, err = raw.Exec(`INSERT INTO inventory (type, unit_weight, purity, quantity) VALUES ('Bar 10g', 10, 99.99, 2)`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO transactions (item_id, kind, quantity, unit_price, transaction_date, description)
		VALUES (1, 'BUY', 2, 500, '2023-11-02 12:00:00', 'legacy row')`)
	require.NoError(t, err)

	require.NoError(t, initSchema(raw))

	db := &DB{DB: raw}
	ctx := context.Background()

	// The migrated item carries the defaulted category and unit.
	item, err := NewItemRepository(db).GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "scrap", item.Category)
	assert.Equal(t, "pcs", item.Unit)
	assert.Equal(t, "Bar 10g", item.TypeLabel)
	assert.True(t, item.QuantityOnHand.Equal(dec("2")))

	// The migrated transaction survives with NULL derived fields read as zero.
	tr, err := NewTransactionRepository(db).GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.KindBuy, tr.Kind)
	assert.True(t, tr.TotalWeight.IsZero())
	assert.True(t, tr.PricePerGram.IsZero())
	assert.Equal(t, "legacy row", tr.Description)
}
