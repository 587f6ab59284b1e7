package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Tx represents an in-flight storage transaction. Every compound mutation
// the engine performs happens inside exactly one Tx: either all of its
// writes commit or none do.
type Tx interface {
	Commit() error
	Rollback() error
}

// TxManager begins storage transactions for the ledger engine.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// ItemRepository defines persistence for item definitions (the inventory
// store). The tx-scoped methods exist for the ledger engine only; nothing
// else may mutate on-hand quantities.
type ItemRepository interface {
	// Create inserts a new item definition with zero on-hand quantity and
	// returns its assigned id. Returns ErrDuplicateItem if an item with the
	// same (category, type, purity) already exists.
	Create(ctx context.Context, item *ItemDefinition) (int64, error)

	// GetByID retrieves an item definition. Returns ErrItemNotFound.
	GetByID(ctx context.Context, id int64) (*ItemDefinition, error)

	// GetQuantity returns the on-hand quantity for an item, or zero if the
	// item is unknown (an unknown item simply has no inventory).
	GetQuantity(ctx context.Context, id int64) (decimal.Decimal, error)

	// List retrieves all item definitions in no particular order.
	List(ctx context.Context) ([]*ItemDefinition, error)

	// ListCategories retrieves the distinct category labels, sorted.
	ListCategories(ctx context.Context) ([]string, error)

	// GetForUpdate retrieves an item definition inside tx.
	GetForUpdate(ctx context.Context, tx Tx, id int64) (*ItemDefinition, error)

	// AdjustQuantity adds delta (which may be negative) to the item's
	// on-hand quantity inside tx.
	AdjustQuantity(ctx context.Context, tx Tx, id int64, delta decimal.Decimal) error
}

// TransactionRepository defines persistence for ledger transactions (the
// ledger store). It holds no business logic; ordering of listings is the
// query service's responsibility.
type TransactionRepository interface {
	// GetByID retrieves a transaction. Returns ErrTransactionNotFound.
	GetByID(ctx context.Context, id int64) (*Transaction, error)

	// GetDetail retrieves a transaction joined with its item's identifying
	// fields. Returns ErrTransactionNotFound.
	GetDetail(ctx context.Context, id int64) (*LedgerEntry, error)

	// ListEntries retrieves transactions joined with item fields, restricted
	// by filter, in no particular order.
	ListEntries(ctx context.Context, filter LedgerFilter) ([]*LedgerEntry, error)

	// GetForUpdate retrieves a transaction inside tx.
	GetForUpdate(ctx context.Context, tx Tx, id int64) (*Transaction, error)

	// Insert persists a new transaction inside tx and returns its id.
	Insert(ctx context.Context, tx Tx, t *Transaction) (int64, error)

	// Update overwrites an existing transaction in place (same id) inside tx.
	Update(ctx context.Context, tx Tx, t *Transaction) error

	// Delete removes a transaction inside tx.
	Delete(ctx context.Context, tx Tx, id int64) error
}
