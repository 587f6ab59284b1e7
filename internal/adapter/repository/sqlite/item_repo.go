package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/mkowalczyk/goldvault/internal/domain"
)

// itemRepository implements domain.ItemRepository.
type itemRepository struct {
	db *DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *DB) domain.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = "id, category, type, unit_weight, purity, quantity, unit, notes"

// Create inserts a new item definition with zero on-hand quantity.
func (r *itemRepository) Create(ctx context.Context, item *domain.ItemDefinition) (int64, error) {
	query := `
		INSERT INTO inventory (category, type, unit_weight, purity, quantity, unit, notes)
		VALUES (?, ?, ?, ?, '0', ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		item.Category,
		item.TypeLabel,
		item.UnitWeight.String(),
		item.Purity.String(),
		item.Unit,
		item.Notes,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, domain.ErrDuplicateItem
		}
		return 0, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read created item id: %w", err)
	}
	return id, nil
}

// GetByID retrieves an item definition by its ID.
func (r *itemRepository) GetByID(ctx context.Context, id int64) (*domain.ItemDefinition, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM inventory WHERE id = ?", id)
	return scanItem(row)
}

// GetQuantity returns the on-hand quantity for an item, or zero if the
// item is unknown: an unknown item simply has no inventory.
func (r *itemRepository) GetQuantity(ctx context.Context, id int64) (decimal.Decimal, error) {
	var quantityStr string
	err := r.db.QueryRowContext(ctx,
		"SELECT quantity FROM inventory WHERE id = ?", id).Scan(&quantityStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get item quantity: %w", err)
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse quantity: %w", err)
	}
	return quantity, nil
}

// List retrieves all item definitions in no particular order.
func (r *itemRepository) List(ctx context.Context) ([]*domain.ItemDefinition, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+itemColumns+" FROM inventory")
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*domain.ItemDefinition
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListCategories retrieves the distinct category labels, sorted.
func (r *itemRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM inventory ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetForUpdate retrieves an item definition inside tx. SQLite transactions
// lock the whole database, so no row-level FOR UPDATE clause is needed.
func (r *itemRepository) GetForUpdate(ctx context.Context, tx domain.Tx, id int64) (*domain.ItemDefinition, error) {
	row := sqlTx(tx).QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM inventory WHERE id = ?", id)
	return scanItem(row)
}

// AdjustQuantity adds delta to the item's on-hand quantity inside tx. The
// read-modify-write keeps the arithmetic in exact decimals instead of
// SQLite's float coercion.
func (r *itemRepository) AdjustQuantity(ctx context.Context, tx domain.Tx, id int64, delta decimal.Decimal) error {
	sq := sqlTx(tx)

	var quantityStr string
	err := sq.QueryRowContext(ctx,
		"SELECT quantity FROM inventory WHERE id = ?", id).Scan(&quantityStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrItemNotFound
		}
		return fmt.Errorf("failed to get quantity for adjustment: %w", err)
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return fmt.Errorf("failed to parse quantity: %w", err)
	}

	_, err = sq.ExecContext(ctx,
		"UPDATE inventory SET quantity = ? WHERE id = ?",
		quantity.Add(delta).String(), id)
	if err != nil {
		return fmt.Errorf("failed to adjust quantity: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.ItemDefinition, error) {
	var (
		item                                  domain.ItemDefinition
		unitWeightStr, purityStr, quantityStr string
		notes                                 sql.NullString
	)

	err := row.Scan(
		&item.ID,
		&item.Category,
		&item.TypeLabel,
		&unitWeightStr,
		&purityStr,
		&quantityStr,
		&item.Unit,
		&notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	if item.UnitWeight, err = decimal.NewFromString(unitWeightStr); err != nil {
		return nil, fmt.Errorf("failed to parse unit_weight: %w", err)
	}
	if item.Purity, err = decimal.NewFromString(purityStr); err != nil {
		return nil, fmt.Errorf("failed to parse purity: %w", err)
	}
	if item.QuantityOnHand, err = decimal.NewFromString(quantityStr); err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	item.Notes = notes.String

	return &item, nil
}
