package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkowalczyk/goldvault/internal/domain"
)

// transactionRepository implements domain.TransactionRepository.
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `t.id, t.item_id, t.kind, t.quantity, t.weight_total,
	t.unit_price, t.price_per_gram, t.transaction_date, t.description`

const entryQuery = `
	SELECT ` + transactionColumns + `,
	       i.category, i.type, i.purity, i.unit
	FROM transactions t
	JOIN inventory i ON t.item_id = i.id
`

// GetByID retrieves a transaction by its ID.
func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions t WHERE t.id = ?", id)

	t, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetDetail retrieves a transaction joined with its item's identifying
// fields.
func (r *transactionRepository) GetDetail(ctx context.Context, id int64) (*domain.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx, entryQuery+" WHERE t.id = ?", id)
	return scanEntry(row)
}

// ListEntries retrieves transactions joined with item fields, restricted by
// filter. Conditions are combined with AND; zero-valued filter fields add
// no condition. Ordering is left to the caller.
func (r *transactionRepository) ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	query := entryQuery

	var conditions []string
	var params []any

	if filter.DateFrom != "" {
		conditions = append(conditions, "substr(t.transaction_date, 1, 10) >= ?")
		params = append(params, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, "substr(t.transaction_date, 1, 10) <= ?")
		params = append(params, filter.DateTo)
	}
	if filter.Category != "" {
		conditions = append(conditions, "i.category = ?")
		params = append(params, filter.Category)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "t.kind = ?")
		params = append(params, string(filter.Kind))
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetForUpdate retrieves a transaction inside tx.
func (r *transactionRepository) GetForUpdate(ctx context.Context, tx domain.Tx, id int64) (*domain.Transaction, error) {
	row := sqlTx(tx).QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions t WHERE t.id = ?", id)
	return scanTransaction(row)
}

// Insert persists a new transaction inside tx and returns its assigned id.
func (r *transactionRepository) Insert(ctx context.Context, tx domain.Tx, t *domain.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions
		(item_id, kind, quantity, weight_total, unit_price, price_per_gram, transaction_date, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := sqlTx(tx).ExecContext(ctx, query,
		t.ItemID,
		string(t.Kind),
		t.Quantity.String(),
		t.TotalWeight.String(),
		t.UnitPrice.String(),
		t.PricePerGram.String(),
		t.Date.Format(dateTimeLayout),
		t.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read created transaction id: %w", err)
	}
	return id, nil
}

// Update overwrites an existing transaction in place inside tx.
func (r *transactionRepository) Update(ctx context.Context, tx domain.Tx, t *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET item_id = ?, kind = ?, quantity = ?, weight_total = ?,
		    unit_price = ?, price_per_gram = ?, transaction_date = ?, description = ?
		WHERE id = ?
	`

	res, err := sqlTx(tx).ExecContext(ctx, query,
		t.ItemID,
		string(t.Kind),
		t.Quantity.String(),
		t.TotalWeight.String(),
		t.UnitPrice.String(),
		t.PricePerGram.String(),
		t.Date.Format(dateTimeLayout),
		t.Description,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction inside tx.
func (r *transactionRepository) Delete(ctx context.Context, tx domain.Tx, id int64) error {
	res, err := sqlTx(tx).ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		t                     domain.Transaction
		quantityStr, priceStr string
		weightStr, perGramStr sql.NullString
		dateStr               string
		description           sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.ItemID,
		&t.Kind,
		&quantityStr,
		&weightStr,
		&priceStr,
		&perGramStr,
		&dateStr,
		&description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	if err := fillTransaction(&t, quantityStr, priceStr, weightStr, perGramStr, dateStr, description); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanEntry(row rowScanner) (*domain.LedgerEntry, error) {
	var (
		entry                 domain.LedgerEntry
		quantityStr, priceStr string
		weightStr, perGramStr sql.NullString
		dateStr, purityStr    string
		description           sql.NullString
	)

	err := row.Scan(
		&entry.ID,
		&entry.ItemID,
		&entry.Kind,
		&quantityStr,
		&weightStr,
		&priceStr,
		&perGramStr,
		&dateStr,
		&description,
		&entry.Category,
		&entry.TypeLabel,
		&purityStr,
		&entry.Unit,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}

	if err := fillTransaction(&entry.Transaction, quantityStr, priceStr, weightStr, perGramStr, dateStr, description); err != nil {
		return nil, err
	}
	if entry.Purity, err = decimal.NewFromString(purityStr); err != nil {
		return nil, fmt.Errorf("failed to parse purity: %w", err)
	}
	return &entry, nil
}

// fillTransaction parses the TEXT columns shared by both scan helpers.
// NULL derived columns (possible on rows migrated from the legacy schema)
// come back as zero.
func fillTransaction(t *domain.Transaction, quantityStr, priceStr string, weightStr, perGramStr sql.NullString, dateStr string, description sql.NullString) error {
	var err error
	if t.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
		return fmt.Errorf("failed to parse quantity: %w", err)
	}
	if t.UnitPrice, err = decimal.NewFromString(priceStr); err != nil {
		return fmt.Errorf("failed to parse unit_price: %w", err)
	}
	if weightStr.Valid {
		if t.TotalWeight, err = decimal.NewFromString(weightStr.String); err != nil {
			return fmt.Errorf("failed to parse weight_total: %w", err)
		}
	}
	if perGramStr.Valid {
		if t.PricePerGram, err = decimal.NewFromString(perGramStr.String); err != nil {
			return fmt.Errorf("failed to parse price_per_gram: %w", err)
		}
	}
	if t.Date, err = time.ParseInLocation(dateTimeLayout, dateStr, time.Local); err != nil {
		return fmt.Errorf("failed to parse transaction_date: %w", err)
	}
	t.Description = description.String
	return nil
}
