// Package sqlite persists the vault inventory and transaction ledger in a
// single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/mkowalczyk/goldvault/internal/domain"
)

// Dates are stored as TEXT in this layout. Lexical order on these strings
// matches chronological order, which the ledger date filters rely on.
const dateTimeLayout = "2006-01-02 15:04:05"

// DB wraps the database connection.
type DB struct {
	*sql.DB
}

// Open opens (creating it if necessary) the SQLite database at path and
// brings the schema up to date, including the one-time rebuild of the
// legacy layout that predates item categories and derived weight columns.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes all writers and keeps ":memory:"
	// databases from being re-created per pool connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Tx adapts *sql.Tx to domain.Tx.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Begin implements domain.TxManager.
func (db *DB) Begin(ctx context.Context) (domain.Tx, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// sqlTx unwraps a domain.Tx created by Begin.
func sqlTx(tx domain.Tx) *sql.Tx {
	return tx.(*Tx).tx
}

// initSchema creates the inventory and transactions tables if absent and
// migrates them from the legacy layout if present. The migration is a
// bootstrap concern: once it has run the schema is steady-state.
func initSchema(db *sql.DB) error {
	if err := initInventoryTable(db); err != nil {
		return err
	}
	return initTransactionsTable(db)
}

func initInventoryTable(db *sql.DB) error {
	columns, err := tableColumns(db, "inventory")
	if err != nil {
		return err
	}

	if len(columns) > 0 && !contains(columns, "category") {
		// Legacy table without categories: rebuild it, defaulting the
		// columns the old layout did not track.
		return rebuildTable(db,
			`CREATE TABLE inventory_new (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				category TEXT NOT NULL DEFAULT 'scrap',
				type TEXT NOT NULL,
				unit_weight TEXT NOT NULL,
				purity TEXT NOT NULL,
				quantity TEXT NOT NULL DEFAULT '0',
				unit TEXT NOT NULL DEFAULT 'pcs',
				notes TEXT,
				UNIQUE(category, type, purity)
			)`,
			`INSERT INTO inventory_new (type, unit_weight, purity, quantity, category, unit, notes)
				SELECT type, unit_weight, purity, quantity, 'scrap', 'pcs', '' FROM inventory`,
			"inventory")
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS inventory (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		type TEXT NOT NULL,
		unit_weight TEXT NOT NULL,
		purity TEXT NOT NULL,
		quantity TEXT NOT NULL DEFAULT '0',
		unit TEXT NOT NULL,
		notes TEXT,
		UNIQUE(category, type, purity)
	)`)
	if err != nil {
		return fmt.Errorf("failed to create inventory table: %w", err)
	}
	return nil
}

func initTransactionsTable(db *sql.DB) error {
	columns, err := tableColumns(db, "transactions")
	if err != nil {
		return err
	}

	if len(columns) > 0 && !contains(columns, "weight_total") {
		// Legacy table without derived weight columns: rebuild it, leaving
		// the derived fields NULL for historical rows.
		return rebuildTable(db,
			`CREATE TABLE transactions_new (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				item_id INTEGER REFERENCES inventory(id),
				kind TEXT NOT NULL CHECK(kind IN ('BUY', 'SELL')),
				quantity TEXT NOT NULL,
				weight_total TEXT,
				unit_price TEXT NOT NULL,
				price_per_gram TEXT,
				transaction_date TEXT NOT NULL,
				description TEXT
			)`,
			`INSERT INTO transactions_new (item_id, kind, quantity, unit_price, transaction_date, description)
				SELECT item_id, kind, quantity, unit_price, transaction_date, description FROM transactions`,
			"transactions")
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER REFERENCES inventory(id),
		kind TEXT NOT NULL CHECK(kind IN ('BUY', 'SELL')),
		quantity TEXT NOT NULL,
		weight_total TEXT,
		unit_price TEXT NOT NULL,
		price_per_gram TEXT,
		transaction_date TEXT NOT NULL,
		description TEXT
	)`)
	if err != nil {
		return fmt.Errorf("failed to create transactions table: %w", err)
	}
	return nil
}

// rebuildTable atomically replaces oldName with a freshly created table,
// copying the surviving rows across.
func rebuildTable(db *sql.DB, createStmt, copyStmt, oldName string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(createStmt); err != nil {
		return fmt.Errorf("failed to create %s_new: %w", oldName, err)
	}
	if _, err := tx.Exec(copyStmt); err != nil {
		return fmt.Errorf("failed to copy %s rows: %w", oldName, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE %s", oldName)); err != nil {
		return fmt.Errorf("failed to drop legacy %s: %w", oldName, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s_new RENAME TO %s", oldName, oldName)); err != nil {
		return fmt.Errorf("failed to rename %s_new: %w", oldName, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}

// tableColumns returns the column names of a table, or nil if the table
// does not exist.
func tableColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func contains(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
