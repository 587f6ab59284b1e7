package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind represents the direction of a ledger transaction.
type Kind string

const (
	KindBuy  Kind = "BUY"
	KindSell Kind = "SELL"
)

// Valid reports whether k is one of the known transaction kinds.
func (k Kind) Valid() bool {
	return k == KindBuy || k == KindSell
}

// Transaction represents one Buy or Sell event against an item definition.
// TotalWeight and PricePerGram are derived from the referenced item's unit
// weight at the time the transaction is recorded.
type Transaction struct {
	ID           int64
	ItemID       int64
	Kind         Kind
	Quantity     decimal.Decimal // always positive
	UnitPrice    decimal.Decimal // price per unit of quantity, not per gram
	TotalWeight  decimal.Decimal // quantity * item unit weight
	PricePerGram decimal.Decimal // unit price / item unit weight
	Date         time.Time
	Description  string
}

// Validate ensures the transaction adheres to domain rules.
func (t *Transaction) Validate() error {
	if t.ItemID <= 0 {
		return NewValidationError("item", "must reference an existing item")
	}
	if !t.Kind.Valid() {
		return NewValidationError("kind", "must be BUY or SELL")
	}
	if t.Quantity.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("quantity", "must be positive")
	}
	if t.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("unit price", "must be positive")
	}
	if t.Date.IsZero() {
		return NewValidationError("date", "must be a valid calendar date")
	}
	return nil
}

// SignedQuantity returns the inventory delta this transaction applies:
// +Quantity for a Buy, -Quantity for a Sell.
func (t *Transaction) SignedQuantity() decimal.Decimal {
	if t.Kind == KindSell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// TotalValue returns quantity * unit price.
func (t *Transaction) TotalValue() decimal.Decimal {
	return t.Quantity.Mul(t.UnitPrice)
}

// LedgerEntry is a transaction joined with the identifying fields of the
// item it references, as the presentation layer displays it.
type LedgerEntry struct {
	Transaction
	Category  string
	TypeLabel string
	Purity    decimal.Decimal
	Unit      string
}

// LedgerFilter restricts a ledger listing. Zero values leave the
// corresponding field unconstrained; all set fields must match (AND).
// Date bounds are inclusive and compare against the ISO date (YYYY-MM-DD)
// prefix of the transaction timestamp.
type LedgerFilter struct {
	DateFrom string
	DateTo   string
	Category string
	Kind     Kind
}
