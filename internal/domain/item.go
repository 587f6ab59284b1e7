package domain

import (
	"github.com/shopspring/decimal"
)

// ItemDefinition represents one tracked gold holding: a distinct
// (category, type, purity) combination with its own on-hand quantity.
type ItemDefinition struct {
	ID             int64
	Category       string          // e.g. "scrap", "coin", "bar", "jewelry"
	TypeLabel      string          // specific item within the category, e.g. "Bar 10g"
	UnitWeight     decimal.Decimal // grams per unit, always positive
	Purity         decimal.Decimal // percent, in (0, 100]
	QuantityOnHand decimal.Decimal // mutated only by the ledger engine, never negative
	Unit           string          // unit of measure, e.g. "pcs", "g", "oz"
	Notes          string
}

// Validate ensures the item definition adheres to domain rules.
// QuantityOnHand is not checked here: it starts at zero and is owned
// by the ledger engine afterwards.
func (i *ItemDefinition) Validate() error {
	if i.Category == "" {
		return NewValidationError("category", "must not be empty")
	}
	if i.TypeLabel == "" {
		return NewValidationError("type", "must not be empty")
	}
	if i.Unit == "" {
		return NewValidationError("unit", "must not be empty")
	}
	if i.UnitWeight.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("unit weight", "must be positive")
	}
	if i.Purity.LessThanOrEqual(decimal.Zero) || i.Purity.GreaterThan(decimal.NewFromInt(100)) {
		return NewValidationError("purity", "must be greater than 0 and at most 100")
	}
	return nil
}

// TotalWeight returns the on-hand weight in grams (unit weight times quantity).
// Computed at query time, never stored.
func (i *ItemDefinition) TotalWeight() decimal.Decimal {
	return i.UnitWeight.Mul(i.QuantityOnHand)
}
