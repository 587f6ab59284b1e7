// Package ledger implements the transaction engine: the one component
// allowed to mutate on-hand quantities. Every mutation is expressed as
// "compute inverse effect, then apply new effect" inside a single storage
// transaction, which is what keeps the ledger and the inventory from
// drifting apart across edits and deletes.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkowalczyk/goldvault/internal/domain"
)

// Accepted date inputs. A bare date gets the current wall-clock time
// appended so records stay fully ordered within a day.
const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

// CreateItemInput represents the input for defining a new inventory item.
type CreateItemInput struct {
	Category   string
	TypeLabel  string
	UnitWeight decimal.Decimal
	Purity     decimal.Decimal
	Unit       string
	Notes      string
}

// TransactionInput represents the input for recording a transaction, and
// equally the full replacement parameters of an edit.
type TransactionInput struct {
	ItemID      int64
	Kind        domain.Kind
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Date        string
	Description string
}

// Service is the transaction engine. All mutating operations are
// serialized by a single mutex so the reverse-then-reapply sequences are
// never interleaved; each runs inside one storage transaction so a failure
// at any step leaves state exactly as it was before the call.
type Service struct {
	mu           sync.Mutex
	txm          domain.TxManager
	items        domain.ItemRepository
	transactions domain.TransactionRepository
	now          func() time.Time
}

// NewService creates a new ledger engine instance.
func NewService(txm domain.TxManager, items domain.ItemRepository, transactions domain.TransactionRepository) *Service {
	return &Service{
		txm:          txm,
		items:        items,
		transactions: transactions,
		now:          time.Now,
	}
}

// CreateItem defines a new inventory item with zero on-hand quantity.
// Returns domain.ErrDuplicateItem if an item with the same
// (category, type, purity) already exists.
func (s *Service) CreateItem(ctx context.Context, input CreateItemInput) (int64, error) {
	item := &domain.ItemDefinition{
		Category:       input.Category,
		TypeLabel:      input.TypeLabel,
		UnitWeight:     input.UnitWeight,
		Purity:         input.Purity,
		QuantityOnHand: decimal.Zero,
		Unit:           input.Unit,
		Notes:          input.Notes,
	}
	if err := item.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items.Create(ctx, item)
}

// RecordTransaction applies a new Buy or Sell against the referenced item:
// the transaction row and the inventory adjustment land atomically or not
// at all. A Sell that would drive the on-hand quantity negative aborts
// with domain.ErrInsufficientInventory before any mutation.
func (s *Service) RecordTransaction(ctx context.Context, input TransactionInput) (int64, error) {
	t, err := s.buildTransaction(0, input)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	item, err := s.items.GetForUpdate(ctx, tx, input.ItemID)
	if err != nil {
		return 0, err
	}

	if input.Kind == domain.KindSell && item.QuantityOnHand.LessThan(input.Quantity) {
		return 0, domain.ErrInsufficientInventory
	}

	deriveFields(t, item)

	id, err := s.transactions.Insert(ctx, tx, t)
	if err != nil {
		return 0, err
	}
	if err := s.items.AdjustQuantity(ctx, tx, item.ID, t.SignedQuantity()); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// EditTransaction replaces a transaction's parameters in full, keeping its
// id. The old effect is reversed on its original item, then the
// replacement is validated and applied against the (possibly different)
// new item. Any failure after the tentative reversal rolls the storage
// transaction back, so an aborted edit leaves ledger and inventory
// exactly in their pre-call state.
func (s *Service) EditTransaction(ctx context.Context, id int64, input TransactionInput) error {
	replacement, err := s.buildTransaction(id, input)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	old, err := s.transactions.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	// Reverse the old effect on its original item.
	if err := s.items.AdjustQuantity(ctx, tx, old.ItemID, old.SignedQuantity().Neg()); err != nil {
		return err
	}

	// Validate the replacement against post-reversal state.
	item, err := s.items.GetForUpdate(ctx, tx, input.ItemID)
	if err != nil {
		return err
	}
	if input.Kind == domain.KindSell && item.QuantityOnHand.LessThan(input.Quantity) {
		return domain.ErrInsufficientInventory
	}

	deriveFields(replacement, item)

	if err := s.transactions.Update(ctx, tx, replacement); err != nil {
		return err
	}
	if err := s.items.AdjustQuantity(ctx, tx, item.ID, replacement.SignedQuantity()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit edit: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction, restoring its item's on-hand
// quantity to the state it would have had if the transaction had never
// applied.
func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	old, err := s.transactions.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := s.items.AdjustQuantity(ctx, tx, old.ItemID, old.SignedQuantity().Neg()); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// buildTransaction validates input shape and normalizes the date before
// any storage is touched. Derived fields are filled in later, once the
// referenced item's unit weight is known.
func (s *Service) buildTransaction(id int64, input TransactionInput) (*domain.Transaction, error) {
	date, err := s.normalizeDate(input.Date)
	if err != nil {
		return nil, err
	}

	t := &domain.Transaction{
		ID:          id,
		ItemID:      input.ItemID,
		Kind:        input.Kind,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		Date:        date,
		Description: input.Description,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// normalizeDate parses a timestamp or bare date; a bare date gets the
// current wall-clock time appended.
func (s *Service) normalizeDate(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeLayout, value, time.Local); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "must be YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
	}
	now := s.now()
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.Local), nil
}

// deriveFields computes the weight and per-gram figures from the item the
// transaction settles against.
func deriveFields(t *domain.Transaction, item *domain.ItemDefinition) {
	t.TotalWeight = t.Quantity.Mul(item.UnitWeight)
	if item.UnitWeight.IsZero() {
		t.PricePerGram = decimal.Zero
	} else {
		t.PricePerGram = t.UnitPrice.Div(item.UnitWeight)
	}
}
