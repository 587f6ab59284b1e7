// Package query produces the ordered, filtered views of the inventory and
// the transaction ledger that the presentation layer renders. It never
// mutates anything.
package query

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkowalczyk/goldvault/internal/domain"
	"github.com/mkowalczyk/goldvault/internal/natsort"
)

// InventoryRow is one line of the inventory view. TotalWeight is computed
// at query time from unit weight and on-hand quantity, never stored.
type InventoryRow struct {
	domain.ItemDefinition
	TotalWeight decimal.Decimal
}

// ItemChoice identifies an item for presentation pickers.
type ItemChoice struct {
	ID        int64
	Category  string
	TypeLabel string
	Purity    decimal.Decimal
	Unit      string
}

// Service answers read-only queries over both stores.
type Service struct {
	items        domain.ItemRepository
	transactions domain.TransactionRepository
}

// NewService creates a new query service instance.
func NewService(items domain.ItemRepository, transactions domain.TransactionRepository) *Service {
	return &Service{
		items:        items,
		transactions: transactions,
	}
}

// ListInventory returns all items ordered by sortKey: one of "category",
// "type", "purity", "quantity" or "weight". Unknown keys behave as
// "category". Type labels order naturally, so "Bar 2g" lists before
// "Bar 10g".
func (s *Service) ListInventory(ctx context.Context, sortKey string) ([]*InventoryRow, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*InventoryRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, &InventoryRow{
			ItemDefinition: *item,
			TotalWeight:    item.TotalWeight(),
		})
	}

	less := inventoryLess(sortKey)
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return rows, nil
}

// ListTransactions returns ledger entries restricted by filter and ordered
// by sortKey: one of "date", "type", "value" or "kind". Unknown keys
// behave as "date". Entries carry the item join fields; total value is
// available through TotalValue on each entry.
func (s *Service) ListTransactions(ctx context.Context, sortKey string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	entries, err := s.transactions.ListEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	less := ledgerLess(sortKey)
	sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
	return entries, nil
}

// ListItemChoices returns all items in picker order: category ascending,
// type label in natural order, purity descending.
func (s *Service) ListItemChoices(ctx context.Context) ([]*ItemChoice, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}

	choices := make([]*ItemChoice, 0, len(items))
	for _, item := range items {
		choices = append(choices, &ItemChoice{
			ID:        item.ID,
			Category:  item.Category,
			TypeLabel: item.TypeLabel,
			Purity:    item.Purity,
			Unit:      item.Unit,
		})
	}

	sort.SliceStable(choices, func(i, j int) bool {
		a, b := choices[i], choices[j]
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c < 0
		}
		if c := natsort.Compare(a.TypeLabel, b.TypeLabel); c != 0 {
			return c < 0
		}
		return a.Purity.GreaterThan(b.Purity)
	})
	return choices, nil
}

// ListCategories returns the distinct item categories, sorted.
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.items.ListCategories(ctx)
}

// GetAvailableQuantity returns an item's on-hand quantity; zero for an
// unknown item.
func (s *Service) GetAvailableQuantity(ctx context.Context, itemID int64) (decimal.Decimal, error) {
	return s.items.GetQuantity(ctx, itemID)
}

// GetTransaction returns one transaction joined with its item fields.
func (s *Service) GetTransaction(ctx context.Context, id int64) (*domain.LedgerEntry, error) {
	return s.transactions.GetDetail(ctx, id)
}

// inventoryLess builds the comparison chain for an inventory sort key.
func inventoryLess(sortKey string) func(a, b *InventoryRow) bool {
	switch sortKey {
	case "type":
		// Type naturally ascending, then purity descending.
		return func(a, b *InventoryRow) bool {
			if c := natsort.Compare(a.TypeLabel, b.TypeLabel); c != 0 {
				return c < 0
			}
			return a.Purity.GreaterThan(b.Purity)
		}
	case "purity":
		// Purity descending, then category, then type.
		return func(a, b *InventoryRow) bool {
			if c := b.Purity.Cmp(a.Purity); c != 0 {
				return c < 0
			}
			return categoryTypeLess(a, b)
		}
	case "quantity":
		// On-hand quantity descending, then category, then type.
		return func(a, b *InventoryRow) bool {
			if c := b.QuantityOnHand.Cmp(a.QuantityOnHand); c != 0 {
				return c < 0
			}
			return categoryTypeLess(a, b)
		}
	case "weight":
		// Total weight descending, then category, then type.
		return func(a, b *InventoryRow) bool {
			if c := b.TotalWeight.Cmp(a.TotalWeight); c != 0 {
				return c < 0
			}
			return categoryTypeLess(a, b)
		}
	default: // "category"
		// Category ascending, then purity descending, then type.
		return func(a, b *InventoryRow) bool {
			if c := strings.Compare(a.Category, b.Category); c != 0 {
				return c < 0
			}
			if c := b.Purity.Cmp(a.Purity); c != 0 {
				return c < 0
			}
			return natsort.Less(a.TypeLabel, b.TypeLabel)
		}
	}
}

// categoryTypeLess is the shared tail of most inventory sort chains:
// category ascending, then type label in natural order.
func categoryTypeLess(a, b *InventoryRow) bool {
	if c := strings.Compare(a.Category, b.Category); c != 0 {
		return c < 0
	}
	return natsort.Less(a.TypeLabel, b.TypeLabel)
}

// ledgerLess builds the comparison chain for a ledger sort key.
func ledgerLess(sortKey string) func(a, b *domain.LedgerEntry) bool {
	switch sortKey {
	case "type":
		// Category then type label, both plain lexical ascending.
		return func(a, b *domain.LedgerEntry) bool {
			if c := strings.Compare(a.Category, b.Category); c != 0 {
				return c < 0
			}
			return a.TypeLabel < b.TypeLabel
		}
	case "value":
		// Total value descending.
		return func(a, b *domain.LedgerEntry) bool {
			return b.TotalValue().LessThan(a.TotalValue())
		}
	case "kind":
		// Transaction kind ascending.
		return func(a, b *domain.LedgerEntry) bool {
			return a.Kind < b.Kind
		}
	default: // "date"
		// Date descending, ties broken by id descending so repeated
		// queries return the same order.
		return func(a, b *domain.LedgerEntry) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			return a.ID > b.ID
		}
	}
}
