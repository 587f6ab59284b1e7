package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validTransaction() Transaction {
	return Transaction{
		ItemID:    1,
		Kind:      KindBuy,
		Quantity:  decimal.NewFromInt(3),
		UnitPrice: decimal.RequireFromString("250.50"),
		Date:      time.Date(2024, 5, 12, 14, 30, 0, 0, time.Local),
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr string
	}{
		{
			name:   "Valid buy passes",
			mutate: func(*Transaction) {},
		},
		{
			name:   "Valid sell passes",
			mutate: func(tx *Transaction) { tx.Kind = KindSell },
		},
		{
			name:    "Missing item reference fails",
			mutate:  func(tx *Transaction) { tx.ItemID = 0 },
			wantErr: "invalid item",
		},
		{
			name:    "Unknown kind fails",
			mutate:  func(tx *Transaction) { tx.Kind = "TRADE" },
			wantErr: "invalid kind",
		},
		{
			name:    "Zero quantity fails",
			mutate:  func(tx *Transaction) { tx.Quantity = decimal.Zero },
			wantErr: "invalid quantity",
		},
		{
			name:    "Negative quantity fails",
			mutate:  func(tx *Transaction) { tx.Quantity = decimal.NewFromInt(-2) },
			wantErr: "invalid quantity",
		},
		{
			name:    "Zero unit price fails",
			mutate:  func(tx *Transaction) { tx.UnitPrice = decimal.Zero },
			wantErr: "invalid unit price",
		},
		{
			name:    "Zero date fails",
			mutate:  func(tx *Transaction) { tx.Date = time.Time{} },
			wantErr: "invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)

			err := tx.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestTransaction_SignedQuantity(t *testing.T) {
	tx := validTransaction()

	assert.True(t, tx.SignedQuantity().Equal(decimal.NewFromInt(3)))

	tx.Kind = KindSell
	assert.True(t, tx.SignedQuantity().Equal(decimal.NewFromInt(-3)))
}

func TestTransaction_TotalValue(t *testing.T) {
	tx := validTransaction()

	assert.True(t, tx.TotalValue().Equal(decimal.RequireFromString("751.50")))
}
