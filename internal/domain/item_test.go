package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validItem() ItemDefinition {
	return ItemDefinition{
		Category:   "bar",
		TypeLabel:  "Bar 10g",
		UnitWeight: decimal.NewFromInt(10),
		Purity:     decimal.RequireFromString("99.99"),
		Unit:       "pcs",
	}
}

func TestItemDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ItemDefinition)
		wantErr string
	}{
		{
			name:   "Valid item passes",
			mutate: func(*ItemDefinition) {},
		},
		{
			name:    "Empty category fails",
			mutate:  func(i *ItemDefinition) { i.Category = "" },
			wantErr: "invalid category",
		},
		{
			name:    "Empty type fails",
			mutate:  func(i *ItemDefinition) { i.TypeLabel = "" },
			wantErr: "invalid type",
		},
		{
			name:    "Empty unit fails",
			mutate:  func(i *ItemDefinition) { i.Unit = "" },
			wantErr: "invalid unit",
		},
		{
			name:    "Zero unit weight fails",
			mutate:  func(i *ItemDefinition) { i.UnitWeight = decimal.Zero },
			wantErr: "invalid unit weight",
		},
		{
			name:    "Negative unit weight fails",
			mutate:  func(i *ItemDefinition) { i.UnitWeight = decimal.NewFromInt(-1) },
			wantErr: "invalid unit weight",
		},
		{
			name:    "Zero purity fails",
			mutate:  func(i *ItemDefinition) { i.Purity = decimal.Zero },
			wantErr: "invalid purity",
		},
		{
			name:    "Purity above 100 fails",
			mutate:  func(i *ItemDefinition) { i.Purity = decimal.RequireFromString("100.01") },
			wantErr: "invalid purity",
		},
		{
			name:   "Purity of exactly 100 passes",
			mutate: func(i *ItemDefinition) { i.Purity = decimal.NewFromInt(100) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)

			err := item.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, IsValidation(err))
			}
		})
	}
}

func TestItemDefinition_TotalWeight(t *testing.T) {
	item := validItem()
	item.QuantityOnHand = decimal.RequireFromString("2.5")

	assert.True(t, item.TotalWeight().Equal(decimal.NewFromInt(25)))
}
