package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelier-app/atelier-api/models"
)

func TestStockLedgerReserve(t *testing.T) {
	db := newTestDB(t)
	ledger := NewStockLedger()
	material := seedMaterial(t, db, "Lining silk", 10, 40)

	// 10 on hand, reserve 3
	balance, err := ledger.Reserve(db, material.ID, 3)
	assert.NoError(t, err)
	assert.Equal(t, 7.0, balance)

	// 7 on hand, reserving 8 must fail and leave the balance untouched
	_, err = ledger.Reserve(db, material.ID, 8)
	var insufficient *InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, material.ID, insufficient.MaterialID)
	assert.Equal(t, "Lining silk", insufficient.MaterialName)
	assert.Equal(t, 8.0, insufficient.Requested)
	assert.Equal(t, 7.0, insufficient.Available)

	var stored models.Material
	assert.NoError(t, db.First(&stored, material.ID).Error)
	assert.Equal(t, 7.0, stored.Quantity)

	// 7 on hand, reserve 5
	balance, err = ledger.Reserve(db, material.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, balance)
}

func TestStockLedgerReserveExactBalance(t *testing.T) {
	db := newTestDB(t)
	ledger := NewStockLedger()
	material := seedMaterial(t, db, "Wool gabardine", 4, 55)

	balance, err := ledger.Reserve(db, material.ID, 4)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, balance)

	_, err = ledger.Reserve(db, material.ID, 0.5)
	var insufficient *InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
}

func TestStockLedgerReserveUnknownMaterial(t *testing.T) {
	db := newTestDB(t)
	ledger := NewStockLedger()

	_, err := ledger.Reserve(db, 999, 1)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "material", notFound.Resource)
}

func TestStockLedgerRelease(t *testing.T) {
	db := newTestDB(t)
	ledger := NewStockLedger()
	material := seedMaterial(t, db, "Cotton poplin", 2, 12)

	balance, err := ledger.Release(db, material.ID, 5.5)
	assert.NoError(t, err)
	assert.Equal(t, 7.5, balance)

	var stored models.Material
	assert.NoError(t, db.First(&stored, material.ID).Error)
	assert.Equal(t, 7.5, stored.Quantity)
}

func TestStockLedgerAdjustDelta(t *testing.T) {
	db := newTestDB(t)
	ledger := NewStockLedger()
	material := seedMaterial(t, db, "Buttons", 20, 0.5)

	tests := []struct {
		name        string
		delta       float64
		wantBalance float64
		wantErr     bool
	}{
		{name: "positive delta reserves", delta: 6, wantBalance: 14},
		{name: "negative delta releases", delta: -4, wantBalance: 18},
		{name: "zero delta is a no-op", delta: 0, wantBalance: 18},
		{name: "delta beyond stock fails", delta: 100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, err := ledger.AdjustDelta(db, material.ID, tt.delta)
			if tt.wantErr {
				var insufficient *InsufficientStockError
				assert.ErrorAs(t, err, &insufficient)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)
		})
	}
}
