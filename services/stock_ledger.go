package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atelier-app/atelier-api/models"
)

// StockLedger owns the authoritative on-hand quantity of every material.
// All balance mutations go through it so stock can never go negative.
// Every method runs inside the caller's transaction and takes a row-level
// lock on the material before reading the balance, so two concurrent
// reservations cannot both pass a stale availability check.
type StockLedger struct{}

// NewStockLedger creates a new StockLedger
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// lockForUpdate applies a SELECT ... FOR UPDATE row lock. SQLite (used by
// the test suite) serializes writers on its single connection and rejects
// the FOR UPDATE syntax, so the clause is only added on PostgreSQL.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Reserve decrements the material's on-hand quantity by qty and returns the
// new balance. Fails with InsufficientStockError when the balance would go
// negative, leaving the row untouched.
func (l *StockLedger) Reserve(tx *gorm.DB, materialID uint, qty float64) (float64, error) {
	var material models.Material
	if err := lockForUpdate(tx).Where("id = ?", materialID).Take(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &NotFoundError{Resource: "material", ID: materialID}
		}
		return 0, err
	}

	if material.Quantity < qty {
		return 0, &InsufficientStockError{
			MaterialID:   material.ID,
			MaterialName: material.Name,
			Requested:    qty,
			Available:    material.Quantity,
		}
	}

	newBalance := material.Quantity - qty
	if err := tx.Model(&models.Material{}).Where("id = ?", materialID).
		Update("quantity", newBalance).Error; err != nil {
		return 0, err
	}
	return newBalance, nil
}

// Release returns qty of the material to stock unconditionally. Used when
// reservations are reversed and when deliveries bring material in.
func (l *StockLedger) Release(tx *gorm.DB, materialID uint, qty float64) (float64, error) {
	var material models.Material
	if err := lockForUpdate(tx).Where("id = ?", materialID).Take(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &NotFoundError{Resource: "material", ID: materialID}
		}
		return 0, err
	}

	newBalance := material.Quantity + qty
	if err := tx.Model(&models.Material{}).Where("id = ?", materialID).
		Update("quantity", newBalance).Error; err != nil {
		return 0, err
	}
	return newBalance, nil
}

// AdjustDelta applies a signed quantity change: a positive delta reserves
// additional stock, a negative delta releases it. A zero delta is a no-op.
func (l *StockLedger) AdjustDelta(tx *gorm.DB, materialID uint, delta float64) (float64, error) {
	switch {
	case delta > 0:
		return l.Reserve(tx, materialID, delta)
	case delta < 0:
		return l.Release(tx, materialID, -delta)
	default:
		var material models.Material
		if err := tx.Where("id = ?", materialID).Take(&material).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, &NotFoundError{Resource: "material", ID: materialID}
			}
			return 0, err
		}
		return material.Quantity, nil
	}
}
