package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/models"
)

// FittingScheduler manages fitting appointments and keeps the order's
// denormalized fitting_date in sync: it always equals the earliest fitting
// date remaining for the order, or null when none remain. The sync runs in
// the same transaction as the fitting mutation.
type FittingScheduler struct {
	db *gorm.DB
}

// NewFittingScheduler creates a FittingScheduler bound to the given database handle
func NewFittingScheduler(db *gorm.DB) *FittingScheduler {
	return &FittingScheduler{db: db}
}

// FittingInput carries the fields of a fitting appointment.
type FittingInput struct {
	FittingDate time.Time
	Result      string
	Notes       string
}

// List returns an order's fittings ordered by date.
func (s *FittingScheduler) List(orderID uint) ([]models.Fitting, error) {
	var fittings []models.Fitting
	err := s.db.Where("order_id = ?", orderID).Order("fitting_date").Find(&fittings).Error
	return fittings, err
}

// Add schedules a new fitting for the order.
func (s *FittingScheduler) Add(orderID uint, input FittingInput) (*models.Fitting, error) {
	var created models.Fitting
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireOrder(tx, orderID); err != nil {
			return err
		}

		fitting := models.Fitting{
			OrderID:     orderID,
			FittingDate: input.FittingDate,
			Result:      input.Result,
			Notes:       input.Notes,
		}
		if err := tx.Create(&fitting).Error; err != nil {
			return err
		}
		if err := syncFittingDate(tx, orderID); err != nil {
			return err
		}
		created = fitting
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update edits an existing fitting.
func (s *FittingScheduler) Update(fittingID uint, input FittingInput) (*models.Fitting, error) {
	var updated models.Fitting
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var fitting models.Fitting
		if err := tx.Where("id = ?", fittingID).Take(&fitting).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "fitting", ID: fittingID}
			}
			return err
		}

		updates := map[string]interface{}{
			"fitting_date": input.FittingDate,
			"result":       input.Result,
			"notes":        input.Notes,
		}
		if err := tx.Model(&fitting).Updates(updates).Error; err != nil {
			return err
		}
		if err := syncFittingDate(tx, fitting.OrderID); err != nil {
			return err
		}
		return tx.Where("id = ?", fittingID).Take(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a fitting.
func (s *FittingScheduler) Delete(fittingID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var fitting models.Fitting
		if err := tx.Where("id = ?", fittingID).Take(&fitting).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "fitting", ID: fittingID}
			}
			return err
		}

		if err := tx.Delete(&models.Fitting{}, fittingID).Error; err != nil {
			return err
		}
		return syncFittingDate(tx, fitting.OrderID)
	})
}

// syncFittingDate recomputes orders.fitting_date as the minimum remaining
// fitting date, or null when the order has no fittings left.
func syncFittingDate(tx *gorm.DB, orderID uint) error {
	return tx.Exec(`
		UPDATE orders
		SET fitting_date = (SELECT MIN(fitting_date) FROM fittings WHERE fittings.order_id = orders.id)
		WHERE id = ?`, orderID).Error
}
