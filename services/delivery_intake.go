package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/models"
)

// DeliveryIntake receives supplier deliveries into stock and reverses them
// on deletion. New materials that appear in a delivery are created on the
// fly through the catalog, starting at zero quantity before the delivered
// amount is booked in.
type DeliveryIntake struct {
	db      *gorm.DB
	ledger  *StockLedger
	catalog *MaterialCatalog
}

// NewDeliveryIntake creates a DeliveryIntake bound to the given database handle
func NewDeliveryIntake(db *gorm.DB) *DeliveryIntake {
	return &DeliveryIntake{
		db:      db,
		ledger:  NewStockLedger(),
		catalog: NewMaterialCatalog(),
	}
}

// DeliveryLine is one material position of an incoming delivery.
type DeliveryLine struct {
	Ref         MaterialRef
	Quantity    float64
	CostPerUnit float64
}

// CreateDeliveryInput carries the fields of an incoming delivery.
type CreateDeliveryInput struct {
	SupplierID   uint
	DeliveryDate time.Time
	DocumentPath *string
	Lines        []DeliveryLine
}

// Create books a delivery in: the delivery and its lines are inserted and
// each line's quantity is added to the material's on-hand balance, all in
// one transaction.
func (s *DeliveryIntake) Create(input CreateDeliveryInput) (*models.Delivery, error) {
	if len(input.Lines) == 0 {
		return nil, errors.New("a delivery needs at least one material line")
	}

	var createdID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.Where("id = ?", input.SupplierID).Take(&supplier).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "supplier", ID: input.SupplierID}
			}
			return err
		}

		delivery := models.Delivery{
			SupplierID:   input.SupplierID,
			DeliveryDate: input.DeliveryDate,
			DocumentPath: input.DocumentPath,
		}
		if err := tx.Create(&delivery).Error; err != nil {
			return err
		}

		for i, line := range input.Lines {
			if line.Quantity <= 0 || line.CostPerUnit <= 0 {
				return fmt.Errorf("delivery line %d needs a positive quantity and cost", i+1)
			}

			material, err := s.catalog.GetOrCreate(tx, line.Ref)
			if err != nil {
				return err
			}

			deliveryMaterial := models.DeliveryMaterial{
				DeliveryID:  delivery.ID,
				MaterialID:  material.ID,
				Quantity:    line.Quantity,
				CostPerUnit: line.CostPerUnit,
			}
			if err := tx.Create(&deliveryMaterial).Error; err != nil {
				return err
			}

			if _, err := s.ledger.Release(tx, material.ID, line.Quantity); err != nil {
				return err
			}
		}

		createdID = delivery.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(createdID)
}

// Get loads a delivery with its supplier and material lines.
func (s *DeliveryIntake) Get(deliveryID uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := s.db.Preload("Supplier").Preload("Materials.Material").
		Where("id = ?", deliveryID).Take(&delivery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "delivery", ID: deliveryID}
		}
		return nil, err
	}
	return &delivery, nil
}

// List returns all deliveries, newest first.
func (s *DeliveryIntake) List() ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := s.db.Preload("Supplier").Preload("Materials.Material").
		Order("delivery_date DESC").Find(&deliveries).Error
	return deliveries, err
}

// Delete removes a delivery and takes the received quantities back out of
// stock. If part of a delivered quantity has already been consumed by
// orders, the reversal fails with InsufficientStockError and nothing is
// deleted.
func (s *DeliveryIntake) Delete(deliveryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var delivery models.Delivery
		if err := tx.Where("id = ?", deliveryID).Take(&delivery).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "delivery", ID: deliveryID}
			}
			return err
		}

		var lines []models.DeliveryMaterial
		if err := tx.Where("delivery_id = ?", deliveryID).Find(&lines).Error; err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := s.ledger.Reserve(tx, line.MaterialID, line.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Where("delivery_id = ?", deliveryID).
			Delete(&models.DeliveryMaterial{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Delivery{}, deliveryID).Error
	})
}
