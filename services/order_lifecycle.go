package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/models"
)

// OrderLifecycle orchestrates order creation, status transitions, material
// reservation, employee assignment and deletion. Every operation runs as a
// single transaction: either all of its statements commit, or none do.
type OrderLifecycle struct {
	db      *gorm.DB
	ledger  *StockLedger
	catalog *MaterialCatalog
	tracker *TrackingNumbers
	guard   *WorkloadGuard
	history *StatusHistory
}

// NewOrderLifecycle creates an OrderLifecycle bound to the given database handle
func NewOrderLifecycle(db *gorm.DB) *OrderLifecycle {
	return &OrderLifecycle{
		db:      db,
		ledger:  NewStockLedger(),
		catalog: NewMaterialCatalog(),
		tracker: NewTrackingNumbers(),
		guard:   NewWorkloadGuard(),
		history: NewStatusHistory(),
	}
}

// CreateOrderInput carries the fields needed to open a new order.
type CreateOrderInput struct {
	ClientID        uint
	TotalCost       float64
	FittingDate     *time.Time
	DeadlineDate    *time.Time
	Comment         *string
	UseOwnMaterials bool
}

// isUniqueViolation reports whether err looks like a unique-constraint
// failure. Works with both the PostgreSQL and SQLite drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// Create opens a new order with a freshly generated tracking number and
// status "new", writing the initial history row and, when a fitting date is
// supplied, the first fitting. A tracking-number collision with a concurrent
// creation triggers exactly one regeneration retry.
func (s *OrderLifecycle) Create(input CreateOrderInput, actorID uint) (*models.Order, error) {
	var created *models.Order

	for attempt := 0; ; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var client models.Client
			if err := tx.Where("id = ?", input.ClientID).Take(&client).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "client", ID: input.ClientID}
				}
				return err
			}

			trackingNumber, err := s.tracker.Next(tx, time.Now())
			if err != nil {
				return err
			}

			order := models.Order{
				TrackingNumber:  trackingNumber,
				ClientID:        input.ClientID,
				Status:          models.StatusNew,
				TotalCost:       input.TotalCost,
				FittingDate:     input.FittingDate,
				DeadlineDate:    input.DeadlineDate,
				Comment:         input.Comment,
				UseOwnMaterials: input.UseOwnMaterials,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			if err := s.history.RecordOrderCreation(tx, order.ID, order.Status, actorID); err != nil {
				return err
			}

			if input.FittingDate != nil {
				fitting := models.Fitting{
					OrderID:     order.ID,
					FittingDate: *input.FittingDate,
					Result:      "scheduled",
					Notes:       "Initial fitting",
				}
				if err := tx.Create(&fitting).Error; err != nil {
					return err
				}
			}

			created = &order
			return nil
		})

		if err == nil {
			return created, nil
		}
		if attempt == 0 && isUniqueViolation(err) {
			log.Printf("Tracking number collision, regenerating once")
			continue
		}
		return nil, err
	}
}

// GetOrder loads a single order with its client.
func (s *OrderLifecycle) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Client").Where("id = ?", orderID).Take(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, err
	}
	return &order, nil
}

// UpdateOrderInput carries the editable order fields.
type UpdateOrderInput struct {
	DeadlineDate *time.Time
	Comment      *string
}

// Update edits the order's deadline and comment, then recomputes the total
// cost from the attached services and materials.
func (s *OrderLifecycle) Update(orderID uint, input UpdateOrderInput) (*models.Order, error) {
	var updated models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).Where("id = ?", orderID).Take(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: orderID}
			}
			return err
		}

		updates := map[string]interface{}{
			"deadline_date": input.DeadlineDate,
			"comment":       input.Comment,
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}

		if err := s.recomputeTotalCost(tx, orderID); err != nil {
			return err
		}
		return tx.Where("id = ?", orderID).Take(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangeStatus transitions an order to newStatus, writing the history row in
// the same transaction. The status must be in the order-status enum and the
// order must not already be in a terminal status.
func (s *OrderLifecycle) ChangeStatus(orderID uint, newStatus string, actorID uint) (*models.Order, error) {
	if !models.IsValidOrderStatus(newStatus) {
		return nil, &InvalidStatusError{Status: newStatus}
	}

	var updated models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).Where("id = ?", orderID).Take(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: orderID}
			}
			return err
		}

		if models.IsTerminalOrderStatus(order.Status) {
			return &InvalidStateError{Status: order.Status, Operation: "change the status of"}
		}

		if err := s.history.RecordOrderTransition(tx, orderID, newStatus, actorID); err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", newStatus).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", orderID).Take(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangeServiceStatus transitions an order-service line to newStatus,
// validated against the service workflow allow-list.
func (s *OrderLifecycle) ChangeServiceStatus(orderServiceID uint, newStatus string, actorID uint) (*models.OrderService, error) {
	if !models.IsValidServiceStatus(newStatus) {
		return nil, &InvalidStatusError{Status: newStatus}
	}

	var updated models.OrderService
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var line models.OrderService
		if err := lockForUpdate(tx).Where("id = ?", orderServiceID).Take(&line).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order service", ID: orderServiceID}
			}
			return err
		}

		if err := s.history.RecordServiceTransition(tx, orderServiceID, newStatus, actorID); err != nil {
			return err
		}
		if err := tx.Model(&models.OrderService{}).Where("id = ?", orderServiceID).
			Update("status", newStatus).Error; err != nil {
			return err
		}
		return tx.Preload("Service").Where("id = ?", orderServiceID).Take(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AttachService adds a catalog service to the order with status "new",
// writes the line's initial history row and recomputes the total cost.
func (s *OrderLifecycle) AttachService(orderID, serviceID uint, quantity int, actorID uint) (*models.OrderService, error) {
	var created models.OrderService
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireOrder(tx, orderID); err != nil {
			return err
		}
		var service models.Service
		if err := tx.Where("id = ?", serviceID).Take(&service).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "service", ID: serviceID}
			}
			return err
		}

		line := models.OrderService{
			OrderID:   orderID,
			ServiceID: serviceID,
			Quantity:  quantity,
			Status:    models.ServiceStatusNew,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
		if err := s.history.RecordServiceCreation(tx, line.ID, line.Status, actorID); err != nil {
			return err
		}
		if err := s.recomputeTotalCost(tx, orderID); err != nil {
			return err
		}
		return tx.Preload("Service").Where("id = ?", line.ID).Take(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DetachService removes an order-service line and its status history, then
// recomputes the total cost. No stock is involved.
func (s *OrderLifecycle) DetachService(orderServiceID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var line models.OrderService
		if err := tx.Where("id = ?", orderServiceID).Take(&line).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order service", ID: orderServiceID}
			}
			return err
		}

		if err := tx.Where("order_service_id = ?", orderServiceID).
			Delete(&models.ServiceStatusHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.OrderService{}, orderServiceID).Error; err != nil {
			return err
		}
		return s.recomputeTotalCost(tx, line.OrderID)
	})
}

// AttachMaterial reserves qty of a material for the order and inserts the
// link row in one transaction. Orders flagged as using the client's own
// materials reject the attach outright.
func (s *OrderLifecycle) AttachMaterial(orderID uint, ref MaterialRef, qty float64) (*models.OrderMaterial, error) {
	var created models.OrderMaterial
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).Where("id = ?", orderID).Take(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: orderID}
			}
			return err
		}
		if order.UseOwnMaterials {
			return ErrConflictingMaterials
		}

		material, err := s.catalog.GetOrCreate(tx, ref)
		if err != nil {
			return err
		}

		if _, err := s.ledger.Reserve(tx, material.ID, qty); err != nil {
			return err
		}

		link := models.OrderMaterial{
			OrderID:    orderID,
			MaterialID: material.ID,
			Quantity:   qty,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		if err := s.recomputeTotalCost(tx, orderID); err != nil {
			return err
		}
		return tx.Preload("Material").Where("id = ?", link.ID).Take(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMaterialQuantity edits the reserved quantity of an order-material
// link, adjusting stock by the delta between the stored and new quantity.
func (s *OrderLifecycle) UpdateMaterialQuantity(orderMaterialID uint, newQty float64) (*models.OrderMaterial, error) {
	var updated models.OrderMaterial
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var link models.OrderMaterial
		if err := tx.Where("id = ?", orderMaterialID).Take(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order material", ID: orderMaterialID}
			}
			return err
		}

		delta := newQty - link.Quantity
		if _, err := s.ledger.AdjustDelta(tx, link.MaterialID, delta); err != nil {
			return err
		}
		if err := tx.Model(&models.OrderMaterial{}).Where("id = ?", orderMaterialID).
			Update("quantity", newQty).Error; err != nil {
			return err
		}
		if err := s.recomputeTotalCost(tx, link.OrderID); err != nil {
			return err
		}
		return tx.Preload("Material").Where("id = ?", orderMaterialID).Take(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DetachMaterial returns the link's full reserved quantity to stock, deletes
// the link and recomputes the total cost.
func (s *OrderLifecycle) DetachMaterial(orderMaterialID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var link models.OrderMaterial
		if err := tx.Where("id = ?", orderMaterialID).Take(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order material", ID: orderMaterialID}
			}
			return err
		}

		if _, err := s.ledger.Release(tx, link.MaterialID, link.Quantity); err != nil {
			return err
		}
		if err := tx.Delete(&models.OrderMaterial{}, orderMaterialID).Error; err != nil {
			return err
		}
		return s.recomputeTotalCost(tx, link.OrderID)
	})
}

// Delete removes an order and everything it owns, returning reserved
// material quantities to stock. Orders that are in progress or completed
// cannot be deleted. The cascade follows the foreign-key dependency order:
// fittings, service history, order history, documents, employee links,
// material links (releasing stock), service links, then the order itself.
// Returns the number of material reservations restored.
func (s *OrderLifecycle) Delete(orderID uint) (int, error) {
	restored := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).Where("id = ?", orderID).Take(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: orderID}
			}
			return err
		}

		if order.Status == models.StatusInProgress || order.Status == models.StatusCompleted {
			return &InvalidStateError{Status: order.Status, Operation: "delete"}
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.Fitting{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_service_id IN (?)",
			tx.Model(&models.OrderService{}).Select("id").Where("order_id = ?", orderID)).
			Delete(&models.ServiceStatusHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderStatusHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderEmployee{}).Error; err != nil {
			return err
		}

		var links []models.OrderMaterial
		if err := tx.Where("order_id = ?", orderID).Find(&links).Error; err != nil {
			return err
		}
		for _, link := range links {
			if _, err := s.ledger.Release(tx, link.MaterialID, link.Quantity); err != nil {
				return err
			}
			restored++
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderMaterial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderService{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, orderID).Error
	})
	if err != nil {
		return 0, err
	}

	log.Printf("Order %d deleted, %d material reservations restored", orderID, restored)
	return restored, nil
}

// AssignEmployee assigns an employee to an order after checking the
// workload cap and the duplicate-assignment rule. The order row is locked
// for the duration of the transaction so concurrent assignments on the same
// order serialize, and the workload count cannot be read stale.
func (s *OrderLifecycle) AssignEmployee(orderID, employeeID uint) (*models.OrderEmployee, error) {
	var created models.OrderEmployee
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).Where("id = ?", orderID).Take(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: orderID}
			}
			return err
		}

		if err := s.guard.Check(tx, employeeID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.OrderEmployee{}).
			Where("order_id = ? AND employee_id = ?", orderID, employeeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateAssignment
		}

		assignment := models.OrderEmployee{OrderID: orderID, EmployeeID: employeeID}
		if err := tx.Create(&assignment).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateAssignment
			}
			return err
		}
		return tx.Preload("Employee.User").Where("id = ?", assignment.ID).Take(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UnassignEmployee removes an order-employee assignment.
func (s *OrderLifecycle) UnassignEmployee(orderID, employeeID uint) error {
	res := s.db.Where("order_id = ? AND employee_id = ?", orderID, employeeID).
		Delete(&models.OrderEmployee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "assignment", ID: orderID}
	}
	return nil
}

// RecomputeTotalCost recalculates and stores the order's total cost outside
// any surrounding transaction.
func (s *OrderLifecycle) RecomputeTotalCost(orderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireOrder(tx, orderID); err != nil {
			return err
		}
		return s.recomputeTotalCost(tx, orderID)
	})
}

// recomputeTotalCost sets total_cost to the sum of service base costs times
// quantities plus material per-unit costs times reserved quantities.
func (s *OrderLifecycle) recomputeTotalCost(tx *gorm.DB, orderID uint) error {
	var serviceTotal float64
	if err := tx.Model(&models.OrderService{}).
		Joins("JOIN services ON services.id = order_services.service_id").
		Where("order_services.order_id = ?", orderID).
		Select("COALESCE(SUM(services.base_cost * order_services.quantity), 0)").
		Scan(&serviceTotal).Error; err != nil {
		return err
	}

	var materialTotal float64
	if err := tx.Model(&models.OrderMaterial{}).
		Joins("JOIN materials ON materials.id = order_materials.material_id").
		Where("order_materials.order_id = ?", orderID).
		Select("COALESCE(SUM(materials.cost_per_unit * order_materials.quantity), 0)").
		Scan(&materialTotal).Error; err != nil {
		return err
	}

	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("total_cost", serviceTotal+materialTotal).Error
}

// requireOrder fails with NotFoundError when the order does not exist.
func requireOrder(tx *gorm.DB, orderID uint) error {
	var count int64
	if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &NotFoundError{Resource: "order", ID: orderID}
	}
	return nil
}
