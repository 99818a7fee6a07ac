package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/models"
)

// MaxActiveOrders is the maximum number of accepted/in-progress orders an
// employee may be assigned to at once.
const MaxActiveOrders = 5

// WorkloadGuard enforces the per-employee concurrent-order cap before an
// assignment is created.
type WorkloadGuard struct{}

// NewWorkloadGuard creates a new WorkloadGuard
func NewWorkloadGuard() *WorkloadGuard {
	return &WorkloadGuard{}
}

// ActiveOrders counts the employee's assignments to orders in an active
// status (accepted or in progress).
func (g *WorkloadGuard) ActiveOrders(tx *gorm.DB, employeeID uint) (int, error) {
	var employee models.Employee
	if err := tx.Where("id = ?", employeeID).Take(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &NotFoundError{Resource: "employee", ID: employeeID}
		}
		return 0, err
	}

	var count int64
	err := tx.Model(&models.OrderEmployee{}).
		Joins("JOIN orders ON orders.id = order_employees.order_id").
		Where("order_employees.employee_id = ? AND orders.status IN ?", employeeID, models.ActiveStatuses).
		Count(&count).Error
	return int(count), err
}

// Check fails with WorkloadExceededError when the employee already carries
// MaxActiveOrders active orders. It must run inside the assignment's
// transaction, after the order row has been locked, so a concurrent
// assignment cannot slip past the same count.
func (g *WorkloadGuard) Check(tx *gorm.DB, employeeID uint) error {
	active, err := g.ActiveOrders(tx, employeeID)
	if err != nil {
		return err
	}
	if active >= MaxActiveOrders {
		return &WorkloadExceededError{
			EmployeeID:   employeeID,
			ActiveOrders: active,
			Limit:        MaxActiveOrders,
		}
	}
	return nil
}
