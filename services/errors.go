package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that carry no extra detail.
var (
	// ErrDuplicateAssignment is returned when an employee is already
	// assigned to the order.
	ErrDuplicateAssignment = errors.New("employee is already assigned to this order")

	// ErrConflictingMaterials is returned when a material is attached to an
	// order flagged as using the client's own materials.
	ErrConflictingMaterials = errors.New("order uses the client's own materials")

	// ErrSequenceExhausted is returned when more than 999 orders are created
	// on a single calendar day.
	ErrSequenceExhausted = errors.New("daily tracking number sequence exhausted")
)

// NotFoundError indicates that a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// InsufficientStockError indicates that a reservation asked for more of a
// material than is on hand.
type InsufficientStockError struct {
	MaterialID   uint
	MaterialName string
	Requested    float64
	Available    float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %q: requested %.2f, available %.2f",
		e.MaterialName, e.Requested, e.Available)
}

// DuplicateMaterialError indicates a case-insensitive material name collision.
type DuplicateMaterialError struct {
	Name string
}

func (e *DuplicateMaterialError) Error() string {
	return fmt.Sprintf("material %q already exists", e.Name)
}

// MaterialInUseError indicates a material cannot be deleted while delivery
// or order rows still reference it.
type MaterialInUseError struct {
	MaterialID uint
	UsedBy     string // "deliveries" or "orders"
}

func (e *MaterialInUseError) Error() string {
	return fmt.Sprintf("material %d is still referenced by %s", e.MaterialID, e.UsedBy)
}

// WorkloadExceededError indicates the employee already carries the maximum
// number of active orders.
type WorkloadExceededError struct {
	EmployeeID   uint
	ActiveOrders int
	Limit        int
}

func (e *WorkloadExceededError) Error() string {
	return fmt.Sprintf("employee %d already has %d active orders (limit %d)",
		e.EmployeeID, e.ActiveOrders, e.Limit)
}

// InvalidStateError indicates the order's current status forbids the
// requested operation (e.g. deleting an order that is in progress).
type InvalidStateError struct {
	Status    string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s an order in status %q", e.Operation, e.Status)
}

// InvalidStatusError indicates a status value outside the allowed set.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q", e.Status)
}
