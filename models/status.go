package models

// Order status values. An order starts as StatusNew and normally walks the
// list in order; cancellation is allowed from any non-terminal status.
const (
	StatusNew        = "new"
	StatusAccepted   = "accepted"
	StatusInProgress = "in_progress"
	StatusReady      = "ready"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// OrderStatuses lists every valid order-level status.
var OrderStatuses = []string{
	StatusNew,
	StatusAccepted,
	StatusInProgress,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
}

// ActiveStatuses are the statuses that count toward an employee's workload.
var ActiveStatuses = []string{StatusAccepted, StatusInProgress}

// Service status values. Each order-service line moves through the tailoring
// workflow independently of the order it belongs to.
const (
	ServiceStatusNew           = "new"
	ServiceStatusSketch        = "sketch"
	ServiceStatusPatternMaking = "pattern_making"
	ServiceStatusCutting       = "cutting"
	ServiceStatusSewing        = "sewing"
	ServiceStatusFitting       = "fitting"
	ServiceStatusFinishingWork = "finishing_work"
	ServiceStatusRework        = "rework"
	ServiceStatusReady         = "ready"
)

// ServiceStatuses lists every valid order-service status.
var ServiceStatuses = []string{
	ServiceStatusNew,
	ServiceStatusSketch,
	ServiceStatusPatternMaking,
	ServiceStatusCutting,
	ServiceStatusSewing,
	ServiceStatusFitting,
	ServiceStatusFinishingWork,
	ServiceStatusRework,
	ServiceStatusReady,
}

// IsValidOrderStatus reports whether s is an allowed order status.
func IsValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidServiceStatus reports whether s is an allowed order-service status.
func IsValidServiceStatus(s string) bool {
	for _, v := range ServiceStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus reports whether an order in status s can no longer
// change status.
func IsTerminalOrderStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}
