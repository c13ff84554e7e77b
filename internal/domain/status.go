package domain

import "fmt"

// Status is the order lifecycle state as reported by the data service.
type Status string

const (
	StatusPending           Status = "PENDING"
	StatusConfirmed         Status = "CONFIRMED"
	StatusPreparing         Status = "PREPARING"
	StatusReady             Status = "READY"
	StatusOutForFulfillment Status = "OUT_FOR_FULFILLMENT"
	StatusCompleted         Status = "COMPLETED"
	StatusCancelled         Status = "CANCELLED"
	StatusRefunded          Status = "REFUNDED"
)

// Statuses lists every lifecycle state in forward order, terminals last.
var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOutForFulfillment,
	StatusCompleted,
	StatusCancelled,
	StatusRefunded,
}

// ParseStatus maps a wire value onto a known Status. Unknown values are an
// error, never a silent default.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Terminal reports whether the state has no outgoing transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}
