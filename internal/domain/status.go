package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of a production order. Planned orders
// transition once, irreversibly, to Completed.
type OrderStatus int

const (
	OrderPlanned OrderStatus = iota
	OrderCompleted
)

var orderStatusLabels = map[OrderStatus]string{
	OrderPlanned:   "planned",
	OrderCompleted: "completed",
}

var orderStatusCodes = map[string]OrderStatus{
	"planned":   OrderPlanned,
	"completed": OrderCompleted,
}

func (s OrderStatus) String() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}

	return "unknown"
}

// MarshalText renders the status as its lowercase label.
func (s OrderStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status label (case-insensitive).
func (s *OrderStatus) UnmarshalText(text []byte) error {
	code, ok := ParseOrderStatus(string(text))
	if !ok {
		return ErrUnknownStatus
	}
	*s = code
	return nil
}

// ParseOrderStatus returns the status code for a given label (case-insensitive).
func ParseOrderStatus(label string) (OrderStatus, bool) {
	code, ok := orderStatusCodes[strings.ToLower(strings.TrimSpace(label))]

	return code, ok
}

// Value stores the status as its text label.
func (s OrderStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan reads a status label from the database.
func (s *OrderStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", src)
	}
}
