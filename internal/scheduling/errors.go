package scheduling

import "fmt"

// ValidationError reports invalid input. It aborts the whole operation
// before any write happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// CapacityError reports that the requested diagnostic work exceeds the
// year's total available work time. Raised before any placement is tried.
type CapacityError struct {
	RequiredHours  int
	AvailableHours int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("insufficient working hours: required %d h, available %d h",
		e.RequiredHours, e.AvailableHours)
}

// PlacementError reports that one task could not be placed on any working
// day, even by fallback. The whole batch is aborted; nothing is written.
type PlacementError struct {
	Equipment string
	TypeCode  string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("no feasible day for %s diagnostic on equipment %q",
		e.TypeCode, e.Equipment)
}
