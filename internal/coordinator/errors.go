package coordinator

import "errors"

// Domain errors for the coordinator package. Operation failures carry a
// specific reason so callers can surface it verbatim.
var (
	// ErrValueOutOfRange is returned when an adjustment delta exceeds
	// the accepted range.
	ErrValueOutOfRange = errors.New("coordinator: value out of range")

	// ErrAlarmInPast is returned when a wake alarm is not in the future.
	ErrAlarmInPast = errors.New("coordinator: alarm time is in the past")

	// ErrWakeNotEnabled is returned when a wake alarm targets a zone
	// that has wake disabled.
	ErrWakeNotEnabled = errors.New("coordinator: wake not enabled for zone")
)
