package zone

import "errors"

// Domain errors for the zone package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, zone.ErrZoneNotFound) {
//	    // handle not found case
//	}
var (
	// ErrZoneNotFound is returned when a zone ID does not exist.
	ErrZoneNotFound = errors.New("zone: not found")

	// ErrInvalidZone is returned when zone validation fails.
	ErrInvalidZone = errors.New("zone: invalid")

	// ErrZoneBlocked is returned when an operation targets a zone whose
	// configured ranges failed validation at startup. Blocked zones stay
	// visible but never activate until the configuration is corrected.
	ErrZoneBlocked = errors.New("zone: blocked by invalid configuration")
)
