// Package boost computes the brightness and warmth contributions that
// feed the boundary engine.
//
// Three calculators produce independent contributions from the current
// environmental snapshot: environmental (lux, weather, season, scaled by
// time of day), sunset (active in the low-sun window around the horizon),
// and wake (staged ramp toward a scheduled alarm). The aggregator sums
// them with the user's manual adjustments and scene offsets, applies the
// wake-exclusivity rule, and caps the total relative to the zone's base
// range width so narrow zones never collapse under stacked boosts.
//
// Every calculator treats missing sensor data as a zero contribution.
// None of them return errors; a dark reading the sensors cannot confirm
// is worth less than a tick that completes.
package boost
