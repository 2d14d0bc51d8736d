// Package timing defines the virtual time model used by actor timelines.
package timing

import (
	"fmt"
	"log"
)

// VTimePoint is a point in the simulated time space, in the unit of second.
// Simulation time per actor is strictly non-decreasing.
type VTimePoint float64

// TimeUnset marks a VTimePoint that has not been assigned yet.
const TimeUnset VTimePoint = -1

// VTimeDuration is a non-negative span of simulated time, in the unit of
// second. Zero is permitted.
type VTimeDuration float64

// IsValid returns false for the unset sentinel and for any negative time.
func (t VTimePoint) IsValid() bool {
	return t >= 0
}

// Before returns true if t happens before o.
func (t VTimePoint) Before(o VTimePoint) bool {
	return t < o
}

// After returns true if t happens after o.
func (t VTimePoint) After(o VTimePoint) bool {
	return t > o
}

// Add returns the time point d after t.
func (t VTimePoint) Add(d VTimeDuration) VTimePoint {
	return t + VTimePoint(d)
}

// Sub returns the duration from o to t. Time runs forward only, so asking
// for a negative span is a TimeTravelError.
func (t VTimePoint) Sub(o VTimePoint) (VTimeDuration, error) {
	if t < o {
		return 0, &TimeTravelError{Last: o, Attempted: t}
	}

	return VTimeDuration(t - o), nil
}

func (t VTimePoint) String() string {
	if !t.IsValid() {
		return "unset"
	}

	return fmt.Sprintf("%.10f", float64(t))
}

// MakeVTimeDuration converts a raw second count into a duration. Negative
// input is a caller contract error.
func MakeVTimeDuration(seconds float64) VTimeDuration {
	if seconds < 0 {
		log.Panicf("duration must be non-negative, got %f", seconds)
	}

	return VTimeDuration(seconds)
}

// A TimeTravelError reports an attempt to move an actor's clock backward.
// It is fatal and must not be retried.
type TimeTravelError struct {
	Last      VTimePoint
	Attempted VTimePoint
}

func (e *TimeTravelError) Error() string {
	return fmt.Sprintf(
		"time travel: cannot move from %.10f back to %.10f",
		float64(e.Last), float64(e.Attempted),
	)
}
