// Package booking implements stay conflict detection.
//
// Stays are half-open intervals [check-in, check-out): a booking ending on
// day D and another starting on day D do not conflict, so same-day turnover
// between guests is always permitted.
package booking

import "villabook/internal/core"

// Overlaps reports whether two half-open stay ranges share at least one
// night: each range's start strictly before the other's end.
func Overlaps(a, b core.DateRange) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// HasConflict reports whether the candidate's range overlaps any booking in
// existing. excludeID skips the booking being edited so it never conflicts
// with itself; pass 0 when creating.
//
// The result is advisory: callers decide whether to block the save or let
// the operator override. Nothing here mutates or persists.
func HasConflict(candidate core.Booking, existing []core.Booking, excludeID int64) bool {
	for _, b := range existing {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if Overlaps(candidate.Range, b.Range) {
			return true
		}
	}
	return false
}

// ConflictsWith returns the bookings in existing whose ranges overlap the
// candidate's, with the same exclusion rule as HasConflict. Used by the API
// to show the operator which stays collide.
func ConflictsWith(candidate core.Booking, existing []core.Booking, excludeID int64) []core.Booking {
	var out []core.Booking
	for _, b := range existing {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if Overlaps(candidate.Range, b.Range) {
			out = append(out, b)
		}
	}
	return out
}
