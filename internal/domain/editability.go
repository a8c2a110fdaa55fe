package domain

import "time"

// IsEditable is the edit-lock predicate guarding every itinerary mutation.
//
// Privileged callers may always edit. A standard caller may edit while the
// trip is still running (today on or before the return date) or when the
// post-completion override flag is set, and never once the itinerary is
// cancelled or soft-deleted. Comparison is at day granularity.
func IsEditable(it Itinerary, today time.Time, privileged bool) bool {
	if privileged {
		return true
	}
	if it.IsDeleted || it.Status == ItineraryStatusCancelled {
		return false
	}
	if it.CanEditAfterCompletion {
		return true
	}
	return !DateOnly(today).After(DateOnly(it.ReturnDate))
}
