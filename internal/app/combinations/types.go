package combinations

import "github.com/meridian-travel/itinerary-api/internal/domain"

// LookupResult is the outcome of a combination lookup. A miss is a normal
// result, not an error: Found is false and Entry is the zero value.
type LookupResult struct {
	Found bool
	Entry domain.CombinationEntry
}

// Suggestion is one existing pair entry offered to a human operator when a
// day involves three or more destinations.
type Suggestion struct {
	Key   domain.CombinationKey
	Label string // display labels of both destinations, e.g. "Paris & Lyon"
	Entry domain.CombinationEntry
}

// UpsertEntryInput carries the content-management payload for creating or
// updating a combination entry.
type UpsertEntryInput struct {
	DestinationIDs []domain.DestinationID

	Description string
	Activities  string
}
