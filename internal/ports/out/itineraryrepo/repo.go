package itineraryrepo

import (
	"context"

	"github.com/meridian-travel/itinerary-api/internal/domain"
)

// Repository provides access to persisted itineraries.
//
// Create persists the complete graph (itinerary, days, day-destination
// associations, travelers) as one atomic unit: a failure partway through must
// leave no partial itinerary visible to other callers. Uniqueness of both the
// internal ID and the public code is enforced by the store, which makes the
// check-then-insert sequence of code allocation safe under concurrency.
type Repository interface {
	// Create stores a new itinerary graph atomically.
	// Returns ErrAlreadyExists on an ID collision and ErrCodeTaken when the
	// unique code is already assigned to another itinerary.
	Create(ctx context.Context, it domain.Itinerary) error

	// Save overwrites an existing itinerary graph. Returns ErrNotFound if absent.
	Save(ctx context.Context, it domain.Itinerary) error

	// GetByID loads the complete itinerary graph, or ErrNotFound.
	GetByID(ctx context.Context, id domain.ItineraryID) (domain.Itinerary, error)

	// CodeExists reports whether a unique code is already assigned.
	CodeExists(ctx context.Context, code string) (bool, error)

	// List returns all non-deleted itineraries ordered by departure date
	// ascending, then ID.
	List(ctx context.Context) ([]domain.Itinerary, error)
}
