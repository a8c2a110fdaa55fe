package combinationrepo

import (
	"context"

	"github.com/meridian-travel/itinerary-api/internal/domain"
)

// Repository provides access to persisted combination entries.
//
// Keys are always normalized (domain.NormalizeCombinationKey) before they
// reach the repository. Uniqueness on the normalized key is enforced by the
// store itself: Insert is atomic insert-or-conflict, so two concurrent
// attempts to create the same key race safely and exactly one succeeds.
type Repository interface {
	// Insert stores a new entry. Returns ErrAlreadyExists if the key is taken.
	Insert(ctx context.Context, e domain.CombinationEntry) error

	// GetByKey returns the entry for a normalized key, or ErrNotFound.
	GetByKey(ctx context.Context, key domain.CombinationKey) (domain.CombinationEntry, error)

	// Update overwrites an existing entry. Returns ErrNotFound if absent.
	Update(ctx context.Context, e domain.CombinationEntry) error

	// Delete removes the entry for a key. Returns ErrNotFound if absent.
	Delete(ctx context.Context, key domain.CombinationKey) error

	// List returns all entries ordered by (Low, High) ascending.
	List(ctx context.Context) ([]domain.CombinationEntry, error)
}
