package domain

import (
	"errors"
	"time"
)

// ErrInvalidDestinations is returned when a destination list cannot be
// normalized into a combination key (empty, more than two, blank or
// duplicate identifiers).
var ErrInvalidDestinations = errors.New("destination list must contain 1 or 2 distinct ids")

// CombinationKey is the normalized key of a combination entry.
//
// A pair key has Low < High under byte-lexicographic order. A diagonal key
// (single destination) leaves High empty; since pair keys require two
// non-empty components, a diagonal key can never equal a pair key.
type CombinationKey struct {
	Low  DestinationID
	High DestinationID
}

// IsDiagonal reports whether the key refers to a single destination.
func (k CombinationKey) IsDiagonal() bool { return k.High == "" }

// NormalizeCombinationKey produces the canonical key for 1 or 2 destination ids.
// For two ids the result is order-independent: (A,B) and (B,A) normalize to
// the same key.
func NormalizeCombinationKey(ids []DestinationID) (CombinationKey, error) {
	switch len(ids) {
	case 1:
		if ids[0] == "" {
			return CombinationKey{}, ErrInvalidDestinations
		}
		return CombinationKey{Low: ids[0]}, nil
	case 2:
		a, b := ids[0], ids[1]
		if a == "" || b == "" || a == b {
			return CombinationKey{}, ErrInvalidDestinations
		}
		if b < a {
			a, b = b, a
		}
		return CombinationKey{Low: a, High: b}, nil
	default:
		return CombinationKey{}, ErrInvalidDestinations
	}
}

// CombinationEntry is a stored content record keyed by one or two destinations.
// At most one entry exists per normalized key; the store enforces uniqueness.
type CombinationEntry struct {
	Key CombinationKey

	Description string
	Activities  string

	LastEditedBy UserID
	UpdatedAt    time.Time
}
