package combinations

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridian-travel/itinerary-api/internal/domain"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/clock"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/combinationrepo"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/destinationcatalog"
)

// Service implements combination-entry lookup for the assembly flow and plain
// CRUD for the content-management caller.
type Service struct {
	entries      combinationrepo.Repository
	destinations destinationcatalog.Catalog
	clk          clock.Clock
}

func NewService(entries combinationrepo.Repository, destinations destinationcatalog.Catalog, clk clock.Clock) *Service {
	return &Service{
		entries:      entries,
		destinations: destinations,
		clk:          clk,
	}
}

// Lookup resolves content for 1 or 2 distinct destinations. lookup([A,B]) and
// lookup([B,A]) are equivalent; a diagonal (single-destination) lookup can
// never match a pair entry. A miss is returned as a result, never an error.
func (s *Service) Lookup(ctx context.Context, ids []domain.DestinationID) (LookupResult, error) {
	key, err := domain.NormalizeCombinationKey(ids)
	if err != nil {
		return LookupResult{}, invalidDestinations(ids)
	}
	e, err := s.entries.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, combinationrepo.ErrNotFound) {
			return LookupResult{}, nil
		}
		return LookupResult{}, err
	}
	return LookupResult{Found: true, Entry: e}, nil
}

// SuggestionsForMultiple enumerates all unordered pairs of 3+ distinct
// destinations and returns the pairs that have an existing entry, in pair
// generation order. No pair is fabricated: a day with no matching entries
// yields an empty set. Ambiguity at N>=3 is resolved by a human, never by
// auto-selecting a pair.
func (s *Service) SuggestionsForMultiple(ctx context.Context, ids []domain.DestinationID) ([]Suggestion, error) {
	if len(ids) < 3 {
		return nil, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "suggestions require at least 3 destinations",
			Details: map[string]any{"destinationIds": "must contain 3 or more distinct ids"},
		}
	}
	seen := make(map[domain.DestinationID]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, invalidSuggestionDestinations(ids)
		}
		if _, dup := seen[id]; dup {
			return nil, invalidSuggestionDestinations(ids)
		}
		seen[id] = struct{}{}
	}

	labels, err := s.destinations.Labels(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			key, err := domain.NormalizeCombinationKey([]domain.DestinationID{ids[i], ids[j]})
			if err != nil {
				return nil, invalidSuggestionDestinations(ids)
			}
			e, err := s.entries.GetByKey(ctx, key)
			if err != nil {
				if errors.Is(err, combinationrepo.ErrNotFound) {
					continue
				}
				return nil, err
			}
			out = append(out, Suggestion{
				Key:   key,
				Label: fmt.Sprintf("%s & %s", labelFor(labels, ids[i]), labelFor(labels, ids[j])),
				Entry: e,
			})
		}
	}
	return out, nil
}

// Create stores a new entry for the normalized key. An existing key is a
// conflict, never a silent overwrite; overwrite is the explicit Update.
func (s *Service) Create(ctx context.Context, editor domain.UserID, in UpsertEntryInput) (domain.CombinationEntry, error) {
	key, err := domain.NormalizeCombinationKey(in.DestinationIDs)
	if err != nil {
		return domain.CombinationEntry{}, invalidDestinations(in.DestinationIDs)
	}
	e := domain.CombinationEntry{
		Key:          key,
		Description:  in.Description,
		Activities:   in.Activities,
		LastEditedBy: editor,
		UpdatedAt:    s.clk.Now(),
	}
	if err := s.entries.Insert(ctx, e); err != nil {
		if errors.Is(err, combinationrepo.ErrAlreadyExists) {
			return domain.CombinationEntry{}, &Error{
				Status:  409,
				Code:    "COMBINATION_EXISTS",
				Message: "a combination entry already exists for these destinations",
			}
		}
		return domain.CombinationEntry{}, err
	}
	return e, nil
}

// Get returns the entry for the destinations, or a 404 error. Unlike Lookup,
// absence here is an error: the content-management caller addressed a
// specific entry.
func (s *Service) Get(ctx context.Context, ids []domain.DestinationID) (domain.CombinationEntry, error) {
	key, err := domain.NormalizeCombinationKey(ids)
	if err != nil {
		return domain.CombinationEntry{}, invalidDestinations(ids)
	}
	e, err := s.entries.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, combinationrepo.ErrNotFound) {
			return domain.CombinationEntry{}, notFound()
		}
		return domain.CombinationEntry{}, err
	}
	return e, nil
}

// Update overwrites an existing entry's content and provenance.
func (s *Service) Update(ctx context.Context, editor domain.UserID, in UpsertEntryInput) (domain.CombinationEntry, error) {
	key, err := domain.NormalizeCombinationKey(in.DestinationIDs)
	if err != nil {
		return domain.CombinationEntry{}, invalidDestinations(in.DestinationIDs)
	}
	e := domain.CombinationEntry{
		Key:          key,
		Description:  in.Description,
		Activities:   in.Activities,
		LastEditedBy: editor,
		UpdatedAt:    s.clk.Now(),
	}
	if err := s.entries.Update(ctx, e); err != nil {
		if errors.Is(err, combinationrepo.ErrNotFound) {
			return domain.CombinationEntry{}, notFound()
		}
		return domain.CombinationEntry{}, err
	}
	return e, nil
}

// Delete removes the entry for the destinations.
func (s *Service) Delete(ctx context.Context, ids []domain.DestinationID) error {
	key, err := domain.NormalizeCombinationKey(ids)
	if err != nil {
		return invalidDestinations(ids)
	}
	if err := s.entries.Delete(ctx, key); err != nil {
		if errors.Is(err, combinationrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	return nil
}

// List returns all entries ordered by normalized key.
func (s *Service) List(ctx context.Context) ([]domain.CombinationEntry, error) {
	return s.entries.List(ctx)
}

func labelFor(labels map[domain.DestinationID]string, id domain.DestinationID) string {
	if l, ok := labels[id]; ok && l != "" {
		return l
	}
	return string(id)
}

func invalidDestinations(ids []domain.DestinationID) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid destination list",
		Details: map[string]any{"destinationIds": fmt.Sprintf("got %d ids; need 1 or 2 distinct non-empty ids", len(ids))},
	}
}

func invalidSuggestionDestinations(ids []domain.DestinationID) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid destination list",
		Details: map[string]any{"destinationIds": fmt.Sprintf("got %d ids; need 3 or more distinct non-empty ids", len(ids))},
	}
}

func notFound() *Error {
	return &Error{Status: 404, Code: "COMBINATION_NOT_FOUND", Message: "combination entry not found"}
}
