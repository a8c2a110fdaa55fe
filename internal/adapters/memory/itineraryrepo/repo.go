package itineraryrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/meridian-travel/itinerary-api/internal/domain"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/itineraryrepo"
)

// Repo is an in-memory implementation of itineraryrepo.Repository.
// It is safe for concurrent use. Create checks ID and code uniqueness and
// stores the graph under a single lock, so the whole insert is all-or-nothing
// and concurrent code allocations resolve to exactly one winner.
type Repo struct {
	mu     sync.RWMutex
	byID   map[domain.ItineraryID]domain.Itinerary
	byCode map[string]domain.ItineraryID
}

func NewRepo() *Repo {
	return &Repo{
		byID:   make(map[domain.ItineraryID]domain.Itinerary),
		byCode: make(map[string]domain.ItineraryID),
	}
}

func (r *Repo) Create(ctx context.Context, it domain.Itinerary) error {
	_ = ctx
	if it.ID == "" {
		return itineraryrepo.ErrAlreadyExists // treat empty ID as invalid for now
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[it.ID]; ok {
		return itineraryrepo.ErrAlreadyExists
	}
	if _, ok := r.byCode[it.UniqueCode]; ok {
		return itineraryrepo.ErrCodeTaken
	}
	r.byID[it.ID] = cloneItinerary(it)
	r.byCode[it.UniqueCode] = it.ID
	return nil
}

func (r *Repo) Save(ctx context.Context, it domain.Itinerary) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[it.ID]
	if !ok {
		return itineraryrepo.ErrNotFound
	}
	// Unique codes are immutable once assigned.
	if other, taken := r.byCode[it.UniqueCode]; taken && other != it.ID {
		return itineraryrepo.ErrCodeTaken
	}
	if existing.UniqueCode != it.UniqueCode {
		delete(r.byCode, existing.UniqueCode)
		r.byCode[it.UniqueCode] = it.ID
	}
	r.byID[it.ID] = cloneItinerary(it)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ItineraryID) (domain.Itinerary, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.byID[id]
	if !ok {
		return domain.Itinerary{}, itineraryrepo.ErrNotFound
	}
	return cloneItinerary(it), nil
}

func (r *Repo) CodeExists(ctx context.Context, code string) (bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byCode[code]
	return ok, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Itinerary, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Itinerary, 0)
	for _, it := range r.byID {
		if it.IsDeleted {
			continue
		}
		out = append(out, cloneItinerary(it))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DepartureDate.Equal(out[j].DepartureDate) {
			return out[i].DepartureDate.Before(out[j].DepartureDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func cloneItinerary(it domain.Itinerary) domain.Itinerary {
	cp := it
	if it.AssignedTo != nil {
		v := *it.AssignedTo
		cp.AssignedTo = &v
	}
	cp.Inclusions = append([]string(nil), it.Inclusions...)
	cp.Exclusions = append([]string(nil), it.Exclusions...)
	if it.Days != nil {
		cp.Days = make([]domain.ItineraryDay, len(it.Days))
		for i, d := range it.Days {
			cp.Days[i] = cloneDay(d)
		}
	}
	if it.Travelers != nil {
		cp.Travelers = make([]domain.Traveler, len(it.Travelers))
		for i, tr := range it.Travelers {
			cp.Travelers[i] = cloneTraveler(tr)
		}
	}
	return cp
}

func cloneDay(d domain.ItineraryDay) domain.ItineraryDay {
	cp := d
	cp.DestinationIDs = append([]domain.DestinationID(nil), d.DestinationIDs...)
	if d.AccommodationID != nil {
		v := *d.AccommodationID
		cp.AccommodationID = &v
	}
	return cp
}

func cloneTraveler(t domain.Traveler) domain.Traveler {
	cp := t
	cp.Email = cloneStringPtr(t.Email)
	cp.Phone = cloneStringPtr(t.Phone)
	return cp
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
