package itineraryrepo

import (
	"context"
	"testing"
	"time"

	"github.com/meridian-travel/itinerary-api/internal/domain"
	itineraryrepoport "github.com/meridian-travel/itinerary-api/internal/ports/out/itineraryrepo"
)

func seedItinerary(code string) domain.Itinerary {
	dep := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return domain.Itinerary{
		ID:            domain.ItineraryID("it-" + code),
		UniqueCode:    code,
		Strategy:      domain.StrategyCustom,
		Status:        domain.ItineraryStatusDraft,
		DepartureDate: dep,
		DurationDays:  1,
		ReturnDate:    dep,
		CreatedBy:     "agent-1",
		Days: []domain.ItineraryDay{
			{DayNumber: 1, DayDate: dep, DestinationIDs: []domain.DestinationID{"ams"}},
		},
		Travelers: []domain.Traveler{{Name: "Ada", IsPrimary: true}},
	}
}

func TestRepo_StoresCopiesNotAliases(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	it := seedItinerary("CODEAAAAAA")
	if err := r.Create(ctx, it); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Mutating the caller's value after Create must not leak into the store.
	it.Days[0].DestinationIDs[0] = "mutated"
	it.Travelers[0].Name = "Mutated"

	got, err := r.GetByID(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Days[0].DestinationIDs[0] != "ams" || got.Travelers[0].Name != "Ada" {
		t.Fatalf("store aliases caller memory: %#v", got)
	}

	// Mutating a fetched value must not leak back either.
	got.Days[0].DestinationIDs[0] = "also-mutated"
	again, err := r.GetByID(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetByID again: %v", err)
	}
	if again.Days[0].DestinationIDs[0] != "ams" {
		t.Fatalf("fetched value aliases store memory: %#v", again)
	}
}

func TestRepo_SaveRejectsStealingAnotherCode(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	a := seedItinerary("CODEAAAAAA")
	b := seedItinerary("CODEBBBBBB")
	if err := r.Create(ctx, a); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if err := r.Create(ctx, b); err != nil {
		t.Fatalf("Create b: %v", err)
	}

	b.UniqueCode = a.UniqueCode
	if err := r.Save(ctx, b); err != itineraryrepoport.ErrCodeTaken {
		t.Fatalf("Save with stolen code: got %v, want ErrCodeTaken", err)
	}
}
