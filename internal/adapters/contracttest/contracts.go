// Package contracttest holds behavioral suites shared by every adapter that
// implements a repository port. The memory and postgres adapters run the same
// suites, so a divergence between backends shows up as a test failure, not a
// production surprise.
package contracttest

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-travel/itinerary-api/internal/domain"
	combinationrepoport "github.com/meridian-travel/itinerary-api/internal/ports/out/combinationrepo"
	itineraryrepoport "github.com/meridian-travel/itinerary-api/internal/ports/out/itineraryrepo"
)

type CleanupFunc = func()

type CombinationRepoFactory func(t *testing.T) (combinationrepoport.Repository, CleanupFunc)
type ItineraryRepoFactory func(t *testing.T) (itineraryrepoport.Repository, CleanupFunc)

func RunCombinationRepo(t *testing.T, newRepo CombinationRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	pair := domain.CombinationEntry{
		Key:          domain.CombinationKey{Low: "bru", High: "cgn"},
		Description:  "Brussels and Cologne",
		Activities:   "rail day",
		LastEditedBy: "editor-1",
		UpdatedAt:    now,
	}
	if err := repo.Insert(ctx, pair); err != nil {
		t.Fatalf("Insert pair: %v", err)
	}

	got, err := repo.GetByKey(ctx, pair.Key)
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if !reflect.DeepEqual(got, pair) {
		t.Fatalf("round trip mismatch: got %#v want %#v", got, pair)
	}

	// Key uniqueness: second insert of the same key must conflict.
	dup := pair
	dup.Description = "other text"
	if err := repo.Insert(ctx, dup); err != combinationrepoport.ErrAlreadyExists {
		t.Fatalf("Insert duplicate: got %v, want ErrAlreadyExists", err)
	}

	// A diagonal entry (single destination) is a distinct row from any pair
	// touching the same destination.
	diag := domain.CombinationEntry{
		Key:          domain.CombinationKey{Low: "bru", High: ""},
		Description:  "Brussels alone",
		LastEditedBy: "editor-1",
		UpdatedAt:    now,
	}
	if err := repo.Insert(ctx, diag); err != nil {
		t.Fatalf("Insert diagonal: %v", err)
	}
	gotDiag, err := repo.GetByKey(ctx, diag.Key)
	if err != nil {
		t.Fatalf("GetByKey diagonal: %v", err)
	}
	if gotDiag.Description != "Brussels alone" {
		t.Fatalf("diagonal collided with pair: %#v", gotDiag)
	}

	// Update overwrites in place; missing keys are ErrNotFound.
	pair.Activities = "rewritten"
	pair.LastEditedBy = "editor-2"
	if err := repo.Update(ctx, pair); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByKey(ctx, pair.Key)
	if err != nil || got.Activities != "rewritten" || got.LastEditedBy != "editor-2" {
		t.Fatalf("Update not applied: %#v err=%v", got, err)
	}
	missing := domain.CombinationEntry{Key: domain.CombinationKey{Low: "xx", High: "yy"}}
	if err := repo.Update(ctx, missing); err != combinationrepoport.ErrNotFound {
		t.Fatalf("Update missing: got %v, want ErrNotFound", err)
	}

	// List ordering is (Low, High) ascending; the diagonal's empty High sorts
	// before any pair on the same Low.
	if err := repo.Insert(ctx, domain.CombinationEntry{
		Key:       domain.CombinationKey{Low: "ams", High: "bru"},
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("Insert ams-bru: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantOrder := []domain.CombinationKey{
		{Low: "ams", High: "bru"},
		{Low: "bru", High: ""},
		{Low: "bru", High: "cgn"},
	}
	if len(all) != len(wantOrder) {
		t.Fatalf("List len: got %d want %d", len(all), len(wantOrder))
	}
	for i, want := range wantOrder {
		if all[i].Key != want {
			t.Fatalf("List[%d]: got %v want %v", i, all[i].Key, want)
		}
	}

	// Delete removes exactly one row.
	if err := repo.Delete(ctx, diag.Key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByKey(ctx, diag.Key); err != combinationrepoport.ErrNotFound {
		t.Fatalf("GetByKey after delete: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, diag.Key); err != combinationrepoport.ErrNotFound {
		t.Fatalf("Delete twice: got %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByKey(ctx, pair.Key); err != nil {
		t.Fatalf("pair gone after unrelated delete: %v", err)
	}
}

func RunItineraryRepo(t *testing.T, newRepo ItineraryRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	dep := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	email := "ada@example.com"
	hotel := domain.AccommodationID("hotel-1")
	assignee := domain.UserID("agent-9")

	it := domain.Itinerary{
		ID:            domain.ItineraryID(uuid.NewString()),
		UniqueCode:    "CODE000001",
		Strategy:      domain.StrategyFromTemplate,
		Status:        domain.ItineraryStatusDraft,
		DepartureDate: dep,
		DurationDays:  2,
		ReturnDate:    dep.AddDate(0, 0, 1),
		CreatedBy:     "agent-1",
		AssignedTo:    &assignee,
		Inclusions:    []string{"breakfast"},
		Exclusions:    []string{"flights"},
		Days: []domain.ItineraryDay{
			{
				DayNumber:       1,
				DayDate:         dep,
				DestinationIDs:  []domain.DestinationID{"ams"},
				Description:     domain.DayContent{Text: "Arrival", IsCustom: false},
				Activities:      domain.DayContent{Text: "Canal cruise", IsCustom: false},
				AccommodationID: &hotel,
			},
			{
				DayNumber:      2,
				DayDate:        dep.AddDate(0, 0, 1),
				DestinationIDs: []domain.DestinationID{"ams", "bru"},
				Description:    domain.DayContent{Text: "Own plan", IsCustom: true},
				Activities:     domain.DayContent{IsCustom: true},
			},
		},
		Travelers: []domain.Traveler{
			{Name: "Ada Lovelace", Email: &email, IsPrimary: true},
			{Name: "Grace Hopper"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, it); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The full graph round-trips: days in order, destination associations,
	// provenance flags, traveler contact details.
	got, err := repo.GetByID(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reflect.DeepEqual(got, it) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, it)
	}

	// ID uniqueness.
	clash := it
	clash.UniqueCode = "CODE000002"
	if err := repo.Create(ctx, clash); err != itineraryrepoport.ErrAlreadyExists {
		t.Fatalf("Create id clash: got %v, want ErrAlreadyExists", err)
	}

	// Code uniqueness, and the losing insert must leave no partial graph.
	codeClash := it
	codeClash.ID = domain.ItineraryID(uuid.NewString())
	if err := repo.Create(ctx, codeClash); err != itineraryrepoport.ErrCodeTaken {
		t.Fatalf("Create code clash: got %v, want ErrCodeTaken", err)
	}
	if _, err := repo.GetByID(ctx, codeClash.ID); err != itineraryrepoport.ErrNotFound {
		t.Fatalf("losing insert left a partial graph: %v", err)
	}

	// CodeExists tracks assigned codes.
	if ok, err := repo.CodeExists(ctx, it.UniqueCode); err != nil || !ok {
		t.Fatalf("CodeExists assigned: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.CodeExists(ctx, "NEVERUSED1"); err != nil || ok {
		t.Fatalf("CodeExists unassigned: ok=%v err=%v", ok, err)
	}

	// Save replaces the graph, including removed child rows.
	updated := got
	updated.Status = domain.ItineraryStatusSent
	updated.AssignedTo = nil
	updated.Travelers = updated.Travelers[:1]
	updated.Days[1].DestinationIDs = []domain.DestinationID{"bru"}
	updated.UpdatedAt = now.Add(time.Hour)
	if err := repo.Save(ctx, updated); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = repo.GetByID(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetByID after save: %v", err)
	}
	if got.Status != domain.ItineraryStatusSent || got.AssignedTo != nil {
		t.Fatalf("Save not applied: %#v", got)
	}
	if len(got.Travelers) != 1 || len(got.Days[1].DestinationIDs) != 1 {
		t.Fatalf("Save left stale child rows: %#v", got)
	}

	// Save of an unknown ID is ErrNotFound.
	ghost := it
	ghost.ID = domain.ItineraryID(uuid.NewString())
	ghost.UniqueCode = "CODE000009"
	if err := repo.Save(ctx, ghost); err != itineraryrepoport.ErrNotFound {
		t.Fatalf("Save missing: got %v, want ErrNotFound", err)
	}

	// List: ordered by departure then ID, soft-deleted rows excluded.
	second := it
	second.ID = domain.ItineraryID(uuid.NewString())
	second.UniqueCode = "CODE000003"
	second.DepartureDate = dep.AddDate(0, 0, -7)
	second.ReturnDate = second.DepartureDate.AddDate(0, 0, 1)
	for i := range second.Days {
		second.Days[i].DayDate = second.DepartureDate.AddDate(0, 0, i)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	deleted := it
	deleted.ID = domain.ItineraryID(uuid.NewString())
	deleted.UniqueCode = "CODE000004"
	deleted.IsDeleted = true
	if err := repo.Create(ctx, deleted); err != nil {
		t.Fatalf("Create deleted: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List len: got %d want 2: %#v", len(all), all)
	}
	if all[0].ID != second.ID || all[1].ID != it.ID {
		t.Fatalf("List ordering: got [%s %s]", all[0].ID, all[1].ID)
	}
}
