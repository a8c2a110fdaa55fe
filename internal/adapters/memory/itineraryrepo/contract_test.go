package itineraryrepo

import (
	"testing"

	"github.com/meridian-travel/itinerary-api/internal/adapters/contracttest"
	itineraryrepoport "github.com/meridian-travel/itinerary-api/internal/ports/out/itineraryrepo"
)

func TestContract_ItineraryRepo(t *testing.T) {
	contracttest.RunItineraryRepo(t, func(t *testing.T) (itineraryrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
