package combinationrepo

import (
	"testing"

	"github.com/meridian-travel/itinerary-api/internal/adapters/contracttest"
	"github.com/meridian-travel/itinerary-api/internal/adapters/postgres/testutil"
	combinationrepoport "github.com/meridian-travel/itinerary-api/internal/ports/out/combinationrepo"
)

func TestContract_PostgresCombinationRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunCombinationRepo(t, func(t *testing.T) (combinationrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}
