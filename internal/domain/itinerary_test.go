package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-travel/itinerary-api/internal/domain"
)

func TestCanTransitionStatus(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to domain.ItineraryStatus }{
		{domain.ItineraryStatusDraft, domain.ItineraryStatusSent},
		{domain.ItineraryStatusSent, domain.ItineraryStatusConfirmed},
		{domain.ItineraryStatusConfirmed, domain.ItineraryStatusCompleted},
		{domain.ItineraryStatusDraft, domain.ItineraryStatusCancelled},
		{domain.ItineraryStatusSent, domain.ItineraryStatusCancelled},
		{domain.ItineraryStatusConfirmed, domain.ItineraryStatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, domain.CanTransitionStatus(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to domain.ItineraryStatus }{
		{domain.ItineraryStatusDraft, domain.ItineraryStatusConfirmed},
		{domain.ItineraryStatusDraft, domain.ItineraryStatusCompleted},
		{domain.ItineraryStatusSent, domain.ItineraryStatusCompleted},
		{domain.ItineraryStatusCompleted, domain.ItineraryStatusDraft},
		{domain.ItineraryStatusCompleted, domain.ItineraryStatusCancelled},
		{domain.ItineraryStatusCancelled, domain.ItineraryStatusDraft},
		{domain.ItineraryStatusSent, domain.ItineraryStatusDraft},
	}
	for _, tc := range denied {
		assert.False(t, domain.CanTransitionStatus(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.ItineraryStatusCompleted.IsTerminal())
	assert.True(t, domain.ItineraryStatusCancelled.IsTerminal())
	assert.False(t, domain.ItineraryStatusDraft.IsTerminal())
	assert.False(t, domain.ItineraryStatusSent.IsTerminal())
	assert.False(t, domain.ItineraryStatusConfirmed.IsTerminal())
}
