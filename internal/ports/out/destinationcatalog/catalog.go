package destinationcatalog

import (
	"context"

	"github.com/meridian-travel/itinerary-api/internal/domain"
)

// Destination is the minimal read model the core needs: an identifier and a
// display label. All other catalog attributes are irrelevant here.
type Destination struct {
	ID    domain.DestinationID
	Label string
}

// Catalog resolves destination identifiers to display labels. It is consulted
// only for labeling; business logic never goes beyond identifier comparison.
type Catalog interface {
	GetByID(ctx context.Context, id domain.DestinationID) (Destination, error)

	// Labels resolves a batch of identifiers. Unknown identifiers resolve to
	// their raw ID string so labeling never fails a read path.
	Labels(ctx context.Context, ids []domain.DestinationID) (map[domain.DestinationID]string, error)
}
