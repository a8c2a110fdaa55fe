package destinationcatalog

import (
	"context"
	"sync"

	"github.com/meridian-travel/itinerary-api/internal/domain"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/destinationcatalog"
)

// Catalog is a seedable in-memory implementation of destinationcatalog.Catalog.
type Catalog struct {
	mu   sync.RWMutex
	byID map[domain.DestinationID]destinationcatalog.Destination
}

func NewCatalog() *Catalog {
	return &Catalog{
		byID: make(map[domain.DestinationID]destinationcatalog.Destination),
	}
}

// Seed registers a destination, replacing any previous one with the same ID.
func (c *Catalog) Seed(d destinationcatalog.Destination) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[d.ID] = d
}

func (c *Catalog) GetByID(ctx context.Context, id domain.DestinationID) (destinationcatalog.Destination, error) {
	_ = ctx
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.byID[id]
	if !ok {
		return destinationcatalog.Destination{}, destinationcatalog.ErrNotFound
	}
	return d, nil
}

func (c *Catalog) Labels(ctx context.Context, ids []domain.DestinationID) (map[domain.DestinationID]string, error) {
	_ = ctx
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[domain.DestinationID]string, len(ids))
	for _, id := range ids {
		if d, ok := c.byID[id]; ok {
			out[id] = d.Label
		} else {
			out[id] = string(id)
		}
	}
	return out, nil
}
