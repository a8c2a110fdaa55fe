package templatecatalog

import (
	"context"
	"sync"

	"github.com/meridian-travel/itinerary-api/internal/domain"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/templatecatalog"
)

// Catalog is a seedable in-memory implementation of templatecatalog.Catalog,
// standing in for the external template system in tests and local runs.
type Catalog struct {
	mu   sync.RWMutex
	byID map[domain.TemplateID]templatecatalog.Template
}

func NewCatalog() *Catalog {
	return &Catalog{
		byID: make(map[domain.TemplateID]templatecatalog.Template),
	}
}

// Seed registers a template, replacing any previous one with the same ID.
func (c *Catalog) Seed(t templatecatalog.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[t.ID] = cloneTemplate(t)
}

func (c *Catalog) GetByID(ctx context.Context, id domain.TemplateID) (templatecatalog.Template, error) {
	_ = ctx
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.byID[id]
	if !ok {
		return templatecatalog.Template{}, templatecatalog.ErrNotFound
	}
	return cloneTemplate(t), nil
}

func cloneTemplate(t templatecatalog.Template) templatecatalog.Template {
	cp := t
	cp.Inclusions = append([]string(nil), t.Inclusions...)
	cp.Exclusions = append([]string(nil), t.Exclusions...)
	if t.Days != nil {
		cp.Days = make([]templatecatalog.TemplateDay, len(t.Days))
		for i, d := range t.Days {
			dd := d
			dd.DestinationIDs = append([]domain.DestinationID(nil), d.DestinationIDs...)
			if d.AccommodationID != nil {
				v := *d.AccommodationID
				dd.AccommodationID = &v
			}
			cp.Days[i] = dd
		}
	}
	return cp
}
