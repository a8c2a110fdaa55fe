package templatecatalog

import (
	"context"

	"github.com/meridian-travel/itinerary-api/internal/domain"
)

// TemplateDay is one authored day of a template.
type TemplateDay struct {
	DayNumber int

	DestinationIDs []domain.DestinationID

	Description string
	Activities  string

	AccommodationID *domain.AccommodationID
}

// Template is the read model supplied by the external template catalog.
type Template struct {
	ID   domain.TemplateID
	Name string

	DurationDays int
	Days         []TemplateDay

	Inclusions []string
	Exclusions []string
}

// Catalog is the read-only collaborator giving access to authored templates.
// The core never mutates the catalog.
type Catalog interface {
	GetByID(ctx context.Context, id domain.TemplateID) (Template, error)
}
