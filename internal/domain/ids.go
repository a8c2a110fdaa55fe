package domain

// DestinationID identifies a destination in the external destination catalog.
// We model it as an opaque identifier: its format is controlled by the catalog.
type DestinationID string

// ItineraryID is an internal identifier for an itinerary record.
type ItineraryID string

// TemplateID identifies a template in the external template catalog.
type TemplateID string

// AccommodationID identifies an accommodation in the external catalog.
type AccommodationID string

// UserID is an external identity reference (createdBy, assignedTo, provenance).
type UserID string
