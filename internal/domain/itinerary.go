package domain

import "time"

type ItineraryStatus string

const (
	ItineraryStatusDraft     ItineraryStatus = "DRAFT"
	ItineraryStatusSent      ItineraryStatus = "SENT"
	ItineraryStatusConfirmed ItineraryStatus = "CONFIRMED"
	ItineraryStatusCompleted ItineraryStatus = "COMPLETED"
	ItineraryStatusCancelled ItineraryStatus = "CANCELLED"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s ItineraryStatus) IsTerminal() bool {
	return s == ItineraryStatusCompleted || s == ItineraryStatusCancelled
}

// CanTransitionStatus reports whether a status change is legal.
// The forward chain is Draft -> Sent -> Confirmed -> Completed; Cancelled is
// reachable from any non-terminal status.
func CanTransitionStatus(from, to ItineraryStatus) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	if to == ItineraryStatusCancelled {
		return true
	}
	switch from {
	case ItineraryStatusDraft:
		return to == ItineraryStatusSent
	case ItineraryStatusSent:
		return to == ItineraryStatusConfirmed
	case ItineraryStatusConfirmed:
		return to == ItineraryStatusCompleted
	default:
		return false
	}
}

type CreationStrategy string

const (
	StrategyFromTemplate       CreationStrategy = "FROM_TEMPLATE"
	StrategyFromEditedTemplate CreationStrategy = "FROM_EDITED_TEMPLATE"
	StrategyCustom             CreationStrategy = "CUSTOM"
)

// DayContent is a text field with a provenance flag: IsCustom is false only
// when the text originated from a template or a successful combination lookup
// during the same assembly.
type DayContent struct {
	Text     string
	IsCustom bool
}

type ItineraryDay struct {
	DayNumber int // 1..DurationDays, unique within the itinerary
	DayDate   time.Time

	DestinationIDs []DestinationID // non-empty

	Description DayContent
	Activities  DayContent

	AccommodationID *AccommodationID
}

// Traveler is a per-itinerary contact entry. Exactly one traveler per
// itinerary carries IsPrimary.
type Traveler struct {
	Name      string
	Email     *string
	Phone     *string
	IsPrimary bool
}

// Itinerary is the domain representation of a fully assembled itinerary graph.
type Itinerary struct {
	ID         ItineraryID
	UniqueCode string // fixed-length, immutable once assigned

	Strategy CreationStrategy
	Status   ItineraryStatus

	DepartureDate time.Time
	DurationDays  int
	ReturnDate    time.Time

	CanEditAfterCompletion bool

	CreatedBy  UserID
	AssignedTo *UserID

	IsDeleted bool

	Inclusions []string
	Exclusions []string

	Days      []ItineraryDay
	Travelers []Traveler

	CreatedAt time.Time
	UpdatedAt time.Time
}
