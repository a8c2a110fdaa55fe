package itineraries

import (
	"time"

	"github.com/meridian-travel/itinerary-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// TravelerInput is a caller-supplied traveler entry. If no traveler is
// flagged primary, the first one becomes primary at assembly time.
type TravelerInput struct {
	Name      string
	Email     *string
	Phone     *string
	IsPrimary bool
}

// DaySpec describes one day for custom creation or a per-day override of a
// template clone. Nil content fields mean "not supplied" and trigger the
// auto-fill decision; non-nil content always wins and is marked custom.
type DaySpec struct {
	DayNumber int

	// DestinationIDs replaces the template's destination set when non-empty;
	// for custom creation it is required.
	DestinationIDs []domain.DestinationID

	// Accommodation: unspecified keeps the template's value, null clears it.
	Accommodation Optional[domain.AccommodationID]

	Description *string
	Activities  *string
}

type CreateFromTemplateInput struct {
	TemplateID    domain.TemplateID
	DepartureDate time.Time
	Travelers     []TravelerInput
	AssignedTo    *domain.UserID
}

type CreateFromEditedTemplateInput struct {
	TemplateID    domain.TemplateID
	DepartureDate time.Time
	DayOverrides  []DaySpec
	Travelers     []TravelerInput
	AssignedTo    *domain.UserID
}

type CreateCustomInput struct {
	DepartureDate time.Time
	DurationDays  int
	Days          []DaySpec
	Inclusions    []string
	Exclusions    []string
	Travelers     []TravelerInput
	AssignedTo    *domain.UserID
}

// CreateInput is the tagged creation-strategy variant: exactly one field must
// be set. A single assembly entry point dispatches on it so the shared
// schedule/code/persist tail exists once.
type CreateInput struct {
	FromTemplate       *CreateFromTemplateInput
	FromEditedTemplate *CreateFromEditedTemplateInput
	Custom             *CreateCustomInput
}

// UpdateItineraryInput patches mutable itinerary fields. Every update is
// gated by the editability policy first.
type UpdateItineraryInput struct {
	// AssignedTo: null clears the assignment.
	AssignedTo Optional[domain.UserID]

	Status *domain.ItineraryStatus

	// CanEditAfterCompletion may only be changed by privileged callers.
	CanEditAfterCompletion *bool

	// DurationDays is accepted only when equal to the current value; changing
	// the duration of an assembled itinerary is rejected pending product
	// clarification.
	DurationDays *int

	IsDeleted *bool
}
