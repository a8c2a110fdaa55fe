package httpapi

import (
	"fmt"
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/meridian-travel/itinerary-api/internal/app/itineraries"
	"github.com/meridian-travel/itinerary-api/internal/domain"
)

// dateLayout is the wire format for calendar dates; itineraries are scheduled
// per calendar day, timezone handling belongs to the clients.
const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func formatDate(t time.Time) string { return t.UTC().Format(dateLayout) }

// --- combinations ---

type combinationEntryDTO struct {
	DestinationIDs []string  `json:"destinationIds"`
	Description    string    `json:"description"`
	Activities     string    `json:"activities"`
	LastEditedBy   string    `json:"lastEditedBy"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toCombinationEntryDTO(e domain.CombinationEntry) combinationEntryDTO {
	ids := []string{string(e.Key.Low)}
	if !e.Key.IsDiagonal() {
		ids = append(ids, string(e.Key.High))
	}
	return combinationEntryDTO{
		DestinationIDs: ids,
		Description:    e.Description,
		Activities:     e.Activities,
		LastEditedBy:   string(e.LastEditedBy),
		UpdatedAt:      e.UpdatedAt,
	}
}

type upsertCombinationEntryRequest struct {
	DestinationIDs []string `json:"destinationIds"`
	Description    string   `json:"description"`
	Activities     string   `json:"activities"`
}

type lookupResponse struct {
	Found bool                 `json:"found"`
	Entry *combinationEntryDTO `json:"entry,omitempty"`
}

type suggestionDTO struct {
	DestinationIDs []string `json:"destinationIds"`
	Label          string   `json:"label"`
	Description    string   `json:"description"`
	Activities     string   `json:"activities"`
}

// --- itineraries ---

type travelerDTO struct {
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	IsPrimary bool    `json:"isPrimary"`
}

type dayContentDTO struct {
	Text     string `json:"text"`
	IsCustom bool   `json:"isCustom"`
}

type itineraryDayDTO struct {
	DayNumber       int           `json:"dayNumber"`
	DayDate         string        `json:"dayDate"`
	DestinationIDs  []string      `json:"destinationIds"`
	Description     dayContentDTO `json:"description"`
	Activities      dayContentDTO `json:"activities"`
	AccommodationID *string       `json:"accommodationId,omitempty"`
}

type itineraryDTO struct {
	ID                     string            `json:"id"`
	UniqueCode             string            `json:"uniqueCode"`
	Strategy               string            `json:"strategy"`
	Status                 string            `json:"status"`
	DepartureDate          string            `json:"departureDate"`
	DurationDays           int               `json:"durationDays"`
	ReturnDate             string            `json:"returnDate"`
	CanEditAfterCompletion bool              `json:"canEditAfterCompletion"`
	CreatedBy              string            `json:"createdBy"`
	AssignedTo             *string           `json:"assignedTo,omitempty"`
	IsDeleted              bool              `json:"isDeleted"`
	Inclusions             []string          `json:"inclusions"`
	Exclusions             []string          `json:"exclusions"`
	Days                   []itineraryDayDTO `json:"days"`
	Travelers              []travelerDTO     `json:"travelers"`
	CreatedAt              time.Time         `json:"createdAt"`
	UpdatedAt              time.Time         `json:"updatedAt"`
}

func toItineraryDTO(it domain.Itinerary) itineraryDTO {
	dto := itineraryDTO{
		ID:                     string(it.ID),
		UniqueCode:             it.UniqueCode,
		Strategy:               string(it.Strategy),
		Status:                 string(it.Status),
		DepartureDate:          formatDate(it.DepartureDate),
		DurationDays:           it.DurationDays,
		ReturnDate:             formatDate(it.ReturnDate),
		CanEditAfterCompletion: it.CanEditAfterCompletion,
		CreatedBy:              string(it.CreatedBy),
		IsDeleted:              it.IsDeleted,
		Inclusions:             emptySlice(it.Inclusions),
		Exclusions:             emptySlice(it.Exclusions),
		Days:                   make([]itineraryDayDTO, 0, len(it.Days)),
		Travelers:              make([]travelerDTO, 0, len(it.Travelers)),
		CreatedAt:              it.CreatedAt,
		UpdatedAt:              it.UpdatedAt,
	}
	if it.AssignedTo != nil {
		v := string(*it.AssignedTo)
		dto.AssignedTo = &v
	}
	for _, d := range it.Days {
		day := itineraryDayDTO{
			DayNumber:      d.DayNumber,
			DayDate:        formatDate(d.DayDate),
			DestinationIDs: destinationStrings(d.DestinationIDs),
			Description:    dayContentDTO(d.Description),
			Activities:     dayContentDTO(d.Activities),
		}
		if d.AccommodationID != nil {
			v := string(*d.AccommodationID)
			day.AccommodationID = &v
		}
		dto.Days = append(dto.Days, day)
	}
	for _, tr := range it.Travelers {
		dto.Travelers = append(dto.Travelers, travelerDTO{
			Name:      tr.Name,
			Email:     tr.Email,
			Phone:     tr.Phone,
			IsPrimary: tr.IsPrimary,
		})
	}
	return dto
}

type travelerInputDTO struct {
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	IsPrimary bool    `json:"isPrimary,omitempty"`
}

func (t travelerInputDTO) toInput() itineraries.TravelerInput {
	return itineraries.TravelerInput{
		Name:      t.Name,
		Email:     t.Email,
		Phone:     t.Phone,
		IsPrimary: t.IsPrimary,
	}
}

// daySpecDTO carries a day for custom creation or a per-day override of a
// template clone. accommodationId is tri-state: omitted keeps the template's
// value, null clears it, a string sets it.
type daySpecDTO struct {
	DayNumber       int                       `json:"dayNumber"`
	DestinationIDs  []string                  `json:"destinationIds,omitempty"`
	AccommodationID nullable.Nullable[string] `json:"accommodationId,omitempty"`
	Description     *string                   `json:"description,omitempty"`
	Activities      *string                   `json:"activities,omitempty"`
}

func (d daySpecDTO) toSpec() itineraries.DaySpec {
	spec := itineraries.DaySpec{
		DayNumber:   d.DayNumber,
		Description: d.Description,
		Activities:  d.Activities,
	}
	for _, id := range d.DestinationIDs {
		spec.DestinationIDs = append(spec.DestinationIDs, domain.DestinationID(id))
	}
	if d.AccommodationID.IsSpecified() {
		if d.AccommodationID.IsNull() {
			spec.Accommodation = itineraries.Null[domain.AccommodationID]()
		} else {
			v, _ := d.AccommodationID.Get()
			spec.Accommodation = itineraries.Some(domain.AccommodationID(v))
		}
	}
	return spec
}

type fromTemplateRequest struct {
	TemplateID    string             `json:"templateId"`
	DepartureDate string             `json:"departureDate"`
	Travelers     []travelerInputDTO `json:"travelers"`
	AssignedTo    *string            `json:"assignedTo,omitempty"`
}

type fromEditedTemplateRequest struct {
	TemplateID    string             `json:"templateId"`
	DepartureDate string             `json:"departureDate"`
	DayOverrides  []daySpecDTO       `json:"dayOverrides,omitempty"`
	Travelers     []travelerInputDTO `json:"travelers"`
	AssignedTo    *string            `json:"assignedTo,omitempty"`
}

type customRequest struct {
	DepartureDate string             `json:"departureDate"`
	DurationDays  int                `json:"durationDays"`
	Days          []daySpecDTO       `json:"days"`
	Inclusions    []string           `json:"inclusions,omitempty"`
	Exclusions    []string           `json:"exclusions,omitempty"`
	Travelers     []travelerInputDTO `json:"travelers"`
	AssignedTo    *string            `json:"assignedTo,omitempty"`
}

// createItineraryRequest is the strategy-tagged creation body: exactly one of
// the three variants must be present.
type createItineraryRequest struct {
	FromTemplate       *fromTemplateRequest       `json:"fromTemplate,omitempty"`
	FromEditedTemplate *fromEditedTemplateRequest `json:"fromEditedTemplate,omitempty"`
	Custom             *customRequest             `json:"custom,omitempty"`
}

type duplicateItineraryRequest struct {
	DepartureDate string `json:"departureDate"`
}

// patchItineraryRequest patches mutable fields. assignedTo is tri-state:
// omitted leaves the assignment alone, null clears it.
type patchItineraryRequest struct {
	AssignedTo             nullable.Nullable[string] `json:"assignedTo,omitempty"`
	Status                 *string                   `json:"status,omitempty"`
	CanEditAfterCompletion *bool                     `json:"canEditAfterCompletion,omitempty"`
	DurationDays           *int                      `json:"durationDays,omitempty"`
	IsDeleted              *bool                     `json:"isDeleted,omitempty"`
}

type editabilityResponse struct {
	Editable bool `json:"editable"`
}

func destinationStrings(ids []domain.DestinationID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

func destinationIDs(ids []string) []domain.DestinationID {
	out := make([]domain.DestinationID, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.DestinationID(id))
	}
	return out
}

func travelerInputs(ts []travelerInputDTO) []itineraries.TravelerInput {
	out := make([]itineraries.TravelerInput, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.toInput())
	}
	return out
}

func daySpecs(ds []daySpecDTO) []itineraries.DaySpec {
	out := make([]itineraries.DaySpec, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.toSpec())
	}
	return out
}

func userIDPtr(s *string) *domain.UserID {
	if s == nil {
		return nil
	}
	v := domain.UserID(*s)
	return &v
}

func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
