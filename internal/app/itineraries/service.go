package itineraries

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-travel/itinerary-api/internal/app/combinations"
	"github.com/meridian-travel/itinerary-api/internal/domain"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/clock"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/itineraryrepo"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/templatecatalog"
)

// maxCodeAllocationAttempts bounds the allocate-and-insert loop. The store's
// uniqueness constraint is the arbiter: a candidate that passes the existence
// check but loses the insert race surfaces as ErrCodeTaken and a fresh
// candidate is tried.
const maxCodeAllocationAttempts = 10

// Service assembles, duplicates, and mutates itineraries. It is stateless and
// safe to call from concurrent request handlers; all coordination happens in
// the repositories.
type Service struct {
	itineraries itineraryrepo.Repository
	templates   templatecatalog.Catalog
	combos      *combinations.Service
	clk         clock.Clock

	newItineraryID func() domain.ItineraryID
	newCode        func(exists func(string) (bool, error)) (string, error)
}

func NewService(itins itineraryrepo.Repository, templates templatecatalog.Catalog, combos *combinations.Service, clk clock.Clock) *Service {
	return &Service{
		itineraries: itins,
		templates:   templates,
		combos:      combos,
		clk:         clk,
		newItineraryID: func() domain.ItineraryID {
			return domain.ItineraryID(uuid.NewString())
		},
		newCode: domain.GenerateUniqueCode,
	}
}

// SetNewItineraryIDForTest overrides ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewItineraryIDForTest(fn func() domain.ItineraryID) {
	if fn != nil {
		s.newItineraryID = fn
	}
}

// SetCodeGeneratorForTest overrides unique-code generation for deterministic tests.
func (s *Service) SetCodeGeneratorForTest(fn func(exists func(string) (bool, error)) (string, error)) {
	if fn != nil {
		s.newCode = fn
	}
}

// assemblyPlan is the converged shape all three creation strategies produce
// before the shared schedule/code/persist tail runs.
type assemblyPlan struct {
	strategy      domain.CreationStrategy
	departureDate time.Time
	durationDays  int
	days          []domain.ItineraryDay // dates filled in by the tail
	inclusions    []string
	exclusions    []string
	travelers     []TravelerInput
	assignedTo    *domain.UserID
}

// Create is the single assembly entry point. Exactly one strategy variant
// must be set on in.
func (s *Service) Create(ctx context.Context, caller domain.UserID, in CreateInput) (domain.Itinerary, error) {
	var (
		plan assemblyPlan
		err  error
	)
	switch {
	case in.FromTemplate != nil && in.FromEditedTemplate == nil && in.Custom == nil:
		plan, err = s.planFromTemplate(ctx, *in.FromTemplate)
	case in.FromEditedTemplate != nil && in.FromTemplate == nil && in.Custom == nil:
		plan, err = s.planFromEditedTemplate(ctx, *in.FromEditedTemplate)
	case in.Custom != nil && in.FromTemplate == nil && in.FromEditedTemplate == nil:
		plan, err = s.planCustom(ctx, *in.Custom)
	default:
		return domain.Itinerary{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "exactly one creation strategy must be provided",
		}
	}
	if err != nil {
		return domain.Itinerary{}, err
	}
	return s.assemble(ctx, caller, plan)
}

// CreateFromTemplate clones every day, destination association, accommodation
// association, and inclusion/exclusion from the named template verbatim.
func (s *Service) CreateFromTemplate(ctx context.Context, caller domain.UserID, in CreateFromTemplateInput) (domain.Itinerary, error) {
	return s.Create(ctx, caller, CreateInput{FromTemplate: &in})
}

// CreateFromEditedTemplate starts from a template clone and applies per-day
// overrides, auto-filling content for overridden days that omit it.
func (s *Service) CreateFromEditedTemplate(ctx context.Context, caller domain.UserID, in CreateFromEditedTemplateInput) (domain.Itinerary, error) {
	return s.Create(ctx, caller, CreateInput{FromEditedTemplate: &in})
}

// CreateCustom builds every day from caller-supplied specs.
func (s *Service) CreateCustom(ctx context.Context, caller domain.UserID, in CreateCustomInput) (domain.Itinerary, error) {
	return s.Create(ctx, caller, CreateInput{Custom: &in})
}

func (s *Service) planFromTemplate(ctx context.Context, in CreateFromTemplateInput) (assemblyPlan, error) {
	tpl, err := s.loadTemplate(ctx, in.TemplateID)
	if err != nil {
		return assemblyPlan{}, err
	}
	return assemblyPlan{
		strategy:      domain.StrategyFromTemplate,
		departureDate: in.DepartureDate,
		durationDays:  tpl.DurationDays,
		days:          daysFromTemplate(tpl),
		inclusions:    append([]string(nil), tpl.Inclusions...),
		exclusions:    append([]string(nil), tpl.Exclusions...),
		travelers:     in.Travelers,
		assignedTo:    in.AssignedTo,
	}, nil
}

func (s *Service) planFromEditedTemplate(ctx context.Context, in CreateFromEditedTemplateInput) (assemblyPlan, error) {
	tpl, err := s.loadTemplate(ctx, in.TemplateID)
	if err != nil {
		return assemblyPlan{}, err
	}
	days := daysFromTemplate(tpl)

	byNumber := make(map[int]int, len(days))
	for i, d := range days {
		byNumber[d.DayNumber] = i
	}
	seen := make(map[int]bool, len(in.DayOverrides))
	for _, ov := range in.DayOverrides {
		idx, ok := byNumber[ov.DayNumber]
		if !ok {
			return assemblyPlan{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "override references a day outside the template",
				Details: map[string]any{"dayNumber": ov.DayNumber},
			}
		}
		if seen[ov.DayNumber] {
			return assemblyPlan{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "duplicate override for day",
				Details: map[string]any{"dayNumber": ov.DayNumber},
			}
		}
		seen[ov.DayNumber] = true

		day := days[idx]
		if len(ov.DestinationIDs) > 0 {
			if err := validateDayDestinations(ov.DayNumber, ov.DestinationIDs); err != nil {
				return assemblyPlan{}, err
			}
			day.DestinationIDs = append([]domain.DestinationID(nil), ov.DestinationIDs...)
		}
		if ov.Accommodation.IsSpecified() {
			if ov.Accommodation.IsNull() {
				day.AccommodationID = nil
			} else {
				v := ov.Accommodation.Value()
				day.AccommodationID = &v
			}
		}
		filled, err := s.resolveDayContent(ctx, day.DestinationIDs, ov.Description, ov.Activities)
		if err != nil {
			return assemblyPlan{}, err
		}
		day.Description = filled.description
		day.Activities = filled.activities
		days[idx] = day
	}

	return assemblyPlan{
		strategy:      domain.StrategyFromEditedTemplate,
		departureDate: in.DepartureDate,
		durationDays:  tpl.DurationDays,
		days:          days,
		inclusions:    append([]string(nil), tpl.Inclusions...),
		exclusions:    append([]string(nil), tpl.Exclusions...),
		travelers:     in.Travelers,
		assignedTo:    in.AssignedTo,
	}, nil
}

func (s *Service) planCustom(ctx context.Context, in CreateCustomInput) (assemblyPlan, error) {
	if in.DurationDays != len(in.Days) {
		return assemblyPlan{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "durationDays must match the number of day specs",
			Details: map[string]any{"durationDays": in.DurationDays, "days": len(in.Days)},
		}
	}
	days := make([]domain.ItineraryDay, 0, len(in.Days))
	seen := make(map[int]bool, len(in.Days))
	for _, spec := range in.Days {
		if spec.DayNumber < 1 || spec.DayNumber > in.DurationDays || seen[spec.DayNumber] {
			return assemblyPlan{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "day numbers must be unique and within 1..durationDays",
				Details: map[string]any{"dayNumber": spec.DayNumber},
			}
		}
		seen[spec.DayNumber] = true
		if len(spec.DestinationIDs) == 0 {
			return assemblyPlan{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "every day needs at least one destination",
				Details: map[string]any{"dayNumber": spec.DayNumber},
			}
		}
		if err := validateDayDestinations(spec.DayNumber, spec.DestinationIDs); err != nil {
			return assemblyPlan{}, err
		}

		day := domain.ItineraryDay{
			DayNumber:      spec.DayNumber,
			DestinationIDs: append([]domain.DestinationID(nil), spec.DestinationIDs...),
		}
		if spec.Accommodation.IsSpecified() && !spec.Accommodation.IsNull() {
			v := spec.Accommodation.Value()
			day.AccommodationID = &v
		}
		filled, err := s.resolveDayContent(ctx, day.DestinationIDs, spec.Description, spec.Activities)
		if err != nil {
			return assemblyPlan{}, err
		}
		day.Description = filled.description
		day.Activities = filled.activities
		days = append(days, day)
	}
	sortDaysByNumber(days)

	return assemblyPlan{
		strategy:      domain.StrategyCustom,
		departureDate: in.DepartureDate,
		durationDays:  in.DurationDays,
		days:          days,
		inclusions:    append([]string(nil), in.Inclusions...),
		exclusions:    append([]string(nil), in.Exclusions...),
		travelers:     in.Travelers,
		assignedTo:    in.AssignedTo,
	}, nil
}

type resolvedContent struct {
	description domain.DayContent
	activities  domain.DayContent
}

// resolveDayContent is the auto-fill decision shared by edited-template and
// custom assembly:
//   - explicit caller content always wins and is marked custom;
//   - 1-2 destinations: a lookup hit fills missing fields as non-custom, a
//     miss leaves them unset with the custom flag (the caller still owes
//     content);
//   - 3+ destinations: missing fields stay unset; a human picks from the
//     suggestion set later.
func (s *Service) resolveDayContent(ctx context.Context, destinations []domain.DestinationID, explicitDescription, explicitActivities *string) (resolvedContent, error) {
	out := resolvedContent{
		description: domain.DayContent{IsCustom: true},
		activities:  domain.DayContent{IsCustom: true},
	}
	if explicitDescription != nil {
		out.description.Text = *explicitDescription
	}
	if explicitActivities != nil {
		out.activities.Text = *explicitActivities
	}
	if explicitDescription != nil && explicitActivities != nil {
		return out, nil
	}
	if len(destinations) > 2 {
		return out, nil
	}

	res, err := s.combos.Lookup(ctx, destinations)
	if err != nil {
		var ce *combinations.Error
		if errors.As(err, &ce) {
			return resolvedContent{}, &Error{Status: ce.Status, Code: ce.Code, Message: ce.Message, Details: ce.Details}
		}
		return resolvedContent{}, err
	}
	if !res.Found {
		return out, nil
	}
	if explicitDescription == nil {
		out.description = domain.DayContent{Text: res.Entry.Description, IsCustom: false}
	}
	if explicitActivities == nil {
		out.activities = domain.DayContent{Text: res.Entry.Activities, IsCustom: false}
	}
	return out, nil
}

// assemble is the shared tail: schedule, travelers, code allocation, atomic
// persist. Any failure leaves nothing persisted because the repository Create
// is a single all-or-nothing operation.
func (s *Service) assemble(ctx context.Context, caller domain.UserID, plan assemblyPlan) (domain.Itinerary, error) {
	sched, err := domain.ComputeSchedule(plan.departureDate, plan.durationDays)
	if err != nil {
		return domain.Itinerary{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid departure/duration",
			Details: map[string]any{"durationDays": plan.durationDays},
		}
	}
	for i := range plan.days {
		plan.days[i].DayDate = sched.DayDates[plan.days[i].DayNumber-1]
	}

	travelers, err := normalizeTravelers(plan.travelers)
	if err != nil {
		return domain.Itinerary{}, err
	}

	now := s.clk.Now()
	it := domain.Itinerary{
		ID:            s.newItineraryID(),
		Strategy:      plan.strategy,
		Status:        domain.ItineraryStatusDraft,
		DepartureDate: sched.DayDates[0],
		DurationDays:  plan.durationDays,
		ReturnDate:    sched.ReturnDate,
		CreatedBy:     caller,
		AssignedTo:    plan.assignedTo,
		Inclusions:    plan.inclusions,
		Exclusions:    plan.exclusions,
		Days:          plan.days,
		Travelers:     travelers,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.persistWithFreshCode(ctx, it)
}

// persistWithFreshCode couples code generation with the atomic insert. The
// existence pre-check keeps collisions rare; the store's uniqueness
// constraint decides races, and losing candidates are regenerated within the
// attempt bound.
func (s *Service) persistWithFreshCode(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	for attempt := 0; attempt < maxCodeAllocationAttempts; attempt++ {
		code, err := s.newCode(func(c string) (bool, error) {
			return s.itineraries.CodeExists(ctx, c)
		})
		if err != nil {
			if errors.Is(err, domain.ErrCodeExhausted) {
				return domain.Itinerary{}, codeExhausted()
			}
			return domain.Itinerary{}, err
		}
		it.UniqueCode = code

		err = s.itineraries.Create(ctx, it)
		if err == nil {
			return it, nil
		}
		if errors.Is(err, itineraryrepo.ErrCodeTaken) {
			continue
		}
		if errors.Is(err, itineraryrepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.Itinerary{}, &Error{Status: 409, Code: "ITINERARY_ID_CONFLICT", Message: "itinerary id conflict"}
		}
		return domain.Itinerary{}, err
	}
	return domain.Itinerary{}, codeExhausted()
}

// Duplicate deep-clones an itinerary onto a new departure date. The clone
// gets a fresh code, Draft status, recomputed dates, and placeholder
// travelers: contact details are never carried over.
func (s *Service) Duplicate(ctx context.Context, caller domain.UserID, sourceID domain.ItineraryID, newDeparture time.Time) (domain.Itinerary, error) {
	src, err := s.itineraries.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Itinerary{}, notFound()
		}
		return domain.Itinerary{}, err
	}

	sched, err := domain.ComputeSchedule(newDeparture, src.DurationDays)
	if err != nil {
		return domain.Itinerary{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid departure date",
		}
	}

	days := make([]domain.ItineraryDay, len(src.Days))
	for i, d := range src.Days {
		cp := d
		cp.DestinationIDs = append([]domain.DestinationID(nil), d.DestinationIDs...)
		if d.AccommodationID != nil {
			v := *d.AccommodationID
			cp.AccommodationID = &v
		}
		cp.DayDate = sched.DayDates[d.DayNumber-1]
		days[i] = cp
	}

	now := s.clk.Now()
	dup := domain.Itinerary{
		ID:            s.newItineraryID(),
		Strategy:      src.Strategy,
		Status:        domain.ItineraryStatusDraft,
		DepartureDate: sched.DayDates[0],
		DurationDays:  src.DurationDays,
		ReturnDate:    sched.ReturnDate,
		CreatedBy:     caller,
		Inclusions:    append([]string(nil), src.Inclusions...),
		Exclusions:    append([]string(nil), src.Exclusions...),
		Days:          days,
		Travelers: []domain.Traveler{
			{Name: "Traveler 1", IsPrimary: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.persistWithFreshCode(ctx, dup)
}

// Get loads the complete itinerary graph for downstream consumers such as
// document generation.
func (s *Service) Get(ctx context.Context, id domain.ItineraryID) (domain.Itinerary, error) {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Itinerary{}, notFound()
		}
		return domain.Itinerary{}, err
	}
	return it, nil
}

// List returns all non-deleted itineraries.
func (s *Service) List(ctx context.Context) ([]domain.Itinerary, error) {
	return s.itineraries.List(ctx)
}

// IsEditable reports whether the caller may mutate the itinerary right now.
func (s *Service) IsEditable(ctx context.Context, id domain.ItineraryID, privileged bool) (bool, error) {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, itineraryrepo.ErrNotFound) {
			return false, notFound()
		}
		return false, err
	}
	return domain.IsEditable(it, s.clk.Now(), privileged), nil
}

// Update patches mutable fields. The editability gate runs first: a standard
// caller failing it gets an authorization error, deliberately distinct from
// not-found.
func (s *Service) Update(ctx context.Context, caller domain.UserID, privileged bool, id domain.ItineraryID, in UpdateItineraryInput) (domain.Itinerary, error) {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Itinerary{}, notFound()
		}
		return domain.Itinerary{}, err
	}

	if !domain.IsEditable(it, s.clk.Now(), privileged) {
		return domain.Itinerary{}, &Error{
			Status:  403,
			Code:    "EDIT_LOCKED",
			Message: "itinerary may no longer be edited by this caller",
		}
	}

	if in.DurationDays != nil && *in.DurationDays != it.DurationDays {
		// Changing the duration of an assembled itinerary is unresolved
		// product behavior (truncate vs. reject vs. append); reject for now.
		return domain.Itinerary{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "durationDays cannot be changed after assembly",
			Details: map[string]any{"durationDays": fmt.Sprintf("is %d; cannot become %d", it.DurationDays, *in.DurationDays)},
		}
	}

	if in.Status != nil && *in.Status != it.Status {
		if !domain.CanTransitionStatus(it.Status, *in.Status) {
			return domain.Itinerary{}, &Error{
				Status:  409,
				Code:    "INVALID_STATUS_TRANSITION",
				Message: "status transition not allowed",
				Details: map[string]any{"from": string(it.Status), "to": string(*in.Status)},
			}
		}
		it.Status = *in.Status
	}

	if in.AssignedTo.IsSpecified() {
		if in.AssignedTo.IsNull() {
			it.AssignedTo = nil
		} else {
			v := in.AssignedTo.Value()
			it.AssignedTo = &v
		}
	}

	if in.CanEditAfterCompletion != nil {
		if !privileged {
			return domain.Itinerary{}, &Error{
				Status:  403,
				Code:    "EDIT_LOCKED",
				Message: "only privileged callers may change the post-completion override",
			}
		}
		it.CanEditAfterCompletion = *in.CanEditAfterCompletion
	}

	if in.IsDeleted != nil {
		it.IsDeleted = *in.IsDeleted
	}

	it.UpdatedAt = s.clk.Now()
	if err := s.itineraries.Save(ctx, it); err != nil {
		return domain.Itinerary{}, err
	}
	return it, nil
}

func normalizeTravelers(in []TravelerInput) ([]domain.Traveler, error) {
	if len(in) == 0 {
		return nil, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "at least one traveler is required",
		}
	}
	out := make([]domain.Traveler, 0, len(in))
	primaries := 0
	for i, t := range in {
		name := domain.NormalizeHumanName(t.Name)
		if name == "" {
			return nil, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "traveler name must be non-empty",
				Details: map[string]any{"traveler": i},
			}
		}
		if t.IsPrimary {
			primaries++
		}
		out = append(out, domain.Traveler{
			Name:      name,
			Email:     cloneStringPtr(t.Email),
			Phone:     cloneStringPtr(t.Phone),
			IsPrimary: t.IsPrimary,
		})
	}
	switch primaries {
	case 0:
		out[0].IsPrimary = true
	case 1:
		// ok
	default:
		return nil, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "at most one traveler may be primary",
		}
	}
	return out, nil
}

func (s *Service) loadTemplate(ctx context.Context, id domain.TemplateID) (templatecatalog.Template, error) {
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, templatecatalog.ErrNotFound) {
			return templatecatalog.Template{}, &Error{Status: 404, Code: "TEMPLATE_NOT_FOUND", Message: "template not found"}
		}
		return templatecatalog.Template{}, err
	}
	if tpl.DurationDays != len(tpl.Days) {
		return templatecatalog.Template{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "template day count does not match its duration",
			Details: map[string]any{"templateId": string(id)},
		}
	}
	// The catalog is external input: day numbers must cover exactly
	// 1..durationDays or downstream date mapping has no slot for them.
	seen := make(map[int]bool, len(tpl.Days))
	for _, d := range tpl.Days {
		if d.DayNumber < 1 || d.DayNumber > tpl.DurationDays || seen[d.DayNumber] {
			return templatecatalog.Template{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "template day numbers must be unique and within 1..durationDays",
				Details: map[string]any{"templateId": string(id), "dayNumber": d.DayNumber},
			}
		}
		seen[d.DayNumber] = true
	}
	return tpl, nil
}

// daysFromTemplate clones template days verbatim. Template-authored content
// is marked non-custom on both fields for audit purposes.
func daysFromTemplate(tpl templatecatalog.Template) []domain.ItineraryDay {
	days := make([]domain.ItineraryDay, 0, len(tpl.Days))
	for _, td := range tpl.Days {
		day := domain.ItineraryDay{
			DayNumber:      td.DayNumber,
			DestinationIDs: append([]domain.DestinationID(nil), td.DestinationIDs...),
			Description:    domain.DayContent{Text: td.Description, IsCustom: false},
			Activities:     domain.DayContent{Text: td.Activities, IsCustom: false},
		}
		if td.AccommodationID != nil {
			v := *td.AccommodationID
			day.AccommodationID = &v
		}
		days = append(days, day)
	}
	sortDaysByNumber(days)
	return days
}

// validateDayDestinations enforces that a day's destination list is a set:
// the lookup path would reject duplicates anyway, but explicit-content and 3+
// destination days skip the lookup and must not persist a duplicated id.
func validateDayDestinations(dayNumber int, ids []domain.DestinationID) error {
	seen := make(map[domain.DestinationID]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "destination ids must be non-empty",
				Details: map[string]any{"dayNumber": dayNumber},
			}
		}
		if _, dup := seen[id]; dup {
			return &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "destination ids for a day must be distinct",
				Details: map[string]any{"dayNumber": dayNumber, "destinationId": string(id)},
			}
		}
		seen[id] = struct{}{}
	}
	return nil
}

func sortDaysByNumber(days []domain.ItineraryDay) {
	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
}

func notFound() *Error {
	return &Error{Status: 404, Code: "ITINERARY_NOT_FOUND", Message: "itinerary not found"}
}

func codeExhausted() *Error {
	return &Error{Status: 500, Code: "CODE_GENERATION_EXHAUSTED", Message: "could not allocate a unique code"}
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
