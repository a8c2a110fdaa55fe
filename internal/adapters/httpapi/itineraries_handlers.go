package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-travel/itinerary-api/internal/app/itineraries"
	"github.com/meridian-travel/itinerary-api/internal/domain"
)

type itinerariesHandlers struct {
	svc *itineraries.Service
}

func (h *itinerariesHandlers) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity", nil)
		return
	}
	var req createItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	in, err := req.toCreateInput()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	it, err := h.svc.Create(r.Context(), caller.ID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItineraryDTO(it))
}

func (r createItineraryRequest) toCreateInput() (itineraries.CreateInput, error) {
	var in itineraries.CreateInput
	if r.FromTemplate != nil {
		dep, err := parseDate(r.FromTemplate.DepartureDate)
		if err != nil {
			return itineraries.CreateInput{}, err
		}
		in.FromTemplate = &itineraries.CreateFromTemplateInput{
			TemplateID:    domain.TemplateID(r.FromTemplate.TemplateID),
			DepartureDate: dep,
			Travelers:     travelerInputs(r.FromTemplate.Travelers),
			AssignedTo:    userIDPtr(r.FromTemplate.AssignedTo),
		}
	}
	if r.FromEditedTemplate != nil {
		dep, err := parseDate(r.FromEditedTemplate.DepartureDate)
		if err != nil {
			return itineraries.CreateInput{}, err
		}
		in.FromEditedTemplate = &itineraries.CreateFromEditedTemplateInput{
			TemplateID:    domain.TemplateID(r.FromEditedTemplate.TemplateID),
			DepartureDate: dep,
			DayOverrides:  daySpecs(r.FromEditedTemplate.DayOverrides),
			Travelers:     travelerInputs(r.FromEditedTemplate.Travelers),
			AssignedTo:    userIDPtr(r.FromEditedTemplate.AssignedTo),
		}
	}
	if r.Custom != nil {
		dep, err := parseDate(r.Custom.DepartureDate)
		if err != nil {
			return itineraries.CreateInput{}, err
		}
		in.Custom = &itineraries.CreateCustomInput{
			DepartureDate: dep,
			DurationDays:  r.Custom.DurationDays,
			Days:          daySpecs(r.Custom.Days),
			Inclusions:    r.Custom.Inclusions,
			Exclusions:    r.Custom.Exclusions,
			Travelers:     travelerInputs(r.Custom.Travelers),
			AssignedTo:    userIDPtr(r.Custom.AssignedTo),
		}
	}
	return in, nil
}

func (h *itinerariesHandlers) list(w http.ResponseWriter, r *http.Request) {
	its, err := h.svc.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]itineraryDTO, 0, len(its))
	for _, it := range its {
		out = append(out, toItineraryDTO(it))
	}
	writeJSON(w, http.StatusOK, map[string]any{"itineraries": out})
}

func (h *itinerariesHandlers) get(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Get(r.Context(), domain.ItineraryID(chi.URLParam(r, "itineraryId")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItineraryDTO(it))
}

func (h *itinerariesHandlers) duplicate(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity", nil)
		return
	}
	var req duplicateItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}
	dep, err := parseDate(req.DepartureDate)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	it, err := h.svc.Duplicate(r.Context(), caller.ID, domain.ItineraryID(chi.URLParam(r, "itineraryId")), dep)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItineraryDTO(it))
}

func (h *itinerariesHandlers) patch(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity", nil)
		return
	}
	var req patchItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	in := itineraries.UpdateItineraryInput{
		CanEditAfterCompletion: req.CanEditAfterCompletion,
		DurationDays:           req.DurationDays,
		IsDeleted:              req.IsDeleted,
	}
	if req.Status != nil {
		s := domain.ItineraryStatus(*req.Status)
		in.Status = &s
	}
	if req.AssignedTo.IsSpecified() {
		if req.AssignedTo.IsNull() {
			in.AssignedTo = itineraries.Null[domain.UserID]()
		} else {
			v, _ := req.AssignedTo.Get()
			in.AssignedTo = itineraries.Some(domain.UserID(v))
		}
	}

	it, err := h.svc.Update(r.Context(), caller.ID, caller.Privileged, domain.ItineraryID(chi.URLParam(r, "itineraryId")), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItineraryDTO(it))
}

func (h *itinerariesHandlers) editability(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity", nil)
		return
	}
	editable, err := h.svc.IsEditable(r.Context(), domain.ItineraryID(chi.URLParam(r, "itineraryId")), caller.Privileged)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, editabilityResponse{Editable: editable})
}
