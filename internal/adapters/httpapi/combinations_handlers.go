package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/meridian-travel/itinerary-api/internal/app/combinations"
)

// combinationsHandlers exposes the content-management CRUD plus the two
// read paths the assembly flow uses (lookup and suggestions).
type combinationsHandlers struct {
	svc *combinations.Service
}

// queryDestinationIDs reads the repeatable destinationId query parameter.
func queryDestinationIDs(r *http.Request) []string {
	return r.URL.Query()["destinationId"]
}

func (h *combinationsHandlers) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]combinationEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toCombinationEntryDTO(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

func (h *combinationsHandlers) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity", nil)
		return
	}
	var req upsertCombinationEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}
	e, err := h.svc.Create(r.Context(), caller.ID, combinations.UpsertEntryInput{
		DestinationIDs: destinationIDs(req.DestinationIDs),
		Description:    req.Description,
		Activities:     req.Activities,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCombinationEntryDTO(e))
}

func (h *combinationsHandlers) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), destinationIDs(queryDestinationIDs(r)))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCombinationEntryDTO(e))
}

func (h *combinationsHandlers) update(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity", nil)
		return
	}
	var req upsertCombinationEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}
	e, err := h.svc.Update(r.Context(), caller.ID, combinations.UpsertEntryInput{
		DestinationIDs: destinationIDs(req.DestinationIDs),
		Description:    req.Description,
		Activities:     req.Activities,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCombinationEntryDTO(e))
}

func (h *combinationsHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), destinationIDs(queryDestinationIDs(r))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *combinationsHandlers) lookup(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Lookup(r.Context(), destinationIDs(queryDestinationIDs(r)))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	resp := lookupResponse{Found: res.Found}
	if res.Found {
		dto := toCombinationEntryDTO(res.Entry)
		resp.Entry = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *combinationsHandlers) suggestions(w http.ResponseWriter, r *http.Request) {
	sugs, err := h.svc.SuggestionsForMultiple(r.Context(), destinationIDs(queryDestinationIDs(r)))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]suggestionDTO, 0, len(sugs))
	for _, s := range sugs {
		out = append(out, suggestionDTO{
			DestinationIDs: []string{string(s.Key.Low), string(s.Key.High)},
			Label:          s.Label,
			Description:    s.Entry.Description,
			Activities:     s.Entry.Activities,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}
