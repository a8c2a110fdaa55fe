package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/meridian-travel/itinerary-api/internal/app/combinations"
	"github.com/meridian-travel/itinerary-api/internal/app/itineraries"
)

type errorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	var er errorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := chimiddleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestID = nullable.NewNullableWithValue(rid)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeAppError maps app-layer errors to HTTP responses. Anything the app
// layer did not classify is a 500 with no internals leaked.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *combinations.Error
	if errors.As(err, &ce) {
		writeError(w, r, ce.Status, ce.Code, ce.Message, ce.Details)
		return
	}
	var ie *itineraries.Error
	if errors.As(err, &ie) {
		writeError(w, r, ie.Status, ie.Code, ie.Message, ie.Details)
		return
	}
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
