package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memcombinationrepo "github.com/meridian-travel/itinerary-api/internal/adapters/memory/combinationrepo"
	memdestinationcatalog "github.com/meridian-travel/itinerary-api/internal/adapters/memory/destinationcatalog"
	memitineraryrepo "github.com/meridian-travel/itinerary-api/internal/adapters/memory/itineraryrepo"
	memtemplatecatalog "github.com/meridian-travel/itinerary-api/internal/adapters/memory/templatecatalog"
	"github.com/meridian-travel/itinerary-api/internal/app/combinations"
	"github.com/meridian-travel/itinerary-api/internal/app/itineraries"
	"github.com/meridian-travel/itinerary-api/internal/domain"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/templatecatalog"
)

const (
	testCallerHeader     = "X-Caller-Id"
	testPrivilegedHeader = "X-Caller-Privileged"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestRouter(t *testing.T) (http.Handler, *memtemplatecatalog.Catalog) {
	t.Helper()

	clk := fixedClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	entries := memcombinationrepo.NewRepo()
	dests := memdestinationcatalog.NewCatalog()
	itins := memitineraryrepo.NewRepo()
	templates := memtemplatecatalog.NewCatalog()

	combosSvc := combinations.NewService(entries, dests, clk)
	itinsSvc := itineraries.NewService(itins, templates, combosSvc, clk)

	h := NewRouter(RouterConfig{
		Combinations:     combosSvc,
		Itineraries:      itinsSvc,
		CORSOrigins:      []string{"http://localhost:5173"},
		CallerHeader:     testCallerHeader,
		PrivilegedHeader: testPrivilegedHeader,
	})
	return h, templates
}

func doJSON(t *testing.T, h http.Handler, method, path, caller string, privileged bool, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set(testCallerHeader, caller)
	}
	if privileged {
		req.Header.Set(testPrivilegedHeader, "true")
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seedTemplate(t *testing.T, templates *memtemplatecatalog.Catalog) {
	t.Helper()
	templates.Seed(templatecatalog.Template{
		ID:           "tpl-1",
		Name:         "Short Break",
		DurationDays: 2,
		Days: []templatecatalog.TemplateDay{
			{DayNumber: 1, DestinationIDs: []domain.DestinationID{"ams"}, Description: "Arrival", Activities: "Walk"},
			{DayNumber: 2, DestinationIDs: []domain.DestinationID{"ams"}, Description: "Departure", Activities: "Museum"},
		},
	})
}

func TestHealthzIsUnauthenticated(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", "", false, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMissingCallerIs401(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodGet, "/itineraries", "", false, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var er errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	assert.Equal(t, "UNAUTHORIZED", er.Error.Code)
}

func TestCombinationEntryRoundTrip(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/combination-entries", "editor-1", false, upsertCombinationEntryRequest{
		DestinationIDs: []string{"paris", "lyon"},
		Description:    "TGV south",
		Activities:     "old town",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Lookup is symmetric in the two ids.
	rec = doJSON(t, h, http.MethodGet, "/combinations/lookup?destinationId=lyon&destinationId=paris", "agent-1", false, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var lr lookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lr))
	require.True(t, lr.Found)
	assert.Equal(t, "TGV south", lr.Entry.Description)
	assert.Equal(t, "editor-1", lr.Entry.LastEditedBy)

	// A miss is a 200 with found=false, not a 404.
	rec = doJSON(t, h, http.MethodGet, "/combinations/lookup?destinationId=nowhere", "agent-1", false, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lr))
	assert.False(t, lr.Found)
	assert.Nil(t, lr.Entry)

	// Duplicate create conflicts.
	rec = doJSON(t, h, http.MethodPost, "/combination-entries", "editor-2", false, upsertCombinationEntryRequest{
		DestinationIDs: []string{"lyon", "paris"},
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	var er errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	assert.Equal(t, "COMBINATION_EXISTS", er.Error.Code)

	// Delete then 404 on addressed get.
	rec = doJSON(t, h, http.MethodDelete, "/combination-entries/entry?destinationId=paris&destinationId=lyon", "editor-1", false, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/combination-entries/entry?destinationId=paris&destinationId=lyon", "editor-1", false, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuggestionsRequireThreeDistinct(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodGet, "/combinations/suggestions?destinationId=a&destinationId=b", "agent-1", false, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestItineraryLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	h, templates := newTestRouter(t)
	seedTemplate(t, templates)

	rec := doJSON(t, h, http.MethodPost, "/itineraries", "agent-1", false, createItineraryRequest{
		FromTemplate: &fromTemplateRequest{
			TemplateID:    "tpl-1",
			DepartureDate: "2026-06-01",
			Travelers:     []travelerInputDTO{{Name: "Ada Lovelace"}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created itineraryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "FROM_TEMPLATE", created.Strategy)
	assert.Equal(t, "DRAFT", created.Status)
	assert.Equal(t, "2026-06-01", created.DepartureDate)
	assert.Equal(t, "2026-06-02", created.ReturnDate)
	assert.Len(t, created.UniqueCode, domain.CodeLength)
	require.Len(t, created.Days, 2)
	assert.False(t, created.Days[0].Description.IsCustom)

	// Patch: legal status transition.
	status := "SENT"
	rec = doJSON(t, h, http.MethodPatch, "/itineraries/"+created.ID, "agent-1", false, patchItineraryRequest{Status: &status})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Patch: illegal transition is a conflict.
	bad := "COMPLETED"
	rec = doJSON(t, h, http.MethodPatch, "/itineraries/"+created.ID, "agent-1", false, patchItineraryRequest{Status: &bad})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Duplicate onto a new date.
	rec = doJSON(t, h, http.MethodPost, "/itineraries/"+created.ID+"/duplicate", "agent-2", false, duplicateItineraryRequest{DepartureDate: "2026-09-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var dup itineraryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dup))
	assert.NotEqual(t, created.UniqueCode, dup.UniqueCode)
	assert.Equal(t, "DRAFT", dup.Status)
	assert.Equal(t, "2026-09-01", dup.DepartureDate)
	require.Len(t, dup.Travelers, 1)
	assert.Equal(t, "Traveler 1", dup.Travelers[0].Name)

	// Editability probe.
	rec = doJSON(t, h, http.MethodGet, "/itineraries/"+created.ID+"/editability", "agent-1", false, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ed editabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ed))
	assert.True(t, ed.Editable)

	// List excludes nothing yet and contains both.
	rec = doJSON(t, h, http.MethodGet, "/itineraries", "agent-1", false, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Itineraries []itineraryDTO `json:"itineraries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Itineraries, 2)
}

func TestPatchEditLockRespectsPrivilegeHeader(t *testing.T) {
	t.Parallel()

	h, templates := newTestRouter(t)
	seedTemplate(t, templates)

	// Departure long past: the edit window has closed by the fixed clock.
	rec := doJSON(t, h, http.MethodPost, "/itineraries", "agent-1", false, createItineraryRequest{
		FromTemplate: &fromTemplateRequest{
			TemplateID:    "tpl-1",
			DepartureDate: "2026-01-01",
			Travelers:     []travelerInputDTO{{Name: "Ada"}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created itineraryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	status := "SENT"
	rec = doJSON(t, h, http.MethodPatch, "/itineraries/"+created.ID, "agent-1", false, patchItineraryRequest{Status: &status})
	require.Equal(t, http.StatusForbidden, rec.Code)
	var er errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	assert.Equal(t, "EDIT_LOCKED", er.Error.Code)

	rec = doJSON(t, h, http.MethodPatch, "/itineraries/"+created.ID, "boss-1", true, patchItineraryRequest{Status: &status})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestPatchAssignedToTriState(t *testing.T) {
	t.Parallel()

	h, templates := newTestRouter(t)
	seedTemplate(t, templates)

	rec := doJSON(t, h, http.MethodPost, "/itineraries", "agent-1", false, createItineraryRequest{
		FromTemplate: &fromTemplateRequest{
			TemplateID:    "tpl-1",
			DepartureDate: "2026-06-01",
			Travelers:     []travelerInputDTO{{Name: "Ada"}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created itineraryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Set the assignment with a raw JSON body, then clear it with null, then
	// verify omission leaves it untouched.
	patch := func(body string) itineraryDTO {
		req := httptest.NewRequest(http.MethodPatch, "/itineraries/"+created.ID, bytes.NewBufferString(body))
		req.Header.Set(testCallerHeader, "agent-1")
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var dto itineraryDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		return dto
	}

	got := patch(`{"assignedTo":"agent-9"}`)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, "agent-9", *got.AssignedTo)

	got = patch(`{"isDeleted":false}`)
	require.NotNil(t, got.AssignedTo, "omitted assignedTo must not clear the assignment")

	got = patch(`{"assignedTo":null}`)
	assert.Nil(t, got.AssignedTo)
}

func TestCreateRejectsUnknownTemplateAndBadDates(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/itineraries", "agent-1", false, createItineraryRequest{
		FromTemplate: &fromTemplateRequest{
			TemplateID:    "missing",
			DepartureDate: "2026-06-01",
			Travelers:     []travelerInputDTO{{Name: "Ada"}},
		},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/itineraries", "agent-1", false, createItineraryRequest{
		FromTemplate: &fromTemplateRequest{
			TemplateID:    "tpl-1",
			DepartureDate: "June 1st",
			Travelers:     []travelerInputDTO{{Name: "Ada"}},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
