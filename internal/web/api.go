package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"datewheel/internal/catalog"
	"datewheel/internal/flow"
	"datewheel/internal/store"
)

// --- REST API Handlers ---

// ListVenues handles GET /api/venues
func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.store.Venues(), http.StatusOK)
}

// CreateVenue handles POST /api/venues
func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	var input VenueInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.inputs.Check(&input); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	venue, res := h.store.AddVenue(r.Context(), input.venue())
	if !res.OK() {
		h.resultError(w, res)
		return
	}
	h.jsonResponse(w, venue, http.StatusCreated)
}

// DeleteVenue handles DELETE /api/venues/{id}
func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	if res := h.store.RemoveVenue(r.Context(), r.PathValue("id")); !res.OK() {
		h.resultError(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDistricts handles GET /api/districts
func (h *Handler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grouped") == "true" {
		h.jsonResponse(w, h.store.Grouped(), http.StatusOK)
		return
	}
	h.jsonResponse(w, h.store.Districts(), http.StatusOK)
}

// CreateDistrict handles POST /api/districts
func (h *Handler) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var input DistrictInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.inputs.Check(&input); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if res := h.store.AddDistrict(r.Context(), input.Name); !res.OK() {
		h.resultError(w, res)
		return
	}
	h.jsonResponse(w, input, http.StatusCreated)
}

// DeleteDistrict handles DELETE /api/districts/{name}
func (h *Handler) DeleteDistrict(w http.ResponseWriter, r *http.Request) {
	if res := h.store.RemoveDistrict(r.Context(), r.PathValue("name")); !res.OK() {
		h.resultError(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMemories handles GET /api/memories, newest visit first
func (h *Handler) ListMemories(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.store.MemoriesByDate(), http.StatusOK)
}

// CreateMemory handles POST /api/memories
func (h *Handler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	var input MemoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.inputs.Check(&input); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	venue, ok := h.store.Venue(input.VenueID)
	if !ok {
		h.jsonError(w, "venue not found", http.StatusBadRequest)
		return
	}

	memory, res := h.store.AddMemory(r.Context(), catalog.Memory{
		VenueID:   venue.ID,
		VenueName: venue.Name,
		Date:      input.Date,
		Note:      input.Note,
		Image:     input.Image,
	})
	if !res.OK() {
		h.resultError(w, res)
		return
	}
	h.jsonResponse(w, memory, http.StatusCreated)
}

// DeleteMemory handles DELETE /api/memories/{id}
func (h *Handler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	if res := h.store.RemoveMemory(r.Context(), r.PathValue("id")); !res.OK() {
		h.resultError(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SpinResponse is the body returned by POST /api/spin
type SpinResponse struct {
	Winner     catalog.Venue   `json:"winner"`
	Candidates []catalog.Venue `json:"candidates"`
	Index      int             `json:"index"`
	Rotation   float64         `json:"rotation"`
}

// Spin handles POST /api/spin, a one-shot draw without the wheel flow
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	var input SpinInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.inputs.Check(&input); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	candidates := flow.Eligible(h.store.Venues(), catalog.Category(input.Category), input.Districts, input.Exclude)
	if len(candidates) < flow.MinWheelSize {
		h.jsonError(w, flow.ErrTooFewCandidates.Error(), http.StatusUnprocessableEntity)
		return
	}
	winner, plan, err := flow.Draw(candidates, nil)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.metrics.ObserveSpin()

	h.jsonResponse(w, SpinResponse{
		Winner:     winner,
		Candidates: candidates,
		Index:      plan.Index,
		Rotation:   plan.To,
	}, http.StatusOK)
}

// resultError maps a failed store mutation to a status code
func (h *Handler) resultError(w http.ResponseWriter, res store.Result) {
	h.jsonError(w, res.Err.Error(), resultStatus(res.Err))
}

func resultStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrDuplicateVenue),
		errors.Is(err, store.ErrDuplicateDistrict),
		errors.Is(err, store.ErrDuplicateMemory):
		return http.StatusConflict
	case errors.Is(err, store.ErrVenueNotFound),
		errors.Is(err, store.ErrDistrictNotFound),
		errors.Is(err, store.ErrMemoryNotFound):
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}

func (in VenueInput) venue() catalog.Venue {
	return catalog.Venue{
		Name:     in.Name,
		District: in.District,
		Category: catalog.Category(in.Category),
		Tags:     in.Tags,
		IsCustom: true,
	}
}
