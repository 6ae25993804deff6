package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"datewheel/internal/catalog"
	"datewheel/internal/store"
	"datewheel/views/pages"
)

// --- Web UI Handlers ---

// Home handles GET /, the wheel is the default tab
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/wheel", http.StatusFound)
}

// VenuesPage handles GET /venues
func (h *Handler) VenuesPage(w http.ResponseWriter, r *http.Request) {
	page := h.page(r, "Venues", "venues")
	pages.VenuesPage(page, groupsToViews(h.store.Grouped()), h.store.Districts(), categoryOptions()).Render(r.Context(), w)
}

// SubmitVenue handles POST /venues
func (h *Handler) SubmitVenue(w http.ResponseWriter, r *http.Request) {
	input := VenueInput{
		Name:     r.FormValue("name"),
		District: r.FormValue("district"),
		Category: r.FormValue("category"),
		Tags:     splitTags(r.FormValue("tags")),
	}
	if err := h.inputs.Check(&input); err != nil {
		redirect(w, r, "/venues", err.Error())
		return
	}
	if _, res := h.store.AddVenue(r.Context(), input.venue()); !res.OK() {
		redirect(w, r, "/venues", failureMessage(res))
		return
	}
	redirect(w, r, "/venues", "")
}

// SubmitDeleteVenue handles POST /venues/{id}/delete
func (h *Handler) SubmitDeleteVenue(w http.ResponseWriter, r *http.Request) {
	if res := h.store.RemoveVenue(r.Context(), r.PathValue("id")); !res.OK() {
		redirect(w, r, "/venues", failureMessage(res))
		return
	}
	redirect(w, r, "/venues", "")
}

// SubmitDistrict handles POST /districts
func (h *Handler) SubmitDistrict(w http.ResponseWriter, r *http.Request) {
	input := DistrictInput{Name: r.FormValue("name")}
	if err := h.inputs.Check(&input); err != nil {
		redirect(w, r, "/venues", err.Error())
		return
	}
	if res := h.store.AddDistrict(r.Context(), input.Name); !res.OK() {
		redirect(w, r, "/venues", failureMessage(res))
		return
	}
	redirect(w, r, "/venues", "")
}

// SubmitDeleteDistrict handles POST /districts/{name}/delete
func (h *Handler) SubmitDeleteDistrict(w http.ResponseWriter, r *http.Request) {
	if res := h.store.RemoveDistrict(r.Context(), r.PathValue("name")); !res.OK() {
		redirect(w, r, "/venues", failureMessage(res))
		return
	}
	redirect(w, r, "/venues", "")
}

// MemoriesPage handles GET /memories
func (h *Handler) MemoriesPage(w http.ResponseWriter, r *http.Request) {
	page := h.page(r, "Memories", "memories")
	pages.MemoriesPage(page, h.memoryForm(), h.memoriesToViews(h.store.MemoriesByDate())).Render(r.Context(), w)
}

// SubmitMemory handles POST /memories, a multipart form with an optional photo
func (h *Handler) SubmitMemory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		redirect(w, r, "/memories", "photo is too large")
		return
	}

	input := MemoryInput{
		VenueID: r.FormValue("venueId"),
		Date:    r.FormValue("date"),
		Note:    r.FormValue("note"),
	}
	if err := h.inputs.Check(&input); err != nil {
		redirect(w, r, "/memories", err.Error())
		return
	}
	venue, ok := h.store.Venue(input.VenueID)
	if !ok {
		redirect(w, r, "/memories", "venue not found")
		return
	}

	photo, err := h.readPhoto(r)
	if err != nil {
		redirect(w, r, "/memories", err.Error())
		return
	}

	_, res := h.store.AddMemoryWithPhoto(r.Context(), catalog.Memory{
		VenueID:   venue.ID,
		VenueName: venue.Name,
		Date:      input.Date,
		Note:      input.Note,
	}, photo)
	if !res.OK() {
		redirect(w, r, "/memories", failureMessage(res))
		return
	}
	redirect(w, r, "/memories", "")
}

var errPhotoTooLarge = errors.New("photo is too large")

// readPhoto returns the uploaded photo, or nil when none was attached
func (h *Handler) readPhoto(r *http.Request) (*store.Photo, error) {
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxPhotoBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxPhotoBytes {
		return nil, errPhotoTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.New("photo must be an image")
	}
	return &store.Photo{ContentType: contentType, Data: data}, nil
}

// SubmitDeleteMemory handles POST /memories/{id}/delete
func (h *Handler) SubmitDeleteMemory(w http.ResponseWriter, r *http.Request) {
	if res := h.store.RemoveMemory(r.Context(), r.PathValue("id")); !res.OK() {
		redirect(w, r, "/memories", failureMessage(res))
		return
	}
	redirect(w, r, "/memories", "")
}

// failureMessage is the flash shown after a reverted write
func failureMessage(res store.Result) string {
	if resultStatus(res.Err) == http.StatusServiceUnavailable {
		return "Could not save, change undone"
	}
	return res.Err.Error()
}
