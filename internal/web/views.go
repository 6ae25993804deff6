package web

import (
	"net/http"
	"net/url"

	"datewheel/internal/catalog"
	"datewheel/views/models"
)

// --- View model converters ---

func (h *Handler) page(r *http.Request, title, tab string) models.PageView {
	return models.PageView{
		Title:         title,
		Tab:           tab,
		Flash:         r.URL.Query().Get("flash"),
		RemoteEnabled: h.store.RemoteEnabled(),
	}
}

func venueToView(v catalog.Venue) models.VenueView {
	return models.VenueView{
		ID:            v.ID,
		Name:          v.Name,
		District:      v.District,
		Category:      string(v.Category),
		CategoryLabel: v.Category.Label(),
		Tags:          v.Tags,
		IsCustom:      v.IsCustom,
	}
}

func groupsToViews(groups []catalog.DistrictGroup) []models.DistrictGroupView {
	views := make([]models.DistrictGroupView, len(groups))
	for i, g := range groups {
		venues := make([]models.VenueView, len(g.Venues))
		for j, v := range g.Venues {
			venues[j] = venueToView(v)
		}
		views[i] = models.DistrictGroupView{
			Name:      g.Name,
			Venues:    venues,
			Deletable: len(g.Venues) == 0,
		}
	}
	return views
}

func categoryOptions() []models.CategoryOption {
	opts := make([]models.CategoryOption, len(catalog.Categories))
	for i, c := range catalog.Categories {
		opts[i] = models.CategoryOption{Value: string(c), Label: c.Label()}
	}
	return opts
}

func (h *Handler) memoriesToViews(memories []catalog.Memory) []models.MemoryView {
	views := make([]models.MemoryView, len(memories))
	for i, m := range memories {
		views[i] = models.MemoryView{
			ID:        m.ID,
			VenueName: m.VenueName,
			Date:      m.Date,
			Image:     m.Image,
		}
		if m.Note != "" {
			views[i].NoteHTML = h.RenderMarkdown(m.Note)
		}
	}
	return views
}

func (h *Handler) memoryForm() models.MemoryFormView {
	venues := h.store.Venues()
	opts := make([]models.VenueOption, len(venues))
	for i, v := range venues {
		opts[i] = models.VenueOption{ID: v.ID, Label: v.Name + " (" + v.District + ")"}
	}
	return models.MemoryFormView{
		Venues:      opts,
		DefaultDate: h.now().Format(catalog.DateLayout),
	}
}

// redirect sends the browser back to target after a form post, carrying an
// optional one-line message
func redirect(w http.ResponseWriter, r *http.Request, target, flash string) {
	if flash != "" {
		target += "?flash=" + url.QueryEscape(flash)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
