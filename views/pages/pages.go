package pages

import (
	"context"

	"github.com/a-h/templ"

	"datewheel/views/components"
	"datewheel/views/models"
)

func body(parts ...templ.Component) templ.Component {
	return components.Build(func(ctx context.Context, h *components.Writer) {
		for _, p := range parts {
			h.Render(ctx, p)
		}
	})
}

func heading(title, subtitle string) templ.Component {
	return components.Build(func(ctx context.Context, h *components.Writer) {
		h.Raw(`<header class="page-head"><h1>`, components.Escape(title), `</h1>`)
		if subtitle != "" {
			h.Raw(`<p>`, components.Escape(subtitle), `</p>`)
		}
		h.Raw(`</header>`)
	})
}

// VenuesPage manages districts and venues
func VenuesPage(page models.PageView, groups []models.DistrictGroupView, districts []string, categories []models.CategoryOption) templ.Component {
	return components.Layout(page, body(
		heading("Venues", "Places grouped by district"),
		components.DistrictForm(),
		components.VenueForm(districts, categories),
		components.VenueGroups(groups),
	))
}

// MemoriesPage is the memory log
func MemoriesPage(page models.PageView, form models.MemoryFormView, memories []models.MemoryView) templ.Component {
	return components.Layout(page, body(
		heading("Memories", "Places we have been"),
		components.MemoryForm(form),
		components.MemoryList(memories),
	))
}
