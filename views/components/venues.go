package components

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"datewheel/views/models"
)

// DistrictForm adds a district
func DistrictForm() templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		h.Raw(`<form method="post" action="/districts" class="card form-row">`)
		h.Raw(`<input type="text" name="name" placeholder="New district" required maxlength="60">`)
		h.Raw(`<button type="submit">Add district</button></form>`)
	})
}

// VenueForm adds a venue to one of the known districts
func VenueForm(districts []string, categories []models.CategoryOption) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		h.Raw(`<form method="post" action="/venues" class="card form-stack">`)
		h.Raw(`<h2>New venue</h2>`)
		h.Raw(`<input type="text" name="name" placeholder="Name" required maxlength="120">`)
		h.Raw(`<select name="district" required>`)
		for _, d := range districts {
			h.Rawf(`<option value="%s">`, Escape(d))
			h.Text(d)
			h.Raw(`</option>`)
		}
		h.Raw(`</select><select name="category" required>`)
		for _, c := range categories {
			h.Rawf(`<option value="%s">`, Escape(c.Value))
			h.Text(c.Label)
			h.Raw(`</option>`)
		}
		h.Raw(`</select>`)
		h.Raw(`<input type="text" name="tags" placeholder="Tags, comma separated">`)
		h.Raw(`<button type="submit">Add venue</button></form>`)
	})
}

// VenueGroups lists venues under collapsible district headings
func VenueGroups(groups []models.DistrictGroupView) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		if len(groups) == 0 {
			h.Raw(`<p class="empty">No districts yet.</p>`)
			return
		}
		for _, g := range groups {
			h.Raw(`<details class="card group" open><summary>`)
			h.Text(g.Name)
			h.Rawf(` <span class="count">%s</span>`, strconv.Itoa(len(g.Venues)))
			h.Raw(`</summary>`)
			if g.Deletable {
				h.Render(ctx, PostButton("/districts/"+pathEscape(g.Name)+"/delete", "Delete district", "link danger"))
			}
			h.Raw(`<ul class="venues">`)
			for _, v := range g.Venues {
				h.Render(ctx, VenueItem(v))
			}
			h.Raw(`</ul></details>`)
		}
	})
}

// VenueItem is one row of a district group
func VenueItem(v models.VenueView) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		h.Raw(`<li class="venue"><div><strong>`)
		h.Text(v.Name)
		h.Raw(`</strong> <span class="badge">`)
		h.Text(v.CategoryLabel)
		h.Raw(`</span>`)
		for _, t := range v.Tags {
			h.Raw(` <span class="tag">`)
			h.Text(t)
			h.Raw(`</span>`)
		}
		h.Raw(`</div>`)
		h.Render(ctx, PostButton("/venues/"+pathEscape(v.ID)+"/delete", "Delete", "link danger"))
		h.Raw(`</li>`)
	})
}
