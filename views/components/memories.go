package components

import (
	"context"

	"github.com/a-h/templ"

	"datewheel/views/models"
)

// MemoryForm creates a memory with an optional photo
func MemoryForm(form models.MemoryFormView) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		if len(form.Venues) == 0 {
			h.Raw(`<p class="empty">Add a venue before logging a memory.</p>`)
			return
		}
		h.Raw(`<form method="post" action="/memories" enctype="multipart/form-data" class="card form-stack">`)
		h.Raw(`<h2>New memory</h2><select name="venueId" required>`)
		for _, v := range form.Venues {
			h.Rawf(`<option value="%s">`, Escape(v.ID))
			h.Text(v.Label)
			h.Raw(`</option>`)
		}
		h.Raw(`</select>`)
		h.Rawf(`<input type="date" name="date" value="%s" required>`, Escape(form.DefaultDate))
		h.Raw(`<textarea name="note" rows="3" placeholder="How was it? Markdown works."></textarea>`)
		h.Raw(`<input type="file" name="photo" accept="image/*">`)
		h.Raw(`<button type="submit">Save memory</button></form>`)
	})
}

// MemoryList shows memories newest first
func MemoryList(memories []models.MemoryView) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		if len(memories) == 0 {
			h.Raw(`<p class="empty">No memories yet.</p>`)
			return
		}
		h.Raw(`<ul class="memories">`)
		for _, m := range memories {
			h.Render(ctx, MemoryCard(m))
		}
		h.Raw(`</ul>`)
	})
}

// MemoryCard renders one memory. NoteHTML is goldmark output with raw HTML disabled.
func MemoryCard(m models.MemoryView) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		h.Rawf(`<li class="card memory" id="memory-%s">`, Escape(m.ID))
		if m.Image != "" {
			h.Rawf(`<img src="%s" alt="" loading="lazy">`, Escape(m.Image))
		}
		h.Raw(`<header><strong>`)
		h.Text(m.VenueName)
		h.Raw(`</strong> <time>`)
		h.Text(m.Date)
		h.Raw(`</time></header>`)
		if m.NoteHTML != "" {
			h.Raw(`<div class="note">`)
			h.Render(ctx, templ.Raw(m.NoteHTML))
			h.Raw(`</div>`)
		}
		h.Render(ctx, PostButton("/memories/"+pathEscape(m.ID)+"/delete", "Delete", "link danger"))
		h.Raw(`</li>`)
	})
}
