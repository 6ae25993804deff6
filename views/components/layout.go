package components

import (
	"context"

	"github.com/a-h/templ"

	"datewheel/views/models"
)

var tabs = []struct {
	Name  string
	Href  string
	Label string
}{
	{"venues", "/venues", "Venues"},
	{"wheel", "/wheel", "Wheel"},
	{"memories", "/memories", "Memories"},
}

// Layout wraps a page body in the document shell and the tab bar
func Layout(page models.PageView, body templ.Component) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		h.Raw(`<!DOCTYPE html><html lang="tr"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw(`<title>`)
		h.Text(page.Title)
		h.Raw(` · Date Wheel</title>`)
		h.Raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.Raw(`<script src="/static/app.js" defer></script>`)
		h.Raw(`</head><body><main class="container">`)
		if page.Flash != "" {
			h.Raw(`<div class="flash" role="status">`)
			h.Text(page.Flash)
			h.Raw(`</div>`)
		}
		h.Render(ctx, body)
		h.Raw(`</main>`)
		h.Render(ctx, TabNav(page.Tab))
		if !page.RemoteEnabled {
			h.Raw(`<p class="mode-note">Offline mode: data is stored on this device only.</p>`)
		}
		h.Raw(`</body></html>`)
	})
}

// TabNav is the bottom tab bar
func TabNav(active string) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		h.Raw(`<nav class="tabs">`)
		for _, t := range tabs {
			class := "tab"
			if t.Name == active {
				class += " active"
			}
			h.Rawf(`<a class="%s" href="%s">`, class, t.Href)
			h.Text(t.Label)
			h.Raw(`</a>`)
		}
		h.Raw(`</nav>`)
	})
}
