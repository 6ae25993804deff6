package components

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"datewheel/views/models"
)

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// Wheel draws the SVG wheel. While a spin is in flight the data attributes
// drive the rotation animation in app.js.
func Wheel(w models.WheelView) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		if len(w.Segments) == 0 {
			h.Raw(`<div class="wheel-empty">Nothing to spin.</div>`)
			return
		}
		rotation := w.To
		if w.Spinning {
			rotation = w.From
		}
		h.Raw(`<div class="wheel-wrap"><div class="pointer"></div>`)
		h.Rawf(`<svg class="wheel" viewBox="0 0 %s %s" data-from="%s" data-to="%s" data-duration="%d" data-remaining="%d" data-easing="%s" data-spinning="%t" style="transform: rotate(%sdeg)">`,
			num(w.Size), num(w.Size), num(w.From), num(w.To), w.DurationMS, w.RemainingMS, Escape(w.Easing), w.Spinning, num(rotation))
		for _, s := range w.Segments {
			h.Rawf(`<path d="%s" fill="%s"></path>`, Escape(s.Path), Escape(s.Color))
			h.Rawf(`<text x="%s" y="%s" transform="rotate(%s %s %s)" text-anchor="middle" dominant-baseline="middle">`,
				num(s.X), num(s.Y), num(s.Rotate), num(s.X), num(s.Y))
			h.Text(s.Label)
			h.Raw(`</text>`)
		}
		h.Raw(`</svg></div>`)
	})
}
