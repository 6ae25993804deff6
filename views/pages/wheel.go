package pages

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"datewheel/views/components"
	"datewheel/views/models"
)

// WheelPage renders the current step of the wheel flow
func WheelPage(page models.PageView, flow models.FlowView) templ.Component {
	var current templ.Component
	switch flow.Step {
	case "district":
		current = districtStep(flow)
	case "checklist":
		current = checklistStep(flow)
	case "spin":
		current = spinStep(flow)
	case "result":
		current = resultStep(flow)
	default:
		current = modeStep(flow)
	}
	return components.Layout(page, body(flowError(flow.Error), current))
}

var esc = components.Escape

func flowError(msg string) templ.Component {
	return components.Build(func(ctx context.Context, w *components.Writer) {
		if msg != "" {
			w.Raw(`<div class="flash error" role="alert">`, esc(msg), `</div>`)
		}
	})
}

func backButton() templ.Component {
	return components.PostButton("/wheel/back", "← Back", "link back")
}

func modeStep(flow models.FlowView) templ.Component {
	return components.Build(func(ctx context.Context, w *components.Writer) {
		w.Render(ctx, heading("What are we in the mood for?", "Pick a category"))
		w.Raw(`<div class="choices">`)
		for _, c := range flow.Categories {
			w.Raw(`<form method="post" action="/wheel/mode">`,
				`<input type="hidden" name="category" value="`, esc(c.Value), `">`,
				`<button type="submit" class="choice">`, esc(c.Label), `</button></form>`)
		}
		w.Raw(`</div>`)
	})
}

func districtStep(flow models.FlowView) templ.Component {
	return components.Build(func(ctx context.Context, w *components.Writer) {
		w.Render(ctx, backButton())
		w.Render(ctx, heading("Where?", flow.CategoryLabel+": pick one or more districts"))
		w.Raw(`<div class="choices grid">`)
		for _, d := range flow.Districts {
			class := "choice"
			if d.Selected {
				class += " selected"
			}
			w.Raw(`<form method="post" action="/wheel/districts">`,
				`<input type="hidden" name="district" value="`, esc(d.Name), `">`,
				`<button type="submit" class="`, class, `">`, esc(d.Name),
				fmt.Sprintf(` <span class="count">%d</span>`, d.Count), `</button></form>`)
		}
		w.Raw(`</div>`)
		disabled := ""
		if !hasSelection(flow.Districts) {
			disabled = " disabled"
		}
		w.Raw(`<form method="post" action="/wheel/continue"><button type="submit" class="primary"`, disabled, `>Continue</button></form>`)
	})
}

func hasSelection(ds []models.DistrictChoice) bool {
	for _, d := range ds {
		if d.Selected {
			return true
		}
	}
	return false
}

func checklistStep(flow models.FlowView) templ.Component {
	return components.Build(func(ctx context.Context, w *components.Writer) {
		w.Render(ctx, backButton())
		w.Render(ctx, heading("Checklist", "Untick anything you don't feel like today"))
		if len(flow.Checklist) == 0 {
			w.Raw(`<p class="empty">No venues match. Add one below.</p>`)
		}
		w.Raw(`<ul class="checklist">`)
		for _, row := range flow.Checklist {
			mark, class := "☑", "check"
			if row.Excluded {
				mark, class = "☐", "check excluded"
			}
			w.Raw(`<li><form method="post" action="/wheel/exclude">`,
				`<input type="hidden" name="venueId" value="`, esc(row.Venue.ID), `">`,
				`<button type="submit" class="`, class, `">`, mark, ` `, esc(row.Venue.Name),
				` <small>`, esc(row.Venue.District), `</small></button></form></li>`)
		}
		w.Raw(`</ul>`)
		w.Raw(`<form method="post" action="/wheel/custom" class="form-row">`,
			`<input type="text" name="name" placeholder="Somewhere else" required maxlength="120">`,
			`<button type="submit">Add</button></form>`)
		disabled := ""
		if flow.Eligible < flow.MinWheelSize {
			disabled = " disabled"
		}
		w.Raw(fmt.Sprintf(`<p class="hint">%d venues on the wheel</p>`, flow.Eligible))
		w.Raw(`<form method="post" action="/wheel/prepare"><button type="submit" class="primary"`, disabled, `>To the wheel</button></form>`)
	})
}

func spinStep(flow models.FlowView) templ.Component {
	return components.Build(func(ctx context.Context, w *components.Writer) {
		if !flow.Wheel.Spinning {
			w.Render(ctx, backButton())
		}
		w.Render(ctx, heading("Spin it", ""))
		w.Render(ctx, components.Wheel(flow.Wheel))
		if flow.Wheel.Spinning {
			w.Raw(`<form method="post" action="/wheel/settle" id="settle-form">`,
				`<button type="submit" class="primary">Reveal</button></form>`)
			return
		}
		w.Raw(`<form method="post" action="/wheel/spin"><button type="submit" class="primary spin">Spin</button></form>`)
	})
}

func resultStep(flow models.FlowView) templ.Component {
	return components.Build(func(ctx context.Context, w *components.Writer) {
		w.Render(ctx, backButton())
		if flow.Winner == nil {
			return
		}
		v := flow.Winner
		w.Raw(`<section class="card result"><p class="eyebrow">Tonight it's</p><h1>`, esc(v.Name), `</h1>`,
			`<p>`, esc(v.District), ` · `, esc(v.CategoryLabel), `</p>`)
		for _, t := range v.Tags {
			w.Raw(`<span class="tag">`, esc(t), `</span> `)
		}
		w.Raw(`</section>`)
		w.Raw(`<form method="post" action="/wheel/accept"><button type="submit" class="primary">Let's go</button></form>`)
		w.Raw(`<form method="post" action="/wheel/reroll"><button type="submit">Spin again without it</button></form>`)
	})
}
