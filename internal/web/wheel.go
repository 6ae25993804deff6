package web

import (
	"errors"
	"net/http"
	"net/url"

	"datewheel/internal/catalog"
	"datewheel/internal/flow"
	"datewheel/internal/wheel"
	"datewheel/views/models"
	"datewheel/views/pages"
)

const wheelSize = 300

// session returns the caller's wheel flow session, starting one if needed
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *flow.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess := h.sessions.GetOrCreate(id)
	if sess.ID() != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// WheelPage handles GET /wheel
func (h *Handler) WheelPage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	page := h.page(r, "Wheel", "wheel")

	view := h.flowView(sess)
	view.Error = r.URL.Query().Get("error")
	pages.WheelPage(page, view).Render(r.Context(), w)
}

func (h *Handler) flowView(sess *flow.Session) models.FlowView {
	category := sess.Category()
	selected := sess.SelectedDistricts()
	venues := h.store.Venues()

	view := models.FlowView{
		Step:          string(sess.Step()),
		Category:      string(category),
		CategoryLabel: category.Label(),
		Categories:    categoryOptions(),
		MinWheelSize:  flow.MinWheelSize,
		Eligible:      len(sess.Candidates()),
		Wheel:         wheelView(sess),
	}

	for _, d := range h.store.Districts() {
		choice := models.DistrictChoice{Name: d}
		for _, s := range selected {
			if s == d {
				choice.Selected = true
			}
		}
		choice.Count = len(flow.Eligible(venues, category, []string{d}, nil))
		view.Districts = append(view.Districts, choice)
	}
	for _, item := range sess.Checklist() {
		view.Checklist = append(view.Checklist, models.ChecklistRow{
			Venue:    venueToView(item.Venue),
			Excluded: item.Excluded,
		})
	}
	if v, ok := sess.Winner(); ok {
		winner := venueToView(v)
		view.Winner = &winner
	}
	return view
}

func wheelView(sess *flow.Session) models.WheelView {
	venues := sess.Wheel()
	n := len(venues)
	center := float64(wheelSize) / 2

	view := models.WheelView{
		Size:   wheelSize,
		From:   sess.Rotation(),
		To:     sess.Rotation(),
		Easing: wheel.Plan{}.CSSEasing(),
	}
	for i, v := range venues {
		x, y, rotate := wheel.LabelAnchor(i, n, center, center, center)
		view.Segments = append(view.Segments, models.SegmentView{
			Path:   wheel.SegmentPath(i, n, center, center, center),
			Color:  wheel.Color(i),
			Label:  wheel.Label(v.Name),
			X:      x,
			Y:      y,
			Rotate: rotate,
		})
	}
	if plan, ok := sess.Pending(); ok {
		view.Spinning = true
		view.From = plan.From
		view.To = plan.To
		view.DurationMS = plan.Duration.Milliseconds()
		view.RemainingMS = sess.Remaining().Milliseconds()
	}
	return view
}

// WheelMode handles POST /wheel/mode
func (h *Handler) WheelMode(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.step(w, r, sess.SelectMode(catalog.Category(r.FormValue("category"))))
}

// WheelToggleDistrict handles POST /wheel/districts
func (h *Handler) WheelToggleDistrict(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.step(w, r, sess.ToggleDistrict(r.FormValue("district")))
}

// WheelContinue handles POST /wheel/continue
func (h *Handler) WheelContinue(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.step(w, r, sess.Continue())
}

// WheelToggleExclude handles POST /wheel/exclude
func (h *Handler) WheelToggleExclude(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.step(w, r, sess.ToggleExclude(r.FormValue("venueId")))
}

// WheelAddCustom handles POST /wheel/custom
func (h *Handler) WheelAddCustom(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	_, err := sess.AddTemporary(r.FormValue("name"))
	h.step(w, r, err)
}

// WheelPrepare handles POST /wheel/prepare
func (h *Handler) WheelPrepare(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.step(w, r, sess.PrepareWheel())
}

// WheelSpin handles POST /wheel/spin
func (h *Handler) WheelSpin(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	_, err := sess.Spin()
	h.step(w, r, err)
}

// WheelSettle handles POST /wheel/settle
func (h *Handler) WheelSettle(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	_, err := sess.Settle()
	h.step(w, r, err)
}

// WheelReroll handles POST /wheel/reroll
func (h *Handler) WheelReroll(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.step(w, r, sess.Reroll())
}

// WheelAccept handles POST /wheel/accept
func (h *Handler) WheelAccept(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	winner, err := sess.Accept()
	if err != nil {
		h.step(w, r, err)
		return
	}
	h.log.Info("wheel pick accepted", "venue", winner.ID, "name", winner.Name)
	redirect(w, r, "/wheel", "Enjoy "+winner.Name+"!")
}

// WheelBack handles POST /wheel/back
func (h *Handler) WheelBack(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.step(w, r, sess.Back())
}

// step finishes a wheel action by sending the browser back to the wheel
func (h *Handler) step(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		redirect(w, r, "/wheel", "")
		return
	}
	if !errors.Is(err, flow.ErrWrongStep) {
		h.log.Debug("wheel action rejected", "path", r.URL.Path, "error", err)
	}
	http.Redirect(w, r, "/wheel?error="+url.QueryEscape(userMessage(err)), http.StatusSeeOther)
}

func userMessage(err error) string {
	for _, known := range []error{
		flow.ErrNoDistricts,
		flow.ErrTooFewCandidates,
		flow.ErrEmptyName,
		flow.ErrSpinning,
		flow.ErrNothingToPickFrom,
		wheel.ErrSpinInFlight,
		wheel.ErrStillSpinning,
		wheel.ErrNoCandidates,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
