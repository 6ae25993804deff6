package web

import (
	"bytes"
	"encoding/json"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"datewheel/internal/flow"
	"datewheel/internal/metrics"
	"datewheel/internal/store"
)

// SessionCookie holds the wheel flow session id
const SessionCookie = "wheel_session"

type Handler struct {
	store         *store.Store
	sessions      *flow.Sessions
	log           *slog.Logger
	md            goldmark.Markdown
	inputs        *inputValidator
	metrics       *metrics.Metrics
	maxPhotoBytes int64
	now           func() time.Time
}

type Option func(*Handler)

// WithMaxPhotoBytes caps the size of uploaded memory photos
func WithMaxPhotoBytes(n int64) Option {
	return func(h *Handler) { h.maxPhotoBytes = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

func NewHandler(st *store.Store, sessions *flow.Sessions, log *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		store:         st,
		sessions:      sessions,
		log:           log,
		md:            goldmark.New(goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps())),
		inputs:        newInputValidator(),
		maxPhotoBytes: 5 << 20,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds every web and API route to mux
func (h *Handler) Register(mux *http.ServeMux) {
	// REST API endpoints
	mux.HandleFunc("GET /api/venues", h.ListVenues)
	mux.HandleFunc("POST /api/venues", h.CreateVenue)
	mux.HandleFunc("DELETE /api/venues/{id}", h.DeleteVenue)
	mux.HandleFunc("GET /api/districts", h.ListDistricts)
	mux.HandleFunc("POST /api/districts", h.CreateDistrict)
	mux.HandleFunc("DELETE /api/districts/{name}", h.DeleteDistrict)
	mux.HandleFunc("GET /api/memories", h.ListMemories)
	mux.HandleFunc("POST /api/memories", h.CreateMemory)
	mux.HandleFunc("DELETE /api/memories/{id}", h.DeleteMemory)
	mux.HandleFunc("POST /api/spin", h.Spin)

	// Web UI
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /venues", h.VenuesPage)
	mux.HandleFunc("POST /venues", h.SubmitVenue)
	mux.HandleFunc("POST /venues/{id}/delete", h.SubmitDeleteVenue)
	mux.HandleFunc("POST /districts", h.SubmitDistrict)
	mux.HandleFunc("POST /districts/{name}/delete", h.SubmitDeleteDistrict)
	mux.HandleFunc("GET /memories", h.MemoriesPage)
	mux.HandleFunc("POST /memories", h.SubmitMemory)
	mux.HandleFunc("POST /memories/{id}/delete", h.SubmitDeleteMemory)

	// Wheel flow
	mux.HandleFunc("GET /wheel", h.WheelPage)
	mux.HandleFunc("POST /wheel/mode", h.WheelMode)
	mux.HandleFunc("POST /wheel/districts", h.WheelToggleDistrict)
	mux.HandleFunc("POST /wheel/continue", h.WheelContinue)
	mux.HandleFunc("POST /wheel/exclude", h.WheelToggleExclude)
	mux.HandleFunc("POST /wheel/custom", h.WheelAddCustom)
	mux.HandleFunc("POST /wheel/prepare", h.WheelPrepare)
	mux.HandleFunc("POST /wheel/spin", h.WheelSpin)
	mux.HandleFunc("POST /wheel/settle", h.WheelSettle)
	mux.HandleFunc("POST /wheel/reroll", h.WheelReroll)
	mux.HandleFunc("POST /wheel/accept", h.WheelAccept)
	mux.HandleFunc("POST /wheel/back", h.WheelBack)
}

// --- Helper methods ---

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RenderMarkdown converts a memory note to HTML
func (h *Handler) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(content), &buf); err != nil {
		return "<p>" + html.EscapeString(content) + "</p>"
	}
	return buf.String()
}
