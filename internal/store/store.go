package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"datewheel/internal/catalog"
	"datewheel/internal/metrics"
)

var (
	ErrDuplicateVenue    = errors.New("venue id already exists")
	ErrDuplicateDistrict = errors.New("district already exists")
	ErrDuplicateMemory   = errors.New("memory id already exists")
	ErrVenueNotFound     = errors.New("venue not found")
	ErrDistrictNotFound  = errors.New("district not found")
	ErrMemoryNotFound    = errors.New("memory not found")
)

// Persister is what the store needs from the persistence layer.
// Every write receives the change plus the full collection after it.
type Persister interface {
	SaveVenue(ctx context.Context, v catalog.Venue, all []catalog.Venue) error
	DeleteVenue(ctx context.Context, id string, all []catalog.Venue) error
	SaveDistrict(ctx context.Context, name string, sortOrder int, all []string) error
	DeleteDistrict(ctx context.Context, name string, all []string) error
	SaveMemory(ctx context.Context, m catalog.Memory, all []catalog.Memory) error
	DeleteMemory(ctx context.Context, id string, all []catalog.Memory) error
	UploadPhoto(ctx context.Context, memoryID, contentType string, data []byte) (string, error)
	RemoteEnabled() bool
	PhotosEnabled() bool
}

// Result is the outcome of one mutation. A failed Result means the
// collection was left exactly as it was before the call.
type Result struct {
	Op  string
	Err error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Photo is an image attached to a new memory
type Photo struct {
	ContentType string
	Data        []byte
}

// Store owns the in-memory collections. Writes are applied optimistically
// and reverted when persistence fails. Reads never wait on the network.
type Store struct {
	// writeMu serializes mutations so a revert always restores the state
	// the failed call started from
	writeMu sync.Mutex

	mu        sync.RWMutex
	venues    []catalog.Venue
	districts []string
	memories  []catalog.Memory

	p       Persister
	ids     *catalog.IDGen
	now     func() time.Time
	timeout time.Duration
	log     *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Store)

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock replaces time.Now for id generation and default dates
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTimeout bounds each persistence call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// New creates a store holding snap, persisting through p
func New(p Persister, snap catalog.Snapshot, opts ...Option) *Store {
	s := &Store{
		venues:    slices.Clone(snap.Venues),
		districts: slices.Clone(snap.Districts),
		memories:  slices.Clone(snap.Memories),
		p:         p,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = catalog.NewIDGen(s.now)
	if s.venues == nil {
		s.venues = []catalog.Venue{}
	}
	if s.districts == nil {
		s.districts = []string{}
	}
	if s.memories == nil {
		s.memories = []catalog.Memory{}
	}
	return s
}

// --- Reads ---

func (s *Store) Venues() []catalog.Venue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.venues)
}

func (s *Store) Districts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.districts)
}

// Memories returns memories in stored order, newest added first
func (s *Store) Memories() []catalog.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.memories)
}

// MemoriesByDate returns memories ordered by visit date, newest first
func (s *Store) MemoriesByDate() []catalog.Memory {
	return catalog.SortByDateDesc(s.Memories())
}

func (s *Store) Venue(id string) (catalog.Venue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.FindVenue(s.venues, id)
}

// Grouped returns venues bucketed by district in district order
func (s *Store) Grouped() []catalog.DistrictGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.GroupByDistrict(s.districts, s.venues)
}

func (s *Store) Snapshot() catalog.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Snapshot{
		Venues:    slices.Clone(s.venues),
		Districts: slices.Clone(s.districts),
		Memories:  slices.Clone(s.memories),
	}
}

func (s *Store) RemoteEnabled() bool {
	return s.p.RemoteEnabled()
}

// --- Venues ---

// AddVenue appends v, assigning an id when v.ID is empty
func (s *Store) AddVenue(ctx context.Context, v catalog.Venue) (catalog.Venue, Result) {
	const op = "venues.add"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if v.ID == "" {
		v.ID = s.ids.Next(catalog.VenuePrefix)
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}

	s.mu.Lock()
	if _, ok := catalog.FindVenue(s.venues, v.ID); ok {
		s.mu.Unlock()
		return v, Result{Op: op, Err: fmt.Errorf("%s: %w", v.ID, ErrDuplicateVenue)}
	}
	prev := s.venues
	next := append(slices.Clone(prev), v)
	s.venues = next
	s.mu.Unlock()

	err := s.persist(ctx, func(ctx context.Context) error {
		return s.p.SaveVenue(ctx, v, slices.Clone(next))
	})
	if err != nil {
		s.mu.Lock()
		s.venues = prev
		s.mu.Unlock()
	}
	return v, s.finish(op, err)
}

func (s *Store) RemoveVenue(ctx context.Context, id string) Result {
	const op = "venues.remove"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := slices.IndexFunc(s.venues, func(v catalog.Venue) bool { return v.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return Result{Op: op, Err: fmt.Errorf("%s: %w", id, ErrVenueNotFound)}
	}
	prev := s.venues
	next := slices.Delete(slices.Clone(prev), i, i+1)
	s.venues = next
	s.mu.Unlock()

	err := s.persist(ctx, func(ctx context.Context) error {
		return s.p.DeleteVenue(ctx, id, slices.Clone(next))
	})
	if err != nil {
		s.mu.Lock()
		s.venues = prev
		s.mu.Unlock()
	}
	return s.finish(op, err)
}

// --- Districts ---

func (s *Store) AddDistrict(ctx context.Context, name string) Result {
	const op = "districts.add"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	name = strings.TrimSpace(name)
	s.mu.Lock()
	if slices.Contains(s.districts, name) {
		s.mu.Unlock()
		return Result{Op: op, Err: fmt.Errorf("%s: %w", name, ErrDuplicateDistrict)}
	}
	prev := s.districts
	next := append(slices.Clone(prev), name)
	s.districts = next
	s.mu.Unlock()

	err := s.persist(ctx, func(ctx context.Context) error {
		return s.p.SaveDistrict(ctx, name, len(next)-1, slices.Clone(next))
	})
	if err != nil {
		s.mu.Lock()
		s.districts = prev
		s.mu.Unlock()
	}
	return s.finish(op, err)
}

// RemoveDistrict drops the district name only. Venues referencing it are kept.
func (s *Store) RemoveDistrict(ctx context.Context, name string) Result {
	const op = "districts.remove"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := slices.Index(s.districts, name)
	if i < 0 {
		s.mu.Unlock()
		return Result{Op: op, Err: fmt.Errorf("%s: %w", name, ErrDistrictNotFound)}
	}
	prev := s.districts
	next := slices.Delete(slices.Clone(prev), i, i+1)
	s.districts = next
	s.mu.Unlock()

	err := s.persist(ctx, func(ctx context.Context) error {
		return s.p.DeleteDistrict(ctx, name, slices.Clone(next))
	})
	if err != nil {
		s.mu.Lock()
		s.districts = prev
		s.mu.Unlock()
	}
	return s.finish(op, err)
}

// --- Memories ---

// AddMemory prepends m, assigning an id and today's date when missing
func (s *Store) AddMemory(ctx context.Context, m catalog.Memory) (catalog.Memory, Result) {
	const op = "memories.add"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.addMemory(ctx, op, m)
}

// AddMemoryWithPhoto uploads photo when a photo store is configured and
// embeds it as a data URL otherwise. A failed upload leaves the memory
// without an image rather than failing the call.
func (s *Store) AddMemoryWithPhoto(ctx context.Context, m catalog.Memory, photo *Photo) (catalog.Memory, Result) {
	const op = "memories.add"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if m.ID == "" {
		m.ID = s.ids.Next(catalog.MemoryPrefix)
	}
	if photo != nil && len(photo.Data) > 0 {
		m.Image = s.attachPhoto(ctx, m.ID, photo)
	}
	return s.addMemory(ctx, op, m)
}

func (s *Store) attachPhoto(ctx context.Context, memoryID string, photo *Photo) string {
	contentType := photo.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if !s.p.PhotosEnabled() {
		return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(photo.Data)
	}

	var url string
	err := s.persist(ctx, func(ctx context.Context) (err error) {
		url, err = s.p.UploadPhoto(ctx, memoryID, contentType, photo.Data)
		return err
	})
	if err != nil {
		s.log.Warn("photo upload failed, saving memory without image", "memory", memoryID, "error", err)
		return ""
	}
	return url
}

func (s *Store) addMemory(ctx context.Context, op string, m catalog.Memory) (catalog.Memory, Result) {
	if m.ID == "" {
		m.ID = s.ids.Next(catalog.MemoryPrefix)
	}
	if m.Date == "" {
		m.Date = s.now().Format(catalog.DateLayout)
	}
	if m.VenueName == "" {
		if v, ok := s.Venue(m.VenueID); ok {
			m.VenueName = v.Name
		}
	}

	s.mu.Lock()
	if slices.ContainsFunc(s.memories, func(x catalog.Memory) bool { return x.ID == m.ID }) {
		s.mu.Unlock()
		return m, Result{Op: op, Err: fmt.Errorf("%s: %w", m.ID, ErrDuplicateMemory)}
	}
	prev := s.memories
	next := append([]catalog.Memory{m}, prev...)
	s.memories = next
	s.mu.Unlock()

	err := s.persist(ctx, func(ctx context.Context) error {
		return s.p.SaveMemory(ctx, m, slices.Clone(next))
	})
	if err != nil {
		s.mu.Lock()
		s.memories = prev
		s.mu.Unlock()
	}
	return m, s.finish(op, err)
}

func (s *Store) RemoveMemory(ctx context.Context, id string) Result {
	const op = "memories.remove"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := slices.IndexFunc(s.memories, func(m catalog.Memory) bool { return m.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return Result{Op: op, Err: fmt.Errorf("%s: %w", id, ErrMemoryNotFound)}
	}
	prev := s.memories
	next := slices.Delete(slices.Clone(prev), i, i+1)
	s.memories = next
	s.mu.Unlock()

	err := s.persist(ctx, func(ctx context.Context) error {
		return s.p.DeleteMemory(ctx, id, slices.Clone(next))
	})
	if err != nil {
		s.mu.Lock()
		s.memories = prev
		s.mu.Unlock()
	}
	return s.finish(op, err)
}

// --- Helpers ---

func (s *Store) persist(ctx context.Context, fn func(context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return fn(ctx)
}

func (s *Store) finish(op string, err error) Result {
	collection, action, _ := strings.Cut(op, ".")
	s.metrics.ObserveMutation(collection, action, err)
	if err != nil {
		s.log.Warn("write failed, reverted", "op", op, "error", err)
		return Result{Op: op, Err: err}
	}
	return Result{Op: op}
}
