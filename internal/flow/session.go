package flow

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"datewheel/internal/catalog"
	"datewheel/internal/wheel"
)

// Step is one screen of the wheel flow
type Step string

const (
	StepMode      Step = "mode"
	StepDistrict  Step = "district"
	StepChecklist Step = "checklist"
	StepSpin      Step = "spin"
	StepResult    Step = "result"
)

// MinWheelSize is the number of eligible venues needed to reach the wheel
const MinWheelSize = 2

// Temporary venues land in this pseudo district
const CustomDistrict = "Özel"

var (
	ErrWrongStep         = errors.New("action not allowed at this step")
	ErrInvalidCategory   = errors.New("unknown category")
	ErrUnknownDistrict   = errors.New("unknown district")
	ErrNoDistricts       = errors.New("select at least one district")
	ErrTooFewCandidates  = errors.New("at least two venues are needed to spin")
	ErrUnknownVenue      = errors.New("venue is not on the checklist")
	ErrEmptyName         = errors.New("name is required")
	ErrSpinning          = errors.New("wait for the wheel to stop")
	ErrNothingToPickFrom = errors.New("every venue has been excluded")
)

// VenueSource is the read side of the shared store
type VenueSource interface {
	Venues() []catalog.Venue
	Districts() []string
}

// ChecklistItem is one venue on the checklist screen
type ChecklistItem struct {
	Venue    catalog.Venue
	Excluded bool
}

// Session is one user's walk through the wheel flow.
// Temporary venues and exclusions live here only and are never persisted.
type Session struct {
	mu sync.Mutex

	id      string
	src     VenueSource
	spinner *wheel.Spinner
	ids     *catalog.IDGen
	now     func() time.Time
	touched time.Time
	onSpin  func()

	step      Step
	category  catalog.Category
	districts []string
	excluded  map[string]bool
	temporary []catalog.Venue
	onWheel   []catalog.Venue
	winner    *catalog.Venue
}

func newSession(id string, src VenueSource, spinner *wheel.Spinner, now func() time.Time, onSpin func()) *Session {
	return &Session{
		id:       id,
		src:      src,
		spinner:  spinner,
		ids:      catalog.NewIDGen(now),
		now:      now,
		touched:  now(),
		onSpin:   onSpin,
		step:     StepMode,
		excluded: make(map[string]bool),
	}
}

func (s *Session) ID() string {
	return s.id
}

// --- Reads ---

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) Category() catalog.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SelectedDistricts returns the chosen districts in selection order
func (s *Session) SelectedDistricts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.districts)
}

// Candidates returns the venues currently eligible for the wheel
func (s *Session) Candidates() []catalog.Venue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidates()
}

// Checklist lists every venue matching mode and districts, excluded or not
func (s *Session) Checklist() []ChecklistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []ChecklistItem
	for _, v := range s.matching() {
		items = append(items, ChecklistItem{Venue: v, Excluded: s.excluded[v.ID]})
	}
	return items
}

// Wheel returns the venues shown on the wheel. While a spin is in flight this
// is the list the spin was drawn from.
func (s *Session) Wheel() []catalog.Venue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onWheel != nil {
		return slices.Clone(s.onWheel)
	}
	return s.candidates()
}

// Winner returns the venue picked by the last settled spin
func (s *Session) Winner() (catalog.Venue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.winner == nil {
		return catalog.Venue{}, false
	}
	return *s.winner, true
}

// Pending returns the spin in flight, if any
func (s *Session) Pending() (wheel.Plan, bool) {
	return s.spinner.Pending()
}

func (s *Session) Rotation() float64 {
	return s.spinner.Rotation()
}

// Remaining is how long the spin in flight still animates
func (s *Session) Remaining() time.Duration {
	return s.spinner.Remaining()
}

// --- Transitions ---

// SelectMode picks the category and moves to district selection
func (s *Session) SelectMode(c catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepMode); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%q: %w", c, ErrInvalidCategory)
	}
	s.category = c
	s.step = StepDistrict
	return nil
}

// ToggleDistrict adds or removes a district from the selection
func (s *Session) ToggleDistrict(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepDistrict); err != nil {
		return err
	}
	if i := slices.Index(s.districts, name); i >= 0 {
		s.districts = slices.Delete(s.districts, i, i+1)
		return nil
	}
	if !slices.Contains(s.src.Districts(), name) {
		return fmt.Errorf("%q: %w", name, ErrUnknownDistrict)
	}
	s.districts = append(s.districts, name)
	return nil
}

// Continue moves from district selection to the checklist
func (s *Session) Continue() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepDistrict); err != nil {
		return err
	}
	if len(s.districts) == 0 {
		return ErrNoDistricts
	}
	s.step = StepChecklist
	return nil
}

// ToggleExclude checks or unchecks a venue on the checklist
func (s *Session) ToggleExclude(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepChecklist); err != nil {
		return err
	}
	if !slices.ContainsFunc(s.matching(), func(v catalog.Venue) bool { return v.ID == id }) {
		return fmt.Errorf("%q: %w", id, ErrUnknownVenue)
	}
	if s.excluded[id] {
		delete(s.excluded, id)
	} else {
		s.excluded[id] = true
	}
	return nil
}

// AddTemporary adds a venue that exists for this session only
func (s *Session) AddTemporary(name string) (catalog.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepChecklist); err != nil {
		return catalog.Venue{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return catalog.Venue{}, ErrEmptyName
	}
	v := catalog.Venue{
		ID:       s.ids.Next(catalog.TemporaryPrefix),
		Name:     name,
		District: CustomDistrict,
		Category: s.category,
		Tags:     []string{CustomDistrict},
		IsCustom: true,
	}
	s.temporary = append(s.temporary, v)
	return v, nil
}

// PrepareWheel moves from the checklist to the wheel
func (s *Session) PrepareWheel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepChecklist); err != nil {
		return err
	}
	if len(s.candidates()) < MinWheelSize {
		return ErrTooFewCandidates
	}
	s.step = StepSpin
	return nil
}

// Spin draws a winner among the current candidates. The result is revealed
// by Settle once the animation has finished.
func (s *Session) Spin() (wheel.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepSpin); err != nil {
		return wheel.Plan{}, err
	}
	if _, busy := s.spinner.Pending(); busy {
		return wheel.Plan{}, wheel.ErrSpinInFlight
	}

	onWheel := s.candidates()
	plan, err := s.spinner.Spin(len(onWheel))
	if err != nil {
		return wheel.Plan{}, err
	}
	s.onWheel = onWheel
	if s.onSpin != nil {
		s.onSpin()
	}
	return plan, nil
}

// Settle reveals the winner of the spin in flight and moves to the result
func (s *Session) Settle() (catalog.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepSpin); err != nil {
		return catalog.Venue{}, err
	}
	index, err := s.spinner.Settle()
	if err != nil {
		return catalog.Venue{}, err
	}
	winner := s.onWheel[index]
	s.winner = &winner
	s.onWheel = nil
	s.step = StepResult
	return winner, nil
}

// Reroll excludes the winner and goes back to the wheel
func (s *Session) Reroll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepResult); err != nil {
		return err
	}
	s.excluded[s.winner.ID] = true
	if len(s.candidates()) == 0 {
		delete(s.excluded, s.winner.ID)
		return ErrNothingToPickFrom
	}
	s.winner = nil
	s.step = StepSpin
	return nil
}

// Accept returns the winner and starts over with a clean session
func (s *Session) Accept() (catalog.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(StepResult); err != nil {
		return catalog.Venue{}, err
	}
	winner := *s.winner
	s.reset()
	return winner, nil
}

// Back returns to the previous step keeping all selections
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.step {
	case StepDistrict:
		s.step = StepMode
	case StepChecklist:
		s.step = StepDistrict
	case StepSpin:
		if _, busy := s.spinner.Pending(); busy {
			return ErrSpinning
		}
		s.step = StepChecklist
	case StepResult:
		s.winner = nil
		s.step = StepSpin
	default:
		return fmt.Errorf("back from %s: %w", s.step, ErrWrongStep)
	}
	return nil
}

// --- Helpers ---

func (s *Session) expect(step Step) error {
	s.touch()
	if s.step != step {
		return fmt.Errorf("at %s, need %s: %w", s.step, step, ErrWrongStep)
	}
	return nil
}

func (s *Session) touch() {
	s.touched = s.now()
}

func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// matching returns venues of the chosen category in the chosen districts,
// followed by the session's temporary venues of that category
func (s *Session) matching() []catalog.Venue {
	var out []catalog.Venue
	for _, v := range s.src.Venues() {
		if v.Category == s.category && slices.Contains(s.districts, v.District) {
			out = append(out, v)
		}
	}
	for _, v := range s.temporary {
		if v.Category == s.category {
			out = append(out, v)
		}
	}
	return out
}

func (s *Session) candidates() []catalog.Venue {
	var out []catalog.Venue
	for _, v := range s.matching() {
		if !s.excluded[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

func (s *Session) reset() {
	s.step = StepMode
	s.category = ""
	s.districts = nil
	s.excluded = make(map[string]bool)
	s.temporary = nil
	s.onWheel = nil
	s.winner = nil
}
