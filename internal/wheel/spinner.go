package wheel

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

var (
	ErrNoCandidates  = errors.New("wheel has no candidates")
	ErrSpinInFlight  = errors.New("a spin is already in flight")
	ErrNotSpinning   = errors.New("no spin in flight")
	ErrStillSpinning = errors.New("spin has not settled yet")
)

const (
	DefaultDuration = 4 * time.Second
	MinTurns        = 5
	MaxTurns        = 9
)

// Easing is the cubic-bezier curve of the spin animation
var Easing = [4]float64{0.15, 0, 0.15, 1}

// Plan describes one spin: the drawn index and the animation to play
type Plan struct {
	Index    int           `json:"index"`
	Count    int           `json:"count"`
	Turns    int           `json:"turns"`
	From     float64       `json:"from"`
	To       float64       `json:"to"`
	Duration time.Duration `json:"duration"`
}

// CSSEasing renders Easing as a CSS timing function
func (p Plan) CSSEasing() string {
	return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", Easing[0], Easing[1], Easing[2], Easing[3])
}

// Spinner owns the cumulative rotation of one wheel and at most one spin in flight.
type Spinner struct {
	mu       sync.Mutex
	rotation float64
	intN     func(int) int
	now      func() time.Time
	duration time.Duration

	pending *Plan
	started time.Time
}

type Option func(*Spinner)

// WithRand draws indexes and turns from r instead of the global source
func WithRand(r *rand.Rand) Option {
	return func(s *Spinner) { s.intN = r.IntN }
}

func WithClock(now func() time.Time) Option {
	return func(s *Spinner) { s.now = now }
}

func WithDuration(d time.Duration) Option {
	return func(s *Spinner) {
		if d > 0 {
			s.duration = d
		}
	}
}

func NewSpinner(opts ...Option) *Spinner {
	s := &Spinner{
		intN:     rand.IntN,
		now:      time.Now,
		duration: DefaultDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rotation is the baseline the next spin starts from
func (s *Spinner) Rotation() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation
}

// Pending returns the plan of the spin in flight, if any
func (s *Spinner) Pending() (Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Plan{}, false
	}
	return *s.pending, true
}

// Spin draws one of n candidates and starts the animation toward it
func (s *Spinner) Spin(n int) (Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		return Plan{}, ErrNoCandidates
	}
	if s.pending != nil {
		return Plan{}, ErrSpinInFlight
	}

	index := s.intN(n)
	turns := MinTurns + s.intN(MaxTurns-MinTurns+1)
	plan := Plan{
		Index:    index,
		Count:    n,
		Turns:    turns,
		From:     s.rotation,
		To:       TargetRotation(s.rotation, index, n, turns),
		Duration: s.duration,
	}
	s.pending = &plan
	s.started = s.now()
	return plan, nil
}

// Settle reports the drawn index once the animation has run its full duration
// and makes the final rotation the baseline for the next spin.
func (s *Spinner) Settle() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return -1, ErrNotSpinning
	}
	if s.now().Before(s.started.Add(s.pending.Duration)) {
		return -1, ErrStillSpinning
	}

	index := s.pending.Index
	s.rotation = s.pending.To
	s.pending = nil
	return index, nil
}

// Remaining is how long the spin in flight still has to run
func (s *Spinner) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return 0
	}
	left := s.started.Add(s.pending.Duration).Sub(s.now())
	if left < 0 {
		return 0
	}
	return left
}
