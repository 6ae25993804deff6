package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"datewheel/internal/wheel"
)

// Sessions keeps wheel flow sessions by id and forgets idle ones.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session

	src     VenueSource
	ttl     time.Duration
	now     func() time.Time
	wheel   []wheel.Option
	onSpin  func()
	newUUID func() string
}

type Option func(*Sessions)

// WithTTL sets how long an untouched session is kept
func WithTTL(d time.Duration) Option {
	return func(s *Sessions) { s.ttl = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Sessions) { s.now = now }
}

// WithWheelOptions configures the spinner of every new session
func WithWheelOptions(opts ...wheel.Option) Option {
	return func(s *Sessions) { s.wheel = append(s.wheel, opts...) }
}

// WithSpinHook is called after every successful spin
func WithSpinHook(fn func()) Option {
	return func(s *Sessions) { s.onSpin = fn }
}

func NewSessions(src VenueSource, opts ...Option) *Sessions {
	s := &Sessions{
		sessions: make(map[string]*Session),
		src:      src,
		ttl:      12 * time.Hour,
		now:      time.Now,
		newUUID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the live session with the given id
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || s.expired(sess) {
		return nil, false
	}
	return sess, true
}

// GetOrCreate returns the session for id, starting a new one when id is
// unknown or expired
func (s *Sessions) GetOrCreate(id string) *Session {
	if sess, ok := s.Get(id); ok {
		return sess
	}
	return s.Create()
}

func (s *Sessions) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := append([]wheel.Option{wheel.WithClock(s.now)}, s.wheel...)
	sess := newSession(s.newUUID(), s.src, wheel.NewSpinner(opts...), s.now, s.onSpin)
	s.sessions[sess.id] = sess
	return sess
}

// Prune drops idle sessions and returns how many were removed
func (s *Sessions) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) expired(sess *Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.lastTouched()) > s.ttl
}
