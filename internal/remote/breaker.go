package remote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"datewheel/internal/catalog"
)

// BreakerConfig holds configuration for the remote circuit breaker
type BreakerConfig struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig returns a default configuration for the remote circuit breaker
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:                "remote",
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	}
}

// Breaker wraps a Backend so repeated failures open the circuit and later
// calls fail fast with gobreaker.ErrOpenState until the timeout passes.
type Breaker struct {
	next Backend
	cb   *gobreaker.CircuitBreaker
}

func WithBreaker(next Backend, cfg BreakerConfig, log *slog.Logger) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// the caller giving up is not the backend's fault
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &Breaker{next: next, cb: cb}
}

// State exposes the breaker state for diagnostics
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) do(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

func (b *Breaker) ListVenues(ctx context.Context) ([]catalog.Venue, error) {
	var out []catalog.Venue
	err := b.do(func() (err error) {
		out, err = b.next.ListVenues(ctx)
		return err
	})
	return out, err
}

func (b *Breaker) ListDistricts(ctx context.Context) ([]string, error) {
	var out []string
	err := b.do(func() (err error) {
		out, err = b.next.ListDistricts(ctx)
		return err
	})
	return out, err
}

func (b *Breaker) ListMemories(ctx context.Context) ([]catalog.Memory, error) {
	var out []catalog.Memory
	err := b.do(func() (err error) {
		out, err = b.next.ListMemories(ctx)
		return err
	})
	return out, err
}

func (b *Breaker) InsertVenues(ctx context.Context, venues []catalog.Venue) error {
	return b.do(func() error { return b.next.InsertVenues(ctx, venues) })
}

func (b *Breaker) DeleteVenue(ctx context.Context, id string) error {
	return b.do(func() error { return b.next.DeleteVenue(ctx, id) })
}

func (b *Breaker) InsertDistricts(ctx context.Context, names []string) error {
	return b.do(func() error { return b.next.InsertDistricts(ctx, names) })
}

func (b *Breaker) UpsertDistrict(ctx context.Context, name string, sortOrder int) error {
	return b.do(func() error { return b.next.UpsertDistrict(ctx, name, sortOrder) })
}

func (b *Breaker) DeleteDistrict(ctx context.Context, name string) error {
	return b.do(func() error { return b.next.DeleteDistrict(ctx, name) })
}

func (b *Breaker) InsertMemory(ctx context.Context, m catalog.Memory) error {
	return b.do(func() error { return b.next.InsertMemory(ctx, m) })
}

func (b *Breaker) DeleteMemory(ctx context.Context, id string) error {
	return b.do(func() error { return b.next.DeleteMemory(ctx, id) })
}
