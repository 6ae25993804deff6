// Package remotetest provides an in-memory remote backend for tests.
package remotetest

import (
	"context"
	"errors"
	"sync"

	"datewheel/internal/catalog"
)

var ErrInjected = errors.New("injected remote failure")

// Fake is an in-memory Backend and PhotoStore. Set Fail (or FailOps) to make
// calls return ErrInjected.
type Fake struct {
	mu sync.Mutex

	Venues    []catalog.Venue
	Districts []string
	Memories  []catalog.Memory
	Photos    map[string][]byte

	Fail    bool
	FailOps map[string]bool
	Calls   []string
}

func New() *Fake {
	return &Fake{Photos: make(map[string][]byte), FailOps: make(map[string]bool)}
}

func (f *Fake) call(op string) error {
	f.Calls = append(f.Calls, op)
	if f.Fail || f.FailOps[op] {
		return ErrInjected
	}
	return nil
}

// CallCount returns how many times op was invoked
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *Fake) ListVenues(ctx context.Context) ([]catalog.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListVenues"); err != nil {
		return nil, err
	}
	return append([]catalog.Venue(nil), f.Venues...), nil
}

func (f *Fake) ListDistricts(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListDistricts"); err != nil {
		return nil, err
	}
	return append([]string(nil), f.Districts...), nil
}

func (f *Fake) ListMemories(ctx context.Context) ([]catalog.Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListMemories"); err != nil {
		return nil, err
	}
	return append([]catalog.Memory(nil), f.Memories...), nil
}

func (f *Fake) InsertVenues(ctx context.Context, venues []catalog.Venue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertVenues"); err != nil {
		return err
	}
	f.Venues = append(f.Venues, venues...)
	return nil
}

func (f *Fake) DeleteVenue(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteVenue"); err != nil {
		return err
	}
	out := f.Venues[:0]
	for _, v := range f.Venues {
		if v.ID != id {
			out = append(out, v)
		}
	}
	f.Venues = out
	return nil
}

func (f *Fake) InsertDistricts(ctx context.Context, names []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertDistricts"); err != nil {
		return err
	}
	f.Districts = append(f.Districts, names...)
	return nil
}

func (f *Fake) UpsertDistrict(ctx context.Context, name string, sortOrder int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpsertDistrict"); err != nil {
		return err
	}
	for _, d := range f.Districts {
		if d == name {
			return nil
		}
	}
	f.Districts = append(f.Districts, name)
	return nil
}

func (f *Fake) DeleteDistrict(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteDistrict"); err != nil {
		return err
	}
	out := f.Districts[:0]
	for _, d := range f.Districts {
		if d != name {
			out = append(out, d)
		}
	}
	f.Districts = out
	return nil
}

func (f *Fake) InsertMemory(ctx context.Context, m catalog.Memory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertMemory"); err != nil {
		return err
	}
	f.Memories = append([]catalog.Memory{m}, f.Memories...)
	return nil
}

func (f *Fake) DeleteMemory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteMemory"); err != nil {
		return err
	}
	out := f.Memories[:0]
	for _, m := range f.Memories {
		if m.ID != id {
			out = append(out, m)
		}
	}
	f.Memories = out
	return nil
}

func (f *Fake) UploadPhoto(ctx context.Context, path, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UploadPhoto"); err != nil {
		return "", err
	}
	f.Photos[path] = append([]byte(nil), data...)
	return "https://photos.test/" + path, nil
}
