package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"datewheel/internal/catalog"
	"datewheel/internal/remote"
)

var ErrNoPhotoStore = errors.New("no photo store configured")

// Adapter reconciles the optional remote backend with the local fallback store.
// With a remote, every mutation goes to the remote first and is mirrored
// locally only once it succeeded. Without one, the local store is the only copy.
type Adapter struct {
	local  LocalStore
	remote remote.Backend
	photos remote.PhotoStore
	log    *slog.Logger
	source string
}

type Option func(*Adapter)

// WithRemote enables the remote backend. A nil backend keeps local-only mode.
func WithRemote(b remote.Backend) Option {
	return func(a *Adapter) { a.remote = b }
}

// WithPhotoStore enables photo uploads
func WithPhotoStore(p remote.PhotoStore) Option {
	return func(a *Adapter) { a.photos = p }
}

func NewAdapter(local LocalStore, log *slog.Logger, opts ...Option) *Adapter {
	a := &Adapter{local: local, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RemoteEnabled reports whether a remote backend is configured
func (a *Adapter) RemoteEnabled() bool {
	return a.remote != nil
}

// PhotosEnabled reports whether photos are uploaded instead of embedded
func (a *Adapter) PhotosEnabled() bool {
	return a.photos != nil
}

// --- Loading ---

// Where the last Load took its snapshot from
const (
	SourceLocal         = "local"
	SourceRemote        = "remote"
	SourceSeed          = "seed"
	SourceLocalFallback = "local_fallback"
)

// Source reports where the last Load took its snapshot from
func (a *Adapter) Source() string {
	return a.source
}

// Load reads the local snapshot, then lets the remote backend (if any)
// override it. Remote errors are logged and the local snapshot is kept.
func (a *Adapter) Load(ctx context.Context) catalog.Snapshot {
	snap := a.loadLocal(ctx)
	a.source = SourceLocal
	if a.remote == nil {
		return snap
	}

	remoteSnap, err := a.bootstrapRemote(ctx, snap)
	if err != nil {
		a.log.Warn("remote bootstrap failed, keeping local data", "error", err)
		a.source = SourceLocalFallback
		return snap
	}

	a.mirror(ctx, KeyVenues, remoteSnap.Venues)
	a.mirror(ctx, KeyDistricts, remoteSnap.Districts)
	a.mirror(ctx, KeyMemories, remoteSnap.Memories)
	return remoteSnap
}

func (a *Adapter) loadLocal(ctx context.Context) catalog.Snapshot {
	return catalog.Snapshot{
		Venues:    loadEntry(ctx, a, KeyVenues, catalog.SeedVenues),
		Districts: loadEntry(ctx, a, KeyDistricts, catalog.SeedDistricts),
		Memories:  loadEntry(ctx, a, KeyMemories, func() []catalog.Memory { return []catalog.Memory{} }),
	}
}

// loadEntry decodes one local entry, falling back to def when it is missing
// or unreadable.
func loadEntry[T any](ctx context.Context, a *Adapter, key string, def func() []T) []T {
	raw, ok, err := a.local.Get(ctx, key)
	if err != nil {
		a.log.Warn("failed to read local entry", "key", key, "error", err)
		return def()
	}
	if !ok {
		return def()
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		a.log.Warn("discarding unreadable local entry", "key", key, "error", err)
		return def()
	}
	return out
}

func (a *Adapter) bootstrapRemote(ctx context.Context, local catalog.Snapshot) (catalog.Snapshot, error) {
	venues, err := a.remote.ListVenues(ctx)
	if err != nil {
		return local, err
	}
	districts, err := a.remote.ListDistricts(ctx)
	if err != nil {
		return local, err
	}
	memories, err := a.remote.ListMemories(ctx)
	if err != nil {
		return local, err
	}

	snap := local
	if len(venues) == 0 {
		// first run against an empty backend: publish the seed catalog
		a.log.Info("remote backend is empty, seeding catalog")
		seedVenues := catalog.SeedVenues()
		seedDistricts := catalog.SeedDistricts()
		if err := a.remote.InsertVenues(ctx, seedVenues); err != nil {
			a.log.Warn("failed to seed remote venues", "error", err)
		}
		if err := a.remote.InsertDistricts(ctx, seedDistricts); err != nil {
			a.log.Warn("failed to seed remote districts", "error", err)
		}
		snap.Venues = seedVenues
		snap.Districts = seedDistricts
		a.source = SourceSeed
	} else {
		snap.Venues = venues
		a.source = SourceRemote
	}
	if len(districts) > 0 {
		snap.Districts = districts
	}
	if len(memories) > 0 {
		snap.Memories = memories
	}
	return snap, nil
}

// --- Mutations ---

// SaveVenue persists an added venue; all is the full collection after the add
func (a *Adapter) SaveVenue(ctx context.Context, v catalog.Venue, all []catalog.Venue) error {
	return a.apply(ctx, KeyVenues, all, func() error {
		return a.remote.InsertVenues(ctx, []catalog.Venue{v})
	})
}

func (a *Adapter) DeleteVenue(ctx context.Context, id string, all []catalog.Venue) error {
	return a.apply(ctx, KeyVenues, all, func() error {
		return a.remote.DeleteVenue(ctx, id)
	})
}

// SaveDistrict persists an added district at position sortOrder
func (a *Adapter) SaveDistrict(ctx context.Context, name string, sortOrder int, all []string) error {
	return a.apply(ctx, KeyDistricts, all, func() error {
		return a.remote.UpsertDistrict(ctx, name, sortOrder)
	})
}

func (a *Adapter) DeleteDistrict(ctx context.Context, name string, all []string) error {
	return a.apply(ctx, KeyDistricts, all, func() error {
		return a.remote.DeleteDistrict(ctx, name)
	})
}

func (a *Adapter) SaveMemory(ctx context.Context, m catalog.Memory, all []catalog.Memory) error {
	return a.apply(ctx, KeyMemories, all, func() error {
		return a.remote.InsertMemory(ctx, m)
	})
}

func (a *Adapter) DeleteMemory(ctx context.Context, id string, all []catalog.Memory) error {
	return a.apply(ctx, KeyMemories, all, func() error {
		return a.remote.DeleteMemory(ctx, id)
	})
}

// UploadPhoto stores a memory photo and returns its URL
func (a *Adapter) UploadPhoto(ctx context.Context, memoryID, contentType string, data []byte) (string, error) {
	if a.photos == nil {
		return "", ErrNoPhotoStore
	}
	return a.photos.UploadPhoto(ctx, remote.PhotoPath(memoryID, contentType), contentType, data)
}

func (a *Adapter) apply(ctx context.Context, key string, all any, remoteOp func() error) error {
	if a.remote != nil {
		if err := remoteOp(); err != nil {
			return fmt.Errorf("remote %s: %w", key, err)
		}
	}
	a.mirror(ctx, key, all)
	return nil
}

// mirror overwrites one local entry with the full collection. Failures are
// logged only; the in-memory state stays authoritative.
func (a *Adapter) mirror(ctx context.Context, key string, all any) {
	data, err := json.Marshal(all)
	if err != nil {
		a.log.Error("failed to encode local entry", "key", key, "error", err)
		return
	}
	if err := a.local.Put(ctx, key, data); err != nil {
		if errors.Is(err, ErrEntryTooLarge) {
			a.log.Error("local entry too large, change will not survive a restart", "key", key, "bytes", len(data), "error", err)
			return
		}
		a.log.Warn("failed to write local entry", "key", key, "error", err)
	}
}
