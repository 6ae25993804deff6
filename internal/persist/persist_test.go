package persist

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datewheel/internal/catalog"
	"datewheel/internal/remote/remotetest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)

	_, ok, err := db.Get(ctx, KeyVenues)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Put(ctx, KeyVenues, []byte(`["a"]`)))
	require.NoError(t, db.Put(ctx, KeyVenues, []byte(`["a","b"]`)))
	require.NoError(t, db.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, KeyVenues)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, string(got))
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	require.Error(t, err)
}

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	a := NewAdapter(NewMemory(), discardLogger())

	snap := a.Load(context.Background())

	assert.Len(t, snap.Venues, len(catalog.SeedVenues()))
	assert.Equal(t, catalog.SeedDistricts(), snap.Districts)
	assert.NotNil(t, snap.Memories)
	assert.Empty(t, snap.Memories)
	assert.False(t, a.RemoteEnabled())
	assert.Equal(t, SourceLocal, a.Source())
}

func TestLoadFallsBackOnCorruptEntry(t *testing.T) {
	ctx := context.Background()
	local := NewMemory()
	require.NoError(t, local.Put(ctx, KeyVenues, []byte("{not json")))
	require.NoError(t, local.Put(ctx, KeyDistricts, []byte(`["Only"]`)))

	snap := NewAdapter(local, discardLogger()).Load(ctx)

	assert.Len(t, snap.Venues, len(catalog.SeedVenues()))
	assert.Equal(t, []string{"Only"}, snap.Districts)
}

func TestLocalRoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	defer db.Close()

	a := NewAdapter(db, discardLogger())
	venues := []catalog.Venue{
		{ID: "v-2", Name: "Second", District: "Koru", Category: catalog.CategoryFood, Tags: []string{"b", "a"}},
		{ID: "v-1", Name: "First", District: "Emek", Category: catalog.CategoryDessertCoffee, Tags: []string{}},
	}
	memories := []catalog.Memory{
		{ID: "mem-2", VenueID: "v-2", VenueName: "Second", Date: "2024-05-02", Note: "later"},
		{ID: "mem-1", VenueID: "v-1", VenueName: "First", Date: "2024-05-01", Note: "earlier", Image: "data:image/png;base64,AA=="},
	}
	require.NoError(t, a.SaveVenue(ctx, venues[1], venues))
	require.NoError(t, a.SaveDistrict(ctx, "Koru", 1, []string{"Emek", "Koru"}))
	require.NoError(t, a.SaveMemory(ctx, memories[0], memories))

	snap := NewAdapter(db, discardLogger()).Load(ctx)
	assert.Equal(t, venues, snap.Venues)
	assert.Equal(t, []string{"Emek", "Koru"}, snap.Districts)
	assert.Equal(t, memories, snap.Memories)
}

func TestRemoteFailureSkipsMirror(t *testing.T) {
	ctx := context.Background()
	local := NewMemory()
	fake := remotetest.New()
	fake.FailOps["DeleteVenue"] = true
	a := NewAdapter(local, discardLogger(), WithRemote(fake))

	err := a.DeleteVenue(ctx, "v-1", []catalog.Venue{})
	require.ErrorIs(t, err, remotetest.ErrInjected)

	_, ok, err := local.Get(ctx, KeyVenues)
	require.NoError(t, err)
	assert.False(t, ok, "failed remote write must not reach the local store")
}

func TestRemoteSuccessMirrorsLocally(t *testing.T) {
	ctx := context.Background()
	local := NewMemory()
	fake := remotetest.New()
	a := NewAdapter(local, discardLogger(), WithRemote(fake))

	districts := []string{"Tunalı", "TestDistrict"}
	require.NoError(t, a.SaveDistrict(ctx, "TestDistrict", 1, districts))

	assert.Equal(t, []string{"TestDistrict"}, fake.Districts)
	raw, ok, err := local.Get(ctx, KeyDistricts)
	require.NoError(t, err)
	require.True(t, ok)
	var got []string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, districts, got)
}

func TestBootstrapSeedsEmptyRemote(t *testing.T) {
	ctx := context.Background()
	local := NewMemory()
	fake := remotetest.New()

	a := NewAdapter(local, discardLogger(), WithRemote(fake))
	snap := a.Load(ctx)

	assert.Equal(t, SourceSeed, a.Source())
	assert.Equal(t, 1, fake.CallCount("InsertVenues"))
	assert.Equal(t, 1, fake.CallCount("InsertDistricts"))
	assert.Len(t, fake.Venues, len(catalog.SeedVenues()))
	assert.Equal(t, catalog.SeedDistricts(), snap.Districts)

	_, ok, err := local.Get(ctx, KeyVenues)
	require.NoError(t, err)
	assert.True(t, ok, "adopted data is mirrored locally")
}

func TestBootstrapAdoptsRemoteData(t *testing.T) {
	fake := remotetest.New()
	fake.Venues = []catalog.Venue{{ID: "r-1", Name: "Remote", District: "Far", Category: catalog.CategoryFood, Tags: []string{}}}
	fake.Districts = []string{"Far"}
	fake.Memories = []catalog.Memory{{ID: "mem-1", VenueID: "r-1", VenueName: "Remote", Date: "2024-01-01"}}

	a := NewAdapter(NewMemory(), discardLogger(), WithRemote(fake))
	snap := a.Load(context.Background())

	assert.Equal(t, SourceRemote, a.Source())
	assert.Equal(t, fake.Venues, snap.Venues)
	assert.Equal(t, []string{"Far"}, snap.Districts)
	assert.Equal(t, fake.Memories, snap.Memories)
	assert.Zero(t, fake.CallCount("InsertVenues"))
}

func TestBootstrapErrorKeepsLocal(t *testing.T) {
	ctx := context.Background()
	local := NewMemory()
	require.NoError(t, local.Put(ctx, KeyDistricts, []byte(`["Cached"]`)))
	fake := remotetest.New()
	fake.Fail = true

	a := NewAdapter(local, discardLogger(), WithRemote(fake))
	snap := a.Load(ctx)

	assert.Equal(t, SourceLocalFallback, a.Source())
	assert.Equal(t, []string{"Cached"}, snap.Districts)
	assert.Len(t, snap.Venues, len(catalog.SeedVenues()))
}

func TestUploadPhoto(t *testing.T) {
	ctx := context.Background()

	_, err := NewAdapter(NewMemory(), discardLogger()).UploadPhoto(ctx, "mem-1", "image/png", []byte{1})
	require.ErrorIs(t, err, ErrNoPhotoStore)

	fake := remotetest.New()
	a := NewAdapter(NewMemory(), discardLogger(), WithPhotoStore(fake))
	require.True(t, a.PhotosEnabled())

	url, err := a.UploadPhoto(ctx, "mem-1", "image/png", []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "https://photos.test/mem-1.png", url)
	assert.Equal(t, []byte{1, 2}, fake.Photos["mem-1.png"])
}

func TestMongoRejectsOversizedEntry(t *testing.T) {
	var m Mongo

	err := m.Put(context.Background(), KeyMemories, make([]byte, MaxMongoEntryBytes+1))
	require.ErrorIs(t, err, ErrEntryTooLarge)
}

type tooLargeStore struct{ *Memory }

func (tooLargeStore) Put(ctx context.Context, key string, value []byte) error {
	return ErrEntryTooLarge
}

func TestOversizedMirrorDoesNotFailMutation(t *testing.T) {
	a := NewAdapter(tooLargeStore{NewMemory()}, discardLogger())

	err := a.SaveMemory(context.Background(), catalog.Memory{ID: "mem-1"}, []catalog.Memory{{ID: "mem-1"}})
	assert.NoError(t, err)
}
