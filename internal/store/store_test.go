package store

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datewheel/internal/catalog"
	"datewheel/internal/persist"
	"datewheel/internal/remote/remotetest"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T, fake *remotetest.Fake, photos bool) (*Store, *persist.Memory) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	local := persist.NewMemory()

	var opts []persist.Option
	if fake != nil {
		opts = append(opts, persist.WithRemote(fake))
		if photos {
			opts = append(opts, persist.WithPhotoStore(fake))
		}
	}
	adapter := persist.NewAdapter(local, log, opts...)
	snap := catalog.Snapshot{
		Venues:    catalog.SeedVenues(),
		Districts: catalog.SeedDistricts(),
		Memories:  []catalog.Memory{},
	}
	return New(adapter, snap, WithLogger(log), WithClock(func() time.Time { return fixedNow })), local
}

func TestAddVenueAssignsID(t *testing.T) {
	s, _ := newStore(t, nil, false)

	v, res := s.AddVenue(context.Background(), catalog.Venue{Name: "New", District: "Koru", Category: catalog.CategoryFood})
	require.True(t, res.OK(), res.Err)

	assert.Equal(t, "v-"+strconv.FormatInt(fixedNow.UnixMilli(), 10), v.ID)
	assert.NotNil(t, v.Tags)
	got, ok := s.Venue(v.ID)
	require.True(t, ok)
	assert.Equal(t, v, got)
}

func TestDuplicatesRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, nil, false)
	before := s.Snapshot()

	_, res := s.AddVenue(ctx, catalog.Venue{ID: before.Venues[0].ID, Name: "Dup"})
	require.ErrorIs(t, res.Err, ErrDuplicateVenue)

	res = s.AddDistrict(ctx, before.Districts[0])
	require.ErrorIs(t, res.Err, ErrDuplicateDistrict)

	assert.Equal(t, before, s.Snapshot())
}

func TestRollbackOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	fake := remotetest.New()
	fake.Fail = true
	s, local := newStore(t, fake, false)
	before := s.Snapshot()

	_, res := s.AddVenue(ctx, catalog.Venue{Name: "Lost", District: "Koru", Category: catalog.CategoryFood})
	assert.ErrorIs(t, res.Err, remotetest.ErrInjected)
	assert.False(t, res.OK())
	assert.Equal(t, "venues.add", res.Op)

	assert.ErrorIs(t, s.RemoveVenue(ctx, before.Venues[0].ID).Err, remotetest.ErrInjected)
	assert.ErrorIs(t, s.AddDistrict(ctx, "Nowhere").Err, remotetest.ErrInjected)
	assert.ErrorIs(t, s.RemoveDistrict(ctx, before.Districts[0]).Err, remotetest.ErrInjected)
	_, res = s.AddMemory(ctx, catalog.Memory{VenueID: before.Venues[0].ID, Note: "x"})
	assert.ErrorIs(t, res.Err, remotetest.ErrInjected)

	assert.Equal(t, before, s.Snapshot())

	for _, key := range []string{persist.KeyVenues, persist.KeyDistricts, persist.KeyMemories} {
		_, ok, err := local.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestRollbackRestoresExactPriorCollection(t *testing.T) {
	ctx := context.Background()
	fake := remotetest.New()
	s, _ := newStore(t, fake, false)

	m, res := s.AddMemory(ctx, catalog.Memory{VenueID: "tunali-bosco", Date: "2024-01-01", Note: "first"})
	require.True(t, res.OK())
	before := s.Memories()

	fake.FailOps["DeleteMemory"] = true
	res = s.RemoveMemory(ctx, m.ID)
	require.False(t, res.OK())

	assert.Equal(t, before, s.Memories())
}

func TestDistrictThenVenueAppearsInGroup(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, remotetest.New(), false)

	require.True(t, s.AddDistrict(ctx, "TestDistrict").OK())
	v, res := s.AddVenue(ctx, catalog.Venue{Name: "Test Place", District: "TestDistrict", Category: catalog.CategoryFood})
	require.True(t, res.OK())

	groups := s.Grouped()
	last := groups[len(groups)-1]
	assert.Equal(t, "TestDistrict", last.Name)
	require.Len(t, last.Venues, 1)
	assert.Equal(t, v.ID, last.Venues[0].ID)
}

func TestRemoveDistrictKeepsVenues(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, nil, false)
	venuesBefore := s.Venues()

	require.True(t, s.RemoveDistrict(ctx, "Tunalı").OK())

	assert.NotContains(t, s.Districts(), "Tunalı")
	assert.Equal(t, venuesBefore, s.Venues())
	for _, g := range s.Grouped() {
		assert.NotEqual(t, "Tunalı", g.Name)
	}
}

func TestRemoveMissing(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, nil, false)

	assert.ErrorIs(t, s.RemoveVenue(ctx, "nope").Err, ErrVenueNotFound)
	assert.ErrorIs(t, s.RemoveDistrict(ctx, "nope").Err, ErrDistrictNotFound)
	assert.ErrorIs(t, s.RemoveMemory(ctx, "nope").Err, ErrMemoryNotFound)
}

func TestMemoryWithoutPhoto(t *testing.T) {
	ctx := context.Background()
	fake := remotetest.New()
	s, _ := newStore(t, fake, true)

	m, res := s.AddMemoryWithPhoto(ctx, catalog.Memory{VenueID: "tunali-bosco", Note: "no photo"}, nil)
	require.True(t, res.OK(), res.Err)

	assert.Empty(t, m.Image)
	assert.Equal(t, "Bosco", m.VenueName)
	assert.Equal(t, "2024-06-01", m.Date)
	assert.Zero(t, fake.CallCount("UploadPhoto"))
	assert.Equal(t, []catalog.Memory{m}, s.Memories())
}

func TestMemoryPhotoUploaded(t *testing.T) {
	fake := remotetest.New()
	s, _ := newStore(t, fake, true)

	m, res := s.AddMemoryWithPhoto(context.Background(),
		catalog.Memory{VenueID: "tunali-bosco", Date: "2024-02-02"},
		&Photo{ContentType: "image/png", Data: []byte{1, 2, 3}})
	require.True(t, res.OK())

	assert.Equal(t, "https://photos.test/"+m.ID+".png", m.Image)
	assert.Equal(t, []byte{1, 2, 3}, fake.Photos[m.ID+".png"])
}

func TestMemoryPhotoUploadFailureDropsImage(t *testing.T) {
	fake := remotetest.New()
	fake.FailOps["UploadPhoto"] = true
	s, _ := newStore(t, fake, true)

	m, res := s.AddMemoryWithPhoto(context.Background(),
		catalog.Memory{VenueID: "tunali-bosco", Date: "2024-02-02"},
		&Photo{ContentType: "image/png", Data: []byte{1}})
	require.True(t, res.OK())
	assert.Empty(t, m.Image)
	assert.Len(t, s.Memories(), 1)
}

func TestMemoryPhotoEmbeddedLocally(t *testing.T) {
	s, _ := newStore(t, nil, false)

	m, res := s.AddMemoryWithPhoto(context.Background(),
		catalog.Memory{VenueID: "tunali-bosco", Date: "2024-02-02"},
		&Photo{ContentType: "image/gif", Data: []byte("GIF")})
	require.True(t, res.OK())
	assert.True(t, strings.HasPrefix(m.Image, "data:image/gif;base64,"))
}

func TestMemoriesByDate(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, nil, false)

	for _, d := range []string{"2024-03-01", "2024-05-01", "2024-04-01"} {
		_, res := s.AddMemory(ctx, catalog.Memory{VenueID: "tunali-bosco", Date: d})
		require.True(t, res.OK())
	}

	var dates []string
	for _, m := range s.MemoriesByDate() {
		dates = append(dates, m.Date)
	}
	assert.Equal(t, []string{"2024-05-01", "2024-04-01", "2024-03-01"}, dates)
	assert.Equal(t, "2024-04-01", s.Memories()[0].Date, "stored newest-added first")
}

func TestReadsReturnCopies(t *testing.T) {
	s, _ := newStore(t, nil, false)

	vs := s.Venues()
	vs[0].Name = "mutated"
	ds := s.Districts()
	ds[0] = "mutated"

	assert.NotEqual(t, "mutated", s.Venues()[0].Name)
	assert.NotEqual(t, "mutated", s.Districts()[0])
}
