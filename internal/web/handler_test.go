package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datewheel/internal/catalog"
	"datewheel/internal/flow"
	"datewheel/internal/persist"
	"datewheel/internal/remote/remotetest"
	"datewheel/internal/store"
	"datewheel/internal/wheel"
)

type testApp struct {
	store  *store.Store
	fake   *remotetest.Fake
	server *httptest.Server
	client *http.Client
}

func newTestApp(t *testing.T, withRemote bool) *testApp {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var opts []persist.Option
	fake := remotetest.New()
	if withRemote {
		opts = append(opts, persist.WithRemote(fake), persist.WithPhotoStore(fake))
	}
	adapter := persist.NewAdapter(persist.NewMemory(), log, opts...)
	st := store.New(adapter, catalog.Snapshot{
		Venues:    catalog.SeedVenues(),
		Districts: catalog.SeedDistricts(),
	}, store.WithLogger(log))

	sessions := flow.NewSessions(st, flow.WithWheelOptions(wheel.WithDuration(time.Millisecond)))
	h := NewHandler(st, sessions, log, WithMaxPhotoBytes(1024))
	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{store: st, fake: fake, server: srv, client: &http.Client{Jar: jar}}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.server.URL+path, r)
	require.NoError(t, err)
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) post(t *testing.T, path string, form url.Values) string {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAPIVenues(t *testing.T) {
	app := newTestApp(t, false)

	resp := app.do(t, http.MethodPost, "/api/venues", map[string]any{
		"name": "  Yeni Yer ", "district": "Koru", "category": "yemek", "tags": []string{" a ", "", "b"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	venue := decode[catalog.Venue](t, resp)
	assert.Equal(t, "Yeni Yer", venue.Name)
	assert.Equal(t, []string{"a", "b"}, venue.Tags)
	assert.True(t, venue.IsCustom)

	resp = app.do(t, http.MethodGet, "/api/venues", nil)
	venues := decode[[]catalog.Venue](t, resp)
	assert.Len(t, venues, len(catalog.SeedVenues())+1)

	resp = app.do(t, http.MethodDelete, "/api/venues/"+venue.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = app.do(t, http.MethodDelete, "/api/venues/"+venue.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIRejectsInvalidInput(t *testing.T) {
	app := newTestApp(t, false)

	tests := []struct {
		name string
		path string
		body any
	}{
		{"venue without name", "/api/venues", map[string]any{"district": "Koru", "category": "yemek"}},
		{"venue with bad category", "/api/venues", map[string]any{"name": "x", "district": "Koru", "category": "bar"}},
		{"district without name", "/api/districts", map[string]any{"name": "   "}},
		{"memory with bad date", "/api/memories", map[string]any{"venueId": "tunali-bosco", "date": "01.02.2024"}},
		{"spin without districts", "/api/spin", map[string]any{"category": "yemek"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := app.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Len(t, app.store.Venues(), len(catalog.SeedVenues()))
}

func TestAPIDistrictConflict(t *testing.T) {
	app := newTestApp(t, false)

	resp := app.do(t, http.MethodPost, "/api/districts", map[string]any{"name": "Tunalı"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPIRemoteFailureReverts(t *testing.T) {
	app := newTestApp(t, true)
	app.fake.FailOps["UpsertDistrict"] = true
	before := app.store.Districts()

	resp := app.do(t, http.MethodPost, "/api/districts", map[string]any{"name": "TestDistrict"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, before, app.store.Districts())
}

func TestAPIGroupedDistricts(t *testing.T) {
	app := newTestApp(t, true)

	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/districts", map[string]any{"name": "TestDistrict"}).StatusCode)
	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/venues", map[string]any{
		"name": "Test Place", "district": "TestDistrict", "category": "yemek",
	}).StatusCode)

	groups := decode[[]catalog.DistrictGroup](t, app.do(t, http.MethodGet, "/api/districts?grouped=true", nil))
	last := groups[len(groups)-1]
	assert.Equal(t, "TestDistrict", last.Name)
	require.Len(t, last.Venues, 1)
	assert.Equal(t, "Test Place", last.Venues[0].Name)
}

func TestAPIMemoriesSortedByDate(t *testing.T) {
	app := newTestApp(t, false)

	for _, d := range []string{"2024-01-10", "2024-03-10", "2024-02-10"} {
		resp := app.do(t, http.MethodPost, "/api/memories", map[string]any{"venueId": "tunali-bosco", "date": d, "note": "x"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := app.do(t, http.MethodPost, "/api/memories", map[string]any{"venueId": "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	memories := decode[[]catalog.Memory](t, app.do(t, http.MethodGet, "/api/memories", nil))
	require.Len(t, memories, 3)
	assert.Equal(t, "2024-03-10", memories[0].Date)
	assert.Equal(t, "2024-01-10", memories[2].Date)
	assert.Equal(t, "Bosco", memories[0].VenueName)
}

func TestAPIMemoryImageReference(t *testing.T) {
	app := newTestApp(t, false)

	tests := []struct {
		image string
		want  int
	}{
		{"javascript:alert(1)", http.StatusBadRequest},
		{"/etc/passwd", http.StatusBadRequest},
		{"ftp://photos.test/a.png", http.StatusBadRequest},
		{"data:text/html;base64,PHNjcmlwdD4=", http.StatusBadRequest},
		{"https://photos.test/mem-1.png", http.StatusCreated},
		{"data:image/png;base64,iVBORw0KGgo=", http.StatusCreated},
		{"", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.image, func(t *testing.T) {
			resp := app.do(t, http.MethodPost, "/api/memories", map[string]any{"venueId": "tunali-bosco", "image": tt.image})
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
	assert.Len(t, app.store.Memories(), 3)
}

func TestAPISpin(t *testing.T) {
	app := newTestApp(t, false)

	resp := app.do(t, http.MethodPost, "/api/spin", map[string]any{
		"category": "tatlı-kahve", "districts": []string{"Tunalı"}, "exclude": []string{"tunali-bosco"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[SpinResponse](t, resp)
	assert.Equal(t, got.Candidates[got.Index], got.Winner)
	assert.NotEqual(t, "tunali-bosco", got.Winner.ID)
	assert.Greater(t, got.Rotation, 0.0)

	resp = app.do(t, http.MethodPost, "/api/spin", map[string]any{"category": "yemek", "districts": []string{"Atlantis"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestMemoryFormWithoutPhoto(t *testing.T) {
	app := newTestApp(t, true)

	body := app.post(t, "/memories", url.Values{
		"venueId": {"tunali-bosco"},
		"date":    {"2024-05-05"},
		"note":    {"**great** cake"},
	})

	memories := app.store.Memories()
	require.Len(t, memories, 1)
	assert.Empty(t, memories[0].Image)
	assert.Zero(t, app.fake.CallCount("UploadPhoto"))
	assert.Contains(t, body, "<strong>great</strong> cake")
}

func TestMemoryFormWithPhoto(t *testing.T) {
	app := newTestApp(t, true)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("venueId", "tunali-bosco"))
	require.NoError(t, mw.WriteField("date", "2024-05-05"))
	fw, err := mw.CreateFormFile("photo", "cake.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := app.client.Post(app.server.URL+"/memories", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	memories := app.store.Memories()
	require.Len(t, memories, 1)
	assert.Equal(t, "https://photos.test/"+memories[0].ID+".png", memories[0].Image)
}

func TestVenuePages(t *testing.T) {
	app := newTestApp(t, false)

	body := app.post(t, "/districts", url.Values{"name": {"TestDistrict"}})
	assert.Contains(t, body, "TestDistrict")
	assert.Contains(t, body, "/districts/TestDistrict/delete", "empty district can be deleted")
	assert.NotContains(t, body, "/districts/Tunal%C4%B1/delete", "district with venues cannot")

	body = app.post(t, "/venues", url.Values{"name": {"Test Place"}, "district": {"TestDistrict"}, "category": {"yemek"}, "tags": {"x, y"}})
	assert.Contains(t, body, "Test Place")
	assert.NotContains(t, body, "/districts/TestDistrict/delete")

	body = app.post(t, "/venues", url.Values{"name": {""}, "district": {"TestDistrict"}, "category": {"yemek"}})
	assert.Contains(t, body, "name is required")
}

func TestWheelFlowOverHTTP(t *testing.T) {
	app := newTestApp(t, false)
	for _, name := range []string{"Tunalı Köfte", "Tunalı Pide", "Tunalı Mantı"} {
		_, res := app.store.AddVenue(context.Background(), catalog.Venue{Name: name, District: "Tunalı", Category: catalog.CategoryFood})
		require.True(t, res.OK())
	}

	body := app.post(t, "/wheel/mode", url.Values{"category": {"yemek"}})
	assert.Contains(t, body, `action="/wheel/districts"`)

	body = app.post(t, "/wheel/continue", nil)
	assert.Contains(t, body, flow.ErrNoDistricts.Error())

	app.post(t, "/wheel/districts", url.Values{"district": {"Tunalı"}})
	body = app.post(t, "/wheel/continue", nil)
	assert.Contains(t, body, "Tunalı Köfte")

	body = app.post(t, "/wheel/prepare", nil)
	assert.Contains(t, body, `<svg class="wheel"`)
	assert.Contains(t, body, `action="/wheel/spin"`)

	body = app.post(t, "/wheel/spin", nil)
	assert.Contains(t, body, `data-spinning="true"`)
	assert.Contains(t, body, `id="settle-form"`)

	time.Sleep(5 * time.Millisecond)
	body = app.post(t, "/wheel/settle", nil)
	assert.Contains(t, body, "Tonight it's")

	body = app.post(t, "/wheel/reroll", nil)
	assert.Contains(t, body, `action="/wheel/spin"`)

	app.post(t, "/wheel/spin", nil)
	time.Sleep(5 * time.Millisecond)
	app.post(t, "/wheel/settle", nil)
	body = app.post(t, "/wheel/accept", nil)
	assert.Contains(t, body, "Enjoy ")
	assert.Contains(t, body, `action="/wheel/mode"`)
}

func TestHomeRedirectsToWheel(t *testing.T) {
	app := newTestApp(t, false)
	resp := app.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/wheel"))
}
