package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datewheel/internal/catalog"
	"datewheel/internal/metrics"
	"datewheel/internal/persist"
	"datewheel/internal/store"
)

func newTestStore() *store.Store {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter := persist.NewAdapter(persist.NewMemory(), log)
	return store.New(adapter, catalog.Snapshot{
		Venues:    catalog.SeedVenues(),
		Districts: catalog.SeedDistricts(),
	}, store.WithLogger(log))
}

func call(t *testing.T, st *store.Store, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	srv := NewServer(st, metrics.New("test"))
	registered := srv.GetTool(tool)
	require.NotNil(t, registered, tool)

	var req mcp.CallToolRequest
	req.Params.Name = tool
	req.Params.Arguments = args
	res, err := registered.Handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestListDistricts(t *testing.T) {
	res := call(t, newTestStore(), "list_districts", nil)
	require.False(t, res.IsError)

	var got []DistrictResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
	require.Len(t, got, len(catalog.SeedDistricts()))
	assert.Equal(t, "Tunalı", got[0].Name)
}

func TestListVenuesFilters(t *testing.T) {
	st := newTestStore()

	res := call(t, st, "list_venues", map[string]any{"district": "Tunalı", "category": "tatlı-kahve"})
	require.False(t, res.IsError)
	var got []catalog.Venue
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
	require.NotEmpty(t, got)
	for _, v := range got {
		assert.Equal(t, "Tunalı", v.District)
		assert.Equal(t, catalog.CategoryDessertCoffee, v.Category)
	}

	res = call(t, st, "list_venues", map[string]any{"category": "drinks"})
	assert.True(t, res.IsError)
}

func TestSpinWheel(t *testing.T) {
	st := newTestStore()
	res := call(t, st, "spin_wheel", map[string]any{
		"category":  "tatlı-kahve",
		"districts": []any{"Tunalı"},
		"exclude":   []any{"tunali-bosco"},
	})
	require.False(t, res.IsError, text(t, res))

	var got SpinResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
	assert.Equal(t, "Tunalı", got.Winner.District)
	assert.NotEqual(t, "tunali-bosco", got.Winner.ID)

	res = call(t, st, "spin_wheel", map[string]any{"category": "yemek", "districts": []any{"Nowhere"}})
	assert.True(t, res.IsError)
}

func TestAddVenueAndMemory(t *testing.T) {
	st := newTestStore()

	res := call(t, st, "add_venue", map[string]any{
		"name": "Test Place", "district": "Koru", "category": "yemek", "tags": []any{"new"},
	})
	require.False(t, res.IsError, text(t, res))
	var venue catalog.Venue
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &venue))
	assert.Equal(t, []string{"new"}, venue.Tags)

	res = call(t, st, "add_memory", map[string]any{"venue_id": venue.ID, "note": "lovely", "date": "2024-04-04"})
	require.False(t, res.IsError, text(t, res))

	res = call(t, st, "list_memories", map[string]any{"since": "2024-01-01"})
	var memories []catalog.Memory
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &memories))
	require.Len(t, memories, 1)
	assert.Equal(t, "Test Place", memories[0].VenueName)

	res = call(t, st, "add_memory", map[string]any{"venue_id": "missing"})
	assert.True(t, res.IsError)
	res = call(t, st, "add_memory", map[string]any{"venue_id": venue.ID, "date": "04/04/2024"})
	assert.True(t, res.IsError)
}
