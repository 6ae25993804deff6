package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"datewheel/internal/catalog"
	"datewheel/internal/flow"
	"datewheel/internal/metrics"
	"datewheel/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with tools over the venue catalog and memory log
func NewServer(st *store.Store, m *metrics.Metrics) *server.MCPServer {
	s := server.NewMCPServer(
		"Date Wheel",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_districts - Districts with venue counts
	s.AddTool(
		mcp.NewTool("list_districts",
			mcp.WithDescription("List districts in display order with how many food and dessert/coffee venues each has. Use this before spinning to see which districts are worth selecting."),
		),
		handleListDistricts(st),
	)

	// Tool: list_venues - Venues with optional filters
	s.AddTool(
		mcp.NewTool("list_venues",
			mcp.WithDescription("List venues, optionally filtered by district and category."),
			mcp.WithString("district",
				mcp.Description("Optional: only venues in this district"),
			),
			mcp.WithString("category",
				mcp.Description("Optional: 'yemek' for food or 'tatlı-kahve' for dessert/coffee"),
			),
		),
		handleListVenues(st),
	)

	// Tool: add_venue - Add a venue to the catalog
	s.AddTool(
		mcp.NewTool("add_venue",
			mcp.WithDescription("Add a venue to the catalog. The district should already exist (see list_districts)."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Venue name")),
			mcp.WithString("district", mcp.Required(), mcp.Description("District name")),
			mcp.WithString("category", mcp.Required(), mcp.Description("'yemek' for food or 'tatlı-kahve' for dessert/coffee")),
			mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Optional free-text tags")),
		),
		handleAddVenue(st),
	)

	// Tool: spin_wheel - Pick a venue at random
	s.AddTool(
		mcp.NewTool("spin_wheel",
			mcp.WithDescription("Spin the wheel: pick one venue uniformly at random among venues of a category in the given districts, minus any excluded ids. Needs at least two eligible venues."),
			mcp.WithString("category",
				mcp.Required(),
				mcp.Description("'yemek' for food or 'tatlı-kahve' for dessert/coffee"),
			),
			mcp.WithArray("districts",
				mcp.Required(),
				mcp.WithStringItems(),
				mcp.Description("Districts to pick from"),
			),
			mcp.WithArray("exclude",
				mcp.WithStringItems(),
				mcp.Description("Optional: venue ids to leave off the wheel, e.g. a previous winner when re-spinning"),
			),
		),
		handleSpinWheel(st, m),
	)

	// Tool: list_memories - Memory log
	s.AddTool(
		mcp.NewTool("list_memories",
			mcp.WithDescription("List logged memories, newest visit first."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of memories to return (default: 20, max: 200)"),
			),
			mcp.WithString("since",
				mcp.Description("Optional: only memories on or after this date (YYYY-MM-DD)"),
			),
		),
		handleListMemories(st),
	)

	// Tool: add_memory - Log a visit
	s.AddTool(
		mcp.NewTool("add_memory",
			mcp.WithDescription("Log a memory of a visit to a venue. Photos can only be attached from the web UI."),
			mcp.WithString("venue_id", mcp.Required(), mcp.Description("Id of the visited venue")),
			mcp.WithString("note", mcp.Description("What happened, markdown allowed")),
			mcp.WithString("date", mcp.Description("Visit date as YYYY-MM-DD (default: today)")),
		),
		handleAddMemory(st),
	)

	return s
}

// DistrictResult is a district with venue counts per category
type DistrictResult struct {
	Name   string         `json:"name"`
	Venues int            `json:"venues"`
	ByMode map[string]int `json:"byCategory"`
}

// SpinResult is the outcome of spin_wheel
type SpinResult struct {
	Winner     catalog.Venue `json:"winner"`
	Candidates int           `json:"candidates"`
}

func handleListDistricts(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groups := st.Grouped()
		results := make([]DistrictResult, len(groups))
		for i, g := range groups {
			byMode := make(map[string]int, len(catalog.Categories))
			for _, v := range g.Venues {
				byMode[string(v.Category)]++
			}
			results[i] = DistrictResult{Name: g.Name, Venues: len(g.Venues), ByMode: byMode}
		}
		return jsonResult(results)
	}
}

func handleListVenues(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		district := req.GetString("district", "")
		category := catalog.Category(req.GetString("category", ""))
		if category != "" && !category.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown category %q", category)), nil
		}

		results := []catalog.Venue{}
		for _, v := range st.Venues() {
			if district != "" && v.District != district {
				continue
			}
			if category != "" && v.Category != category {
				continue
			}
			results = append(results, v)
		}
		return jsonResult(results)
	}
}

func handleAddVenue(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil || strings.TrimSpace(name) == "" {
			return mcp.NewToolResultError("name is required"), nil
		}
		district, err := req.RequireString("district")
		if err != nil || strings.TrimSpace(district) == "" {
			return mcp.NewToolResultError("district is required"), nil
		}
		category, err := req.RequireString("category")
		if err != nil || !catalog.Category(category).Valid() {
			return mcp.NewToolResultError("category must be 'yemek' or 'tatlı-kahve'"), nil
		}

		venue, res := st.AddVenue(ctx, catalog.Venue{
			Name:     strings.TrimSpace(name),
			District: strings.TrimSpace(district),
			Category: catalog.Category(category),
			Tags:     req.GetStringSlice("tags", []string{}),
			IsCustom: true,
		})
		if !res.OK() {
			return mcp.NewToolResultError(fmt.Sprintf("failed to add venue: %v", res.Err)), nil
		}
		return jsonResult(venue)
	}
}

func handleSpinWheel(st *store.Store, m *metrics.Metrics) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		category, err := req.RequireString("category")
		if err != nil || !catalog.Category(category).Valid() {
			return mcp.NewToolResultError("category must be 'yemek' or 'tatlı-kahve'"), nil
		}
		districts := req.GetStringSlice("districts", nil)
		if len(districts) == 0 {
			return mcp.NewToolResultError("districts is required"), nil
		}

		candidates := flow.Eligible(st.Venues(), catalog.Category(category), districts, req.GetStringSlice("exclude", nil))
		if len(candidates) < flow.MinWheelSize {
			return mcp.NewToolResultError(fmt.Sprintf("%v (found %d)", flow.ErrTooFewCandidates, len(candidates))), nil
		}

		winner, _, err := flow.Draw(candidates, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to spin: %v", err)), nil
		}
		m.ObserveSpin()
		return jsonResult(SpinResult{Winner: winner, Candidates: len(candidates)})
	}
}

func handleListMemories(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		if limit <= 0 || limit > 200 {
			limit = 200
		}

		var since time.Time
		if s := req.GetString("since", ""); s != "" {
			t, err := time.Parse(catalog.DateLayout, s)
			if err != nil {
				return mcp.NewToolResultError("invalid 'since' date, expected YYYY-MM-DD"), nil
			}
			since = t
		}

		results := []catalog.Memory{}
		for _, mem := range st.MemoriesByDate() {
			if len(results) == limit {
				break
			}
			if !since.IsZero() {
				d, err := time.Parse(catalog.DateLayout, mem.Date)
				if err != nil || d.Before(since) {
					continue
				}
			}
			// inline photos would flood the response
			if strings.HasPrefix(mem.Image, "data:") {
				mem.Image = "(inline photo)"
			}
			results = append(results, mem)
		}
		return jsonResult(results)
	}
}

func handleAddMemory(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		venueID, err := req.RequireString("venue_id")
		if err != nil {
			return mcp.NewToolResultError("venue_id is required"), nil
		}
		venue, ok := st.Venue(venueID)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("venue %q not found", venueID)), nil
		}

		date := req.GetString("date", "")
		if date != "" {
			if _, err := time.Parse(catalog.DateLayout, date); err != nil {
				return mcp.NewToolResultError("invalid date, expected YYYY-MM-DD"), nil
			}
		}

		memory, res := st.AddMemory(ctx, catalog.Memory{
			VenueID:   venue.ID,
			VenueName: venue.Name,
			Date:      date,
			Note:      strings.TrimSpace(req.GetString("note", "")),
		})
		if !res.OK() {
			return mcp.NewToolResultError(fmt.Sprintf("failed to add memory: %v", res.Err)), nil
		}
		return jsonResult(memory)
	}
}

// Helper functions

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}
