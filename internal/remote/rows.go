package remote

import (
	"time"

	"datewheel/internal/catalog"
)

// Wire rows use the snake_case column names of the remote tables.

type venueRow struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	District  string     `json:"district"`
	Category  string     `json:"category"`
	Tags      []string   `json:"tags"`
	IsCustom  bool       `json:"is_custom"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type districtRow struct {
	Name      string     `json:"name"`
	SortOrder int        `json:"sort_order"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type memoryRow struct {
	ID        string     `json:"id"`
	VenueID   string     `json:"venue_id"`
	VenueName string     `json:"venue_name"`
	Date      string     `json:"date"`
	Note      string     `json:"note"`
	ImageURL  *string    `json:"image_url"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func venueToRow(v catalog.Venue) venueRow {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return venueRow{
		ID:       v.ID,
		Name:     v.Name,
		District: v.District,
		Category: string(v.Category),
		Tags:     tags,
		IsCustom: v.IsCustom,
	}
}

func rowToVenue(r venueRow) catalog.Venue {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return catalog.Venue{
		ID:       r.ID,
		Name:     r.Name,
		District: r.District,
		Category: catalog.Category(r.Category),
		Tags:     tags,
		IsCustom: r.IsCustom,
	}
}

func memoryToRow(m catalog.Memory) memoryRow {
	row := memoryRow{
		ID:        m.ID,
		VenueID:   m.VenueID,
		VenueName: m.VenueName,
		Date:      m.Date,
		Note:      m.Note,
	}
	if m.Image != "" {
		img := m.Image
		row.ImageURL = &img
	}
	return row
}

func rowToMemory(r memoryRow) catalog.Memory {
	m := catalog.Memory{
		ID:        r.ID,
		VenueID:   r.VenueID,
		VenueName: r.VenueName,
		Date:      r.Date,
		Note:      r.Note,
	}
	if r.ImageURL != nil {
		m.Image = *r.ImageURL
	}
	return m
}

// venuesToRows stamps each row one microsecond after the previous one, so a
// batch inserted in a single statement or transaction still lists in order.
func venuesToRows(venues []catalog.Venue, now time.Time) []venueRow {
	base := now.UTC().Truncate(time.Microsecond)
	rows := make([]venueRow, len(venues))
	for i, v := range venues {
		rows[i] = venueToRow(v)
		created := base.Add(time.Duration(i) * time.Microsecond)
		rows[i].CreatedAt = &created
	}
	return rows
}

func districtsToRows(names []string) []districtRow {
	rows := make([]districtRow, len(names))
	for i, name := range names {
		rows[i] = districtRow{Name: name, SortOrder: i}
	}
	return rows
}
