package catalog

// Category is the wheel mode a venue belongs to
type Category string

const (
	CategoryFood          Category = "yemek"
	CategoryDessertCoffee Category = "tatlı-kahve"
)

// Categories lists every category in display order
var Categories = []Category{CategoryFood, CategoryDessertCoffee}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	return c == CategoryFood || c == CategoryDessertCoffee
}

// Label returns the human-readable name of the category
func (c Category) Label() string {
	switch c {
	case CategoryFood:
		return "Food"
	case CategoryDessertCoffee:
		return "Dessert / Coffee"
	default:
		return string(c)
	}
}

// Venue is a place that can land on the wheel
type Venue struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	District string   `json:"district"`
	Category Category `json:"category"`
	Tags     []string `json:"tags"`
	IsCustom bool     `json:"isCustom,omitempty"`
}

// Memory is a log entry about a past visit.
// VenueName is a copy so the entry stays readable after the venue is deleted.
type Memory struct {
	ID        string `json:"id"`
	VenueID   string `json:"venueId"`
	VenueName string `json:"venueName"`
	Date      string `json:"date"` // YYYY-MM-DD
	Note      string `json:"note"`
	Image     string `json:"image,omitempty"` // data: URL or uploaded URL
}

// Snapshot holds all three collections
type Snapshot struct {
	Venues    []Venue
	Districts []string
	Memories  []Memory
}

// DistrictGroup is one district with the venues referencing it
type DistrictGroup struct {
	Name   string
	Venues []Venue
}

// DateLayout is the layout of Memory.Date
const DateLayout = "2006-01-02"
