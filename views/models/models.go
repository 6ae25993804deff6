package models

// PageView carries what the shared layout needs
type PageView struct {
	Title         string
	Tab           string // venues, wheel or memories
	Flash         string
	RemoteEnabled bool
}

// VenueView represents a venue for template rendering
type VenueView struct {
	ID            string
	Name          string
	District      string
	Category      string
	CategoryLabel string
	Tags          []string
	IsCustom      bool
}

// DistrictGroupView is one collapsible district section
type DistrictGroupView struct {
	Name   string
	Venues []VenueView
	// Deletable is only true for districts no venue references
	Deletable bool
}

// CategoryOption is a choice in the category select and the mode step
type CategoryOption struct {
	Value string
	Label string
}

// MemoryView represents a memory for template rendering
type MemoryView struct {
	ID        string
	VenueName string
	Date      string
	NoteHTML  string
	Image     string
}

// VenueOption is a venue in the memory form's select
type VenueOption struct {
	ID    string
	Label string
}

// MemoryFormView holds the memory form's choices and defaults
type MemoryFormView struct {
	Venues      []VenueOption
	DefaultDate string
}

// DistrictChoice is a toggle on the district step
type DistrictChoice struct {
	Name     string
	Selected bool
	Count    int
}

// ChecklistRow is a venue on the checklist step
type ChecklistRow struct {
	Venue    VenueView
	Excluded bool
}

// SegmentView is one slice of the wheel
type SegmentView struct {
	Path   string
	Color  string
	Label  string
	X      float64
	Y      float64
	Rotate float64
}

// WheelView is the SVG wheel and its animation
type WheelView struct {
	Size        float64
	Segments    []SegmentView
	From        float64
	To          float64
	DurationMS  int64
	Easing      string
	Spinning    bool
	RemainingMS int64
}

// FlowView is the state of the wheel flow screen
type FlowView struct {
	Step          string
	Category      string
	CategoryLabel string
	Categories    []CategoryOption
	Districts     []DistrictChoice
	Checklist     []ChecklistRow
	Eligible      int
	MinWheelSize  int
	Wheel         WheelView
	Winner        *VenueView
	Error         string
}
