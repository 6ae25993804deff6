package catalog

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// GroupByDistrict buckets venues under each district in district order.
// Venues referencing a district that is not in the list are left out.
func GroupByDistrict(districts []string, venues []Venue) []DistrictGroup {
	groups := make([]DistrictGroup, len(districts))
	index := make(map[string]int, len(districts))
	for i, d := range districts {
		groups[i] = DistrictGroup{Name: d}
		index[d] = i
	}
	for _, v := range venues {
		if i, ok := index[v.District]; ok {
			groups[i].Venues = append(groups[i].Venues, v)
		}
	}
	return groups
}

// SortByDateDesc returns a copy of memories ordered by date, newest first.
// Entries with the same date keep their relative order.
func SortByDateDesc(memories []Memory) []Memory {
	out := append([]Memory(nil), memories...)
	sort.SliceStable(out, func(i, j int) bool {
		return parseDate(out[i].Date).After(parseDate(out[j].Date))
	})
	return out
}

func parseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

// FindVenue returns the venue with the given id
func FindVenue(venues []Venue, id string) (Venue, bool) {
	for _, v := range venues {
		if v.ID == id {
			return v, true
		}
	}
	return Venue{}, false
}

// IDGen hands out time-based ids of the form <prefix>-<unix ms>.
// Ids are strictly increasing so two calls in the same millisecond never collide.
type IDGen struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGen(now func() time.Time) *IDGen {
	if now == nil {
		now = time.Now
	}
	return &IDGen{now: now}
}

func (g *IDGen) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s-%d", prefix, ms)
}

// Id prefixes
const (
	VenuePrefix     = "v"
	MemoryPrefix    = "mem"
	TemporaryPrefix = "temp"
)
