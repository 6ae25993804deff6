package flow

import (
	"math/rand/v2"
	"slices"

	"datewheel/internal/catalog"
	"datewheel/internal/wheel"
)

// Eligible filters venues the same way the checklist does: category and
// district must match and the id must not be excluded
func Eligible(venues []catalog.Venue, c catalog.Category, districts, exclude []string) []catalog.Venue {
	var out []catalog.Venue
	for _, v := range venues {
		if v.Category == c && slices.Contains(districts, v.District) && !slices.Contains(exclude, v.ID) {
			out = append(out, v)
		}
	}
	return out
}

// Draw is a one-shot spin for callers that do not animate the wheel.
// It picks uniformly among candidates and returns the plan a wheel would play.
func Draw(candidates []catalog.Venue, r *rand.Rand) (catalog.Venue, wheel.Plan, error) {
	var opts []wheel.Option
	if r != nil {
		opts = append(opts, wheel.WithRand(r))
	}
	plan, err := wheel.NewSpinner(opts...).Spin(len(candidates))
	if err != nil {
		return catalog.Venue{}, wheel.Plan{}, err
	}
	return candidates[plan.Index], plan, nil
}
