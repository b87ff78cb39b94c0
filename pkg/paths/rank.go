package paths

import (
	"math"
	"sort"
)

// TieBand is how close two expected durations must be, in years, to be
// ranked by risk instead.
const TieBand = 0.5

// Sort orders paths in place: fastest expected green card first, then lower
// category risk, then fewer steps. The sort is stable.
func Sort(ps []ComposedPath) {
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}

func less(a, b ComposedPath) bool {
	ma, mb := a.Duration.Mid(), b.Duration.Mid()
	if math.Abs(ma-mb) > TieBand {
		return ma < mb
	}
	if ra, rb := a.Category.Risk(), b.Category.Risk(); ra != rb {
		return ra < rb
	}
	return a.Steps() < b.Steps()
}
