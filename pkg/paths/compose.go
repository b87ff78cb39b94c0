package paths

import (
	"fmt"
	"math"
	"sort"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/profile"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/gcpath/gcpath/pkg/waittime"
)

// planned is a green-card stage before placement.
type planned struct {
	id         catalog.StageID
	dur        catalog.Duration
	concurrent bool
	note       string
	cutoff     string
	estimate   *waittime.Estimate
}

// placement holds start and end times for one bound of the durations.
type placement struct {
	starts []float64
	ends   []float64
	end    float64
}

func minOf(d catalog.Duration) float64 { return d.Min }
func maxOf(d catalog.Duration) float64 { return d.Max }

// place lays plan out from start. A sequential stage starts when every
// earlier stage has ended; a concurrent one starts with its predecessor but
// still pushes the cursor out to its own end.
func place(plan []planned, start float64, bound func(catalog.Duration) float64) placement {
	pl := placement{starts: make([]float64, len(plan)), ends: make([]float64, len(plan)), end: start}
	prevStart := start
	for i, st := range plan {
		s := pl.end
		if st.concurrent && i > 0 {
			s = prevStart
		}
		e := s + bound(st.dur)
		pl.starts[i], pl.ends[i] = s, e
		if e > pl.end {
			pl.end = e
		}
		prevStart = s
	}
	return pl
}

// firstIndex returns the first planned stage matching pred, or -1.
func firstIndex(plan []planned, pred func(catalog.StageInfo) bool) int {
	for i, st := range plan {
		if pred(catalog.Stage(st.id)) {
			return i
		}
	}
	return -1
}

func lastIndex(plan []planned, pred func(catalog.StageInfo) bool) int {
	for i := len(plan) - 1; i >= 0; i-- {
		if pred(catalog.Stage(plan[i].id)) {
			return i
		}
	}
	return -1
}

// ordered lifts Max to Min when bounds measured from different placements
// cross.
func ordered(d catalog.Duration) catalog.Duration {
	if d.Min > d.Max {
		d.Max = d.Min
	}
	return d
}

func yearsToMonths(y float64) int { return int(math.Round(y * 12)) }

// Compose lays out one status path and method for p with default options.
func Compose(sp catalog.StatusPath, m catalog.GCMethod, cat catalog.Category, p profile.Profile, snap *snapshot.Snapshot) ComposedPath {
	return compose(sp, m, cat, p, snapshot.OrDefault(snap), Options{})
}

func compose(sp catalog.StatusPath, m catalog.GCMethod, cat catalog.Category, p profile.Profile, snap *snapshot.Snapshot, opts Options) ComposedPath {
	cp := ComposedPath{
		ID:             sp.ID + "_" + m.ID,
		StatusPathID:   sp.ID,
		StatusPathName: sp.Name,
		MethodID:       m.ID,
		MethodName:     m.Name,
		Category:       cat,
		IsSelfPetition: cat.SelfPetition(),
	}

	// Status track: end to end from zero.
	var statusMin, statusMax float64
	for _, ss := range sp.Stages {
		d := snap.StageDuration(ss.Stage, p)
		info := catalog.Stage(ss.Stage)
		cp.Stages = append(cp.Stages, ComposedStage{
			Stage:     ss.Stage,
			Name:      info.Name,
			Duration:  d,
			Track:     catalog.TrackStatus,
			StartYear: statusMax,
			Note:      ss.Note,
		})
		statusMin += d.Min
		statusMax += d.Max
	}

	startMin, startMax := gcStart(sp, m, p, statusMin, statusMax)

	plan := make([]planned, 0, len(m.Stages)+1)
	for _, ms := range m.Stages {
		plan = append(plan, planned{
			id:         ms.Stage,
			dur:        snap.StageDuration(ms.Stage, p),
			concurrent: ms.Concurrent,
			note:       ms.Note,
		})
	}

	pd := priorityDate(plan, p, m, cat, snap, startMax, opts)
	cp.PriorityDate = pd
	if bc, charted := cat.Chart(); charted {
		plan = applyBacklog(plan, pd, bc, p.Country, snap, startMin, startMax, opts.WaitModel())
	}

	hi := place(plan, startMax, maxOf)
	lo := place(plan, startMin, minOf)
	cp.Duration = catalog.Duration{
		Min: math.Max(statusMin, lo.end),
		Max: math.Max(statusMax, hi.end),
	}

	for i, st := range plan {
		info := catalog.Stage(st.id)
		cs := ComposedStage{
			Stage:        st.id,
			Name:         info.Name,
			Duration:     st.dur,
			Track:        catalog.TrackGreenCard,
			StartYear:    hi.starts[i],
			IsConcurrent: st.concurrent && i > 0,
			Note:         st.note,
			Cutoff:       st.cutoff,
		}
		if st.estimate != nil {
			cs.Velocity = st.estimate.Velocity
			cs.Explanation = st.estimate.Explanation
		}
		if info.Terminal {
			// the card arrives once both tracks are done
			cs.StartYear = cp.Duration.Max
		}
		cp.Stages = append(cp.Stages, cs)
	}
	sort.SliceStable(cp.Stages, func(i, j int) bool {
		return cp.Stages[i].StartYear < cp.Stages[j].StartYear
	})

	seen := map[catalog.StageID]bool{}
	for _, s := range cp.Stages {
		info := catalog.Stage(s.Stage)
		if info.LotteryGated {
			cp.IsLottery = true
		}
		if seen[s.Stage] {
			continue
		}
		seen[s.Stage] = true
		for _, f := range info.Forms {
			cp.EstimatedCost += snap.Fee(f)
		}
	}
	return cp
}

// gcStart is when green-card filing may begin, for each bound. A
// self-petition on a degree-granting path waits for the degree.
func gcStart(sp catalog.StatusPath, m catalog.GCMethod, p profile.Profile, statusMin, statusMax float64) (float64, float64) {
	lo, hi := sp.FilingOffset.Years, sp.FilingOffset.Years
	if sp.FilingOffset.NotApplicable {
		lo, hi = statusMin, statusMax
	}
	if m.SelfPetition() {
		if done, ok := sp.DegreeCompletion(p); ok {
			lo, hi = math.Max(lo, done.Min), math.Max(hi, done.Max)
		}
	}
	return lo, hi
}

// priorityDate is the existing date when it carries over to this path, else
// the month the date-establishing stage is filed.
func priorityDate(plan []planned, p profile.Profile, m catalog.GCMethod, cat catalog.Category, snap *snapshot.Snapshot, startMax float64, opts Options) bulletin.MonthYear {
	if existing, ok := carriesOver(p, m, cat, opts.Porting); ok {
		return existing
	}
	at := startMax
	if i := firstIndex(plan, func(s catalog.StageInfo) bool { return s.EstablishesPriorityDate }); i >= 0 {
		at = place(plan, startMax, maxOf).starts[i]
	}
	return snap.AsOfMonth().AddMonths(yearsToMonths(at))
}

// carriesOver decides whether the profile's existing priority date applies.
// The approved-petition method always keeps it; a family or investor
// petition starts a new queue.
func carriesOver(p profile.Profile, m catalog.GCMethod, cat catalog.Category, policy PortingPolicy) (bulletin.MonthYear, bool) {
	if p.PriorityDate == nil {
		return bulletin.MonthYear{}, false
	}
	date := p.PriorityDate.Date.MonthYear()
	if m.RequiresApprovedPetition {
		return date, true
	}
	bc, charted := cat.Chart()
	if !charted {
		return bulletin.MonthYear{}, false
	}
	if policy == PortSameOrLower && bc.Preference() < p.PriorityDate.Category.Preference() {
		return bulletin.MonthYear{}, false
	}
	return date, true
}

// applyBacklog folds the two bulletin waits into the plan. Waits are in
// years from path start. If filing is still blocked when the adjustment
// would be filed, a backlog stage goes after the petition and the adjustment
// stops being concurrent. The stage is zero length when filing opens before
// the petition is approved. Then, if final action is later than the
// adjustment would finish, the adjustment stretches to cover it.
func applyBacklog(plan []planned, pd bulletin.MonthYear, bc bulletin.Category, country profile.Country, snap *snapshot.Snapshot, startMin, startMax float64, model waittime.Model) []planned {
	adj := firstIndex(plan, func(s catalog.StageInfo) bool { return s.Adjustment })
	if adj < 0 {
		return plan
	}
	ch := country.Chargeability()
	filingCut := snap.Cutoff(bulletin.DatesForFiling, bc, ch)
	finalCut := snap.Cutoff(bulletin.FinalAction, bc, ch)
	filing := model.Calculate(pd, filingCut, country, bc)
	final := model.Calculate(pd, finalCut, country, bc)

	pet := lastIndex(plan[:adj], func(s catalog.StageInfo) bool { return s.Petition })
	hi := place(plan, startMax, maxOf)
	lo := place(plan, startMin, minOf)
	petEndHi, petEndLo := startMax, startMin
	if pet >= 0 {
		petEndHi, petEndLo = hi.ends[pet], lo.ends[pet]
	}

	if filing.Years() > hi.starts[adj] {
		wait := catalog.Duration{
			Min: math.Max(0, filing.Low/12-petEndLo),
			Max: math.Max(0, filing.High/12-petEndHi),
		}
		est := filing
		backlog := planned{
			id:       catalog.StagePDWait,
			dur:      ordered(wait),
			note:     fmt.Sprintf("Dates for filing cutoff %s; priority date %s", filingCut, pd),
			cutoff:   filingCut,
			estimate: &est,
		}
		insertAt := pet + 1
		if pet < 0 {
			insertAt = adj
		}
		next := make([]planned, 0, len(plan)+1)
		next = append(next, plan[:insertAt]...)
		next = append(next, backlog)
		next = append(next, plan[insertAt:]...)
		plan = next
		adj++
		plan[adj].concurrent = false
		hi = place(plan, startMax, maxOf)
		lo = place(plan, startMin, minOf)
	}

	if final.Months > 0 {
		need := catalog.Duration{
			Min: final.Low/12 - lo.starts[adj],
			Max: final.High/12 - hi.starts[adj],
		}
		if need.Max > plan[adj].dur.Max || need.Min > plan[adj].dur.Min {
			plan[adj].dur = ordered(plan[adj].dur.Widen(need))
			est := final
			plan[adj].cutoff = finalCut
			plan[adj].estimate = &est
			plan[adj].note = fmt.Sprintf("Approval waits for the final action cutoff %s", finalCut)
		}
	}
	return plan
}
