package snapshot

import (
	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/profile"
)

// dolSpread widens a DOL backlog into a range; the queue moves unevenly.
const dolSpread = 1.25

// Processing returns the USCIS processing time for a form, falling back to
// the default table.
func (s *Snapshot) Processing(form catalog.FormID) (FormTime, bool) {
	if s != nil {
		if ft, ok := s.USCIS[form]; ok && ft.MaxMonths > 0 {
			return ft, true
		}
	}
	ft, ok := defaultUSCIS[form]
	return ft, ok
}

// Fee returns the official fee for a form: the snapshot value, else the
// default, else ConservativeFee.
func (s *Snapshot) Fee(form catalog.FormID) int {
	if s != nil {
		if fee, ok := s.Fees[form]; ok && fee > 0 {
			return fee
		}
	}
	if fee, ok := defaultFees[form]; ok {
		return fee
	}
	return ConservativeFee
}

// Cutoff returns a bulletin cell. A missing cell falls back to the default
// chart, which is complete.
func (s *Snapshot) Cutoff(kind bulletin.ChartKind, cat bulletin.Category, ch bulletin.Chargeability) string {
	if s != nil {
		if cell, ok := s.Bulletin.Chart(kind).Cutoff(cat, ch); ok {
			return cell
		}
	}
	cell, _ := frozen.Bulletin.Chart(kind).Cutoff(cat, ch)
	return cell
}

// AsOfMonth is the month waits and queues are measured from.
func (s *Snapshot) AsOfMonth() bulletin.MonthYear {
	if s == nil || s.AsOf.IsZero() {
		return DefaultAsOf
	}
	return s.AsOf
}

// queueDuration turns a DOL "currently processing" month into a duration:
// the queue is as long as the distance from that month to AsOf.
func (s *Snapshot) queueDuration(q catalog.DOLQueue) (catalog.Duration, bool) {
	cut := ""
	if s != nil {
		cut = s.DOL.Queue(q)
	}
	if cut == "" {
		cut = defaultDOL.Queue(q)
	}
	m, err := bulletin.ParseMonthYear(cut)
	if err != nil {
		return catalog.Duration{}, false
	}
	months := m.MonthsUntil(s.AsOfMonth())
	if months <= 0 {
		return catalog.Duration{}, false
	}
	years := float64(months) / 12
	return catalog.Duration{Min: years, Max: years * dolSpread}, true
}

// StageDuration resolves a stage's duration: live USCIS or DOL data when the
// stage is driven by it, else the catalog default.
func (s *Snapshot) StageDuration(id catalog.StageID, p profile.Profile) catalog.Duration {
	info := catalog.Stage(id)
	if info.USCISForm != "" {
		if ft, ok := s.Processing(info.USCISForm); ok {
			return ft.Years()
		}
	}
	if info.Queue != "" {
		if d, ok := s.queueDuration(info.Queue); ok {
			return d
		}
	}
	return catalog.StageDuration(id, p)
}
