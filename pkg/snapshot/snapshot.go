// Package snapshot is the processing-data boundary of the engine: DOL queue
// cutoffs, USCIS processing times, the visa bulletin and filing fees. The
// engine reads it, never fetches it.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
)

// ErrInvalidSnapshot is returned by Validate for data that is present but
// malformed.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// DOL holds the Department of Labor "currently processing" months.
type DOL struct {
	PrevailingWage string `json:"prevailing_wage,omitempty" yaml:"prevailing_wage,omitempty"`
	PERM           string `json:"perm,omitempty" yaml:"perm,omitempty"`
}

// Queue returns the cutoff for a catalog queue.
func (d DOL) Queue(q catalog.DOLQueue) string {
	switch q {
	case catalog.QueuePrevailingWage:
		return d.PrevailingWage
	case catalog.QueuePERM:
		return d.PERM
	}
	return ""
}

// FormTime is a published USCIS processing-time range in months.
// PremiumMonths is zero when premium processing is not offered.
type FormTime struct {
	MinMonths     float64 `json:"min_months" yaml:"min_months"`
	MaxMonths     float64 `json:"max_months" yaml:"max_months"`
	PremiumMonths float64 `json:"premium_months,omitempty" yaml:"premium_months,omitempty"`
}

// Years converts the standard range to a catalog duration.
func (f FormTime) Years() catalog.Duration {
	return catalog.Duration{Min: f.MinMonths / 12, Max: f.MaxMonths / 12}
}

// Snapshot is one consistent view of the external data. A nil *Snapshot
// stands for Default().
type Snapshot struct {
	AsOf     bulletin.MonthYear          `json:"as_of" yaml:"as_of"`
	DOL      DOL                         `json:"dol" yaml:"dol"`
	USCIS    map[catalog.FormID]FormTime `json:"uscis,omitempty" yaml:"uscis,omitempty"`
	Bulletin bulletin.Charts             `json:"bulletin" yaml:"bulletin"`
	Fees     map[catalog.FormID]int      `json:"fees,omitempty" yaml:"fees,omitempty"`
}

// Validate checks the values that are present. Missing sections are fine:
// lookups fall back to the defaults.
func (s *Snapshot) Validate() error {
	if s == nil {
		return nil
	}
	for _, kind := range []bulletin.ChartKind{bulletin.FinalAction, bulletin.DatesForFiling} {
		for cat, row := range s.Bulletin.Chart(kind) {
			if !cat.Valid() {
				return fmt.Errorf("%w: %s: unknown category %q", ErrInvalidSnapshot, kind, cat)
			}
			for _, ch := range bulletin.Chargeabilities {
				cell := row.Cell(ch)
				if cell != "" && !bulletin.ValidCell(cell) {
					return fmt.Errorf("%w: %s %s %s: bad cell %q", ErrInvalidSnapshot, kind, cat, ch, cell)
				}
			}
		}
	}
	for _, cut := range []string{s.DOL.PrevailingWage, s.DOL.PERM} {
		if cut == "" {
			continue
		}
		if _, err := bulletin.ParseMonthYear(cut); err != nil {
			return fmt.Errorf("%w: dol: %v", ErrInvalidSnapshot, err)
		}
	}
	for form, ft := range s.USCIS {
		if ft.MinMonths < 0 || ft.MaxMonths < ft.MinMonths || ft.PremiumMonths < 0 {
			return fmt.Errorf("%w: uscis %s: bad range %.1f-%.1f", ErrInvalidSnapshot, form, ft.MinMonths, ft.MaxMonths)
		}
	}
	for form, fee := range s.Fees {
		if fee < 0 {
			return fmt.Errorf("%w: fee %s: %d", ErrInvalidSnapshot, form, fee)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.USCIS = make(map[catalog.FormID]FormTime, len(s.USCIS))
	for k, v := range s.USCIS {
		out.USCIS[k] = v
	}
	out.Fees = make(map[catalog.FormID]int, len(s.Fees))
	for k, v := range s.Fees {
		out.Fees[k] = v
	}
	out.Bulletin = bulletin.Charts{
		FinalAction:    cloneChart(s.Bulletin.FinalAction),
		DatesForFiling: cloneChart(s.Bulletin.DatesForFiling),
	}
	return &out
}

func cloneChart(c bulletin.Chart) bulletin.Chart {
	if c == nil {
		return nil
	}
	out := make(bulletin.Chart, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge overlays the non-empty parts of part onto s. Sources each fill a
// subset of the snapshot and are merged in turn.
func (s *Snapshot) Merge(part *Snapshot) {
	if part == nil {
		return
	}
	if !part.AsOf.IsZero() && part.AsOf.After(s.AsOf) {
		s.AsOf = part.AsOf
	}
	if part.DOL.PrevailingWage != "" {
		s.DOL.PrevailingWage = part.DOL.PrevailingWage
	}
	if part.DOL.PERM != "" {
		s.DOL.PERM = part.DOL.PERM
	}
	if len(part.USCIS) > 0 && s.USCIS == nil {
		s.USCIS = map[catalog.FormID]FormTime{}
	}
	for k, v := range part.USCIS {
		s.USCIS[k] = v
	}
	if len(part.Fees) > 0 && s.Fees == nil {
		s.Fees = map[catalog.FormID]int{}
	}
	for k, v := range part.Fees {
		s.Fees[k] = v
	}
	if len(part.Bulletin.FinalAction) > 0 {
		s.Bulletin.FinalAction = cloneChart(part.Bulletin.FinalAction)
	}
	if len(part.Bulletin.DatesForFiling) > 0 {
		s.Bulletin.DatesForFiling = cloneChart(part.Bulletin.DatesForFiling)
	}
}
