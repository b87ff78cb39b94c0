// Package profile defines the immigration profile the path engine runs on.
package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/gcpath/gcpath/pkg/bulletin"
)

// ErrInvalidProfile marks a caller contract violation: an enum or ordinal
// outside its enumerated values, or a priority date without a category.
var ErrInvalidProfile = errors.New("invalid profile")

// Date is the structured day/month/year record entered by the user.
type Date struct {
	Day   int `json:"day" yaml:"day"`
	Month int `json:"month" yaml:"month"`
	Year  int `json:"year" yaml:"year"`
}

// MonthYear drops the day, since the bulletin has no day resolution.
func (d Date) MonthYear() bulletin.MonthYear {
	return bulletin.MonthYear{Year: d.Year, Month: time.Month(d.Month)}
}

// PriorityDate is a previously established place in the queue.
type PriorityDate struct {
	Date     Date              `json:"date" yaml:"date"`
	Category bulletin.Category `json:"category" yaml:"category"`
}

// Profile is the filter state the engine computes paths for.
type Profile struct {
	Education  Education  `json:"education" yaml:"education"`
	Experience Experience `json:"experience" yaml:"experience"`
	Status     Status     `json:"status" yaml:"status"`
	Country    Country    `json:"country" yaml:"country"`

	ExtraordinaryAbility  bool `json:"extraordinary_ability" yaml:"extraordinary_ability"`
	OutstandingResearcher bool `json:"outstanding_researcher" yaml:"outstanding_researcher"`
	Executive             bool `json:"executive" yaml:"executive"`
	MarriedToCitizen      bool `json:"married_to_citizen" yaml:"married_to_citizen"`
	Investor              bool `json:"investor" yaml:"investor"`

	// TreatyCitizen is set when the person holds Canadian or Mexican
	// citizenship regardless of where they were born.
	TreatyCitizen bool `json:"treaty_citizen" yaml:"treaty_citizen"`
	// STEM marks a technical field of study, which extends post-graduation
	// work authorization.
	STEM bool `json:"stem" yaml:"stem"`

	HasApprovedPetition bool `json:"has_approved_petition" yaml:"has_approved_petition"`
	ChangingEmployer    bool `json:"changing_employer" yaml:"changing_employer"`

	PriorityDate *PriorityDate `json:"priority_date,omitempty" yaml:"priority_date,omitempty"`
}

// Validate checks every enumerated field. The returned error wraps
// ErrInvalidProfile.
func (p Profile) Validate() error {
	if p.Education.Rank() < 0 {
		return fmt.Errorf("%w: education %q", ErrInvalidProfile, p.Education)
	}
	if p.Experience.Rank() < 0 {
		return fmt.Errorf("%w: experience %q", ErrInvalidProfile, p.Experience)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidProfile, p.Status)
	}
	if !p.Country.Valid() {
		return fmt.Errorf("%w: country %q", ErrInvalidProfile, p.Country)
	}
	if pd := p.PriorityDate; pd != nil {
		if !pd.Category.Valid() {
			return fmt.Errorf("%w: priority date category %q", ErrInvalidProfile, pd.Category)
		}
		if pd.Date.Month < 1 || pd.Date.Month > 12 || pd.Date.Year < 1900 {
			return fmt.Errorf("%w: priority date %d/%d", ErrInvalidProfile, pd.Date.Month, pd.Date.Year)
		}
		if pd.Date.Day < 0 || pd.Date.Day > 31 {
			return fmt.Errorf("%w: priority date day %d", ErrInvalidProfile, pd.Date.Day)
		}
	}
	return nil
}

// CanUseTreatyVisa reports whether the USMCA citizenship gate is met.
func (p Profile) CanUseTreatyVisa() bool {
	return p.Country.USMCA() || p.TreatyCitizen
}

// KeepsApprovedPetition reports whether an approved petition can be carried
// forward without a new labor certification.
func (p Profile) KeepsApprovedPetition() bool {
	return p.HasApprovedPetition && !p.ChangingEmployer
}
