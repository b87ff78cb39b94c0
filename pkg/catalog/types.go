// Package catalog holds the static rule tables: the closed set of stages a
// path can contain, the ways to hold work authorization (status paths) and
// the ways to file for the green card (methods).
package catalog

import (
	"strconv"

	"github.com/gcpath/gcpath/pkg/profile"
)

// Duration is a range in years.
type Duration struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Fixed returns a zero-width range.
func Fixed(years float64) Duration { return Duration{Min: years, Max: years} }

// Mid is the expected value used for ranking.
func (d Duration) Mid() float64 { return (d.Min + d.Max) / 2 }

// Widen returns d with both bounds raised to at least o's bounds.
func (d Duration) Widen(o Duration) Duration {
	if o.Min > d.Min {
		d.Min = o.Min
	}
	if o.Max > d.Max {
		d.Max = o.Max
	}
	return d
}

// Track separates stages that keep a person in status from stages that
// move the green-card case forward.
type Track string

const (
	TrackStatus    Track = "status"
	TrackGreenCard Track = "greencard"
)

// Capability is a tag a status path declares about what it provides.
type Capability string

const (
	// CapEmployment: the path includes a sponsoring US employer.
	CapEmployment Capability = "employment"
	// CapMultinationalTransfer: the path is an intra-company executive transfer.
	CapMultinationalTransfer Capability = "multinational_transfer"
	// CapDegree: the path includes earning a US degree.
	CapDegree Capability = "degree"
)

// Requirements is the declarative eligibility predicate of a rule-table
// entry. Zero values impose no constraint.
type Requirements struct {
	MinEducation profile.Education `json:"min_education,omitempty"`
	MaxEducation profile.Education `json:"max_education,omitempty"`
	// AllowExperienceSubstitution lets a bachelor's degree plus five years of
	// progressive experience stand in for a master's minimum.
	AllowExperienceSubstitution bool               `json:"allow_experience_substitution,omitempty"`
	MinExperience               profile.Experience `json:"min_experience,omitempty"`

	ExtraordinaryAbility  bool `json:"extraordinary_ability,omitempty"`
	OutstandingResearcher bool `json:"outstanding_researcher,omitempty"`
	Executive             bool `json:"executive,omitempty"`
	MarriedToCitizen      bool `json:"married_to_citizen,omitempty"`
	Investor              bool `json:"investor,omitempty"`

	// TreatyCitizenship gates USMCA visas on Canadian or Mexican citizenship.
	TreatyCitizenship bool `json:"treaty_citizenship,omitempty"`
}

// Offset is when a green-card filing may begin, in years from the start of
// the status path. NotApplicable means only after the status track ends.
type Offset struct {
	Years         float64
	NotApplicable bool
}

// At returns an applicable offset.
func At(years float64) Offset { return Offset{Years: years} }

// NotApplicable is the offset of paths that cannot file while in progress.
var NotApplicable = Offset{NotApplicable: true}

func (o Offset) MarshalJSON() ([]byte, error) {
	if o.NotApplicable {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(o.Years, 'f', -1, 64)), nil
}

// StatusStage is one step of a status path.
type StatusStage struct {
	Stage StageID `json:"stage"`
	Note  string  `json:"note,omitempty"`
}

// StatusPath is a way to hold work authorization while the green card is
// pursued.
type StatusPath struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	ValidFrom       []profile.Status  `json:"valid_from"`
	Requires        Requirements      `json:"requires"`
	Stages          []StatusStage     `json:"stages"`
	FilingOffset    Offset            `json:"filing_offset"`
	GrantsEducation profile.Education `json:"grants_education,omitempty"`
	Capabilities    []Capability      `json:"capabilities,omitempty"`
}

// HasCapability reports whether the path declares c.
func (sp StatusPath) HasCapability(c Capability) bool {
	for _, have := range sp.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// StartsFrom reports whether the path may begin from status s.
func (sp StatusPath) StartsFrom(s profile.Status) bool {
	for _, v := range sp.ValidFrom {
		if v == s {
			return true
		}
	}
	return false
}

// DegreeCompletion returns when the granted degree is finished, summing the
// minimum and maximum status stage durations up to the degree stage. ok is
// false when the path grants no degree.
func (sp StatusPath) DegreeCompletion(p profile.Profile) (done Duration, ok bool) {
	if sp.GrantsEducation == "" {
		return Duration{}, false
	}
	var cursor Duration
	for _, st := range sp.Stages {
		d := StageDuration(st.Stage, p)
		cursor.Min += d.Min
		cursor.Max += d.Max
		if Stage(st.Stage).GrantsDegree {
			done, ok = cursor, true
		}
	}
	return done, ok
}

// MethodStage is one step of a green-card method.
type MethodStage struct {
	Stage StageID `json:"stage"`
	// Concurrent starts the stage together with the previous one.
	Concurrent bool   `json:"concurrent,omitempty"`
	Note       string `json:"note,omitempty"`
}

// GCMethod is a way to file for the green card.
type GCMethod struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	RequiresLaborCert bool          `json:"requires_labor_cert,omitempty"`
	Stages            []MethodStage `json:"stages"`
	Requires          Requirements  `json:"requires"`
	// FixedCategory overrides the education-derived category.
	FixedCategory Category `json:"fixed_category,omitempty"`
	// RequiresCapability restricts which status paths the method layers onto.
	RequiresCapability Capability `json:"requires_capability,omitempty"`
	// RequiresApprovedPetition marks the method that reuses an approved
	// petition instead of a new labor certification.
	RequiresApprovedPetition bool `json:"requires_approved_petition,omitempty"`
}

// SelfPetition reports whether the method is filed without a sponsor.
func (m GCMethod) SelfPetition() bool { return m.FixedCategory.SelfPetition() }
