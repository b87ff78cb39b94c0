package catalog

import "github.com/gcpath/gcpath/pkg/profile"

// Matches evaluates r against p, using edu in place of the profile's own
// education. Callers pass the degree a status path grants when it exceeds
// the current one.
func (r Requirements) Matches(p profile.Profile, edu profile.Education) bool {
	if !r.educationOK(edu, p.Experience) {
		return false
	}
	if r.MaxEducation != "" && edu.Rank() > r.MaxEducation.Rank() {
		return false
	}
	if r.MinExperience != "" && !p.Experience.AtLeast(r.MinExperience) {
		return false
	}
	switch {
	case r.ExtraordinaryAbility && !p.ExtraordinaryAbility,
		r.OutstandingResearcher && !p.OutstandingResearcher,
		r.Executive && !p.Executive,
		r.MarriedToCitizen && !p.MarriedToCitizen,
		r.Investor && !p.Investor:
		return false
	}
	if r.TreatyCitizenship && !p.CanUseTreatyVisa() {
		return false
	}
	return true
}

func (r Requirements) educationOK(edu profile.Education, exp profile.Experience) bool {
	if r.MinEducation == "" || edu.AtLeast(r.MinEducation) {
		return true
	}
	// bachelor's plus five years counts as a master's
	return r.AllowExperienceSubstitution &&
		r.MinEducation == profile.Masters &&
		edu == profile.Bachelors &&
		exp.AtLeast(profile.Experience5Plus)
}
