// Package eligibility decides which status paths a profile may start and
// which filing methods can be layered onto each of them.
package eligibility

import (
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/profile"
)

// Pair is one eligible status path with one compatible method.
type Pair struct {
	StatusPath catalog.StatusPath
	Method     catalog.GCMethod
}

// ID is the deterministic path id, "{statusPath}_{method}".
func (pr Pair) ID() string { return pr.StatusPath.ID + "_" + pr.Method.ID }

// EffectiveEducation is the degree the person holds once the status path is
// complete: a student path raises it, nothing lowers it.
func EffectiveEducation(p profile.Profile, sp catalog.StatusPath) profile.Education {
	if sp.GrantsEducation == "" {
		return p.Education
	}
	return p.Education.Max(sp.GrantsEducation)
}

// IsEligibleStatusPath reports whether p may start sp: the current status
// must be a valid starting point and the path requirements must hold
// against the education the person has today.
func IsEligibleStatusPath(p profile.Profile, sp catalog.StatusPath) bool {
	if !sp.StartsFrom(p.Status) {
		return false
	}
	return sp.Requires.Matches(p, p.Education)
}

// IsCompatible reports whether m can follow sp for p.
func IsCompatible(sp catalog.StatusPath, m catalog.GCMethod, p profile.Profile) bool {
	if m.RequiresCapability != "" && !sp.HasCapability(m.RequiresCapability) {
		return false
	}
	if m.RequiresLaborCert {
		// labor certification needs a sponsoring employer
		if !sp.HasCapability(catalog.CapEmployment) {
			return false
		}
		if p.KeepsApprovedPetition() {
			return false
		}
	}
	if m.RequiresApprovedPetition && !p.KeepsApprovedPetition() {
		return false
	}
	return m.Requires.Matches(p, EffectiveEducation(p, sp))
}

// StatusPaths filters the catalog to the paths p may start, in catalog order.
func StatusPaths(p profile.Profile) []catalog.StatusPath {
	var out []catalog.StatusPath
	for _, sp := range catalog.StatusPaths() {
		if IsEligibleStatusPath(p, sp) {
			out = append(out, sp)
		}
	}
	return out
}

// Pairs cross-products eligible status paths with compatible methods, in
// catalog order on both axes.
func Pairs(p profile.Profile) []Pair {
	methods := catalog.GCMethods()
	var out []Pair
	for _, sp := range StatusPaths(p) {
		for _, m := range methods {
			if IsCompatible(sp, m, p) {
				out = append(out, Pair{StatusPath: sp, Method: m})
			}
		}
	}
	return out
}
