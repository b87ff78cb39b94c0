package paths

import (
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/eligibility"
	"github.com/gcpath/gcpath/pkg/profile"
	"github.com/gcpath/gcpath/pkg/snapshot"
)

// Generate returns every path available to p, ranked. A nil snapshot means
// snapshot.Default(). The only error is an invalid profile.
func Generate(p profile.Profile, snap *snapshot.Snapshot) ([]ComposedPath, error) {
	return GenerateWithOptions(p, snap, Options{})
}

// GenerateWithOptions is Generate with explicit options.
func GenerateWithOptions(p profile.Profile, snap *snapshot.Snapshot, opts Options) ([]ComposedPath, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	snap = snapshot.OrDefault(snap)

	pairs := eligibility.Pairs(p)
	out := make([]ComposedPath, 0, len(pairs))
	for _, pr := range pairs {
		cat := EffectiveCategory(p, pr.StatusPath, pr.Method)
		out = append(out, compose(pr.StatusPath, pr.Method, cat, p, snap, opts))
	}
	Sort(out)
	return out, nil
}

// EffectiveCategory is the method's fixed category, else the one the
// education after the status path earns: a master's or better, or a
// bachelor's with five years of experience, is EB-2; anything else EB-3.
// Filing on an approved petition keeps that petition's category.
func EffectiveCategory(p profile.Profile, sp catalog.StatusPath, m catalog.GCMethod) catalog.Category {
	if m.FixedCategory != "" {
		return m.FixedCategory
	}
	if m.RequiresApprovedPetition && p.PriorityDate != nil {
		return catalog.FromBulletin(p.PriorityDate.Category)
	}
	edu := eligibility.EffectiveEducation(p, sp)
	if edu.AtLeast(profile.Masters) || (edu == profile.Bachelors && p.Experience.AtLeast(profile.Experience5Plus)) {
		return catalog.CatEB2
	}
	return catalog.CatEB3
}
