package paths

import (
	"testing"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/profile"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/gcpath/gcpath/pkg/waittime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, p profile.Profile) []ComposedPath {
	t.Helper()
	out, err := Generate(p, nil)
	require.NoError(t, err)
	return out
}

func find(t *testing.T, ps []ComposedPath, id string) ComposedPath {
	t.Helper()
	for _, cp := range ps {
		if cp.ID == id {
			return cp
		}
	}
	require.Failf(t, "path not found", "%s", id)
	return ComposedPath{}
}

func stage(t *testing.T, cp ComposedPath, id catalog.StageID) ComposedStage {
	t.Helper()
	s, ok := cp.Stage(id)
	require.True(t, ok, "%s has no %s", cp.ID, id)
	return s
}

func indiaEB2() profile.Profile {
	return profile.Profile{
		Education:  profile.Masters,
		Experience: profile.Experience5Plus,
		Status:     profile.StatusH1B,
		Country:    profile.India,
		PriorityDate: &profile.PriorityDate{
			Date:     profile.Date{Day: 15, Month: 1, Year: 2023},
			Category: bulletin.EB2,
		},
	}
}

// profiles spans the qualification space for the property tests.
func profiles() []profile.Profile {
	var out []profile.Profile
	for _, edu := range profile.Educations {
		for _, st := range profile.Statuses {
			for _, c := range []profile.Country{profile.India, profile.China, profile.Canada, profile.OtherCountry} {
				out = append(out, profile.Profile{
					Education:            edu,
					Experience:           profile.Experience5Plus,
					Status:               st,
					Country:              c,
					ExtraordinaryAbility: c == profile.China,
					Executive:            st == profile.StatusL1,
					MarriedToCitizen:     edu == profile.Bachelors,
					Investor:             edu == profile.HighSchool,
					STEM:                 c == profile.India,
				})
			}
		}
	}
	return append(out, indiaEB2())
}

func TestBacklogInsertsWaitStage(t *testing.T) {
	cp := find(t, generate(t, indiaEB2()), "keep_status_perm")
	assert.Equal(t, catalog.CatEB2, cp.Category)
	assert.Equal(t, "Jan 2023", cp.PriorityDate.String())

	wait := stage(t, cp, catalog.StagePDWait)
	adj := stage(t, cp, catalog.StageI485)
	petition := stage(t, cp, catalog.StageI140)

	assert.False(t, adj.IsConcurrent)
	assert.Equal(t, "Dec 2013", wait.Cutoff)
	require.NotNil(t, wait.Velocity)
	assert.Equal(t, 109, wait.Velocity.MonthsBehind)
	assert.InDelta(t, petition.EndYear(), wait.StartYear, 1e-9)
	assert.InDelta(t, wait.EndYear(), adj.StartYear, 1e-9)
	assert.Greater(t, cp.Duration.Min, wait.Duration.Min)
}

func TestBacklogBeforeAdjustmentWithoutPetition(t *testing.T) {
	p := indiaEB2()
	p.HasApprovedPetition = true
	cp := find(t, generate(t, p), "keep_status_direct")
	assert.Equal(t, catalog.CatEB2, cp.Category)

	wait := stage(t, cp, catalog.StagePDWait)
	assert.Zero(t, wait.StartYear)
	assert.False(t, stage(t, cp, catalog.StageI485).IsConcurrent)
}

func TestCurrentCategoryFilesConcurrently(t *testing.T) {
	p := profile.Profile{
		Education:            profile.Doctorate,
		Experience:           profile.Experience5Plus,
		Status:               profile.StatusO1,
		Country:              profile.OtherCountry,
		ExtraordinaryAbility: true,
	}
	cp := find(t, generate(t, p), "keep_status_eb1a")
	assert.True(t, cp.IsSelfPetition)
	_, hasWait := cp.Stage(catalog.StagePDWait)
	assert.False(t, hasWait)

	petition := stage(t, cp, catalog.StageI140)
	adj := stage(t, cp, catalog.StageI485)
	assert.True(t, adj.IsConcurrent)
	assert.Equal(t, petition.StartYear, adj.StartYear)
	// I-140 6-9 months, I-485 10-18 months, side by side
	assert.InDelta(t, 10.0/12, cp.Duration.Min, 1e-9)
	assert.InDelta(t, 1.5, cp.Duration.Max, 1e-9)
}

func extraordinaryO1() profile.Profile {
	return profile.Profile{
		Education:            profile.Doctorate,
		Experience:           profile.Experience5Plus,
		Status:               profile.StatusO1,
		Country:              profile.OtherCountry,
		ExtraordinaryAbility: true,
	}
}

func TestFilingOpensDuringPetition(t *testing.T) {
	snap := snapshot.Default()
	snap.Bulletin.DatesForFiling[bulletin.EB1] = bulletin.Row{AllOther: "Jun 2024", China: "Jun 2024", India: "Jun 2024"}
	ps, err := Generate(extraordinaryO1(), snap)
	require.NoError(t, err)
	cp := find(t, ps, "keep_status_eb1a")
	assert.Equal(t, "Oct 2024", cp.PriorityDate.String())

	filing := waittime.Calculate(cp.PriorityDate, "Jun 2024", profile.OtherCountry, bulletin.EB1)
	require.Positive(t, filing.Months)

	petition := stage(t, cp, catalog.StageI140)
	wait := stage(t, cp, catalog.StagePDWait)
	adj := stage(t, cp, catalog.StageI485)
	assert.Equal(t, "Jun 2024", wait.Cutoff)
	assert.False(t, adj.IsConcurrent)
	assert.Less(t, filing.Years(), petition.EndYear())
	assert.InDelta(t, petition.EndYear(), adj.StartYear, 1e-9)
	assert.GreaterOrEqual(t, adj.StartYear, filing.Years())
}

func TestFinalActionWaitWidensConcurrentAdjustment(t *testing.T) {
	snap := snapshot.Default()
	snap.Bulletin.FinalAction[bulletin.EB1] = bulletin.Row{AllOther: "Jan 2022", China: "Jan 2022", India: "Jan 2022"}
	ps, err := Generate(extraordinaryO1(), snap)
	require.NoError(t, err)
	cp := find(t, ps, "keep_status_eb1a")

	_, hasWait := cp.Stage(catalog.StagePDWait)
	assert.False(t, hasWait)

	final := waittime.Calculate(cp.PriorityDate, "Jan 2022", profile.OtherCountry, bulletin.EB1)
	adj := stage(t, cp, catalog.StageI485)
	assert.True(t, adj.IsConcurrent)
	assert.Equal(t, "Jan 2022", adj.Cutoff)
	assert.Zero(t, adj.StartYear)
	assert.InDelta(t, final.Low/12, adj.Duration.Min, 1e-9)
	assert.InDelta(t, final.High/12, adj.Duration.Max, 1e-9)
	assert.Greater(t, adj.Duration.Max, 1.5)
	assert.InDelta(t, adj.Duration.Max, cp.Duration.Max, 1e-9)
}

func TestExperienceSubstitutionYieldsEB2(t *testing.T) {
	p := profile.Profile{
		Education:  profile.Bachelors,
		Experience: profile.Experience5Plus,
		Status:     profile.StatusH1B,
		Country:    profile.OtherCountry,
	}
	ps := generate(t, p)
	assert.Equal(t, catalog.CatEB2, find(t, ps, "keep_status_perm").Category)
	find(t, ps, "keep_status_niw")

	p.Experience = profile.Experience2To5
	assert.Equal(t, catalog.CatEB3, find(t, generate(t, p), "keep_status_perm").Category)
}

func TestMarriageIsFastest(t *testing.T) {
	p := profile.Profile{
		Education:        profile.Bachelors,
		Experience:       profile.Experience2To5,
		Status:           profile.StatusH1B,
		Country:          profile.OtherCountry,
		MarriedToCitizen: true,
	}
	ps := generate(t, p)
	require.NotEmpty(t, ps)
	assert.Equal(t, "keep_status_marriage", ps[0].ID)
	assert.Equal(t, catalog.CatMarriage, ps[0].Category)
	assert.Equal(t, 675+1440, ps[0].EstimatedCost)
}

func TestInvestorWithoutDegree(t *testing.T) {
	p := profile.Profile{
		Education:  profile.HighSchool,
		Experience: profile.ExperienceUnder2,
		Status:     profile.StatusNone,
		Country:    profile.China,
		Investor:   true,
	}
	ps := generate(t, p)
	require.Len(t, ps, 1)
	assert.Equal(t, "no_status_eb5", ps[0].ID)
	assert.Equal(t, catalog.CatEB5, ps[0].Category)
	assert.False(t, ps[0].IsSelfPetition)
}

func TestSTEMOnlyChangesPostGraduationStage(t *testing.T) {
	p := profile.Profile{
		Education:  profile.Bachelors,
		Experience: profile.Experience2To5,
		Status:     profile.StatusF1,
		Country:    profile.OtherCountry,
	}
	plain := find(t, generate(t, p), "opt_h1b_perm")
	p.STEM = true
	stem := find(t, generate(t, p), "opt_h1b_perm")

	require.Len(t, stem.Stages, len(plain.Stages))
	durations := map[catalog.StageID]catalog.Duration{}
	for _, s := range plain.Stages {
		durations[s.Stage] = s.Duration
	}
	for _, s := range stem.Stages {
		if s.Stage == catalog.StageOPT {
			assert.Equal(t, catalog.Fixed(1), durations[s.Stage])
			assert.Equal(t, catalog.Fixed(3), s.Duration)
			continue
		}
		assert.Equal(t, durations[s.Stage], s.Duration, s.Stage)
	}
}

func TestSelfPetitionWaitsForDegree(t *testing.T) {
	p := profile.Profile{
		Education:  profile.Bachelors,
		Experience: profile.Experience2To5,
		Status:     profile.StatusF1,
		Country:    profile.OtherCountry,
	}
	ps := generate(t, p)
	niw := find(t, ps, "phd_niw")
	assert.Equal(t, 6.0, stage(t, niw, catalog.StageI140).StartYear)
	perm := find(t, ps, "phd_perm")
	assert.Equal(t, 4.0, stage(t, perm, catalog.StagePWD).StartYear)
}

func TestSelfPetitionLowerBoundUsesShortestDegree(t *testing.T) {
	p := profile.Profile{
		Education:            profile.Bachelors,
		Experience:           profile.Experience2To5,
		Status:               profile.StatusF1,
		Country:              profile.OtherCountry,
		ExtraordinaryAbility: true,
	}
	cp := find(t, generate(t, p), "phd_eb1a")
	assert.Equal(t, 6.0, stage(t, cp, catalog.StageI140).StartYear)
	// doctorate done at 4 at the earliest, OPT keeps the status track to 5
	assert.InDelta(t, 5.0, cp.Duration.Min, 1e-9)
	assert.InDelta(t, 7.5, cp.Duration.Max, 1e-9)
}

func TestNotApplicableOffsetWaitsForStatusTrack(t *testing.T) {
	p := profile.Profile{
		Education:  profile.Bachelors,
		Experience: profile.Experience2To5,
		Status:     profile.StatusNone,
		Country:    profile.Canada,
	}
	cp := find(t, generate(t, p), "tn_perm")
	assert.Equal(t, 3.0, stage(t, cp, catalog.StagePWD).StartYear)
}

func TestPortingPolicy(t *testing.T) {
	p := indiaEB2()
	p.PriorityDate.Category = bulletin.EB3

	loose, err := GenerateWithOptions(p, nil, Options{Porting: PortAnyCategory})
	require.NoError(t, err)
	assert.Equal(t, "Jan 2023", find(t, loose, "keep_status_perm").PriorityDate.String())

	strict, err := GenerateWithOptions(p, nil, Options{Porting: PortSameOrLower})
	require.NoError(t, err)
	pd := find(t, strict, "keep_status_perm").PriorityDate
	assert.True(t, pd.After(snapshot.DefaultAsOf) || pd == snapshot.DefaultAsOf, pd.String())

	// EB-2 down to EB-3 is allowed either way
	p.PriorityDate.Category = bulletin.EB2
	p.Experience = profile.Experience2To5
	p.Education = profile.Bachelors
	strict, err = GenerateWithOptions(p, nil, Options{Porting: PortSameOrLower})
	require.NoError(t, err)
	assert.Equal(t, "Jan 2023", find(t, strict, "keep_status_perm").PriorityDate.String())
}

func TestFreshPriorityDateIsFilingMonth(t *testing.T) {
	p := profile.Profile{
		Education:        profile.Bachelors,
		Experience:       profile.Experience2To5,
		Status:           profile.StatusH1B,
		Country:          profile.OtherCountry,
		MarriedToCitizen: true,
	}
	cp := find(t, generate(t, p), "keep_status_marriage")
	assert.Equal(t, snapshot.DefaultAsOf, cp.PriorityDate)
}

func TestNilSnapshotMatchesDefault(t *testing.T) {
	for _, p := range profiles() {
		a, err := Generate(p, nil)
		require.NoError(t, err)
		b, err := Generate(p, snapshot.Default())
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestDeterministic(t *testing.T) {
	for _, p := range profiles() {
		assert.Equal(t, generate(t, p), generate(t, p))
	}
}

func TestPathInvariants(t *testing.T) {
	for _, p := range profiles() {
		for _, cp := range generate(t, p) {
			require.NotEmpty(t, cp.Stages, cp.ID)
			last := cp.Stages[len(cp.Stages)-1]
			assert.Equal(t, catalog.StageGreenCard, last.Stage, cp.ID)

			assert.Positive(t, cp.EstimatedCost, cp.ID)
			assert.LessOrEqual(t, cp.Duration.Min, cp.Duration.Max, cp.ID)
			assert.Equal(t, cp.Category.SelfPetition(), cp.IsSelfPetition, cp.ID)

			lottery := false
			_, hasWait := cp.Stage(catalog.StagePDWait)
			for i, s := range cp.Stages {
				if catalog.Stage(s.Stage).LotteryGated {
					lottery = true
				}
				if i > 0 {
					assert.GreaterOrEqual(t, s.StartYear, cp.Stages[i-1].StartYear, cp.ID)
				}
				assert.LessOrEqual(t, s.Duration.Min, s.Duration.Max, "%s %s", cp.ID, s.Stage)
				assert.GreaterOrEqual(t, s.Duration.Min, 0.0)
				if hasWait && catalog.Stage(s.Stage).Adjustment {
					assert.False(t, s.IsConcurrent, "%s: backlog with concurrent adjustment", cp.ID)
				}
			}
			assert.Equal(t, lottery, cp.IsLottery, cp.ID)
		}
	}
}

func TestInvalidProfile(t *testing.T) {
	_, err := Generate(profile.Profile{Education: "phd"}, nil)
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)
}

func TestSnapshotDrivesDurations(t *testing.T) {
	p := profile.Profile{
		Education:            profile.Doctorate,
		Experience:           profile.Experience5Plus,
		Status:               profile.StatusO1,
		Country:              profile.OtherCountry,
		ExtraordinaryAbility: true,
	}
	snap := snapshot.Default()
	snap.USCIS[catalog.FormI485] = snapshot.FormTime{MinMonths: 24, MaxMonths: 36}
	snap.Fees[catalog.FormI485] = 2000

	ps, err := Generate(p, snap)
	require.NoError(t, err)
	cp := find(t, ps, "keep_status_eb1a")
	assert.Equal(t, catalog.Duration{Min: 2, Max: 3}, stage(t, cp, catalog.StageI485).Duration)
	assert.Equal(t, 715+600+2000, cp.EstimatedCost)

	snap.Bulletin.DatesForFiling[bulletin.EB1] = bulletin.Row{AllOther: "Jan 2020", China: "Jan 2020", India: "Jan 2020"}
	ps, err = Generate(p, snap)
	require.NoError(t, err)
	cp = find(t, ps, "keep_status_eb1a")
	_, hasWait := cp.Stage(catalog.StagePDWait)
	assert.True(t, hasWait)
}

func TestSortTieBand(t *testing.T) {
	mk := func(id string, cat catalog.Category, min, max float64, stages ...catalog.StageID) ComposedPath {
		cp := ComposedPath{ID: id, Category: cat, Duration: catalog.Duration{Min: min, Max: max}}
		for _, s := range stages {
			cp.Stages = append(cp.Stages, ComposedStage{Stage: s})
		}
		return cp
	}
	ps := []ComposedPath{
		mk("slow", catalog.CatMarriage, 5, 7),
		mk("investor", catalog.CatEB5, 1.8, 2.2),
		mk("marriage", catalog.CatMarriage, 2.0, 2.6),
		mk("eb3_long", catalog.CatEB3, 1, 3, catalog.StagePWD, catalog.StageRecruitment, catalog.StageGreenCard),
		mk("eb3_short", catalog.CatEB3, 1, 3, catalog.StageI485, catalog.StagePDWait, catalog.StageGreenCard),
	}
	Sort(ps)
	var ids []string
	for _, cp := range ps {
		ids = append(ids, cp.ID)
	}
	assert.Equal(t, []string{"marriage", "eb3_short", "eb3_long", "investor", "slow"}, ids)
}

func TestParsePortingPolicy(t *testing.T) {
	pol, ok := ParsePortingPolicy("")
	assert.True(t, ok)
	assert.Equal(t, PortAnyCategory, pol)
	pol, ok = ParsePortingPolicy("same_or_lower")
	assert.True(t, ok)
	assert.Equal(t, PortSameOrLower, pol)
	_, ok = ParsePortingPolicy("never")
	assert.False(t, ok)
}
