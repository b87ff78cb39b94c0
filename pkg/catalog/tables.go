package catalog

import "github.com/gcpath/gcpath/pkg/profile"

// StatusPaths returns the status-path table in catalog order. Each call
// builds a fresh table, so callers may not affect each other.
func StatusPaths() []StatusPath {
	return []StatusPath{
		{
			ID:           "keep_status",
			Name:         "Keep current work status",
			ValidFrom:    []profile.Status{profile.StatusH1B, profile.StatusL1, profile.StatusO1, profile.StatusTN},
			FilingOffset: At(0),
			Capabilities: []Capability{CapEmployment},
		},
		{
			ID:           "no_status",
			Name:         "No work visa",
			ValidFrom:    []profile.Status{profile.StatusNone, profile.StatusF1, profile.StatusOPT, profile.StatusOther},
			FilingOffset: At(0),
		},
		{
			ID:        "h1b",
			Name:      "H-1B through the lottery",
			ValidFrom: []profile.Status{profile.StatusNone, profile.StatusF1, profile.StatusOPT, profile.StatusTN, profile.StatusOther},
			Requires:  Requirements{MinEducation: profile.Bachelors},
			Stages: []StatusStage{
				{Stage: StageH1B, Note: "Registration opens each March; selection is not guaranteed"},
			},
			FilingOffset: At(0.5),
			Capabilities: []Capability{CapEmployment},
		},
		{
			ID:        "opt_h1b",
			Name:      "OPT, then H-1B",
			ValidFrom: []profile.Status{profile.StatusF1, profile.StatusOPT},
			Requires:  Requirements{MinEducation: profile.Bachelors},
			Stages: []StatusStage{
				{Stage: StageOPT},
				{Stage: StageH1B, Note: "Cap-gap extension covers the wait for an October 1 start"},
			},
			FilingOffset: At(0.5),
			Capabilities: []Capability{CapEmployment},
		},
		{
			ID:        "masters",
			Name:      "US master's degree, OPT, H-1B",
			ValidFrom: []profile.Status{profile.StatusNone, profile.StatusF1, profile.StatusOPT, profile.StatusH1B, profile.StatusOther},
			Requires:  Requirements{MinEducation: profile.Bachelors, MaxEducation: profile.Masters},
			Stages: []StatusStage{
				{Stage: StageF1Masters},
				{Stage: StageOPT},
				{Stage: StageH1B, Note: "Advanced-degree cap gives a second lottery draw"},
			},
			FilingOffset:    At(2),
			GrantsEducation: profile.Masters,
			Capabilities:    []Capability{CapEmployment, CapDegree},
		},
		{
			ID:        "phd",
			Name:      "US doctorate, then OPT",
			ValidFrom: []profile.Status{profile.StatusNone, profile.StatusF1, profile.StatusOPT, profile.StatusH1B, profile.StatusOther},
			Requires:  Requirements{MinEducation: profile.Bachelors, MaxEducation: profile.Masters},
			Stages: []StatusStage{
				{Stage: StageF1PhD},
				{Stage: StageOPT},
			},
			FilingOffset:    At(4),
			GrantsEducation: profile.Doctorate,
			Capabilities:    []Capability{CapEmployment, CapDegree},
		},
		{
			ID:        "l1a",
			Name:      "L-1A intracompany transfer",
			ValidFrom: []profile.Status{profile.StatusNone, profile.StatusL1, profile.StatusOther},
			Requires:  Requirements{Executive: true},
			Stages: []StatusStage{
				{Stage: StageL1A, Note: "Needs one year with the foreign affiliate in the last three"},
			},
			FilingOffset: At(1),
			Capabilities: []Capability{CapEmployment, CapMultinationalTransfer},
		},
		{
			ID:        "o1",
			Name:      "O-1 extraordinary ability",
			ValidFrom: []profile.Status{profile.StatusNone, profile.StatusF1, profile.StatusOPT, profile.StatusH1B, profile.StatusTN, profile.StatusOther},
			Requires:  Requirements{ExtraordinaryAbility: true},
			Stages: []StatusStage{
				{Stage: StageO1},
			},
			FilingOffset: At(0),
			Capabilities: []Capability{CapEmployment},
		},
		{
			ID:        "tn",
			Name:      "TN professional (USMCA)",
			ValidFrom: []profile.Status{profile.StatusNone, profile.StatusF1, profile.StatusOPT, profile.StatusOther},
			Requires:  Requirements{MinEducation: profile.Bachelors, TreatyCitizenship: true},
			Stages: []StatusStage{
				{Stage: StageTN, Note: "TN has no dual intent; change status before filing I-485"},
			},
			FilingOffset: NotApplicable,
			Capabilities: []Capability{CapEmployment},
		},
	}
}

// GCMethods returns the filing-method table in catalog order.
func GCMethods() []GCMethod {
	selfPetitionTail := func(petition StageID) []MethodStage {
		return []MethodStage{
			{Stage: petition},
			{Stage: StageI485, Concurrent: true},
			{Stage: StageGreenCard},
		}
	}
	return []GCMethod{
		{
			ID:                "perm",
			Name:              "Employer sponsorship (PERM)",
			RequiresLaborCert: true,
			Stages: []MethodStage{
				{Stage: StagePWD},
				{Stage: StageRecruitment},
				{Stage: StagePERM, Note: "Priority date is the PERM filing date"},
				{Stage: StageI140},
				{Stage: StageI485, Concurrent: true},
				{Stage: StageGreenCard},
			},
			RequiresCapability: CapEmployment,
		},
		{
			ID:     "niw",
			Name:   "National Interest Waiver",
			Stages: selfPetitionTail(StageI140),
			Requires: Requirements{
				MinEducation:                profile.Masters,
				AllowExperienceSubstitution: true,
			},
			FixedCategory: CatNIW,
		},
		{
			ID:            "eb1a",
			Name:          "EB-1A extraordinary ability",
			Stages:        selfPetitionTail(StageI140),
			Requires:      Requirements{ExtraordinaryAbility: true},
			FixedCategory: CatEB1A,
		},
		{
			ID:            "eb1b",
			Name:          "EB-1B outstanding researcher",
			Stages:        selfPetitionTail(StageI140),
			Requires:      Requirements{OutstandingResearcher: true, MinExperience: profile.Experience2To5},
			FixedCategory: CatEB1B,
		},
		{
			ID:                 "eb1c",
			Name:               "EB-1C multinational executive",
			Stages:             selfPetitionTail(StageI140),
			Requires:           Requirements{Executive: true},
			FixedCategory:      CatEB1C,
			RequiresCapability: CapMultinationalTransfer,
		},
		{
			ID:            "eb5",
			Name:          "EB-5 investment",
			Stages:        selfPetitionTail(StageI526E),
			Requires:      Requirements{Investor: true},
			FixedCategory: CatEB5,
		},
		{
			ID:            "marriage",
			Name:          "Marriage to a US citizen",
			Stages:        selfPetitionTail(StageI130),
			Requires:      Requirements{MarriedToCitizen: true},
			FixedCategory: CatMarriage,
		},
		{
			ID:   "direct",
			Name: "File with approved petition",
			Stages: []MethodStage{
				{Stage: StageI485, Note: "Keeps the approved petition's priority date"},
				{Stage: StageGreenCard},
			},
			RequiresCapability:       CapEmployment,
			RequiresApprovedPetition: true,
		},
	}
}

// LookupStatusPath finds a status path by id.
func LookupStatusPath(id string) (StatusPath, bool) {
	for _, sp := range StatusPaths() {
		if sp.ID == id {
			return sp, true
		}
	}
	return StatusPath{}, false
}

// LookupMethod finds a filing method by id.
func LookupMethod(id string) (GCMethod, bool) {
	for _, m := range GCMethods() {
		if m.ID == id {
			return m, true
		}
	}
	return GCMethod{}, false
}
