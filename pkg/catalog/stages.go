package catalog

import (
	"fmt"

	"github.com/gcpath/gcpath/pkg/profile"
)

// StageID identifies a stage. The set is closed: every id used by a status
// path or method is declared below and registered in stageTable.
type StageID string

const (
	StageF1Masters StageID = "f1_masters"
	StageF1PhD     StageID = "f1_phd"
	StageOPT       StageID = "opt"
	StageH1B       StageID = "h1b"
	StageL1A       StageID = "l1a"
	StageO1        StageID = "o1"
	StageTN        StageID = "tn"

	StagePWD         StageID = "pwd"
	StageRecruitment StageID = "recruitment"
	StagePERM        StageID = "perm"
	StageI140        StageID = "i140"
	StageI130        StageID = "i130"
	StageI526E       StageID = "i526e"
	StageI485        StageID = "i485"
	StagePDWait      StageID = "pd_wait"
	StageGreenCard   StageID = "green_card"
)

// DOLQueue names a Department of Labor queue whose "currently processing"
// month drives a stage's duration.
type DOLQueue string

const (
	QueuePrevailingWage DOLQueue = "prevailing_wage"
	QueuePERM           DOLQueue = "perm"
)

// StageInfo is the static description of a stage.
type StageInfo struct {
	ID      StageID  `json:"id"`
	Name    string   `json:"name"`
	Track   Track    `json:"track"`
	Default Duration `json:"default"`
	// Forms are the filings whose official fees the stage incurs.
	Forms []FormID `json:"forms,omitempty"`
	// USCISForm, when set, is the form whose published processing time
	// replaces Default.
	USCISForm FormID `json:"uscis_form,omitempty"`
	// Queue, when set, is the DOL queue whose backlog replaces Default.
	Queue DOLQueue `json:"queue,omitempty"`

	LotteryGated            bool `json:"lottery_gated,omitempty"`
	Terminal                bool `json:"terminal,omitempty"`
	Petition                bool `json:"petition,omitempty"`
	Adjustment              bool `json:"adjustment,omitempty"`
	EstablishesPriorityDate bool `json:"establishes_priority_date,omitempty"`
	GrantsDegree            bool `json:"grants_degree,omitempty"`
	PostGraduationWork      bool `json:"post_graduation_work,omitempty"`
	Wait                    bool `json:"wait,omitempty"`
}

var stageTable = map[StageID]StageInfo{
	StageF1Masters: {Name: "F-1 master's program", Track: TrackStatus, Default: Duration{1.5, 2}, Forms: []FormID{FormI901}, GrantsDegree: true},
	StageF1PhD:     {Name: "F-1 doctoral program", Track: TrackStatus, Default: Duration{4, 6}, Forms: []FormID{FormI901}, GrantsDegree: true},
	StageOPT:       {Name: "OPT work authorization", Track: TrackStatus, Default: Fixed(1), Forms: []FormID{FormI765}, PostGraduationWork: true},
	StageH1B:       {Name: "H-1B specialty occupation", Track: TrackStatus, Default: Duration{1, 3}, Forms: []FormID{FormH1BRegistration, FormI129H, FormFraudFee}, LotteryGated: true},
	StageL1A:       {Name: "L-1A intracompany transfer", Track: TrackStatus, Default: Duration{1, 3}, Forms: []FormID{FormI129L, FormFraudFee}},
	StageO1:        {Name: "O-1 extraordinary ability", Track: TrackStatus, Default: Duration{1, 3}, Forms: []FormID{FormI129O}},
	StageTN:        {Name: "TN professional", Track: TrackStatus, Default: Duration{1, 3}, Forms: []FormID{FormTNEntry}},

	StagePWD:         {Name: "Prevailing wage determination", Track: TrackGreenCard, Default: Duration{0.5, 0.8}, Queue: QueuePrevailingWage},
	StageRecruitment: {Name: "PERM recruitment", Track: TrackGreenCard, Default: Duration{0.2, 0.3}},
	StagePERM:        {Name: "PERM labor certification", Track: TrackGreenCard, Default: Duration{1.2, 1.6}, Queue: QueuePERM, EstablishesPriorityDate: true},
	StageI140:        {Name: "I-140 immigrant petition", Track: TrackGreenCard, Default: Duration{0.5, 1}, Forms: []FormID{FormI140, FormAsylumFee}, USCISForm: FormI140, Petition: true, EstablishesPriorityDate: true},
	StageI130:        {Name: "I-130 relative petition", Track: TrackGreenCard, Default: Duration{0.8, 1.2}, Forms: []FormID{FormI130}, USCISForm: FormI130, Petition: true, EstablishesPriorityDate: true},
	StageI526E:       {Name: "I-526E investor petition", Track: TrackGreenCard, Default: Duration{2, 4}, Forms: []FormID{FormI526E}, USCISForm: FormI526E, Petition: true, EstablishesPriorityDate: true},
	StageI485:        {Name: "I-485 adjustment of status", Track: TrackGreenCard, Default: Duration{0.8, 1.5}, Forms: []FormID{FormI485}, USCISForm: FormI485, Adjustment: true},
	StagePDWait:      {Name: "Priority date backlog", Track: TrackGreenCard, Wait: true},
	StageGreenCard:   {Name: "Green card", Track: TrackGreenCard, Terminal: true},
}

// stageOrder fixes iteration order for listings.
var stageOrder = []StageID{
	StageF1Masters, StageF1PhD, StageOPT, StageH1B, StageL1A, StageO1, StageTN,
	StagePWD, StageRecruitment, StagePERM, StageI140, StageI130, StageI526E, StageI485, StagePDWait, StageGreenCard,
}

// Stage returns the static description of id. An unknown id is a
// programming error and panics.
func Stage(id StageID) StageInfo {
	info, ok := stageTable[id]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown stage %q", id))
	}
	info.ID = id
	return info
}

// Known reports whether id is declared.
func Known(id StageID) bool {
	_, ok := stageTable[id]
	return ok
}

// Stages lists every declared stage in catalog order.
func Stages() []StageInfo {
	out := make([]StageInfo, 0, len(stageOrder))
	for _, id := range stageOrder {
		out = append(out, Stage(id))
	}
	return out
}

// PostGraduationYears is the length of post-completion work authorization:
// three years with the STEM extension, otherwise one.
func PostGraduationYears(p profile.Profile) float64 {
	if p.STEM {
		return 3
	}
	return 1
}

// StageDuration is the profile-aware catalog duration of a stage, before any
// live processing data is applied.
func StageDuration(id StageID, p profile.Profile) Duration {
	info := Stage(id)
	if info.PostGraduationWork {
		return Fixed(PostGraduationYears(p))
	}
	return info.Default
}
