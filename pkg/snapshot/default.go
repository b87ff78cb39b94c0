package snapshot

import (
	"time"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
)

// DefaultAsOf is the month the default constants were frozen at.
var DefaultAsOf = bulletin.NewMonthYear(2024, time.October)

// ConservativeFee is charged for a form missing from both the snapshot and
// the default fee table.
const ConservativeFee = 1000

// The tables below are read-only. Default hands out copies.

var defaultDOL = DOL{
	PrevailingWage: "Mar 2024",
	PERM:           "Dec 2022",
}

var defaultUSCIS = map[catalog.FormID]FormTime{
	catalog.FormI140:  {MinMonths: 6, MaxMonths: 9, PremiumMonths: 0.5},
	catalog.FormI485:  {MinMonths: 10, MaxMonths: 18},
	catalog.FormI130:  {MinMonths: 10, MaxMonths: 14},
	catalog.FormI526E: {MinMonths: 24, MaxMonths: 48},
}

var defaultFinalAction = bulletin.Chart{
	bulletin.EB1: {AllOther: bulletin.Current, China: "Nov 2022", India: "Feb 2022"},
	bulletin.EB2: {AllOther: "Apr 2024", China: "Dec 2020", India: "Jan 2013"},
	bulletin.EB3: {AllOther: "Apr 2023", China: "Nov 2020", India: "Nov 2013"},
}

var defaultDatesForFiling = bulletin.Chart{
	bulletin.EB1: {AllOther: bulletin.Current, China: "Aug 2023", India: "Aug 2022"},
	bulletin.EB2: {AllOther: "Oct 2024", China: "Jan 2022", India: "Dec 2013"},
	bulletin.EB3: {AllOther: "Jul 2023", China: "Jan 2021", India: "Jun 2014"},
}

var defaultFees = map[catalog.FormID]int{
	catalog.FormI140:            715,
	catalog.FormAsylumFee:       600,
	catalog.FormI485:            1440,
	catalog.FormI130:            675,
	catalog.FormI526E:           11160,
	catalog.FormI129H:           780,
	catalog.FormI129L:           1385,
	catalog.FormI129O:           1055,
	catalog.FormH1BRegistration: 215,
	catalog.FormFraudFee:        500,
	catalog.FormI765:            470,
	catalog.FormI901:            350,
	catalog.FormTNEntry:         50,
}

var frozen = &Snapshot{
	AsOf:  DefaultAsOf,
	DOL:   defaultDOL,
	USCIS: defaultUSCIS,
	Bulletin: bulletin.Charts{
		FinalAction:    defaultFinalAction,
		DatesForFiling: defaultDatesForFiling,
	},
	Fees: defaultFees,
}

// Default returns a fresh copy of the frozen constants.
func Default() *Snapshot {
	return frozen.Clone()
}

// OrDefault replaces nil with Default(). Every engine entry point calls it
// before any lookup, so nil and an explicit default behave the same.
func OrDefault(s *Snapshot) *Snapshot {
	if s == nil {
		return Default()
	}
	return s
}
