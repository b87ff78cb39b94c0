// Package paths composes every eligible route to a green card, lays each one
// out on a timeline and ranks the result.
package paths

import (
	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/waittime"
)

// ComposedStage is one placed stage of a path. Cutoff, Velocity and
// Explanation are set on backlog stages and on an adjustment stage widened
// by an approval wait.
type ComposedStage struct {
	Stage        catalog.StageID    `json:"stage"`
	Name         string             `json:"name"`
	Duration     catalog.Duration   `json:"duration"`
	Track        catalog.Track      `json:"track"`
	StartYear    float64            `json:"start_year"`
	IsConcurrent bool               `json:"is_concurrent"`
	Note         string             `json:"note,omitempty"`
	Cutoff       string             `json:"cutoff,omitempty"`
	Velocity     *waittime.Velocity `json:"velocity,omitempty"`
	Explanation  string             `json:"explanation,omitempty"`
}

// EndYear is the latest end of the stage.
func (s ComposedStage) EndYear() float64 { return s.StartYear + s.Duration.Max }

// ComposedPath is one route from the current status to the green card.
type ComposedPath struct {
	ID             string             `json:"id"`
	StatusPathID   string             `json:"status_path_id"`
	StatusPathName string             `json:"status_path_name"`
	MethodID       string             `json:"method_id"`
	MethodName     string             `json:"method_name"`
	Category       catalog.Category   `json:"category"`
	PriorityDate   bulletin.MonthYear `json:"priority_date"`
	Duration       catalog.Duration   `json:"duration"`
	Stages         []ComposedStage    `json:"stages"`
	EstimatedCost  int                `json:"estimated_cost"`
	IsLottery      bool               `json:"is_lottery"`
	IsSelfPetition bool               `json:"is_self_petition"`
}

// Stage returns the first placed stage with the given id.
func (cp ComposedPath) Stage(id catalog.StageID) (ComposedStage, bool) {
	for _, s := range cp.Stages {
		if s.Stage == id {
			return s, true
		}
	}
	return ComposedStage{}, false
}

// Steps counts the stages a person acts on: everything except waits and
// the final milestone.
func (cp ComposedPath) Steps() int {
	n := 0
	for _, s := range cp.Stages {
		info := catalog.Stage(s.Stage)
		if !info.Terminal && !info.Wait {
			n++
		}
	}
	return n
}

// PortingPolicy decides when an existing priority date carries over to a
// new petition.
type PortingPolicy string

const (
	// PortAnyCategory keeps the existing date for every employment-based
	// petition regardless of category.
	PortAnyCategory PortingPolicy = "any"
	// PortSameOrLower keeps the date only when the new category is the same
	// or a lower preference than the one it was established in.
	PortSameOrLower PortingPolicy = "same_or_lower"
)

// ParsePortingPolicy accepts "any" and "same_or_lower"; empty means any.
func ParsePortingPolicy(s string) (PortingPolicy, bool) {
	switch PortingPolicy(s) {
	case "", PortAnyCategory:
		return PortAnyCategory, true
	case PortSameOrLower:
		return PortSameOrLower, true
	}
	return "", false
}

// Options tunes path generation. The zero value is the default behaviour.
type Options struct {
	Porting PortingPolicy
	// Wait overrides the demand/supply model; nil Flows means the default.
	Wait waittime.Model
}

// WaitModel is the model in effect.
func (o Options) WaitModel() waittime.Model {
	if o.Wait.Flows == nil {
		return waittime.DefaultModel()
	}
	return o.Wait
}
