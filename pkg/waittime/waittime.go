package waittime

import (
	"fmt"
	"math"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/profile"
)

// Method names how an estimate was produced.
type Method string

const (
	MethodCurrent  Method = "current"
	MethodVelocity Method = "velocity"
	MethodFallback Method = "fallback"
)

const (
	fallbackConfidence = 0.3
	maxConfidence      = 0.8
	minConfidence      = 0.4
	// confidence lost per unit of oversubscription
	confidenceSlope = 0.04
)

// Velocity explains a velocity-model estimate.
type Velocity struct {
	Demand int     `json:"demand"`
	Supply int     `json:"supply"`
	Ratio  float64 `json:"ratio"`
	// AdvanceMonthsPerYear is how far the cutoff moves in a year.
	AdvanceMonthsPerYear float64 `json:"advance_months_per_year"`
	MonthsBehind         int     `json:"months_behind"`
}

// Estimate is a wait prediction. It is never negative.
type Estimate struct {
	Months      float64   `json:"months"`
	Confidence  float64   `json:"confidence"`
	Low         float64   `json:"low"`
	High        float64   `json:"high"`
	Method      Method    `json:"method"`
	Explanation string    `json:"explanation"`
	Velocity    *Velocity `json:"velocity,omitempty"`
}

// Years converts the estimate to years.
func (e Estimate) Years() float64 { return e.Months / 12 }

// Calculate estimates the wait with the default model.
func Calculate(date bulletin.MonthYear, cutoff string, country profile.Country, cat bulletin.Category) Estimate {
	return DefaultModel().Calculate(date, cutoff, country, cat)
}

// Calculate estimates how long a priority date of date waits before cutoff
// reaches it. Bad input never fails: an unparsable cutoff yields zero months
// at low confidence, missing model inputs use a flat multiplier.
func (m Model) Calculate(date bulletin.MonthYear, cutoff string, country profile.Country, cat bulletin.Category) Estimate {
	cut, current, err := bulletin.ParseCutoff(cutoff)
	if current {
		return Estimate{Confidence: 1, Method: MethodCurrent, Explanation: "Category is current"}
	}
	if err != nil {
		return Estimate{
			Confidence:  fallbackConfidence,
			Method:      MethodFallback,
			Explanation: fmt.Sprintf("Could not read cutoff %q; assuming no wait", cutoff),
		}
	}
	behind := cut.MonthsUntil(date)
	if behind <= 0 {
		return Estimate{
			Confidence:  1,
			Method:      MethodCurrent,
			Explanation: fmt.Sprintf("Priority date %s is on or before the %s cutoff", date, cut),
		}
	}

	ch := country.Chargeability()
	f, ok := m.flow(cat, ch)
	if !ok {
		mult := fallbackMultiplier(country)
		months := float64(behind) * mult
		return withRange(Estimate{
			Months:      months,
			Confidence:  fallbackConfidence,
			Method:      MethodFallback,
			Explanation: fmt.Sprintf("%d months behind; no demand data, assuming %.1fx", behind, mult),
		})
	}

	ratio := float64(f.Demand) / float64(f.Supply)
	advance := 12.0
	if ratio > 1 {
		advance = 12 / ratio
	}
	v := &Velocity{
		Demand:               f.Demand,
		Supply:               f.Supply,
		Ratio:                ratio,
		AdvanceMonthsPerYear: advance,
		MonthsBehind:         behind,
	}
	return withRange(Estimate{
		Months:      float64(behind) * 12 / advance,
		Confidence:  confidence(ratio),
		Method:      MethodVelocity,
		Velocity:    v,
		Explanation: explain(cat, ch, v),
	})
}

func confidence(ratio float64) float64 {
	if ratio <= 1 {
		return maxConfidence
	}
	return math.Max(minConfidence, maxConfidence-confidenceSlope*(ratio-1))
}

func withRange(e Estimate) Estimate {
	spread := 1 - e.Confidence
	e.Low = e.Months * (1 - spread)
	e.High = e.Months * (1 + spread)
	return e
}

func explain(cat bulletin.Category, ch bulletin.Chargeability, v *Velocity) string {
	if v.Ratio <= 1 {
		return fmt.Sprintf("%s %s demand (%d/yr) fits supply (%d/yr); the cutoff should advance about a month per month, %d months to go",
			cat, ch, v.Demand, v.Supply, v.MonthsBehind)
	}
	return fmt.Sprintf("%s %s demand is %.1fx supply (%d vs %d/yr); the cutoff advances about %.1f months per year, %d months to go",
		cat, ch, v.Ratio, v.Demand, v.Supply, v.AdvanceMonthsPerYear, v.MonthsBehind)
}
