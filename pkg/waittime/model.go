// Package waittime predicts how long a priority date waits behind a visa
// bulletin cutoff, using a demand/supply model of how fast the cutoff moves.
package waittime

import (
	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/profile"
)

// Key addresses one bulletin cell.
type Key struct {
	Category      bulletin.Category
	Chargeability bulletin.Chargeability
}

// Flow is the annual demand (principal applicants plus dependents) and the
// annual visa supply (per-country cap plus expected spillover) for a cell.
type Flow struct {
	Demand int `json:"demand" yaml:"demand"`
	Supply int `json:"supply" yaml:"supply"`
}

// Model holds the velocity inputs. Cells missing from Flows fall back to a
// flat per-country multiplier.
type Model struct {
	Flows map[Key]Flow
}

// DefaultModel returns estimates built from recent State Department
// issuance reports and USCIS pending-inventory data.
func DefaultModel() Model {
	return Model{Flows: map[Key]Flow{
		{bulletin.EB1, bulletin.AllOther}: {Demand: 30000, Supply: 34000},
		{bulletin.EB1, bulletin.China}:    {Demand: 6000, Supply: 3000},
		{bulletin.EB1, bulletin.India}:    {Demand: 14000, Supply: 3400},
		{bulletin.EB2, bulletin.AllOther}: {Demand: 40000, Supply: 34000},
		{bulletin.EB2, bulletin.China}:    {Demand: 7500, Supply: 3000},
		{bulletin.EB2, bulletin.India}:    {Demand: 30000, Supply: 2900},
		{bulletin.EB3, bulletin.AllOther}: {Demand: 36000, Supply: 34000},
		{bulletin.EB3, bulletin.China}:    {Demand: 5000, Supply: 3000},
		{bulletin.EB3, bulletin.India}:    {Demand: 12000, Supply: 2900},
	}}
}

// flow returns the inputs for a cell; ok is false when they are missing or
// unusable.
func (m Model) flow(cat bulletin.Category, ch bulletin.Chargeability) (Flow, bool) {
	f, ok := m.Flows[Key{cat, ch}]
	if !ok || f.Demand <= 0 || f.Supply <= 0 {
		return Flow{}, false
	}
	return f, true
}

// fallbackMultiplier is the degraded model: months of wait per month behind.
func fallbackMultiplier(c profile.Country) float64 {
	switch c {
	case profile.India:
		return 4.0
	case profile.China:
		return 2.0
	}
	return 1.2
}
