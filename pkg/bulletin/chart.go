package bulletin

import (
	"fmt"
	"strings"
)

// Current is the literal token the bulletin prints when a category has no
// backlog.
const Current = "Current"

// Category is an employment-based preference category that has its own row
// in the bulletin charts.
type Category string

const (
	EB1 Category = "EB-1"
	EB2 Category = "EB-2"
	EB3 Category = "EB-3"
)

// Categories lists the charted categories in bulletin order.
var Categories = []Category{EB1, EB2, EB3}

// Valid reports whether c is a charted category.
func (c Category) Valid() bool {
	switch c {
	case EB1, EB2, EB3:
		return true
	}
	return false
}

// Preference returns the preference number (1 for EB-1). A larger number is
// a lower preference.
func (c Category) Preference() int {
	switch c {
	case EB1:
		return 1
	case EB2:
		return 2
	case EB3:
		return 3
	}
	return 0
}

// ParseCategory accepts "EB-2", "eb2" and "2".
func ParseCategory(s string) (Category, error) {
	n := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	n = strings.TrimPrefix(n, "EB")
	switch n {
	case "1":
		return EB1, nil
	case "2":
		return EB2, nil
	case "3":
		return EB3, nil
	}
	return "", fmt.Errorf("bulletin: unknown category %q", s)
}

// Chargeability is the bulletin column a person is charged against.
type Chargeability string

const (
	AllOther Chargeability = "all_other"
	China    Chargeability = "china"
	India    Chargeability = "india"
)

// Chargeabilities lists the bulletin columns in display order.
var Chargeabilities = []Chargeability{AllOther, China, India}

// Row is one category line of a chart.
type Row struct {
	AllOther string `json:"all_other" yaml:"all_other"`
	China    string `json:"china" yaml:"china"`
	India    string `json:"india" yaml:"india"`
}

// Cell returns the raw cell for a chargeability column.
func (r Row) Cell(ch Chargeability) string {
	switch ch {
	case China:
		return r.China
	case India:
		return r.India
	}
	return r.AllOther
}

// Chart is one of the two bulletin tables.
type Chart map[Category]Row

// Cutoff returns the cell for (cat, ch). ok is false when the row or cell is
// missing.
func (c Chart) Cutoff(cat Category, ch Chargeability) (string, bool) {
	row, found := c[cat]
	if !found {
		return "", false
	}
	cell := strings.TrimSpace(row.Cell(ch))
	return cell, cell != ""
}

// ChartKind names one of the two bulletin tables.
type ChartKind string

const (
	FinalAction    ChartKind = "final_action"
	DatesForFiling ChartKind = "dates_for_filing"
)

// Charts carries both bulletin tables.
type Charts struct {
	FinalAction    Chart `json:"final_action" yaml:"final_action"`
	DatesForFiling Chart `json:"dates_for_filing" yaml:"dates_for_filing"`
}

// Chart selects a table by kind.
func (c Charts) Chart(kind ChartKind) Chart {
	if kind == DatesForFiling {
		return c.DatesForFiling
	}
	return c.FinalAction
}

// IsCurrent reports whether a cell holds the "Current" token. The bulletin
// itself prints a bare "C".
func IsCurrent(cell string) bool {
	cell = strings.TrimSpace(cell)
	return strings.EqualFold(cell, Current) || strings.EqualFold(cell, "C")
}

// ParseCutoff interprets a chart cell. current is true for the "Current"
// token, in which case date is zero.
func ParseCutoff(cell string) (date MonthYear, current bool, err error) {
	if IsCurrent(cell) {
		return MonthYear{}, true, nil
	}
	date, err = ParseMonthYear(cell)
	return date, false, err
}

// ValidCell reports whether cell is "Current" or a parsable "Month Year".
func ValidCell(cell string) bool {
	_, _, err := ParseCutoff(cell)
	return err == nil
}
