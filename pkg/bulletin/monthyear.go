// Package bulletin holds the visa bulletin vocabulary: month/year cutoffs,
// preference categories, chargeability buckets and the two monthly charts.
package bulletin

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthYear is a calendar month. The bulletin has no day resolution, so every
// date the engine compares against a cutoff is reduced to this granularity.
type MonthYear struct {
	Year  int
	Month time.Month
}

var monthsByName = map[string]time.Month{}

func init() {
	for m := time.January; m <= time.December; m++ {
		long := strings.ToLower(m.String())
		monthsByName[long] = m
		monthsByName[long[:3]] = m
	}
	monthsByName["sept"] = time.September
}

// NewMonthYear builds a MonthYear, normalizing month overflow (month 13 of
// 2023 is January 2024).
func NewMonthYear(year int, month time.Month) MonthYear {
	return fromIndex(year*12 + int(month) - 1)
}

// ParseMonthYear accepts "Jan 2023", "January 2023" and "jan-2023".
func ParseMonthYear(s string) (MonthYear, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ' ' || r == '-' || r == ',' || r == '/'
	})
	if len(fields) != 2 {
		return MonthYear{}, fmt.Errorf("bulletin: invalid month/year %q", s)
	}
	m, ok := monthsByName[strings.ToLower(strings.TrimSuffix(fields[0], "."))]
	if !ok {
		return MonthYear{}, fmt.Errorf("bulletin: unknown month in %q", s)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil || y < 1900 || y > 2999 {
		return MonthYear{}, fmt.Errorf("bulletin: invalid year in %q", s)
	}
	return MonthYear{Year: y, Month: m}, nil
}

// MustParseMonthYear is ParseMonthYear for package-level constants.
func MustParseMonthYear(s string) MonthYear {
	my, err := ParseMonthYear(s)
	if err != nil {
		panic(err)
	}
	return my
}

// IsZero reports whether m is the zero value.
func (m MonthYear) IsZero() bool { return m.Year == 0 && m.Month == 0 }

func (m MonthYear) index() int { return m.Year*12 + int(m.Month) - 1 }

func fromIndex(i int) MonthYear {
	return MonthYear{Year: i / 12, Month: time.Month(i%12 + 1)}
}

// AddMonths returns m shifted by n months (n may be negative).
func (m MonthYear) AddMonths(n int) MonthYear { return fromIndex(m.index() + n) }

// MonthsUntil returns the number of months from m to other; negative when
// other is earlier.
func (m MonthYear) MonthsUntil(other MonthYear) int { return other.index() - m.index() }

// Before reports whether m is strictly earlier than other.
func (m MonthYear) Before(other MonthYear) bool { return m.index() < other.index() }

// After reports whether m is strictly later than other.
func (m MonthYear) After(other MonthYear) bool { return m.index() > other.index() }

// String renders the bulletin form, e.g. "Jan 2023".
func (m MonthYear) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
}

func (m MonthYear) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MonthYear) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*m = MonthYear{}
		return nil
	}
	parsed, err := ParseMonthYear(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
