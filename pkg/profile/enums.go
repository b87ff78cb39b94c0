package profile

import (
	"fmt"
	"strings"

	"github.com/gcpath/gcpath/pkg/bulletin"
)

// Education is an ordinal: high school < bachelor's < master's < doctorate.
type Education string

const (
	HighSchool Education = "high_school"
	Bachelors  Education = "bachelors"
	Masters    Education = "masters"
	Doctorate  Education = "doctorate"
)

// Educations lists every level in ascending order.
var Educations = []Education{HighSchool, Bachelors, Masters, Doctorate}

// Rank returns the ordinal position (0 for high school) or -1 when e is not
// an enumerated level.
func (e Education) Rank() int {
	for i, v := range Educations {
		if v == e {
			return i
		}
	}
	return -1
}

// AtLeast reports whether e ranks at or above other.
func (e Education) AtLeast(other Education) bool { return e.Rank() >= other.Rank() }

// Max returns the higher of two levels.
func (e Education) Max(other Education) Education {
	if other.Rank() > e.Rank() {
		return other
	}
	return e
}

// Experience is an ordinal bucket of years of professional experience.
type Experience string

const (
	ExperienceUnder2 Experience = "lt2"
	Experience2To5   Experience = "2to5"
	Experience5Plus  Experience = "5plus"
)

// Experiences lists every bucket in ascending order.
var Experiences = []Experience{ExperienceUnder2, Experience2To5, Experience5Plus}

// Rank returns the ordinal position or -1 when x is not enumerated.
func (x Experience) Rank() int {
	for i, v := range Experiences {
		if v == x {
			return i
		}
	}
	return -1
}

// AtLeast reports whether x ranks at or above other.
func (x Experience) AtLeast(other Experience) bool { return x.Rank() >= other.Rank() }

// Status is the current immigration status the person holds.
type Status string

const (
	StatusNone  Status = "none"
	StatusF1    Status = "f1"
	StatusOPT   Status = "opt"
	StatusH1B   Status = "h1b"
	StatusL1    Status = "l1"
	StatusO1    Status = "o1"
	StatusTN    Status = "tn"
	StatusOther Status = "other"
)

// Statuses lists every status.
var Statuses = []Status{StatusNone, StatusF1, StatusOPT, StatusH1B, StatusL1, StatusO1, StatusTN, StatusOther}

// Valid reports whether s is enumerated.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Country is the country of birth, which drives bulletin chargeability.
type Country string

const (
	India        Country = "india"
	China        Country = "china"
	Mexico       Country = "mexico"
	Philippines  Country = "philippines"
	Canada       Country = "canada"
	OtherCountry Country = "other"
)

// Countries lists every supported country of birth.
var Countries = []Country{India, China, Mexico, Philippines, Canada, OtherCountry}

// Valid reports whether c is enumerated.
func (c Country) Valid() bool {
	for _, v := range Countries {
		if v == c {
			return true
		}
	}
	return false
}

// Chargeability maps a country of birth to its bulletin column. Mexico and
// the Philippines have their own columns in some months but share the
// all-other column for employment-based categories tracked here.
func (c Country) Chargeability() bulletin.Chargeability {
	switch c {
	case India:
		return bulletin.India
	case China:
		return bulletin.China
	}
	return bulletin.AllOther
}

// USMCA reports whether c is a party to the USMCA professional visa.
func (c Country) USMCA() bool { return c == Canada || c == Mexico }

func parseEnum[T ~string](kind, s string, values []T) (T, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for _, v := range values {
		if string(v) == n {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: unknown %s %q", ErrInvalidProfile, kind, s)
}

// ParseEducation parses a level by its identifier.
func ParseEducation(s string) (Education, error) { return parseEnum("education", s, Educations) }

// ParseExperience parses an experience bucket by its identifier.
func ParseExperience(s string) (Experience, error) { return parseEnum("experience", s, Experiences) }

// ParseStatus parses a status by its identifier.
func ParseStatus(s string) (Status, error) { return parseEnum("status", s, Statuses) }

// ParseCountry parses a country by its identifier.
func ParseCountry(s string) (Country, error) { return parseEnum("country", s, Countries) }
