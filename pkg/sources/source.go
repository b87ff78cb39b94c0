// Package sources defines the fetchers that build a processing snapshot from
// government sites. Each source fills part of a snapshot; polling merges
// the parts.
package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/snapshot"
)

// Source fetches one slice of the snapshot. The returned snapshot carries
// only the sections the source owns.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*snapshot.Snapshot, error)
}

// Config holds the source endpoints.
type Config struct {
	VisaBulletinURL string
	USCISURL        string
	DOLURL          string
}

// DefaultConfig points at the live government pages.
func DefaultConfig() Config {
	return Config{
		VisaBulletinURL: "https://travel.state.gov/content/travel/en/legal/visa-law0/visa-bulletin.html",
		USCISURL:        "https://egov.uscis.gov/processing-times/api/processingtime",
		DOLURL:          "https://flag.dol.gov/processingtimes",
	}
}

// NormalizeCell converts a bulletin cell to chart form: "C" becomes
// "Current", "01JAN23" becomes "Jan 2023". ok is false for cells that are
// neither, such as "U" (unavailable).
func NormalizeCell(raw string) (string, bool) {
	cell := strings.ToUpper(strings.TrimSpace(raw))
	if bulletin.IsCurrent(cell) {
		return bulletin.Current, true
	}
	if t, err := time.Parse("02Jan06", titleMonth(cell)); err == nil {
		return bulletin.NewMonthYear(t.Year(), t.Month()).String(), true
	}
	if my, err := bulletin.ParseMonthYear(cell); err == nil {
		return my.String(), true
	}
	return "", false
}

// titleMonth turns "01JAN23" into "01Jan23" for time.Parse.
func titleMonth(s string) string {
	if len(s) != 7 {
		return s
	}
	return s[:3] + strings.ToLower(s[3:5]) + s[5:]
}

// MonthFromTitle finds the trailing "Month Year" in a page title such as
// "Visa Bulletin For November 2024".
func MonthFromTitle(title string) (bulletin.MonthYear, error) {
	fields := strings.Fields(title)
	if len(fields) < 2 {
		return bulletin.MonthYear{}, fmt.Errorf("no month in title %q", title)
	}
	return bulletin.ParseMonthYear(strings.Join(fields[len(fields)-2:], " "))
}
