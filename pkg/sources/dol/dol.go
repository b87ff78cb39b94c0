// Package dol reads the "currently processing" months from the Department of
// Labor FLAG processing-times page.
package dol

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/gcpath/gcpath/pkg/whttp"
)

type Source struct {
	URL    string
	Client *whttp.Client
}

func New(url string, client *whttp.Client) *Source {
	return &Source{URL: url, Client: client}
}

func (s *Source) Name() string { return "dol" }

func (s *Source) Fetch(ctx context.Context) (*snapshot.Snapshot, error) {
	res, err := s.Client.Get(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("dol: %w", err)
	}
	part, err := Parse(res.BodyString)
	if err != nil {
		return nil, fmt.Errorf("dol: %w", err)
	}
	return part, nil
}

// Parse finds the prevailing wage and PERM tables by caption and takes the
// month from the row for PERM cases: "PERM" in the wage table, "Analyst
// Review" in the PERM table.
func Parse(body string) (*snapshot.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	part := &snapshot.Snapshot{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		caption := strings.ToLower(table.Find("caption").Text())
		switch {
		case strings.Contains(caption, "prevailing wage"):
			if m, ok := rowMonth(table, "perm"); ok {
				part.DOL.PrevailingWage = m
			}
		case strings.Contains(caption, "perm"):
			if m, ok := rowMonth(table, "analyst review"); ok {
				part.DOL.PERM = m
			}
		}
	})
	if part.DOL.PrevailingWage == "" && part.DOL.PERM == "" {
		return nil, fmt.Errorf("no processing months found")
	}
	return part, nil
}

// rowMonth returns the last parsable month in the first row whose label
// contains label.
func rowMonth(table *goquery.Selection, label string) (string, bool) {
	var out string
	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td,th")
		if !strings.Contains(strings.ToLower(cells.First().Text()), label) {
			return true
		}
		for i := cells.Length() - 1; i > 0; i-- {
			if m, err := bulletin.ParseMonthYear(cells.Eq(i).Text()); err == nil {
				out = m.String()
				break
			}
		}
		return false
	})
	return out, out != ""
}
