// Package visabulletin reads the employment-based charts from the State
// Department visa bulletin page.
package visabulletin

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/gcpath/gcpath/pkg/sources"
	"github.com/gcpath/gcpath/pkg/whttp"
)

type Source struct {
	URL    string
	Client *whttp.Client
}

func New(url string, client *whttp.Client) *Source {
	return &Source{URL: url, Client: client}
}

func (s *Source) Name() string { return "visa_bulletin" }

// Fetch downloads the bulletin page and parses both charts.
func (s *Source) Fetch(ctx context.Context) (*snapshot.Snapshot, error) {
	res, err := s.Client.Get(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("visa bulletin: %w", err)
	}
	part, err := Parse(res.BodyString)
	if err != nil {
		return nil, fmt.Errorf("visa bulletin: %w", err)
	}
	if month, err := sources.MonthFromTitle(res.HTTPTitle); err == nil {
		part.AsOf = month
	}
	return part, nil
}

var rowCategories = map[string]bulletin.Category{
	"1st": bulletin.EB1,
	"2nd": bulletin.EB2,
	"3rd": bulletin.EB3,
}

// Parse extracts the two employment-based tables. The first is final
// action, the second dates for filing, matching the page order.
func Parse(body string) (*snapshot.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var charts []bulletin.Chart
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		header := rows.First().Find("td,th")
		if !strings.Contains(strings.ToLower(header.First().Text()), "employment") {
			return
		}
		cols := columns(header)
		if len(cols) == 0 {
			return
		}
		chart := bulletin.Chart{}
		rows.Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				return
			}
			cells := tr.Find("td,th")
			cat, ok := rowCategories[strings.ToLower(strings.TrimSpace(cells.First().Text()))]
			if !ok {
				return
			}
			var row bulletin.Row
			for idx, ch := range cols {
				cell, ok := sources.NormalizeCell(cells.Eq(idx).Text())
				if !ok {
					continue
				}
				switch ch {
				case bulletin.AllOther:
					row.AllOther = cell
				case bulletin.China:
					row.China = cell
				case bulletin.India:
					row.India = cell
				}
			}
			chart[cat] = row
		})
		if len(chart) > 0 {
			charts = append(charts, chart)
		}
	})

	if len(charts) < 2 {
		return nil, fmt.Errorf("found %d employment-based charts, want 2", len(charts))
	}
	return &snapshot.Snapshot{Bulletin: bulletin.Charts{
		FinalAction:    charts[0],
		DatesForFiling: charts[1],
	}}, nil
}

// columns maps header cell positions to chargeability buckets.
func columns(header *goquery.Selection) map[int]bulletin.Chargeability {
	cols := map[int]bulletin.Chargeability{}
	header.Each(func(i int, th *goquery.Selection) {
		text := strings.ToLower(th.Text())
		switch {
		case strings.Contains(text, "all chargeability"):
			cols[i] = bulletin.AllOther
		case strings.Contains(text, "china"):
			cols[i] = bulletin.China
		case strings.Contains(text, "india"):
			cols[i] = bulletin.India
		}
	})
	return cols
}
