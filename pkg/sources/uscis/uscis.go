// Package uscis reads published processing times from the USCIS
// processing-times API.
package uscis

import (
	"context"
	"fmt"
	"strings"

	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/gcpath/gcpath/pkg/whttp"
	"github.com/tidwall/gjson"
)

// Forms are the forms whose processing time drives a stage duration.
var Forms = []catalog.FormID{catalog.FormI140, catalog.FormI485, catalog.FormI130, catalog.FormI526E}

type Source struct {
	BaseURL string
	Client  *whttp.Client
}

func New(baseURL string, client *whttp.Client) *Source {
	return &Source{BaseURL: strings.TrimSuffix(baseURL, "/"), Client: client}
}

func (s *Source) Name() string { return "uscis" }

// Fetch queries each form in turn. A form that fails to parse is skipped;
// the engine falls back to the default for it.
func (s *Source) Fetch(ctx context.Context) (*snapshot.Snapshot, error) {
	part := &snapshot.Snapshot{USCIS: map[catalog.FormID]snapshot.FormTime{}}
	var lastErr error
	for _, form := range Forms {
		res, err := s.Client.Get(ctx, s.BaseURL+"/"+string(form), whttp.WHTTPHeader{Name: "Accept", Value: "application/json"})
		if err != nil {
			lastErr = err
			continue
		}
		ft, err := Parse(res.BodyString)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", form, err)
			continue
		}
		part.USCIS[form] = ft
	}
	if len(part.USCIS) == 0 {
		return nil, fmt.Errorf("uscis: no processing times: %w", lastErr)
	}
	return part, nil
}

// Parse reads one processing-time response. The range lists the upper and
// lower bound in either order; units may be months, weeks or days.
func Parse(body string) (snapshot.FormTime, error) {
	if !gjson.Valid(body) {
		return snapshot.FormTime{}, fmt.Errorf("invalid json")
	}
	pt := gjson.Get(body, "data.processing_time")
	bounds := pt.Get("range").Array()
	if len(bounds) == 0 {
		return snapshot.FormTime{}, fmt.Errorf("no processing range")
	}
	var ft snapshot.FormTime
	for i, b := range bounds {
		months := toMonths(b.Get("value").Float(), b.Get("unit").String())
		if i == 0 || months < ft.MinMonths {
			ft.MinMonths = months
		}
		if months > ft.MaxMonths {
			ft.MaxMonths = months
		}
	}
	if ft.MaxMonths <= 0 {
		return snapshot.FormTime{}, fmt.Errorf("empty processing range")
	}
	if prem := pt.Get("premium_processing"); prem.Exists() {
		ft.PremiumMonths = toMonths(prem.Get("value").Float(), prem.Get("unit").String())
	}
	return ft, nil
}

func toMonths(v float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "weeks", "week":
		return v * 7 / 30
	case "days", "day", "business days":
		return v / 30
	}
	return v
}
