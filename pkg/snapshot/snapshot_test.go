package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsCompleteAndValid(t *testing.T) {
	d := Default()
	require.NoError(t, d.Validate())
	for _, kind := range []bulletin.ChartKind{bulletin.FinalAction, bulletin.DatesForFiling} {
		for _, cat := range bulletin.Categories {
			for _, ch := range bulletin.Chargeabilities {
				cell, ok := d.Bulletin.Chart(kind).Cutoff(cat, ch)
				require.True(t, ok, "%s %s %s", kind, cat, ch)
				assert.True(t, bulletin.ValidCell(cell))
			}
		}
	}
	for _, f := range catalog.Forms {
		assert.Contains(t, d.Fees, f)
	}
}

func TestDefaultReturnsCopies(t *testing.T) {
	a := Default()
	a.Fees[catalog.FormI485] = 1
	a.Bulletin.FinalAction[bulletin.EB2] = bulletin.Row{}
	b := Default()
	assert.Equal(t, 1440, b.Fees[catalog.FormI485])
	assert.Equal(t, "Jan 2013", b.Bulletin.FinalAction[bulletin.EB2].India)
}

func TestFeeFallbacks(t *testing.T) {
	s := &Snapshot{Fees: map[catalog.FormID]int{catalog.FormI485: 1500}}
	assert.Equal(t, 1500, s.Fee(catalog.FormI485))
	assert.Equal(t, 715, s.Fee(catalog.FormI140))
	assert.Equal(t, ConservativeFee, s.Fee("I-999"))

	var none *Snapshot
	assert.Equal(t, 715, none.Fee(catalog.FormI140))
}

func TestCutoffFallsBackPerCell(t *testing.T) {
	s := &Snapshot{Bulletin: bulletin.Charts{
		FinalAction: bulletin.Chart{bulletin.EB2: {India: "Mar 2013"}},
	}}
	assert.Equal(t, "Mar 2013", s.Cutoff(bulletin.FinalAction, bulletin.EB2, bulletin.India))
	assert.Equal(t, "Apr 2024", s.Cutoff(bulletin.FinalAction, bulletin.EB2, bulletin.AllOther))
	assert.Equal(t, "Dec 2013", s.Cutoff(bulletin.DatesForFiling, bulletin.EB2, bulletin.India))
}

func TestStageDuration(t *testing.T) {
	p := profile.Profile{STEM: true}
	d := Default()

	assert.Equal(t, catalog.Duration{Min: 0.5, Max: 0.75}, d.StageDuration(catalog.StageI140, p))
	assert.Equal(t, catalog.Fixed(3), d.StageDuration(catalog.StageOPT, p))
	assert.Equal(t, catalog.Stage(catalog.StageRecruitment).Default, d.StageDuration(catalog.StageRecruitment, p))

	// PERM: Dec 2022 processing as of Oct 2024 is 22 months behind.
	perm := d.StageDuration(catalog.StagePERM, p)
	assert.InDelta(t, 22.0/12, perm.Min, 1e-9)
	assert.InDelta(t, 22.0/12*dolSpread, perm.Max, 1e-9)

	d.DOL.PERM = "garbage"
	assert.Equal(t, catalog.Stage(catalog.StagePERM).Default, d.StageDuration(catalog.StagePERM, p))
}

func TestProcessingPremium(t *testing.T) {
	ft, ok := Default().Processing(catalog.FormI140)
	require.True(t, ok)
	assert.Equal(t, 0.5, ft.PremiumMonths)
	_, ok = Default().Processing(catalog.FormI765)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	s := &Snapshot{Bulletin: bulletin.Charts{DatesForFiling: bulletin.Chart{bulletin.EB3: {China: "soon"}}}}
	assert.ErrorIs(t, s.Validate(), ErrInvalidSnapshot)

	s = &Snapshot{USCIS: map[catalog.FormID]FormTime{catalog.FormI485: {MinMonths: 9, MaxMonths: 3}}}
	assert.ErrorIs(t, s.Validate(), ErrInvalidSnapshot)

	s = &Snapshot{DOL: DOL{PERM: "13/2023"}}
	assert.ErrorIs(t, s.Validate(), ErrInvalidSnapshot)

	assert.NoError(t, (&Snapshot{}).Validate())
}

func TestMerge(t *testing.T) {
	s := Default()
	s.Merge(&Snapshot{
		AsOf: bulletin.NewMonthYear(2025, 1),
		DOL:  DOL{PERM: "Mar 2023"},
		Bulletin: bulletin.Charts{FinalAction: bulletin.Chart{
			bulletin.EB2: {AllOther: "Current", China: "Jan 2021", India: "Feb 2013"},
		}},
	})
	assert.Equal(t, "Jan 2025", s.AsOf.String())
	assert.Equal(t, "Mar 2023", s.DOL.PERM)
	assert.Equal(t, "Mar 2024", s.DOL.PrevailingWage)
	assert.Equal(t, "Feb 2013", s.Cutoff(bulletin.FinalAction, bulletin.EB2, bulletin.India))
	assert.Equal(t, "Dec 2013", s.Cutoff(bulletin.DatesForFiling, bulletin.EB2, bulletin.India))
}

func TestYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().WriteYAML(&buf))

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}
