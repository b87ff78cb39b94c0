package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{Education: Bachelors, Experience: Experience2To5, Status: StatusH1B, Country: India}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validProfile().Validate())

	bad := []func(*Profile){
		func(p *Profile) { p.Education = "phd" },
		func(p *Profile) { p.Experience = "" },
		func(p *Profile) { p.Status = "h4" },
		func(p *Profile) { p.Country = "narnia" },
		func(p *Profile) { p.PriorityDate = &PriorityDate{Date: Date{Month: 1, Year: 2023}} },
		func(p *Profile) {
			p.PriorityDate = &PriorityDate{Date: Date{Month: 13, Year: 2023}, Category: bulletin.EB2}
		},
	}
	for i, mutate := range bad {
		p := validProfile()
		mutate(&p)
		err := p.Validate()
		assert.ErrorIs(t, err, ErrInvalidProfile, "case %d", i)
	}
}

func TestOrdinals(t *testing.T) {
	assert.True(t, Doctorate.AtLeast(Masters))
	assert.False(t, Bachelors.AtLeast(Masters))
	assert.Equal(t, Masters, Bachelors.Max(Masters))
	assert.Equal(t, Doctorate, Doctorate.Max(Bachelors))
	assert.True(t, Experience5Plus.AtLeast(Experience2To5))
	assert.Equal(t, -1, Education("kindergarten").Rank())
}

func TestChargeabilityAndTreaty(t *testing.T) {
	assert.Equal(t, bulletin.India, India.Chargeability())
	assert.Equal(t, bulletin.China, China.Chargeability())
	assert.Equal(t, bulletin.AllOther, Mexico.Chargeability())

	p := validProfile()
	assert.False(t, p.CanUseTreatyVisa())
	p.TreatyCitizen = true
	assert.True(t, p.CanUseTreatyVisa())
	p = Profile{Country: Canada}
	assert.True(t, p.CanUseTreatyVisa())
}

func TestParseEnums(t *testing.T) {
	e, err := ParseEducation(" Masters ")
	require.NoError(t, err)
	assert.Equal(t, Masters, e)

	_, err = ParseStatus("green")
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	body := `education: bachelors
experience: 5plus
status: h1b
country: india
stem: true
priority_date:
  date: {day: 15, month: 1, year: 2023}
  category: EB-2
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Experience5Plus, p.Experience)
	assert.True(t, p.STEM)
	require.NotNil(t, p.PriorityDate)
	assert.Equal(t, "Jan 2023", p.PriorityDate.Date.MonthYear().String())
}
