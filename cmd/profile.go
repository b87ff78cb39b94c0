package cmd

import (
	"fmt"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/profile"
	"github.com/spf13/cobra"
)

// addProfileFlags registers the flags profileFromFlags reads.
func addProfileFlags(c *cobra.Command) {
	c.Flags().String("profile", "", "Profile YAML/JSON file; overrides the individual profile flags")
	c.Flags().String("education", string(profile.Bachelors), "Highest degree: high_school, bachelors, masters, doctorate")
	c.Flags().String("experience", string(profile.ExperienceUnder2), "Years of experience: lt2, 2to5, 5plus")
	c.Flags().String("status", string(profile.StatusNone), "Current status: none, f1, opt, h1b, l1, o1, tn, other")
	c.Flags().String("country", string(profile.OtherCountry), "Country of birth: india, china, mexico, philippines, canada, other")
	c.Flags().Bool("stem", false, "Technical field of study")
	c.Flags().Bool("extraordinary", false, "Extraordinary ability")
	c.Flags().Bool("researcher", false, "Outstanding researcher or professor")
	c.Flags().Bool("executive", false, "Multinational executive or manager")
	c.Flags().Bool("married", false, "Married to a US citizen")
	c.Flags().Bool("investor", false, "Able to make the EB-5 investment")
	c.Flags().Bool("treaty-citizen", false, "Citizen of Canada or Mexico regardless of birth country")
	c.Flags().Bool("approved-petition", false, "Already holds an approved I-140")
	c.Flags().Bool("changing-employer", false, "Moving to a new employer")
	c.Flags().String("pd", "", "Existing priority date, e.g. \"Mar 2019\"")
	c.Flags().String("pd-category", "", "Category of the existing priority date: EB-1, EB-2, EB-3")
}

// profileFromFlags builds and validates the profile for a command.
func profileFromFlags(c *cobra.Command) (profile.Profile, error) {
	if file, _ := c.Flags().GetString("profile"); file != "" {
		return profile.LoadFile(file)
	}

	var (
		p   profile.Profile
		err error
	)
	str := func(name string) string {
		v, _ := c.Flags().GetString(name)
		return v
	}
	flag := func(name string) bool {
		v, _ := c.Flags().GetBool(name)
		return v
	}

	if p.Education, err = profile.ParseEducation(str("education")); err != nil {
		return p, err
	}
	if p.Experience, err = profile.ParseExperience(str("experience")); err != nil {
		return p, err
	}
	if p.Status, err = profile.ParseStatus(str("status")); err != nil {
		return p, err
	}
	if p.Country, err = profile.ParseCountry(str("country")); err != nil {
		return p, err
	}
	p.STEM = flag("stem")
	p.ExtraordinaryAbility = flag("extraordinary")
	p.OutstandingResearcher = flag("researcher")
	p.Executive = flag("executive")
	p.MarriedToCitizen = flag("married")
	p.Investor = flag("investor")
	p.TreatyCitizen = flag("treaty-citizen")
	p.HasApprovedPetition = flag("approved-petition")
	p.ChangingEmployer = flag("changing-employer")

	if pd := str("pd"); pd != "" {
		my, err := bulletin.ParseMonthYear(pd)
		if err != nil {
			return p, fmt.Errorf("--pd: %w", err)
		}
		cat, err := bulletin.ParseCategory(str("pd-category"))
		if err != nil {
			return p, fmt.Errorf("--pd-category: %w", err)
		}
		p.PriorityDate = &profile.PriorityDate{
			Date:     profile.Date{Day: 1, Month: int(my.Month), Year: my.Year},
			Category: cat,
		}
	}
	return p, p.Validate()
}
