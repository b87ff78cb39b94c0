package cmd

import (
	"fmt"
	"os"

	"github.com/gcpath/gcpath/internal/utils"
	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/profile"
	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Estimate how long a priority date waits for its category to become current",
	Example: `  gcpath wait --pd "Mar 2019" --category EB-2 --country india
  gcpath wait --pd "Mar 2019" --category EB-3 --country china --chart dates_for_filing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pdRaw, _ := cmd.Flags().GetString("pd")
		pd, err := bulletin.ParseMonthYear(pdRaw)
		if err != nil {
			return fmt.Errorf("--pd: %w", err)
		}
		catRaw, _ := cmd.Flags().GetString("category")
		cat, err := bulletin.ParseCategory(catRaw)
		if err != nil {
			return err
		}
		countryRaw, _ := cmd.Flags().GetString("country")
		country, err := profile.ParseCountry(countryRaw)
		if err != nil {
			return err
		}
		chartRaw, _ := cmd.Flags().GetString("chart")
		chart := bulletin.ChartKind(chartRaw)
		if chart != bulletin.FinalAction && chart != bulletin.DatesForFiling {
			return fmt.Errorf("--chart: unknown chart %q", chartRaw)
		}

		opts, err := engineOptions()
		if err != nil {
			return err
		}
		snap, _, err := loadSnapshot(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		cutoff := snap.Cutoff(chart, cat, country.Chargeability())
		est := opts.WaitModel().Calculate(pd, cutoff, country, cat)

		if output, _ := cmd.Flags().GetString("output"); output == "json" {
			return writeJSON(os.Stdout, est)
		}
		fmt.Printf("%s %s (%s), cutoff %s, bulletin %s\n", cat, country.Chargeability(), chart, cutoff, snap.AsOfMonth())
		fmt.Printf("Estimated wait: %s years (%s-%s), confidence %.0f%%, method %s\n",
			utils.FormatYears(est.Years()), utils.FormatYears(est.Low/12), utils.FormatYears(est.High/12), est.Confidence*100, est.Method)
		if est.Explanation != "" {
			fmt.Println(est.Explanation)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().String("pd", "", "Priority date, e.g. \"Mar 2019\"")
	waitCmd.Flags().String("category", "EB-2", "Preference category: EB-1, EB-2, EB-3")
	waitCmd.Flags().String("country", string(profile.OtherCountry), "Country of birth")
	waitCmd.Flags().String("chart", string(bulletin.FinalAction), "Bulletin chart: final_action, dates_for_filing")
	waitCmd.Flags().String("snapshot", "", "Processing snapshot file (default: latest polled, else built-in)")
	waitCmd.Flags().StringP("output", "o", "text", "Output format: text, json")
	waitCmd.MarkFlagRequired("pd")
}
