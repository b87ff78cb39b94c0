package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gcpath/gcpath/internal/utils"
	"github.com/gcpath/gcpath/pkg/paths"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List every green-card path open to a profile, fastest first",
	Example: `  gcpath paths --education masters --experience 2to5 --status h1b --country india
  gcpath paths --profile me.yaml --stages
  gcpath paths --profile me.yaml --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profileFromFlags(cmd)
		if err != nil {
			return err
		}
		opts, err := engineOptions()
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("porting"); v != "" {
			policy, ok := paths.ParsePortingPolicy(v)
			if !ok {
				return fmt.Errorf("--porting: unknown policy %q", v)
			}
			opts.Porting = policy
		}
		snap, from, err := loadSnapshot(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		utils.Log.Debugf("Using %s snapshot (as of %s)", from, snap.AsOfMonth())

		ps, err := paths.GenerateWithOptions(p, snap, opts)
		if err != nil {
			return err
		}
		if top, _ := cmd.Flags().GetInt("top"); top > 0 && top < len(ps) {
			ps = ps[:top]
		}

		output, _ := cmd.Flags().GetString("output")
		switch output {
		case "json":
			return writeJSON(os.Stdout, ps)
		case "text", "":
			showStages, _ := cmd.Flags().GetBool("stages")
			return renderPaths(os.Stdout, ps, showStages)
		}
		return fmt.Errorf("--output: unknown format %q (use text or json)", output)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	addProfileFlags(pathsCmd)
	pathsCmd.Flags().String("snapshot", "", "Processing snapshot file (default: latest polled, else built-in)")
	pathsCmd.Flags().String("porting", "", "Priority date porting policy: any, same_or_lower (default from config)")
	pathsCmd.Flags().Int("top", 0, "Only show the N fastest paths")
	pathsCmd.Flags().Bool("stages", false, "Print each path's stages")
	pathsCmd.Flags().StringP("output", "o", "text", "Output format: text, json")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderPaths prints the ranked table, optionally with a stage breakdown
// under each path.
func renderPaths(out io.Writer, ps []paths.ComposedPath, showStages bool) error {
	if len(ps) == 0 {
		_, err := fmt.Fprintln(out, "No paths match this profile.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPATH\tCATEGORY\tYEARS\tCOST\tFLAGS")
	for i, p := range ps {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s-%s\t$%d\t%s\n",
			i+1, p.ID, p.Category, utils.FormatYears(p.Duration.Min), utils.FormatYears(p.Duration.Max), p.EstimatedCost, pathFlags(p))
		if !showStages {
			continue
		}
		for _, s := range p.Stages {
			note := s.Note
			if s.Explanation != "" {
				note = s.Explanation
			}
			marker := ""
			if s.IsConcurrent {
				marker = " (concurrent)"
			}
			fmt.Fprintf(w, "\t  - %s%s\t\t%s-%s\tstarts +%sy\t%s\n",
				s.Name, marker, utils.FormatYears(s.Duration.Min), utils.FormatYears(s.Duration.Max), utils.FormatYears(s.StartYear), note)
		}
	}
	return w.Flush()
}

func pathFlags(p paths.ComposedPath) string {
	var flags []string
	if p.IsLottery {
		flags = append(flags, "lottery")
	}
	if p.IsSelfPetition {
		flags = append(flags, "self-petition")
	}
	if !p.PriorityDate.IsZero() {
		flags = append(flags, "pd "+p.PriorityDate.String())
	}
	return strings.Join(flags, ", ")
}
