package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gcpath/gcpath/internal/utils"
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the built-in stages, status paths and filing methods",
	RunE: func(cmd *cobra.Command, args []string) error {
		if output, _ := cmd.Flags().GetString("output"); output == "json" {
			return writeJSON(os.Stdout, map[string]interface{}{
				"stages":       catalog.Stages(),
				"status_paths": catalog.StatusPaths(),
				"methods":      catalog.GCMethods(),
			})
		}
		return renderCatalog(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringP("output", "o", "text", "Output format: text, json")
}

func renderCatalog(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "STAGE\tNAME\tTRACK\tYEARS\tFORMS")
	for _, s := range catalog.Stages() {
		forms := make([]string, 0, len(s.Forms))
		for _, f := range s.Forms {
			forms = append(forms, string(f))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s-%s\t%s\n", s.ID, s.Name, s.Track,
			utils.FormatYears(s.Default.Min), utils.FormatYears(s.Default.Max), strings.Join(forms, ", "))
	}

	fmt.Fprintln(w, "\nSTATUS PATH\tNAME\tFROM\tFILE AT\tSTAGES")
	for _, sp := range catalog.StatusPaths() {
		from := make([]string, 0, len(sp.ValidFrom))
		for _, s := range sp.ValidFrom {
			from = append(from, string(s))
		}
		offset := "after status"
		if !sp.FilingOffset.NotApplicable {
			offset = "+" + utils.FormatYears(sp.FilingOffset.Years) + "y"
		}
		stages := make([]string, 0, len(sp.Stages))
		for _, st := range sp.Stages {
			stages = append(stages, string(st.Stage))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", sp.ID, sp.Name, strings.Join(from, ","), offset, strings.Join(stages, " > "))
	}

	fmt.Fprintln(w, "\nMETHOD\tNAME\tCATEGORY\tSTAGES\t")
	for _, m := range catalog.GCMethods() {
		cat := string(m.FixedCategory)
		if cat == "" {
			cat = "by education"
		}
		stages := make([]string, 0, len(m.Stages))
		for _, st := range m.Stages {
			id := string(st.Stage)
			if st.Concurrent {
				id += "*"
			}
			stages = append(stages, id)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", m.ID, m.Name, cat, strings.Join(stages, " > "))
	}
	fmt.Fprintln(w, "\n* filed concurrently with the previous stage\t\t\t\t")
	return w.Flush()
}
