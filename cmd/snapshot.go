package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect the processing data the engine runs on",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current snapshot: bulletin, DOL queues, USCIS times and fees",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, from, err := loadSnapshot(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		fmt.Printf("Snapshot: %s, as of %s\n\n", from, snap.AsOfMonth())
		return renderSnapshot(os.Stdout, snapshot.OrDefault(snap))
	},
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the current snapshot as YAML (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, _, err := loadSnapshot(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return snap.WriteYAML(os.Stdout)
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := snap.WriteYAML(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotShowCmd, snapshotExportCmd)
	snapshotCmd.PersistentFlags().String("snapshot", "", "Snapshot file to read instead of the latest polled one")
}

func renderSnapshot(out io.Writer, snap *snapshot.Snapshot) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for _, kind := range []bulletin.ChartKind{bulletin.FinalAction, bulletin.DatesForFiling} {
		fmt.Fprintf(w, "%s\tALL OTHER\tCHINA\tINDIA\n", kind)
		for _, cat := range bulletin.Categories {
			fmt.Fprintf(w, "%s", cat)
			for _, ch := range bulletin.Chargeabilities {
				fmt.Fprintf(w, "\t%s", snap.Cutoff(kind, cat, ch))
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "DOL QUEUE\tPROCESSING\t\t")
	for _, q := range []catalog.DOLQueue{catalog.QueuePrevailingWage, catalog.QueuePERM} {
		cut := snap.DOL.Queue(q)
		if cut == "" {
			cut = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t\t\n", q, cut)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "USCIS FORM\tMONTHS\tPREMIUM\t")
	forms := make([]string, 0, len(snap.USCIS))
	for f := range snap.USCIS {
		forms = append(forms, string(f))
	}
	sort.Strings(forms)
	for _, f := range forms {
		ft, _ := snap.Processing(catalog.FormID(f))
		premium := "-"
		if ft.PremiumMonths > 0 {
			premium = fmt.Sprintf("%.1f", ft.PremiumMonths)
		}
		fmt.Fprintf(w, "%s\t%.1f-%.1f\t%s\t\n", f, ft.MinMonths, ft.MaxMonths, premium)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "FORM\tFEE\t\t")
	for _, f := range catalog.Forms {
		fmt.Fprintf(w, "%s\t$%d\t\t\n", f, snap.Fee(f))
	}
	return w.Flush()
}
