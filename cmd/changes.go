package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent cutoff movements between polls (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		db, err := openExistingDB()
		if err != nil {
			return err
		}
		if db == nil {
			return fmt.Errorf("database not found, run 'gcpath poll' first")
		}
		defer db.Close()
		changes, err := db.ListRecentChanges(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			fmt.Println("No cutoff changes recorded yet.")
			return nil
		}
		printChanges(changes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changesCmd)
	changesCmd.Flags().Int("limit", 50, "Number of recent changes to show")
}
