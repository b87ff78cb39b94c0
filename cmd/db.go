package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/gcpath/gcpath/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the gcpath snapshot database",
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print how many snapshots and cutoff changes are stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openExistingDB()
		if err != nil {
			return err
		}
		if db == nil {
			fmt.Println("No database yet. Run 'gcpath poll' to create it.")
			return nil
		}
		defer db.Close()

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return err
		}
		if stats.Snapshots == 0 {
			fmt.Println("No snapshots in the database.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "SNAPSHOTS\t%d\n", stats.Snapshots)
		fmt.Fprintf(w, "CUTOFF CHANGES\t%d\n", stats.Changes)
		fmt.Fprintf(w, "FIRST POLL\t%s\n", stats.OldestFetch.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "LAST POLL\t%s\n", stats.LatestFetch.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "LATEST BULLETIN\t%s\n", stats.LatestAsOf)
		fmt.Fprintf(w, "LATEST ID\t%s\n", stats.LatestID)
		return w.Flush()
	},
}

// dbShellCmd represents the shell command
var dbShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := utils.GetAbsDBPath(viper.GetString("dbpath"))
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", dbPath)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		fmt.Println("--> Database schema:")
		schemaCmd := exec.Command(sqlitePath, dbPath, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, dbPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbStatsCmd, dbShellCmd)
}
