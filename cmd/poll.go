package cmd

import (
	"fmt"
	"time"

	"github.com/gcpath/gcpath/internal/utils"
	"github.com/gcpath/gcpath/pkg/polling"
	"github.com/gcpath/gcpath/pkg/sources"
	"github.com/gcpath/gcpath/pkg/storage"
	"github.com/gcpath/gcpath/pkg/whttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// pollCmd implements: gcpath poll
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Fetch the visa bulletin, USCIS processing times and DOL queues into the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'gcpath poll --help'", args[0])
		}

		proxy, _ := cmd.Flags().GetString("proxy")
		if proxy == "" {
			proxy = viper.GetString("sources.proxy")
		}
		timeout, _ := cmd.Flags().GetDuration("timeout")
		client, err := whttp.NewClient(whttp.Options{
			RetryMax: viper.GetInt("sources.retry_max"),
			Proxy:    proxy,
			Timeout:  timeout,
		})
		if err != nil {
			return err
		}
		cfg := sources.Config{
			VisaBulletinURL: viper.GetString("sources.visa_bulletin_url"),
			USCISURL:        viper.GetString("sources.uscis_url"),
			DOLURL:          viper.GetString("sources.dol_url"),
		}

		db, dbPath, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		lock, err := utils.NewDBLock(dbPath)
		if err != nil {
			return err
		}
		if err := lock.Lock(cmd.Context()); err != nil {
			return err
		}
		defer lock.Unlock()

		res, err := polling.Poll(cmd.Context(), polling.Config{
			Sources: polling.DefaultSources(cfg, client),
			DB:      db,
			Log:     utils.Log,
			OnSourceDone: func(name string, err error) {
				if err == nil {
					utils.Log.Infof("Fetched %s", name)
				}
			},
		})
		if res != nil {
			for _, e := range res.Errors {
				utils.Log.Warnf("Skipped: %v", e)
			}
		}
		if err != nil {
			return err
		}

		if res.IsFirstRun {
			fmt.Printf("First snapshot stored (bulletin %s).\n", res.Record.AsOf)
			return nil
		}
		if len(res.Changes) == 0 {
			fmt.Println("No cutoff changes since the last poll.")
			return nil
		}
		printChanges(res.Changes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pollCmd)
	pollCmd.Flags().String("proxy", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	pollCmd.Flags().Duration("timeout", 30*time.Second, "Per-request timeout")
}

func printChanges(changes []storage.Change) {
	for _, c := range changes {
		ts := c.OccurredAt.Format("2006-01-02 15:04:05")
		old := c.Old
		if old == "" {
			old = "-"
		}
		where := c.Category
		if c.Chargeability != "" {
			where += " " + c.Chargeability
		}
		fmt.Printf("%s  %-16s  %-14s  %s -> %s\n", ts, c.Chart, where, old, c.New)
	}
}
