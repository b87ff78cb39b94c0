package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gcpath/gcpath/internal/utils"
	"github.com/gcpath/gcpath/pkg/paths"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/gcpath/gcpath/pkg/sources"
	"github.com/gcpath/gcpath/pkg/storage"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gcpath",
	Short: "Find and compare every route from your current status to a US green card.",
	Long: `gcpath enumerates the employment, family and investment routes open to a profile,
lays each one out on a timeline using published processing times and the visa bulletin,
and ranks them by expected time to the green card.

Processing data comes from a built-in snapshot until 'gcpath poll' fetches a fresh one.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gcpath.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/gcpath/gcpath.sqlite)")
	viper.BindPFlag("dbpath", rootCmd.PersistentFlags().Lookup("dbpath"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	defaults := sources.DefaultConfig()
	viper.SetDefault("dbpath", "")
	viper.SetDefault("sources.visa_bulletin_url", defaults.VisaBulletinURL)
	viper.SetDefault("sources.uscis_url", defaults.USCISURL)
	viper.SetDefault("sources.dol_url", defaults.DOLURL)
	viper.SetDefault("sources.retry_max", 3)
	viper.SetDefault("sources.proxy", "")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("engine.porting", string(paths.PortAnyCategory))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".gcpath")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := filepath.Join(home, ".gcpath.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				utils.Log.Debugf("Could not create config file: %v", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	if err := utils.SetLogLevel(levelString); err != nil {
		utils.Log.Warn(err)
	}
}

// engineOptions reads the engine settings from the config.
func engineOptions() (paths.Options, error) {
	raw := viper.GetString("engine.porting")
	policy, ok := paths.ParsePortingPolicy(raw)
	if !ok {
		return paths.Options{}, fmt.Errorf("engine.porting: unknown policy %q (use any or same_or_lower)", raw)
	}
	return paths.Options{Porting: policy}, nil
}

// openDB opens the snapshot cache, creating its directory.
func openDB() (*storage.DB, string, error) {
	path, err := utils.GetAbsDBPath(viper.GetString("dbpath"))
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, "", err
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	return db, path, nil
}

// openExistingDB opens the snapshot cache only when it already exists. A
// nil DB with a nil error means nothing has been polled yet.
func openExistingDB() (*storage.DB, error) {
	path, err := utils.GetAbsDBPath(viper.GetString("dbpath"))
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return storage.Open(path)
}

// loadSnapshot picks the processing data for a command: an explicit file,
// else the latest polled snapshot, else the built-in one (nil).
func loadSnapshot(ctx context.Context, cmd *cobra.Command) (*snapshot.Snapshot, string, error) {
	if file, _ := cmd.Flags().GetString("snapshot"); file != "" {
		snap, err := snapshot.LoadFile(file)
		if err != nil {
			return nil, "", err
		}
		return snap, file, nil
	}
	db, err := openExistingDB()
	if err != nil {
		return nil, "", err
	}
	if db == nil {
		return nil, "built-in", nil
	}
	defer db.Close()
	rec, err := db.LatestSnapshot(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		return nil, "built-in", nil
	}
	if err != nil {
		return nil, "", err
	}
	return rec.Snapshot, "polled " + rec.FetchedAt.Format("2006-01-02"), nil
}
