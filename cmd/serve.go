package cmd

import (
	"github.com/gcpath/gcpath/internal/server"
	"github.com/gcpath/gcpath/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the path engine as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := engineOptions()
		if err != nil {
			return err
		}
		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = viper.GetString("server.listen")
		}

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if _, err := db.LatestSnapshot(cmd.Context()); err != nil {
			utils.Log.Infof("No polled snapshot yet, serving built-in data (%v)", err)
		}

		return server.New(db, opts).Start(listen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from config server.listen)")
}
