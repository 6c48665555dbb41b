package commands

import (
	"fmt"
	"os"

	"github.com/battlesnakeio/gridsnake/config"
	"github.com/battlesnakeio/gridsnake/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "gridsnake",
	Short:   "gridsnake plays, simulates and hosts games of snake on a grid",
	Version: version.Version,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		return setupLogging(logLevel, logJSON)
	},
	Run: func(c *cobra.Command, args []string) {
		playCmd.Run(c, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "prints the gridsnake version",
	Run: func(*cobra.Command, []string) {
		fmt.Println(version.Version)
	},
}

var (
	apiAddr  string
	logLevel string
	logJSON  bool
)

// Execute runs the root command
func Execute() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.LogLevel, "log level, one of: [debug, info, warn, error]")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as json")
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api-addr", "http://localhost:3005", "address of the api server")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setupLogging(level string, json bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return nil
}
