// Package cli wires the cobra command tree over the store and the
// export engine.
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pillbox/internal/config"
	appLog "pillbox/internal/log"
	"pillbox/internal/store"
)

var (
	cfgPath string
	verbose bool

	// Loaded by the persistent pre-run; every subcommand can rely on
	// both being non-nil.
	cfg *config.Config
	st  *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "pillbox",
	Short: "Medication schedule manager with calendar export",
	Long: `Pillbox keeps a list of recurring medication reminders and exports
them into calendar applications, either as a single Google Calendar
link or as an iCalendar file for import.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to config file (default: <user config dir>/pillbox/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		path := cfgPath
		if path == "" {
			base, err := os.UserConfigDir()
			if err != nil {
				return err
			}
			path = filepath.Join(base, "pillbox", "config.yaml")
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}

		if verbose {
			appLog.SetLevel(appLog.LevelDebug)
		} else {
			appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
		}

		st, err = store.Open(cfg.StorePath)
		return err
	}
}
