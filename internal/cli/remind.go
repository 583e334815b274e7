package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pillbox/internal/remind"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run in the foreground and print reminders when doses are due",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := &remind.Runner{
			Entries: st.List,
			Notify: func(msg string) {
				cmd.Println(msg)
			},
		}

		cmd.Println("Watching for due medications. Press Ctrl-C to stop.")
		return r.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
}
