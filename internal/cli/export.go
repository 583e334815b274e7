package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"pillbox/internal/export"
	"pillbox/internal/platform"
)

var (
	exportLinks bool
	exportOut   string
	exportUA    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the schedule to a calendar",
	Long: `Export the current schedule. A single daily entry opens directly as a
Google Calendar link; anything else is written as an iCalendar file
for import. With --links, one link is opened per daily entry instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ua := exportUA
		if ua == "" {
			ua = cfg.UserAgent
		}
		outDir := exportOut
		if outDir == "" {
			outDir = cfg.OutputDir
		}

		ex := &export.Exporter{
			Platform:   platform.Classify(ua),
			Navigator:  export.BrowserNavigator{},
			Sharer:     export.NoShare{},
			Downloader: export.FileDownloader{Dir: outDir},
			Notifier:   export.WriterNotifier{W: cmd.OutOrStdout()},
			Filename:   cfg.Filename,
		}

		var out export.Outcome
		var err error
		if exportLinks {
			out, err = ex.DeliverLinks(cmd.Context(), st.List())
		} else {
			out, err = ex.Deliver(cmd.Context(), st.List())
		}
		if errors.Is(err, export.ErrNoEntries) {
			// The notice was already shown; an empty list is not a failure.
			return nil
		}
		if err != nil {
			return err
		}

		switch out.Mode {
		case export.ModeLink:
			if exportLinks {
				cmd.Printf("Opened %d calendar link(s)\n", out.LinksOpened)
			} else {
				cmd.Printf("Opened calendar link:\n%s\n", out.URL)
			}
		case export.ModeShare:
			cmd.Printf("Shared %s\n", out.Path)
		case export.ModeNavigate:
			cmd.Println("Opened calendar document")
		case export.ModeDownload:
			cmd.Printf("Saved %s (%d events)\n", out.Path, out.EventCount)
		}

		if len(out.Skipped) > 0 {
			cmd.Printf("Skipped %d entr%s; run with -v for details\n",
				len(out.Skipped), plural(len(out.Skipped)))
		}
		return nil
	},
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	exportCmd.Flags().BoolVar(&exportLinks, "links", false,
		"open one calendar link per daily entry instead of a file export")
	exportCmd.Flags().StringVar(&exportOut, "out", "",
		"output directory for the calendar file (default from config)")
	exportCmd.Flags().StringVar(&exportUA, "user-agent", "",
		"user-agent string for platform detection (default from config)")
	rootCmd.AddCommand(exportCmd)
}
