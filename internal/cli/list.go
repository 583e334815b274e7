package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"pillbox/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List medication entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		meds := st.List()
		if len(meds) == 0 {
			cmd.Println(`No medications yet. Use "pillbox add" to create one.`)
			return nil
		}

		for _, m := range meds {
			schedule := "daily"
			if m.Frequency == model.FrequencySpecificDates {
				var dates []string
				for _, d := range m.SortedDates() {
					dates = append(dates, d.String())
				}
				schedule = strings.Join(dates, ", ")
			}

			dosage := m.Dosage
			if dosage == "" {
				dosage = "-"
			}
			cmd.Printf("%s  %-20s %-12s %s  %s\n", m.ID, m.Name, dosage, m.Time, schedule)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
