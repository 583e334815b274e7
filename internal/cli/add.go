package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pillbox/internal/model"
	"pillbox/internal/sanitize"
)

var (
	addDosage string
	addTime   string
	addDates  []string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a medication entry",
	Long: `Add a medication to the schedule. Without --date the entry repeats
daily at the given time; with one or more --date flags it fires only
on those dates.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := sanitize.Clean(args[0])
		if name == "" {
			return errors.New("medication name is required")
		}
		if !sanitize.ValidName(name) {
			return fmt.Errorf("medication name %q contains unsupported characters", name)
		}

		tod, err := model.ParseTimeOfDay(addTime)
		if err != nil {
			return err
		}

		med := model.Medication{
			Name:      name,
			Dosage:    sanitize.Clean(addDosage),
			Time:      tod,
			Frequency: model.FrequencyDaily,
		}
		if len(addDates) > 0 {
			med.Frequency = model.FrequencySpecificDates
			for _, ds := range addDates {
				d, err := model.ParseDate(ds)
				if err != nil {
					return err
				}
				med.Dates = append(med.Dates, d)
			}
		}

		added, err := st.Add(med)
		if err != nil {
			return err
		}

		cmd.Printf("Added %s (%s at %s)\n", added.Name, added.Frequency, added.Time)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDosage, "dosage", "", `dosage display text, e.g. "1000 IU"`)
	addCmd.Flags().StringVar(&addTime, "time", "09:00", "time of day (HH:MM, 24-hour)")
	addCmd.Flags().StringSliceVar(&addDates, "date", nil,
		"specific date (YYYY-MM-DD), repeatable; omit for a daily entry")
	rootCmd.AddCommand(addCmd)
}
