package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cartwise/store-service/internal/hours"
)

var (
	hoursOutput string
	hoursAt     string
)

// hoursCmd represents the hours command
var hoursCmd = &cobra.Command{
	Use:   "hours <schedule>",
	Short: "Parse an opening-hours string and show the weekly schedule",
	Long: `Parse an opening-hours string (e.g. "Mo-Fr 08:00-20:00; Sa 09:00-14:00")
and print the resulting weekly schedule plus the current open status.
Malformed clauses degrade to closed days rather than failing.`,
	Example: `  store-service hours "Mo-Fr 08:00-20:00; Sa 09:00-14:00; Su off"
  store-service hours "24/7" --output json
  store-service hours "Mo-Su 07:00-22:00" --at "2024-01-08T10:00:00Z"`,
	Args: cobra.ExactArgs(1),
	RunE: runHours,
}

func init() {
	rootCmd.AddCommand(hoursCmd)

	hoursCmd.Flags().StringVar(&hoursOutput, "output", "table", "Output format: table or json")
	hoursCmd.Flags().StringVar(&hoursAt, "at", "", "Evaluate status at this RFC3339 time instead of now")
}

func runHours(cmd *cobra.Command, args []string) error {
	week := hours.Parse(args[0])

	now := time.Now()
	if hoursAt != "" {
		parsed, err := time.Parse(time.RFC3339, hoursAt)
		if err != nil {
			return fmt.Errorf("invalid --at time: %w", err)
		}
		now = parsed
	}
	status := hours.Status(week, now)

	if hoursOutput == "json" {
		out := struct {
			Schedule hours.WeeklySchedule `json:"schedule"`
			Status   hours.OpenStatus     `json:"status"`
		}{week, status}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	dayNames := [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tOPEN\tCLOSE")
	for i, day := range week {
		switch {
		case day.Is24h:
			fmt.Fprintf(w, "%s\topen\t24h\n", dayNames[i])
		case day.IsClosed:
			fmt.Fprintf(w, "%s\tclosed\t\n", dayNames[i])
		default:
			fmt.Fprintf(w, "%s\t%s\t%s\n", dayNames[i], day.OpenTime, day.CloseTime)
		}
	}
	w.Flush()

	if status.IsOpen {
		fmt.Printf("\nOpen now, closes at %s\n", status.NextClose)
	} else if status.NextOpen != "" {
		fmt.Printf("\nClosed now, opens %s\n", status.NextOpen)
	} else {
		fmt.Println("\nClosed all week")
	}
	return nil
}
