package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show download lifecycle records",
	Long: `Show download lifecycle records.

Examples:
  fetcharr history                   # Recent records, newest first
  fetcharr history --source radarr   # Only movie downloads
  fetcharr history --status failed   # Only failed records
  fetcharr history --limit 5`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("source", "", "Filter by source (sonarr, radarr)")
	historyCmd.Flags().String("status", "", "Filter by status (pending, sent, failed)")
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum records to show")
}

// recordState condenses the lifecycle columns into one word.
func recordState(r *HistoryRecord) string {
	switch {
	case r.LastError != nil:
		return "error"
	case r.FileMovedAt != nil:
		return "moved"
	case r.IsUpgrade && r.UpgradeDecision != nil:
		return *r.UpgradeDecision
	case r.IsUpgrade && r.DownloadCompletedAt != nil:
		return "awaiting decision"
	case r.DownloadCompletedAt != nil:
		return "downloaded"
	default:
		return string(r.Status)
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	client := NewClient(serverURL)
	records, err := client.History(source, status, limit)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if jsonOutput {
		printJSON(records)
		return nil
	}

	if len(records) == 0 {
		fmt.Println("No history records")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		size := "-"
		if r.FileSize != nil {
			size = humanize.IBytes(uint64(*r.FileSize))
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Source,
			itemLabel(r.ItemTitle, r.Season, r.Episode, r.Year),
			r.Quality,
			size,
			recordState(r),
			humanize.Time(r.CreatedAt),
		})
	}
	fmt.Println(renderTable(
		[]string{"ID", "SOURCE", "ITEM", "QUALITY", "SIZE", "STATE", "AGE"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}
