package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var validDecisions = []string{"use_new", "keep_old", "keep_both"}

var upgradesCmd = &cobra.Command{
	Use:   "upgrades",
	Short: "List finished upgrades awaiting a decision",
	Long: `List finished upgrades awaiting a decision.

An upgrade download is parked after it finishes; the replaced library
file is only touched once a decision is made.

Examples:
  fetcharr upgrades                     # List parked upgrades
  fetcharr upgrades decide 7 use_new    # Replace the old file
  fetcharr upgrades decide 7 keep_old   # Discard the download
  fetcharr upgrades decide 7 keep_both  # Keep both versions`,
	RunE: runUpgrades,
}

var upgradesDecideCmd = &cobra.Command{
	Use:   "decide <id> <use_new|keep_old|keep_both>",
	Short: "Apply a decision to a parked upgrade",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpgradesDecide,
}

func init() {
	rootCmd.AddCommand(upgradesCmd)
	upgradesCmd.AddCommand(upgradesDecideCmd)
}

func runUpgrades(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	records, err := client.Upgrades()
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if jsonOutput {
		printJSON(records)
		return nil
	}

	if len(records) == 0 {
		fmt.Println("No upgrades awaiting a decision")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		size := "-"
		if r.FileSize != nil {
			size = humanize.IBytes(uint64(*r.FileSize))
		}
		state := "downloading"
		if r.DownloadCompletedAt != nil {
			state = "ready"
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			itemLabel(r.ItemTitle, r.Season, r.Episode, r.Year),
			r.Quality,
			size,
			state,
		})
	}
	fmt.Println(renderTable(
		[]string{"ID", "ITEM", "QUALITY", "SIZE", "STATE"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Println("\nUse 'fetcharr upgrades decide <id> <decision>' once ready")
	return nil
}

func runUpgradesDecide(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	decision := strings.ToLower(args[1])
	valid := false
	for _, d := range validDecisions {
		if decision == d {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid decision %q, valid decisions: %s",
			args[1], strings.Join(validDecisions, ", "))
	}

	client := NewClient(serverURL)
	if err := client.Decide(id, decision); err != nil {
		return fmt.Errorf("decide failed: %w", err)
	}

	fmt.Printf("Upgrade %d decided: %s\n", id, decision)
	return nil
}
