package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <id> [index]",
	Short: "Confirm a pending download",
	Long: `Confirm a pending download.

Picks a candidate from a pending confirmation and hands it to the
download agent. The index defaults to 0, the top-ranked candidate.

Examples:
  fetcharr confirm 3      # Download the top-ranked candidate
  fetcharr confirm 3 2    # Download candidate #2 instead`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfirm,
}

var rejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending confirmation",
	Long:  "Resolves the confirmation without downloading anything.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReject,
}

func init() {
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(rejectCmd)
}

func runConfirm(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	index := 0
	if len(args) == 2 {
		index, err = strconv.Atoi(args[1])
		if err != nil || index < 0 {
			return fmt.Errorf("invalid index: %s", args[1])
		}
	}

	client := NewClient(serverURL)
	rec, err := client.Confirm(id, index)
	if err != nil {
		return fmt.Errorf("confirm failed: %w", err)
	}

	if jsonOutput {
		printJSON(rec)
		return nil
	}

	fmt.Printf("Download started: %s\n", rec.Filename)
	if rec.PackageID != nil {
		fmt.Printf("Package: %s\n", *rec.PackageID)
	}
	fmt.Println("Use 'fetcharr history' to monitor progress")
	return nil
}

func runReject(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	client := NewClient(serverURL)
	if err := client.Reject(id); err != nil {
		return fmt.Errorf("reject failed: %w", err)
	}

	fmt.Printf("Confirmation %d rejected\n", id)
	return nil
}
