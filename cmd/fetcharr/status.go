package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the daemon is reachable",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	s, err := client.Health()
	if err != nil {
		return fmt.Errorf("daemon unreachable at %s: %w", serverURL, err)
	}

	if jsonOutput {
		printJSON(s)
		return nil
	}

	fmt.Printf("fetcharrd %s at %s: %s\n", s.Version, serverURL, s.Status)
	return nil
}
