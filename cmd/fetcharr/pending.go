package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List confirmations awaiting a pick",
	Long: `List confirmations awaiting a pick.

Examples:
  fetcharr pending           # List open confirmations
  fetcharr pending show 3    # Show the ranked candidates for confirmation #3`,
	RunE: runPending,
}

var pendingShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the ranked candidates of a pending confirmation",
	Args:  cobra.ExactArgs(1),
	RunE:  runPendingShow,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
	pendingCmd.AddCommand(pendingShowCmd)
}

func runPending(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	pending, err := client.Pending()
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if jsonOutput {
		printJSON(pending)
		return nil
	}

	if len(pending) == 0 {
		fmt.Println("No pending confirmations")
		return nil
	}

	rows := make([][]string, 0, len(pending))
	for _, p := range pending {
		age := p.CreatedAt
		if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
			age = humanize.Time(t)
		}
		upgrade := ""
		if p.IsUpgrade {
			upgrade = "yes"
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Source,
			itemLabel(p.Title, p.Season, p.Episode, p.Year),
			strconv.Itoa(p.Candidates),
			upgrade,
			age,
		})
	}

	fmt.Println(renderTable(
		[]string{"ID", "SOURCE", "ITEM", "CANDIDATES", "UPGRADE", "AGE"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	fmt.Println("\nUse 'fetcharr pending show <id>' to inspect candidates")
	return nil
}

func runPendingShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	client := NewClient(serverURL)
	p, err := client.PendingDetail(id)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if jsonOutput {
		printJSON(p)
		return nil
	}

	fmt.Printf("Confirmation #%d\n\n", p.ID)
	fmt.Printf("  %-13s %s\n", "Item:", itemLabel(p.ItemTitle, p.Season, p.Episode, p.Year))
	fmt.Printf("  %-13s %s\n", "Source:", p.Source)
	fmt.Printf("  %-13s %s\n", "Query:", p.SearchQuery)
	fmt.Printf("  %-13s %s\n", "Destination:", p.Destination)
	fmt.Printf("  %-13s %s\n", "Status:", p.Status)
	if p.IsUpgrade {
		fmt.Printf("  %-13s yes\n", "Upgrade:")
	}
	fmt.Println()

	rows := make([][]string, 0, len(p.Results))
	for i, c := range p.Results {
		rows = append(rows, []string{
			strconv.Itoa(i),
			c.Name,
			humanize.IBytes(uint64(c.Size)),
			fmt.Sprintf("+%d/-%d", c.PositiveVotes, c.NegativeVotes),
			strconv.Itoa(c.Score.Total),
		})
	}
	fmt.Println(renderTable(
		[]string{"#", "NAME", "SIZE", "VOTES", "SCORE"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
	))
	fmt.Printf("\nUse 'fetcharr confirm %d <#>' to start the download\n", p.ID)
	return nil
}
