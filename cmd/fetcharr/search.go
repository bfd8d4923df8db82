package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search for an item and create a confirmation",
	Long: `Search for an item and create a confirmation.

Runs the search, ranks the candidates and parks them as a pending
confirmation. Nothing is downloaded until it is confirmed.

Examples:
  fetcharr search "Breaking Bad" --source sonarr --id 12 --season 1 --episode 2
  fetcharr search "The Matrix" --source radarr --year 1999 --dest /library/movies
  fetcharr search "The Matrix" --source radarr --id 21 --upgrade-file 5
  fetcharr search missing    # Sweep the managers' missing items`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var searchMissingCmd = &cobra.Command{
	Use:   "missing",
	Short: "Search for every missing item the library managers report",
	Args:  cobra.NoArgs,
	RunE:  runSearchMissing,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.AddCommand(searchMissingCmd)

	searchCmd.Flags().String("source", "sonarr", "Library manager (sonarr, radarr)")
	searchCmd.Flags().Int64("id", 0, "Manager item ID (series or movie)")
	searchCmd.Flags().Int("season", 0, "Season number")
	searchCmd.Flags().Int("episode", 0, "Episode number")
	searchCmd.Flags().Int("year", 0, "Release year")
	searchCmd.Flags().String("dest", "", "Destination directory (otherwise resolved via the manager)")
	searchCmd.Flags().Int64("upgrade-file", 0, "Library file ID this download would replace")
}

func runSearch(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	source = strings.ToLower(source)
	if source != "sonarr" && source != "radarr" {
		return fmt.Errorf("invalid source %q, valid sources: sonarr, radarr", source)
	}

	req := SearchRequest{
		Source: source,
		Title:  args[0],
	}
	if id, _ := cmd.Flags().GetInt64("id"); id > 0 {
		req.SourceID = &id
	}
	if season, _ := cmd.Flags().GetInt("season"); cmd.Flags().Changed("season") {
		req.Season = &season
	}
	if episode, _ := cmd.Flags().GetInt("episode"); cmd.Flags().Changed("episode") {
		req.Episode = &episode
	}
	if year, _ := cmd.Flags().GetInt("year"); year > 0 {
		req.Year = &year
	}
	req.Destination, _ = cmd.Flags().GetString("dest")
	if fileID, _ := cmd.Flags().GetInt64("upgrade-file"); fileID > 0 {
		req.UpgradeFileID = &fileID
	}

	client := NewClient(serverURL)
	created, err := client.Search(req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(created)
		return nil
	}

	fmt.Printf("Confirmation #%d created: %s (%d candidates)\n",
		created.ID, created.Query, created.Candidates)
	fmt.Printf("Use 'fetcharr pending show %d' to inspect them\n", created.ID)
	return nil
}

func runSearchMissing(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	fmt.Println("Sweeping missing items...")
	created, err := client.SearchMissing()
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	if created == 0 {
		fmt.Println("No new confirmations")
		return nil
	}
	fmt.Printf("%d confirmation(s) created, see 'fetcharr pending'\n", created)
	return nil
}
