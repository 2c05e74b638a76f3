package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-positions/internal/fetch"
	"github.com/pable/go-lol-positions/internal/riot"
)

// fetch command flags.
var (
	// fetchName and fetchTag form the Riot ID of the target player.
	fetchName string
	fetchTag  string
	// fetchCount is the number of recent matches to list; 0 uses LOLPOS_MATCH_COUNT.
	fetchCount int
	// fetchQueue filters the match list by queue type; empty uses LOLPOS_QUEUE_TYPE.
	fetchQueue string
	// fetchWorkers bounds concurrent timeline downloads; 0 uses LOLPOS_WORKERS.
	fetchWorkers int
)

// fetchCmd downloads and stores a player's recent match timelines.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a player's recent match timelines",
	Long: `Resolves a Riot ID to its puuid, lists the player's most recent matches and
downloads every timeline not already stored. Requires RIOT_API_KEY (read from
the environment or a .env file).

Examples:
  lolpos fetch --name "Hide on bush" --tag KR1
  lolpos fetch --name Alice --tag NA1 --count 20 --queue normal`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchName, "name", "", "Riot game name (required)")
	fetchCmd.Flags().StringVar(&fetchTag, "tag", "", "Riot tag line, with or without '#' (required)")
	fetchCmd.Flags().IntVar(&fetchCount, "count", 0, "number of recent matches (1-100, default LOLPOS_MATCH_COUNT)")
	fetchCmd.Flags().StringVar(&fetchQueue, "queue", "", "queue type: ranked, normal, tourney, tutorial (default LOLPOS_QUEUE_TYPE)")
	fetchCmd.Flags().IntVar(&fetchWorkers, "workers", 0, "concurrent downloads (default LOLPOS_WORKERS)")
	_ = fetchCmd.MarkFlagRequired("name")
	_ = fetchCmd.MarkFlagRequired("tag")
}

func runFetch(cmd *cobra.Command, args []string) error {
	id, err := riot.ParseRiotID(fetchName, fetchTag)
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	count := cfg.MatchCount
	if fetchCount != 0 {
		count = fetchCount
	}
	if count < 1 || count > 100 {
		return fmt.Errorf("--count must be 1-100, got %d", count)
	}
	queue := cfg.QueueType
	if fetchQueue != "" {
		queue = fetchQueue
	}
	workers := cfg.Workers
	if fetchWorkers > 0 {
		workers = fetchWorkers
	}

	client, err := riot.NewClient(cfg.APIKey,
		riot.WithRegion(cfg.Region),
		riot.WithTimeout(cfg.HTTPTimeout),
		riot.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	f := &fetch.Fetcher{Client: client, DB: db, Logger: logger, Workers: workers}
	res, err := f.Run(cmd.Context(), id, count, queue)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Player: %s  puuid=%s\n", res.Player.RiotID(), res.Player.PUUID)
	fmt.Fprintf(os.Stdout, "Matches listed: %d  downloaded: %d  cached: %d  failed: %d\n",
		len(res.MatchIDs), len(res.Downloaded), len(res.Cached), len(res.Failed))

	failed := make([]string, 0, len(res.Failed))
	for id := range res.Failed {
		failed = append(failed, id)
	}
	sort.Strings(failed)
	for _, id := range failed {
		fmt.Fprintf(os.Stderr, "  [skip] %s: %v\n", id, res.Failed[id])
	}
	return nil
}
