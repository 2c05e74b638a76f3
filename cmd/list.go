package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-positions/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored players and match timelines",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.ListPlayers()
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players stored yet. Run 'lolpos fetch --name <name> --tag <tag>' to add one.")
		return nil
	}
	report.PrintPlayers(os.Stdout, players)

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	fmt.Fprintln(os.Stdout)
	report.PrintMatches(os.Stdout, matches)
	return nil
}
