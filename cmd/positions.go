package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-positions/internal/config"
	"github.com/pable/go-lol-positions/internal/fetch"
	"github.com/pable/go-lol-positions/internal/model"
	"github.com/pable/go-lol-positions/internal/pipeline"
	"github.com/pable/go-lol-positions/internal/report"
	"github.com/pable/go-lol-positions/internal/riot"
	"github.com/pable/go-lol-positions/internal/storage"
)

var (
	posName   string
	posTag    string
	posMap    string
	posPhase  string
	posLimit  int
	posStore  bool
	posCached bool
	posRows   bool
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Show a player's normalized positions from stored timelines",
	Long: `Runs the position pipeline over the stored timelines of a fetched player and
prints per-phase and per-match summaries. Coordinates are normalized with the
selected map profile (see 'lolpos maps').

Examples:
  lolpos positions --name Alice --tag NA1
  lolpos positions --name Alice --tag NA1 --phase early --rows
  lolpos positions --name Alice --tag NA1 --store`,
	Args: cobra.NoArgs,
	RunE: runPositions,
}

func init() {
	positionsCmd.Flags().StringVar(&posName, "name", "", "Riot game name (required)")
	positionsCmd.Flags().StringVar(&posTag, "tag", "", "Riot tag line (required)")
	positionsCmd.Flags().StringVar(&posMap, "map", model.DefaultMapName, "map profile used for normalization")
	positionsCmd.Flags().StringVar(&posPhase, "phase", "", "only show one phase: early, mid or late")
	positionsCmd.Flags().IntVar(&posLimit, "limit", 0, "use only the N most recent stored matches (0 = all)")
	positionsCmd.Flags().BoolVar(&posStore, "store", false, "persist the computed position table")
	positionsCmd.Flags().BoolVar(&posCached, "cached", false, "read the persisted position table instead of recomputing")
	positionsCmd.Flags().BoolVar(&posRows, "rows", false, "print every position row")
	_ = positionsCmd.MarkFlagRequired("name")
	_ = positionsCmd.MarkFlagRequired("tag")
}

func runPositions(cmd *cobra.Command, args []string) error {
	var phase *report.Phase
	if posPhase != "" {
		p, err := report.ParsePhase(posPhase)
		if err != nil {
			return err
		}
		phase = &p
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	player, err := lookupPlayer(db, posName, posTag)
	if err != nil {
		return err
	}

	var rows []model.PositionRow
	if posCached {
		rows, err = db.GetPositions(player.PUUID, posMap)
		if err != nil {
			return fmt.Errorf("stored positions: %w", err)
		}
	} else {
		rows, err = computePositions(db, player, posMap, posLimit)
		if err != nil {
			return err
		}
		if posStore {
			if err := db.ReplacePositions(player.PUUID, posMap, rows); err != nil {
				return fmt.Errorf("store positions: %w", err)
			}
			logger.Info("stored positions", "player", player.RiotID(), "map", posMap, "rows", len(rows))
		}
	}

	fmt.Fprintf(os.Stdout, "\nPlayer: %s  |  Map: %s  |  Rows: %d\n\n", player.RiotID(), posMap, len(rows))
	report.PrintPhaseSummary(os.Stdout, rows)

	if phase != nil {
		rows = report.FilterPhase(rows, *phase)
		fmt.Fprintf(os.Stdout, "\n%s (%d rows)\n", phase.Label(), len(rows))
	}
	fmt.Fprintln(os.Stdout)
	report.PrintMatchSummary(os.Stdout, rows)
	if posRows {
		fmt.Fprintln(os.Stdout)
		report.PrintPositions(os.Stdout, rows)
	}
	return nil
}

// lookupPlayer finds a fetched player by Riot ID.
func lookupPlayer(db *storage.DB, name, tag string) (*model.Player, error) {
	id, err := riot.ParseRiotID(name, tag)
	if err != nil {
		return nil, err
	}
	p, err := db.GetPlayerByRiotID(id.GameName, id.TagLine)
	if err != nil {
		return nil, fmt.Errorf("lookup player: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("player %s has not been fetched yet; run 'lolpos fetch --name %q --tag %s' first",
			id, id.GameName, id.TagLine)
	}
	return p, nil
}

// computePositions runs the pipeline over the player's stored timelines.
func computePositions(db *storage.DB, player *model.Player, mapName string, limit int) ([]model.PositionRow, error) {
	profiles, err := config.LoadMapProfiles(cfg.MapsFile)
	if err != nil {
		return nil, err
	}
	profile, err := profiles.Get(mapName)
	if err != nil {
		return nil, err
	}

	timelines, err := fetch.LoadTimelines(db, player.PUUID, limit)
	if err != nil {
		return nil, fmt.Errorf("load timelines: %w", err)
	}
	logger.Debug("loaded timelines", "player", player.RiotID(), "count", len(timelines))

	rows, err := pipeline.ComputePositions(timelines, player.PUUID, pipeline.WithMapProfile(profile))
	if err != nil {
		return nil, fmt.Errorf("compute positions: %w", err)
	}
	return rows, nil
}
