package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-positions/internal/model"
	"github.com/pable/go-lol-positions/internal/report"
)

var (
	exportName  string
	exportTag   string
	exportMap   string
	exportPhase string
	exportLimit int
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a player's position table as CSV",
	Long: `Computes the normalized position table of a fetched player and writes it as
CSV (puuid,matchId,timestamp,x,y) for heat-map rendering.

Example:
  lolpos export --name Alice --tag NA1 --phase early --out alice-early.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportName, "name", "", "Riot game name (required)")
	exportCmd.Flags().StringVar(&exportTag, "tag", "", "Riot tag line (required)")
	exportCmd.Flags().StringVar(&exportMap, "map", model.DefaultMapName, "map profile used for normalization")
	exportCmd.Flags().StringVar(&exportPhase, "phase", "", "only export one phase: early, mid or late")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "use only the N most recent stored matches (0 = all)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	_ = exportCmd.MarkFlagRequired("name")
	_ = exportCmd.MarkFlagRequired("tag")
}

func runExport(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	player, err := lookupPlayer(db, exportName, exportTag)
	if err != nil {
		return err
	}
	rows, err := computePositions(db, player, exportMap, exportLimit)
	if err != nil {
		return err
	}
	if exportPhase != "" {
		p, err := report.ParsePhase(exportPhase)
		if err != nil {
			return err
		}
		rows = report.FilterPhase(rows, p)
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := report.WriteCSV(w, rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(rows), exportOut)
	}
	return nil
}
