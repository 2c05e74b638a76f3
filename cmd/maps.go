package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-positions/internal/config"
	"github.com/pable/go-lol-positions/internal/model"
	"github.com/pable/go-lol-positions/internal/report"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List map profiles used for coordinate normalization",
	Long: `Lists the built-in map profile plus any profiles defined in the TOML file
named by LOLPOS_MAPS_FILE:

  [[map]]
  name = "howling-abyss"
  offset = -120
  extent = 12980
  canvas = 800
  margin = 10

Each raw coordinate is mapped as margin + (raw - offset) * canvas / extent.`,
	Args: cobra.NoArgs,
	RunE: runMaps,
}

func runMaps(cmd *cobra.Command, args []string) error {
	profiles, err := config.LoadMapProfiles(cfg.MapsFile)
	if err != nil {
		return err
	}
	list := make([]model.MapProfile, 0, len(profiles))
	for _, name := range profiles.Names() {
		list = append(list, profiles[name])
	}
	report.PrintMapProfiles(os.Stdout, list)
	return nil
}
