package model

import "fmt"

// MapProfile holds the affine transform from a map's raw world coordinates
// onto the visualization canvas:
//
//	out = Margin + (raw - Offset) * Canvas / Extent
type MapProfile struct {
	Name   string  `toml:"name"`
	Offset float64 `toml:"offset"`
	Extent float64 `toml:"extent"`
	Canvas float64 `toml:"canvas"`
	Margin float64 `toml:"margin"`
}

// DefaultMapName is the profile used when no map is requested.
const DefaultMapName = "summoners-rift"

// DefaultMapProfile covers the observed playable area of Summoner's Rift on
// an 800x800 canvas with a 10 unit margin.
var DefaultMapProfile = MapProfile{
	Name:   DefaultMapName,
	Offset: 335,
	Extent: 14700,
	Canvas: 800,
	Margin: 10,
}

// Normalize maps a raw world coordinate onto the canvas. Both axes share the
// same transform.
func (p MapProfile) Normalize(raw float64) float64 {
	return p.Margin + (raw-p.Offset)*p.Canvas/p.Extent
}

// Validate rejects profiles whose transform would be degenerate.
func (p MapProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("map profile: empty name")
	}
	if p.Extent <= 0 {
		return fmt.Errorf("map profile %q: extent must be positive, got %g", p.Name, p.Extent)
	}
	if p.Canvas <= 0 {
		return fmt.Errorf("map profile %q: canvas must be positive, got %g", p.Name, p.Canvas)
	}
	return nil
}
