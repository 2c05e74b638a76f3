package config

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/pable/go-lol-positions/internal/model"
)

// mapsFile is the TOML layout of a map profiles file:
//
//	[[map]]
//	name = "howling-abyss"
//	offset = -120
//	extent = 12980
//	canvas = 800
//	margin = 10
type mapsFile struct {
	Maps []model.MapProfile `toml:"map"`
}

// MapProfiles is a set of named coordinate profiles.
type MapProfiles map[string]model.MapProfile

// DefaultMapProfiles holds only the built-in Summoner's Rift profile.
func DefaultMapProfiles() MapProfiles {
	return MapProfiles{model.DefaultMapName: model.DefaultMapProfile}
}

// LoadMapProfiles returns the built-in profiles merged with those in path.
// An entry named like a built-in replaces it. An empty path returns the
// built-ins.
func LoadMapProfiles(path string) (MapProfiles, error) {
	profiles := DefaultMapProfiles()
	if path == "" {
		return profiles, nil
	}

	var f mapsFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("read map profiles %s: %w", path, err)
	}
	seen := make(map[string]bool, len(f.Maps))
	for i, p := range f.Maps {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("map profiles %s: entry %d: %w", path, i, err)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("map profiles %s: duplicate map %q", path, p.Name)
		}
		seen[p.Name] = true
		profiles[p.Name] = p
	}
	return profiles, nil
}

// Get returns the named profile.
func (m MapProfiles) Get(name string) (model.MapProfile, error) {
	p, ok := m[name]
	if !ok {
		return model.MapProfile{}, fmt.Errorf("unknown map %q", name)
	}
	return p, nil
}

// Names returns the profile names in sorted order.
func (m MapProfiles) Names() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
