package fetch

import (
	"fmt"

	"github.com/pable/go-lol-positions/internal/model"
	"github.com/pable/go-lol-positions/internal/parser"
	"github.com/pable/go-lol-positions/internal/storage"
)

// LoadTimelines parses the stored timelines linked to puuid, most recent
// fetch first. limit <= 0 loads all of them.
func LoadTimelines(db *storage.DB, puuid string, limit int) ([]model.Timeline, error) {
	ids, err := db.PlayerMatchIDs(puuid, limit)
	if err != nil {
		return nil, fmt.Errorf("player matches: %w", err)
	}
	docs, err := db.GetTimelines(ids)
	if err != nil {
		return nil, err
	}
	return parser.ParseTimelines(docs)
}
