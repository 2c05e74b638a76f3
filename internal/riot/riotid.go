package riot

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidRiotID is returned for game names or tags outside Riot's limits.
var ErrInvalidRiotID = errors.New("invalid riot id")

// Length limits in characters.
const (
	minGameName = 3
	maxGameName = 16
	minTagLine  = 3
	maxTagLine  = 6
)

// RiotID is a player's display identity: gameName#tagLine.
type RiotID struct {
	GameName string
	TagLine  string
}

func (id RiotID) String() string {
	return id.GameName + "#" + id.TagLine
}

// ParseRiotID validates a game name and tag. Surrounding whitespace and one
// leading '#' on the tag are removed before the length checks.
func ParseRiotID(gameName, tagLine string) (RiotID, error) {
	gameName = strings.TrimSpace(gameName)
	tagLine = strings.TrimPrefix(strings.TrimSpace(tagLine), "#")

	if n := utf8.RuneCountInString(gameName); n < minGameName || n > maxGameName {
		return RiotID{}, fmt.Errorf("%w: game name %q must be %d-%d characters", ErrInvalidRiotID, gameName, minGameName, maxGameName)
	}
	if n := utf8.RuneCountInString(tagLine); n < minTagLine || n > maxTagLine {
		return RiotID{}, fmt.Errorf("%w: tag %q must be %d-%d characters", ErrInvalidRiotID, tagLine, minTagLine, maxTagLine)
	}
	return RiotID{GameName: gameName, TagLine: tagLine}, nil
}

// SplitRiotID parses the combined "gameName#tagLine" form.
func SplitRiotID(s string) (RiotID, error) {
	i := strings.LastIndex(s, "#")
	if i < 0 {
		return RiotID{}, fmt.Errorf("%w: %q has no #tag", ErrInvalidRiotID, s)
	}
	return ParseRiotID(s[:i], s[i:])
}
