package songs

import (
	"regexp"
	"strings"
)

// TylerTheCreator is the one artist name whose internal comma must not split it.
const TylerTheCreator = "Tyler, The Creator"

// artistSentinel stands in for TylerTheCreator while splitting.
// Private-use runes never occur in the source data.
const artistSentinel = "\ue000tyler-the-creator\ue000"

var (
	tylerPattern     = regexp.MustCompile(`Tyler\s*,\s*The\s*Creator`)
	artistSeparators = regexp.MustCompile(`\s*,\s*`)
)

// SplitArtists splits a comma-joined artist field into individual names.
// "Tyler, The Creator" (case-sensitive, whitespace-tolerant around the comma)
// is kept as a single name. Names are trimmed and empty names are dropped.
func SplitArtists(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	safe := tylerPattern.ReplaceAllLiteralString(raw, artistSentinel)
	parts := artistSeparators.Split(safe, -1)

	artists := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ReplaceAll(p, artistSentinel, TylerTheCreator))
		if p == "" {
			continue
		}
		artists = append(artists, p)
	}
	return artists
}
