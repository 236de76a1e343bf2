// Package controls builds the genre and artist filter checkboxes.
package controls

import (
	"regexp"
	"strings"

	"github.com/justestif/go-song-cluster-explorer/internal/selection"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

// Kind names a filter list.
type Kind string

const (
	KindGenre  Kind = "genre"
	KindArtist Kind = "artist"
)

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	switch Kind(name) {
	case KindGenre, KindArtist:
		return Kind(name), true
	}
	return "", false
}

// Control is one checkbox of a filter list.
type Control struct {
	Label   string `json:"label"`
	ID      string `json:"id"`
	Checked bool   `json:"checked"`
	Hidden  bool   `json:"hidden,omitempty"`
}

// List is the set of controls of one kind with its search query.
type List struct {
	Kind     Kind      `json:"kind"`
	Query    string    `json:"query,omitempty"`
	Controls []Control `json:"controls"`
}

// Lists holds both filter lists.
type Lists struct {
	Genres  List `json:"genres"`
	Artists List `json:"artists"`
}

var whitespace = regexp.MustCompile(`\s+`)

// ID returns the element id of a control: the kind prefix followed by the
// lower-cased label with whitespace runs replaced by dashes.
func ID(kind Kind, label string) string {
	return string(kind) + "-" + whitespace.ReplaceAllString(strings.ToLower(label), "-")
}

// Matches reports whether label contains query, ignoring case.
// An empty query matches everything.
func Matches(label, query string) bool {
	return strings.Contains(strings.ToLower(label), strings.ToLower(query))
}

// Build returns the genre and artist controls for subset in first-seen order.
// Checked marks come from state; Hidden marks come from the search queries.
func Build(subset []songs.Record, state selection.State, genreQuery, artistQuery string) Lists {
	var genres, artists []string
	seenGenre := make(map[string]bool)
	seenArtist := make(map[string]bool)

	for _, r := range subset {
		if r.PlaylistGenre != "" && !seenGenre[r.PlaylistGenre] {
			seenGenre[r.PlaylistGenre] = true
			genres = append(genres, r.PlaylistGenre)
		}
		for _, a := range r.Artists() {
			if !seenArtist[a] {
				seenArtist[a] = true
				artists = append(artists, a)
			}
		}
	}

	return Lists{
		Genres:  newList(KindGenre, genres, state.Genres, genreQuery),
		Artists: newList(KindArtist, artists, state.Artists, artistQuery),
	}
}

// Of returns the list of the given kind.
func (l Lists) Of(kind Kind) List {
	if kind == KindArtist {
		return l.Artists
	}
	return l.Genres
}

func newList(kind Kind, labels []string, checked selection.Set, query string) List {
	list := List{
		Kind:     kind,
		Query:    query,
		Controls: make([]Control, len(labels)),
	}
	for i, label := range labels {
		list.Controls[i] = Control{
			Label:   label,
			ID:      ID(kind, label),
			Checked: checked.Has(label),
			Hidden:  !Matches(label, query),
		}
	}
	return list
}
