package controls

import (
	"testing"

	"github.com/justestif/go-song-cluster-explorer/internal/selection"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

func TestID(t *testing.T) {
	tests := []struct {
		kind  Kind
		label string
		want  string
	}{
		{KindGenre, "pop", "genre-pop"},
		{KindGenre, "Latin  Pop", "genre-latin-pop"},
		{KindArtist, "Tyler, The Creator", "artist-tyler,-the-creator"},
	}

	for _, tt := range tests {
		if got := ID(tt.kind, tt.label); got != tt.want {
			t.Errorf("ID(%s, %q) = %q, want %q", tt.kind, tt.label, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		label, query string
		want         bool
	}{
		{"Drake", "", true},
		{"Drake", "dra", true},
		{"Drake", "AKE", true},
		{"Drake", "rock", false},
	}

	for _, tt := range tests {
		if got := Matches(tt.label, tt.query); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.label, tt.query, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	subset := []songs.Record{
		{PlaylistGenre: "rap", TrackArtist: "Tyler, The Creator, Kali Uchis"},
		{PlaylistGenre: "pop", TrackArtist: "Kali Uchis"},
		{PlaylistGenre: "rap", TrackArtist: "Drake"},
		{PlaylistGenre: "", TrackArtist: ""},
	}
	state := selection.Reduce(selection.Initial(), selection.ToggleGenre{Name: "pop"})

	lists := Build(subset, state, "", "KAL")

	var genres []string
	for _, c := range lists.Genres.Controls {
		genres = append(genres, c.Label)
	}
	if len(genres) != 2 || genres[0] != "rap" || genres[1] != "pop" {
		t.Errorf("genres = %v, want [rap pop]", genres)
	}
	if lists.Genres.Controls[0].Checked || !lists.Genres.Controls[1].Checked {
		t.Errorf("checked marks = %+v, want only pop", lists.Genres.Controls)
	}

	artists := lists.Artists.Controls
	if len(artists) != 3 {
		t.Fatalf("got %d artists, want 3", len(artists))
	}
	want := []struct {
		label  string
		hidden bool
	}{
		{"Tyler, The Creator", true},
		{"Kali Uchis", false},
		{"Drake", true},
	}
	for i, w := range want {
		if artists[i].Label != w.label || artists[i].Hidden != w.hidden {
			t.Errorf("artist %d = %+v, want label %q hidden %v", i, artists[i], w.label, w.hidden)
		}
	}
	if lists.Artists.Query != "KAL" {
		t.Errorf("artist query = %q, want KAL", lists.Artists.Query)
	}
}

func TestBuildEmpty(t *testing.T) {
	lists := Build(nil, selection.Initial(), "", "")

	if len(lists.Genres.Controls) != 0 || len(lists.Artists.Controls) != 0 {
		t.Errorf("Build(nil) = %+v, want empty lists", lists)
	}
}

func TestParseKind(t *testing.T) {
	if k, ok := ParseKind("artist"); !ok || k != KindArtist {
		t.Errorf("ParseKind(artist) = %q, %v", k, ok)
	}
	if _, ok := ParseKind("album"); ok {
		t.Error("ParseKind(album) should fail")
	}
}

func TestListsOf(t *testing.T) {
	lists := Lists{Genres: List{Kind: KindGenre}, Artists: List{Kind: KindArtist}}

	if lists.Of(KindArtist).Kind != KindArtist || lists.Of(KindGenre).Kind != KindGenre {
		t.Error("Of() returned the wrong list")
	}
}
