package aggregate

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/justestif/go-song-cluster-explorer/internal/selection"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

func song(cluster int, genre, artist string, popularity float64) songs.Record {
	return songs.Record{
		Cluster:         cluster,
		PlaylistGenre:   genre,
		TrackArtist:     artist,
		TrackPopularity: popularity,
		HasPopularity:   true,
		Danceability:    0.5,
		Energy:          0.5,
		Loudness:        0.5,
		Valence:         0.5,
	}
}

func sampleRecords() []songs.Record {
	return []songs.Record{
		song(0, "pop", "Drake", 80),
		song(0, "rap", "Drake, Tyler, The Creator", 60),
		song(1, "rock", "Queen", 90),
		song(1, "pop", "Dua Lipa", 70),
		song(2, "rap", "Tyler, The Creator", 50),
	}
}

func TestFilterSubset(t *testing.T) {
	records := sampleRecords()
	one := 1

	tests := []struct {
		name  string
		state selection.State
		want  int
	}{
		{
			name:  "no selection keeps everything",
			state: selection.Initial(),
			want:  5,
		},
		{
			name:  "cluster only",
			state: selection.State{Cluster: &one},
			want:  2,
		},
		{
			name:  "genre only",
			state: selection.State{Genres: selection.NewSet("pop")},
			want:  2,
		},
		{
			name:  "artist matches any credited artist",
			state: selection.State{Artists: selection.NewSet("Tyler, The Creator")},
			want:  2,
		},
		{
			name:  "predicates are combined with AND",
			state: selection.State{Cluster: &one, Genres: selection.NewSet("pop"), Artists: selection.NewSet("Queen")},
			want:  0,
		},
		{
			name:  "multiple genres are OR within the set",
			state: selection.State{Genres: selection.NewSet("pop", "rock")},
			want:  3,
		},
		{
			name:  "unknown artist matches nothing",
			state: selection.State{Artists: selection.NewSet("Nobody")},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSubset(records, tt.state)
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFilterSubsetIdempotent(t *testing.T) {
	records := sampleRecords()
	zero := 0
	state := selection.State{Cluster: &zero, Artists: selection.NewSet("Drake")}

	once := FilterSubset(records, state)
	twice := FilterSubset(once, state)

	if len(once) != len(twice) {
		t.Fatalf("once = %d records, twice = %d records", len(once), len(twice))
	}
	for i := range once {
		if once[i].TrackArtist != twice[i].TrackArtist {
			t.Errorf("record %d differs: %q vs %q", i, once[i].TrackArtist, twice[i].TrackArtist)
		}
	}
}

func TestFeatureAverages(t *testing.T) {
	t.Run("empty subset is all zeros", func(t *testing.T) {
		rows := FeatureAverages(nil)
		if len(rows) != 9 {
			t.Fatalf("got %d rows, want 9", len(rows))
		}
		for _, r := range rows {
			if r.Mean != 0 || math.IsNaN(r.Mean) {
				t.Errorf("%s mean = %v, want 0", r.Feature, r.Mean)
			}
		}
	})

	t.Run("feature order", func(t *testing.T) {
		want := []string{"energy", "danceability", "loudness", "liveness", "valence", "speechiness", "instrumentalness", "mode", "acousticness"}
		rows := FeatureAverages(sampleRecords())
		got := make([]string, len(rows))
		for i, r := range rows {
			got[i] = r.Feature
		}
		if !slices.Equal(got, want) {
			t.Errorf("features = %v, want %v", got, want)
		}
	})

	t.Run("bounded for normalized data", func(t *testing.T) {
		records := []songs.Record{
			{Energy: 0.1, Danceability: 1, Loudness: 0, Mode: 1},
			{Energy: 0.9, Danceability: 0, Loudness: 1, Mode: 0},
		}
		for _, r := range FeatureAverages(records) {
			if r.Mean < 0 || r.Mean > 1 {
				t.Errorf("%s mean = %v, want within [0,1]", r.Feature, r.Mean)
			}
		}
	})

	t.Run("NaN propagates", func(t *testing.T) {
		records := []songs.Record{{Energy: math.NaN()}, {Energy: 0.5}}
		rows := FeatureAverages(records)
		if !math.IsNaN(rows[0].Mean) {
			t.Errorf("energy mean = %v, want NaN", rows[0].Mean)
		}
	})
}

func TestTopRanked(t *testing.T) {
	t.Run("by genre", func(t *testing.T) {
		rows := TopRanked(sampleRecords(), ByGenre, 10)
		want := []RankingRow{
			{Label: "rock", AvgPopularity: 90},
			{Label: "pop", AvgPopularity: 75},
			{Label: "rap", AvgPopularity: 55},
		}
		if !slices.Equal(rows, want) {
			t.Errorf("rows = %v, want %v", rows, want)
		}
	})

	t.Run("multi-artist tracks count for every artist", func(t *testing.T) {
		rows := TopRanked(sampleRecords(), ByArtist, 10)
		byLabel := make(map[string]float64)
		for _, r := range rows {
			byLabel[r.Label] = r.AvgPopularity
		}
		if byLabel["Drake"] != 70 {
			t.Errorf("Drake = %v, want 70", byLabel["Drake"])
		}
		if byLabel["Tyler, The Creator"] != 55 {
			t.Errorf("Tyler, The Creator = %v, want 55", byLabel["Tyler, The Creator"])
		}
		if len(rows) != 4 {
			t.Errorf("got %d artists, want 4", len(rows))
		}
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		records := []songs.Record{
			song(0, "b", "", 50),
			song(0, "a", "", 50),
			song(0, "c", "", 60),
		}
		rows := TopRanked(records, ByGenre, 10)
		got := []string{rows[0].Label, rows[1].Label, rows[2].Label}
		want := []string{"c", "b", "a"}
		if !slices.Equal(got, want) {
			t.Errorf("order = %v, want %v", got, want)
		}
	})

	t.Run("missing genre or popularity excluded", func(t *testing.T) {
		noPop := song(0, "jazz", "X", 0)
		noPop.HasPopularity = false
		records := []songs.Record{song(0, "", "Y", 99), noPop, song(0, "pop", "Z", 10)}

		rows := TopRanked(records, ByGenre, 10)
		if len(rows) != 1 || rows[0].Label != "pop" {
			t.Errorf("rows = %v, want only pop", rows)
		}

		artists := TopRanked(records, ByArtist, 10)
		if len(artists) != 2 {
			t.Errorf("artist rows = %v, want Y and Z", artists)
		}
	})

	t.Run("truncated and sorted", func(t *testing.T) {
		var records []songs.Record
		for i := range 25 {
			records = append(records, song(0, fmt.Sprintf("g%02d", i), "", float64((i*37)%101)))
		}

		rows := TopRanked(records, ByGenre, 0)
		if len(rows) != DefaultTopN {
			t.Fatalf("got %d rows, want %d", len(rows), DefaultTopN)
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].AvgPopularity > rows[i-1].AvgPopularity {
				t.Errorf("rows not sorted at %d: %v > %v", i, rows[i].AvgPopularity, rows[i-1].AvgPopularity)
			}
		}
	})

	t.Run("empty subset", func(t *testing.T) {
		if rows := TopRanked(nil, ByArtist, 10); len(rows) != 0 {
			t.Errorf("rows = %v, want none", rows)
		}
	})
}

func TestClusterSummary(t *testing.T) {
	records := sampleRecords()

	all := ClusterSummary(records, nil)
	if all.Count != len(records) {
		t.Errorf("overview count = %d, want %d", all.Count, len(records))
	}

	for _, c := range Clusters(records) {
		id := c.Cluster
		got := ClusterSummary(records, &id)
		if got.Count != c.Count {
			t.Errorf("cluster %d count = %d, want %d", id, got.Count, c.Count)
		}
	}

	missing := 42
	empty := ClusterSummary(records, &missing)
	if empty != (Summary{}) {
		t.Errorf("empty cluster summary = %+v, want zero", empty)
	}
}

func TestSelectingClusterEndToEnd(t *testing.T) {
	records := []songs.Record{
		{Cluster: 0, Danceability: 0.2},
		{Cluster: 0, Danceability: 0.4},
		{Cluster: 1, Danceability: 0.9},
	}

	state := selection.Reduce(selection.Initial(), selection.SelectCluster{ID: 0})
	subset := FilterSubset(records, state)
	summary := ClusterSummary(subset, state.Cluster)

	if summary.Count != 2 {
		t.Errorf("count = %d, want 2", summary.Count)
	}
	if got := fmt.Sprintf("%.2f", summary.AvgDanceability); got != "0.30" {
		t.Errorf("avg danceability = %s, want 0.30", got)
	}
}

func TestClusters(t *testing.T) {
	got := Clusters(sampleRecords())
	want := []ClusterCount{{0, 2}, {1, 2}, {2, 1}}
	if !slices.Equal(got, want) {
		t.Errorf("Clusters() = %v, want %v", got, want)
	}
}
