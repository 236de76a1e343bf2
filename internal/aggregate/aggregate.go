// Package aggregate computes the filtered subset and the grouped statistics
// shown by the dashboard views. All functions are pure.
package aggregate

import (
	"cmp"
	"math"
	"slices"

	"github.com/justestif/go-song-cluster-explorer/internal/selection"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

// DefaultTopN is the number of rows kept by TopRanked when no limit is given.
const DefaultTopN = 10

// Feature is a tracked audio feature with its accessor.
type Feature struct {
	Name  string
	Value func(songs.Record) float64
}

// Features lists the tracked audio features in display order.
var Features = []Feature{
	{"energy", func(r songs.Record) float64 { return r.Energy }},
	{"danceability", func(r songs.Record) float64 { return r.Danceability }},
	{"loudness", func(r songs.Record) float64 { return r.Loudness }},
	{"liveness", func(r songs.Record) float64 { return r.Liveness }},
	{"valence", func(r songs.Record) float64 { return r.Valence }},
	{"speechiness", func(r songs.Record) float64 { return r.Speechiness }},
	{"instrumentalness", func(r songs.Record) float64 { return r.Instrumentalness }},
	{"mode", func(r songs.Record) float64 { return r.Mode }},
	{"acousticness", func(r songs.Record) float64 { return r.Acousticness }},
}

// FeatureAverage is the mean value of one audio feature over a subset.
type FeatureAverage struct {
	Feature string  `json:"feature"`
	Mean    float64 `json:"mean"`
}

// RankingRow is the mean popularity of one genre or artist.
type RankingRow struct {
	Label         string  `json:"label"`
	AvgPopularity float64 `json:"avgPopularity"`
}

// Summary describes a set of songs for the cluster info panel.
// Averages are unrounded; round only for display.
type Summary struct {
	Count           int     `json:"count"`
	AvgDanceability float64 `json:"avgDanceability"`
	AvgEnergy       float64 `json:"avgEnergy"`
	AvgValence      float64 `json:"avgValence"`
	AvgLoudness     float64 `json:"avgLoudness"`
}

// ClusterCount is the number of songs in one cluster.
type ClusterCount struct {
	Cluster int `json:"cluster"`
	Count   int `json:"count"`
}

// KeyFunc returns the group keys a record contributes to.
// Returning no keys excludes the record from the aggregation.
type KeyFunc func(songs.Record) []string

// ByGenre groups records by playlist genre.
func ByGenre(r songs.Record) []string {
	if r.PlaylistGenre == "" {
		return nil
	}
	return []string{r.PlaylistGenre}
}

// ByArtist groups records by every artist credited on the track.
func ByArtist(r songs.Record) []string {
	return r.Artists()
}

// FilterSubset returns the records matching the state's cluster, genre and
// artist predicates, all combined with AND. Record order is preserved.
func FilterSubset(records []songs.Record, s selection.State) []songs.Record {
	clusterID, hasCluster := s.ClusterID()

	subset := make([]songs.Record, 0, len(records))
	for _, r := range records {
		if hasCluster && r.Cluster != clusterID {
			continue
		}
		if s.Genres.Len() > 0 && !s.Genres.Has(r.PlaylistGenre) {
			continue
		}
		if s.Artists.Len() > 0 && !anyArtistIn(r, s.Artists) {
			continue
		}
		subset = append(subset, r)
	}
	return subset
}

// FilterCluster returns the records of one cluster, or all records when id is nil.
func FilterCluster(records []songs.Record, id *int) []songs.Record {
	if id == nil {
		return records
	}
	return FilterSubset(records, selection.State{Cluster: id})
}

// FeatureAverages returns the mean of every tracked feature over subset.
// An empty subset yields 0 for every feature.
func FeatureAverages(subset []songs.Record) []FeatureAverage {
	rows := make([]FeatureAverage, len(Features))
	for i, f := range Features {
		rows[i] = FeatureAverage{
			Feature: f.Name,
			Mean:    mean(subset, f.Value),
		}
	}
	return rows
}

// TopRanked groups subset by key, computes the mean popularity per group and
// returns the limit highest groups in descending order. Ties keep the order in
// which groups were first seen. Records without popularity are skipped.
func TopRanked(subset []songs.Record, key KeyFunc, limit int) []RankingRow {
	if limit <= 0 {
		limit = DefaultTopN
	}

	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	var order []string

	for _, r := range subset {
		if !r.HasPopularity {
			continue
		}
		for _, k := range key(r) {
			g, ok := groups[k]
			if !ok {
				g = &acc{}
				groups[k] = g
				order = append(order, k)
			}
			g.sum += r.TrackPopularity
			g.count++
		}
	}

	rows := make([]RankingRow, len(order))
	for i, k := range order {
		g := groups[k]
		rows[i] = RankingRow{Label: k, AvgPopularity: g.sum / float64(g.count)}
	}

	slices.SortStableFunc(rows, func(a, b RankingRow) int {
		return descendingNaNLast(a.AvgPopularity, b.AvgPopularity)
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// ClusterSummary summarizes records, restricted to one cluster when id is non-nil.
func ClusterSummary(records []songs.Record, id *int) Summary {
	subset := FilterCluster(records, id)
	return Summary{
		Count:           len(subset),
		AvgDanceability: mean(subset, func(r songs.Record) float64 { return r.Danceability }),
		AvgEnergy:       mean(subset, func(r songs.Record) float64 { return r.Energy }),
		AvgValence:      mean(subset, func(r songs.Record) float64 { return r.Valence }),
		AvgLoudness:     mean(subset, func(r songs.Record) float64 { return r.Loudness }),
	}
}

// Clusters returns the distinct cluster ids in ascending order with their sizes.
func Clusters(records []songs.Record) []ClusterCount {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.Cluster]++
	}

	out := make([]ClusterCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, ClusterCount{Cluster: id, Count: n})
	}
	slices.SortFunc(out, func(a, b ClusterCount) int {
		return cmp.Compare(a.Cluster, b.Cluster)
	})
	return out
}

// mean is the arithmetic mean of value over records, or 0 for no records.
// NaN values propagate.
func mean(records []songs.Record, value func(songs.Record) float64) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += value(r)
	}
	return sum / float64(len(records))
}

func anyArtistIn(r songs.Record, artists selection.Set) bool {
	for _, a := range r.Artists() {
		if artists.Has(a) {
			return true
		}
	}
	return false
}

// descendingNaNLast orders larger values first and NaN after every number.
func descendingNaNLast(a, b float64) int {
	switch aNaN, bNaN := math.IsNaN(a), math.IsNaN(b); {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(b, a)
}
