// Package dashboard derives every view of the dashboard from one selection state.
package dashboard

import (
	"github.com/justestif/go-song-cluster-explorer/internal/aggregate"
	"github.com/justestif/go-song-cluster-explorer/internal/clustering"
	"github.com/justestif/go-song-cluster-explorer/internal/controls"
	"github.com/justestif/go-song-cluster-explorer/internal/render"
	"github.com/justestif/go-song-cluster-explorer/internal/selection"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

// Queries holds the search text of the filter lists.
type Queries struct {
	Genre  string
	Artist string
}

// Snapshot is the complete dashboard for one selection state.
type Snapshot struct {
	State  selection.State
	Status Status
	Err    error

	Clusters    []aggregate.ClusterCount
	Features    []aggregate.FeatureAverage
	Summary     aggregate.Summary
	Mood        clustering.MoodCategory
	TopGenres   []aggregate.RankingRow
	TopArtists  []aggregate.RankingRow
	Controls    controls.Lists
	SubsetCount int

	Scatter       render.ScatterView
	Bars          render.BarsView
	Info          render.InfoView
	GenreRanking  render.RankingView
	ArtistRanking render.RankingView
}

// Build computes every view from records and state.
//
// The scatterplot always shows all records. Bars, info and rankings use the
// filtered subset. Filter controls list the values of the cluster subset so
// checking a filter never removes its own control.
func Build(records []songs.Record, state selection.State, layout render.Layout, q Queries) Snapshot {
	subset := aggregate.FilterSubset(records, state)
	clusterSubset := aggregate.FilterCluster(records, state.Cluster)

	features := aggregate.FeatureAverages(subset)
	summary := aggregate.ClusterSummary(subset, state.Cluster)
	mood := clustering.MoodOf(subset)
	topGenres := aggregate.TopRanked(subset, aggregate.ByGenre, aggregate.DefaultTopN)
	topArtists := aggregate.TopRanked(subset, aggregate.ByArtist, aggregate.DefaultTopN)

	return Snapshot{
		State:  state,
		Status: StatusReady,

		Clusters:    aggregate.Clusters(records),
		Features:    features,
		Summary:     summary,
		Mood:        mood,
		TopGenres:   topGenres,
		TopArtists:  topArtists,
		Controls:    controls.Build(clusterSubset, state, q.Genre, q.Artist),
		SubsetCount: len(subset),

		Scatter:       render.Scatterplot(records, state.Cluster, layout.Scatter),
		Bars:          render.FeatureBars(features, state.HasCluster(), layout.Bar),
		Info:          render.ClusterInfo(summary, state.Cluster, mood),
		GenreRanking:  render.TopN(topGenres, layout.Ranking, "Top 10 Genres by Popularity"),
		ArtistRanking: render.TopN(topArtists, layout.Ranking, "Top 10 Artists by Popularity"),
	}
}
