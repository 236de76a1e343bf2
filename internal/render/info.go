package render

import (
	"fmt"

	"github.com/justestif/go-song-cluster-explorer/internal/aggregate"
	"github.com/justestif/go-song-cluster-explorer/internal/clustering"
)

// Stat is one labelled value of the info panel.
type Stat struct {
	Label string
	Value string
}

// InfoView is the cluster info panel.
type InfoView struct {
	Title           string
	Stats           []Stat
	ShowReset       bool
	MoodName        string
	MoodDescription string
}

// ClusterInfo renders the summary of the whole dataset or of the selected cluster.
// The reset control is shown only with a cluster selected. Empty subsets get no mood.
func ClusterInfo(summary aggregate.Summary, selected *int, mood clustering.MoodCategory) InfoView {
	title, countLabel := "Dataset Overview", "Total Songs"
	if selected != nil {
		title, countLabel = fmt.Sprintf("Cluster %d Details", *selected), "Songs"
	}

	view := InfoView{
		Title: title,
		Stats: []Stat{
			{countLabel, fmt.Sprintf("%d", summary.Count)},
			{"Avg Danceability", formatMean(summary.AvgDanceability)},
			{"Avg Energy", formatMean(summary.AvgEnergy)},
			{"Avg Valence", formatMean(summary.AvgValence)},
			{"Avg Loudness", formatMean(summary.AvgLoudness)},
		},
		ShowReset: selected != nil,
	}
	if summary.Count > 0 {
		view.MoodName = mood.Name
		view.MoodDescription = mood.Description
	}
	return view
}
