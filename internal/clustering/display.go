package clustering

import (
	"fmt"
	"strings"

	"github.com/justestif/go-song-cluster-explorer/internal/aggregate"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

// ClusterMood describes one cluster: its size and mood from mean features.
type ClusterMood struct {
	Cluster int
	Count   int
	Mood    MoodCategory
}

// DescribeClusters returns the mood of every cluster in ascending id order.
func DescribeClusters(records []songs.Record) []ClusterMood {
	counts := aggregate.Clusters(records)
	out := make([]ClusterMood, 0, len(counts))
	for _, c := range counts {
		id := c.Cluster
		subset := aggregate.FilterCluster(records, &id)
		out = append(out, ClusterMood{
			Cluster: id,
			Count:   c.Count,
			Mood:    MoodOf(subset),
		})
	}
	return out
}

// MoodOf returns the mood category of a set of songs.
func MoodOf(subset []songs.Record) MoodCategory {
	var energy, valence, acousticness float64
	for _, f := range aggregate.FeatureAverages(subset) {
		switch f.Feature {
		case "energy":
			energy = f.Mean
		case "valence":
			valence = f.Mean
		case "acousticness":
			acousticness = f.Mean
		}
	}
	return GetMoodCategory(energy, valence, acousticness)
}

// FormatOverview returns a human-readable summary of the loaded clusters.
// Shows song count, mood name and energy/valence for each cluster.
func FormatOverview(records []songs.Record) string {
	var sb strings.Builder

	moods := DescribeClusters(records)

	if len(moods) == 0 {
		sb.WriteString("No songs loaded\n")
		return sb.String()
	}

	clusterWord := "cluster"
	if len(moods) > 1 {
		clusterWord = "clusters"
	}

	sb.WriteString(fmt.Sprintf("Loaded %d songs in %d %s\n", len(records), len(moods), clusterWord))

	for _, m := range moods {
		sb.WriteString(formatCluster(m))
	}

	return sb.String()
}

// formatCluster formats a single cluster line.
func formatCluster(m ClusterMood) string {
	songWord := "song"
	if m.Count > 1 {
		songWord = "songs"
	}

	label := fmt.Sprintf("Cluster %d", m.Cluster)
	if m.Cluster == songs.Unclustered {
		label = "Unclustered"
	}

	return fmt.Sprintf("  • %s: %d %s - %s (Energy=%.0f%% Valence=%.0f%%)\n",
		label, m.Count, songWord, m.Mood.Name, m.Mood.Energy*100, m.Mood.Valence*100)
}
