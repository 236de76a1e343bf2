// Package clustering re-partitions songs by their PCA coordinates and names
// clusters by mood.
package clustering

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

// ErrTooFewSongs is returned when there are fewer plottable songs than clusters.
var ErrTooFewSongs = errors.New("fewer songs than clusters")

// Config holds re-clustering parameters.
type Config struct {
	NumClusters int // Number of clusters to create (default: 4)
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{
		NumClusters: 4,
	}
}

// songObservation wraps a record position to implement clusters.Observation.
type songObservation struct {
	index  int
	coords clusters.Coordinates
}

func (o songObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o songObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Recluster assigns new cluster ids using k-means over (PCAX, PCAY).
// Ids are numbered by ascending cluster center so repeated runs on the same
// data label clusters consistently. Songs with non-finite coordinates keep
// their upstream id. The input slice is not modified.
func Recluster(records []songs.Record, cfg Config) ([]songs.Record, error) {
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultConfig().NumClusters
	}

	out := slices.Clone(records)

	var obs clusters.Observations
	for i, r := range out {
		if !finite(r.PCAX) || !finite(r.PCAY) {
			continue
		}
		obs = append(obs, songObservation{
			index:  i,
			coords: clusters.Coordinates{r.PCAX, r.PCAY},
		})
	}

	if len(obs) < cfg.NumClusters {
		return out, fmt.Errorf("%w: %d songs, %d clusters", ErrTooFewSongs, len(obs), cfg.NumClusters)
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		return out, fmt.Errorf("k-means partition: %w", err)
	}

	// Stable numbering: order clusters by center x, then y
	slices.SortFunc(result, func(a, b clusters.Cluster) int {
		if c := cmp.Compare(center(a, 0), center(b, 0)); c != 0 {
			return c
		}
		return cmp.Compare(center(a, 1), center(b, 1))
	})

	for id, cluster := range result {
		for _, o := range cluster.Observations {
			if so, ok := o.(songObservation); ok {
				out[so.index].Cluster = id
			}
		}
	}

	return out, nil
}

func center(c clusters.Cluster, dim int) float64 {
	if dim >= len(c.Center) {
		return 0
	}
	return c.Center[dim]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
