// Package render projects aggregated data onto chart views.
//
// Every renderer is a pure function of its data and a target size. It returns
// a complete view model that the templates draw as SVG, so each call is a full
// redraw. Empty data yields empty axes or zero bars, never an error.
package render

import (
	"fmt"
	"math"
)

// Palette colours marks by cluster id.
var Palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728"}

// Feature bar fills.
const (
	OverviewFill = "#FFA500"
	ClusterFill  = "#1E90FF"
	RankingFill  = "#1E90FF"
)

// Size is the pixel size of a rendering target.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Margin is the space between the SVG edge and the plotting area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Layout holds the target sizes of the chart containers.
type Layout struct {
	Scatter Size `yaml:"scatter"`
	Bar     Size `yaml:"bar"`
	Ranking Size `yaml:"ranking"`
}

// DefaultLayout returns container sizes that suit a desktop browser.
func DefaultLayout() Layout {
	return Layout{
		Scatter: Size{Width: 800, Height: 500},
		Bar:     Size{Width: 520, Height: 360},
		Ranking: Size{Width: 360, Height: 260},
	}
}

var chartMargin = Margin{Top: 20, Right: 30, Bottom: 50, Left: 50}

// ClusterColor returns the palette colour of a cluster id.
func ClusterColor(cluster int) string {
	n := len(Palette)
	return Palette[((cluster%n)+n)%n]
}

// formatMean prints a mean rounded to 2 decimals.
func formatMean(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// nonNegative maps NaN and negative lengths to 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
