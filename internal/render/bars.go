package render

import (
	"github.com/justestif/go-song-cluster-explorer/internal/aggregate"
)

const featureBandPadding = 0.4

// Bar is one feature bar with its value label.
type Bar struct {
	Feature             string
	Value               string
	X, Y, Width, Height float64
	LabelX, LabelY      float64
}

// BarsView is the feature mean bar chart.
type BarsView struct {
	Width, Height           int
	Margin                  Margin
	InnerWidth, InnerHeight float64
	Fill                    string
	Bars                    []Bar
	YTicks                  []Tick
}

// FeatureBars draws one bar per feature on a fixed [0,1] scale.
// The fill tells the overview apart from a selected cluster.
func FeatureBars(rows []aggregate.FeatureAverage, clusterSelected bool, size Size) BarsView {
	innerW := max(size.Width-int(chartMargin.Left+chartMargin.Right), 0)
	innerH := max(size.Height-int(chartMargin.Top+chartMargin.Bottom), 0)

	x := newBandScale(len(rows), float64(innerW), featureBandPadding)
	y := newLinearScale(0, 1, innerH, true)

	fill := OverviewFill
	if clusterSelected {
		fill = ClusterFill
	}

	view := BarsView{
		Width:       size.Width,
		Height:      size.Height,
		Margin:      chartMargin,
		InnerWidth:  float64(innerW),
		InnerHeight: float64(innerH),
		Fill:        fill,
		Bars:        make([]Bar, len(rows)),
		YTicks:      y.Ticks(10),
	}

	for i, row := range rows {
		top := y.At(row.Mean)
		height := nonNegative(float64(innerH) - top)
		if height == 0 {
			top = float64(innerH)
		}
		view.Bars[i] = Bar{
			Feature: row.Feature,
			Value:   formatMean(row.Mean),
			X:       x.At(i),
			Y:       top,
			Width:   x.Bandwidth(),
			Height:  height,
			LabelX:  x.At(i) + x.Bandwidth()/2,
			LabelY:  top - 5,
		}
	}

	return view
}
