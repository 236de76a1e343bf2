package render

import (
	"github.com/justestif/go-song-cluster-explorer/internal/aggregate"
)

const (
	rankingBandPadding = 0.1
	rankingMinWidth    = 100
	rankingMinHeight   = 50
	labelOffset        = 3
)

var (
	rankingMargin   = Margin{Top: 2, Right: 70, Bottom: 20, Left: 10}
	rankingFallback = Size{Width: 300, Height: 200}
)

// RankingBar is one horizontal bar of a top-N chart.
type RankingBar struct {
	Label            string
	Value            string
	Y, Width, Height float64
	LabelX, LabelY   float64
}

// RankingView is a top-N horizontal bar chart on a fixed [0,100] scale.
type RankingView struct {
	Title                   string
	Width, Height           int
	Margin                  Margin
	InnerWidth, InnerHeight float64
	Fill                    string
	XTicks                  []Tick
	Bars                    []RankingBar
}

// TopN draws the ranking rows in order, one band per row.
// Containers too small to draw in fall back to a fixed size.
func TopN(rows []aggregate.RankingRow, size Size, title string) RankingView {
	if size.Width < rankingMinWidth || size.Height < rankingMinHeight {
		size = rankingFallback
	}

	innerW := max(size.Width-int(rankingMargin.Left+rankingMargin.Right), 0)
	innerH := max(size.Height-int(rankingMargin.Top+rankingMargin.Bottom), 0)

	x := newLinearScale(0, 100, innerW, false)
	y := newBandScale(len(rows), float64(innerH), rankingBandPadding)

	view := RankingView{
		Title:       title,
		Width:       size.Width,
		Height:      size.Height,
		Margin:      rankingMargin,
		InnerWidth:  float64(innerW),
		InnerHeight: float64(innerH),
		Fill:        RankingFill,
		XTicks:      x.Ticks(4),
		Bars:        make([]RankingBar, len(rows)),
	}

	for i, row := range rows {
		width := nonNegative(x.At(row.AvgPopularity))
		view.Bars[i] = RankingBar{
			Label:  row.Label,
			Value:  formatMean(row.AvgPopularity),
			Y:      y.At(i),
			Width:  width,
			Height: y.Bandwidth(),
			LabelX: width + labelOffset,
			LabelY: y.At(i) + y.Bandwidth()/2,
		}
	}

	return view
}
