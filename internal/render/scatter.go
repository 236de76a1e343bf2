package render

import (
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

// Mark opacities for the active cluster selection.
const (
	emphasized   = 1.0
	deemphasized = 0.3
	markRadius   = 4
)

// Mark is one plotted song.
type Mark struct {
	X, Y float64
}

// MarkGroup holds the marks of one cluster. Clicking any mark selects Cluster.
type MarkGroup struct {
	Cluster int
	Color   string
	Opacity float64
	Marks   []Mark
}

// ScatterView is the PCA scatterplot.
type ScatterView struct {
	Width, Height           int
	Margin                  Margin
	InnerWidth, InnerHeight float64
	Radius                  float64
	XTicks, YTicks          []Tick
	Groups                  []MarkGroup
}

// Scatterplot plots every record at (PCAX, PCAY) with scales fitted to the data.
// With a cluster selected, marks of other clusters are de-emphasized.
// Groups appear in the order their cluster is first seen.
func Scatterplot(records []songs.Record, selected *int, size Size) ScatterView {
	innerW := max(size.Width-int(chartMargin.Left+chartMargin.Right), 0)
	innerH := max(size.Height-int(chartMargin.Top+chartMargin.Bottom), 0)

	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, r := range records {
		xs[i], ys[i] = r.PCAX, r.PCAY
	}
	xMin, xMax := extent(xs)
	yMin, yMax := extent(ys)

	x := newLinearScale(xMin, xMax, innerW, false)
	y := newLinearScale(yMin, yMax, innerH, true)

	view := ScatterView{
		Width:       size.Width,
		Height:      size.Height,
		Margin:      chartMargin,
		InnerWidth:  float64(innerW),
		InnerHeight: float64(innerH),
		Radius:      markRadius,
		XTicks:      x.Ticks(10),
		YTicks:      y.Ticks(10),
	}

	index := make(map[int]int)
	for _, r := range records {
		gi, ok := index[r.Cluster]
		if !ok {
			gi = len(view.Groups)
			index[r.Cluster] = gi
			view.Groups = append(view.Groups, MarkGroup{
				Cluster: r.Cluster,
				Color:   ClusterColor(r.Cluster),
				Opacity: markOpacity(r.Cluster, selected),
			})
		}
		view.Groups[gi].Marks = append(view.Groups[gi].Marks, Mark{
			X: x.At(r.PCAX),
			Y: y.At(r.PCAY),
		})
	}

	return view
}

func markOpacity(cluster int, selected *int) float64 {
	if selected == nil || *selected == cluster {
		return emphasized
	}
	return deemphasized
}
