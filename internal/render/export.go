package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/justestif/go-song-cluster-explorer/internal/aggregate"
)

// ErrNoBars is returned when there is nothing to export.
var ErrNoBars = errors.New("no feature bars to export")

const (
	exportBarWidth   = 50
	exportBarSpacing = 30
)

// FeatureBarsPNG writes the feature bar chart as a PNG image.
// It uses the same fill and [0,1] scale as the dashboard view.
func FeatureBarsPNG(w io.Writer, rows []aggregate.FeatureAverage, clusterSelected bool, size Size) error {
	if len(rows) == 0 {
		return ErrNoBars
	}

	fill := OverviewFill
	if clusterSelected {
		fill = ClusterFill
	}
	color := drawing.ColorFromHex(strings.TrimPrefix(fill, "#"))

	bars := make([]chart.Value, len(rows))
	for i, row := range rows {
		v := row.Mean
		if math.IsNaN(v) {
			v = 0
		}
		bars[i] = chart.Value{
			Label: row.Feature,
			Value: math.Min(math.Max(v, 0), 1),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		}
	}

	width := max(size.Width, len(rows)*(exportBarWidth+exportBarSpacing)+2*int(chartMargin.Left))
	height := max(size.Height, 300)

	bc := chart.BarChart{
		Width:      width,
		Height:     height,
		BarWidth:   exportBarWidth,
		BarSpacing: exportBarSpacing,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    int(chartMargin.Top),
				Left:   int(chartMargin.Left),
				Right:  int(chartMargin.Right),
				Bottom: int(chartMargin.Bottom),
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: bars,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering feature chart: %w", err)
	}
	return nil
}
