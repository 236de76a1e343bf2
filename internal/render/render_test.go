package render

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/justestif/go-song-cluster-explorer/internal/aggregate"
	"github.com/justestif/go-song-cluster-explorer/internal/clustering"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

func intPtr(v int) *int { return &v }

func TestNiceTicks(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		count       int
		want        []float64
		decimals    int
	}{
		{"popularity axis", 0, 100, 4, []float64{0, 20, 40, 60, 80, 100}, 0},
		{"offset domain", -3.2, 7.9, 5, []float64{-2, 0, 2, 4, 6}, 0},
		{"equal bounds", 5, 5, 10, []float64{5}, 0},
		{"no ticks", 0, 1, 0, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, decimals := niceTicks(tt.start, tt.stop, tt.count)
			if len(got) != len(tt.want) {
				t.Fatalf("niceTicks() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("tick %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if decimals != tt.decimals {
				t.Errorf("decimals = %d, want %d", decimals, tt.decimals)
			}
		})
	}
}

func TestNiceTicksFractionalLabels(t *testing.T) {
	s := newLinearScale(0, 1, 100, true)

	ticks := s.Ticks(10)
	if len(ticks) != 11 {
		t.Fatalf("got %d ticks, want 11", len(ticks))
	}
	if ticks[0].Label != "0.0" || ticks[10].Label != "1.0" {
		t.Errorf("labels = %q..%q, want 0.0..1.0", ticks[0].Label, ticks[10].Label)
	}
	if ticks[0].Pos != 100 || ticks[10].Pos != 0 {
		t.Errorf("positions = %v..%v, want 100..0", ticks[0].Pos, ticks[10].Pos)
	}
}

func TestClusterColor(t *testing.T) {
	tests := []struct {
		cluster int
		want    string
	}{
		{0, "#1f77b4"},
		{3, "#d62728"},
		{5, "#ff7f0e"},
		{songs.Unclustered, "#d62728"},
	}

	for _, tt := range tests {
		if got := ClusterColor(tt.cluster); got != tt.want {
			t.Errorf("ClusterColor(%d) = %q, want %q", tt.cluster, got, tt.want)
		}
	}
}

func TestScatterplot(t *testing.T) {
	records := []songs.Record{
		{PCAX: 0, PCAY: 0, Cluster: 0},
		{PCAX: 10, PCAY: 10, Cluster: 1},
		{PCAX: 5, PCAY: 5, Cluster: 0},
	}

	view := Scatterplot(records, intPtr(1), Size{Width: 800, Height: 500})

	if view.InnerWidth != 720 || view.InnerHeight != 430 {
		t.Fatalf("inner size = %vx%v, want 720x430", view.InnerWidth, view.InnerHeight)
	}
	if len(view.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(view.Groups))
	}

	first, second := view.Groups[0], view.Groups[1]
	if first.Cluster != 0 || second.Cluster != 1 {
		t.Errorf("group order = %d,%d, want 0,1", first.Cluster, second.Cluster)
	}
	if len(first.Marks) != 2 {
		t.Errorf("cluster 0 has %d marks, want 2", len(first.Marks))
	}
	if first.Opacity != 0.3 || second.Opacity != 1 {
		t.Errorf("opacities = %v,%v, want 0.3,1", first.Opacity, second.Opacity)
	}
	if first.Color != "#1f77b4" || second.Color != "#ff7f0e" {
		t.Errorf("colors = %s,%s", first.Color, second.Color)
	}

	origin := first.Marks[0]
	if origin.X != 0 || origin.Y != 430 {
		t.Errorf("origin mark = %+v, want {0 430}", origin)
	}
	corner := second.Marks[0]
	if corner.X != 720 || corner.Y != 0 {
		t.Errorf("corner mark = %+v, want {720 0}", corner)
	}
}

func TestScatterplotNoSelectionEmphasizesAll(t *testing.T) {
	records := []songs.Record{{Cluster: 0}, {PCAX: 1, PCAY: 1, Cluster: 2}}

	view := Scatterplot(records, nil, DefaultLayout().Scatter)

	for _, g := range view.Groups {
		if g.Opacity != 1 {
			t.Errorf("cluster %d opacity = %v, want 1", g.Cluster, g.Opacity)
		}
	}
}

func TestScatterplotDegenerateExtent(t *testing.T) {
	records := []songs.Record{{PCAX: 3, PCAY: 3, Cluster: 0}}

	view := Scatterplot(records, nil, Size{Width: 800, Height: 500})

	mark := view.Groups[0].Marks[0]
	if mark.X != 360 || mark.Y != 215 {
		t.Errorf("mark = %+v, want centered {360 215}", mark)
	}
}

func TestScatterplotEmpty(t *testing.T) {
	view := Scatterplot(nil, nil, Size{Width: 800, Height: 500})

	if len(view.Groups) != 0 {
		t.Errorf("got %d groups, want none", len(view.Groups))
	}
	if len(view.XTicks) == 0 || len(view.YTicks) == 0 {
		t.Error("empty data should still render axes")
	}
}

func TestFeatureBars(t *testing.T) {
	rows := []aggregate.FeatureAverage{
		{Feature: "energy", Mean: 0.5},
		{Feature: "danceability", Mean: math.NaN()},
		{Feature: "loudness", Mean: -0.2},
	}

	view := FeatureBars(rows, false, Size{Width: 520, Height: 360})

	if view.Fill != OverviewFill {
		t.Errorf("fill = %s, want %s", view.Fill, OverviewFill)
	}
	if len(view.Bars) != 3 {
		t.Fatalf("got %d bars, want 3", len(view.Bars))
	}

	energy := view.Bars[0]
	if energy.Height != 145 || energy.Y != 145 || energy.Value != "0.50" {
		t.Errorf("energy bar = %+v, want height 145 at 145 labelled 0.50", energy)
	}
	if energy.LabelY != 140 {
		t.Errorf("energy label y = %v, want 140", energy.LabelY)
	}

	nan := view.Bars[1]
	if nan.Height != 0 || nan.Value != "NaN" {
		t.Errorf("NaN bar = %+v, want zero height labelled NaN", nan)
	}

	negative := view.Bars[2]
	if negative.Height != 0 || negative.Y != 290 {
		t.Errorf("negative bar = %+v, want zero height on the axis", negative)
	}

	if !(view.Bars[0].X < view.Bars[1].X && view.Bars[1].X < view.Bars[2].X) {
		t.Error("bars should be laid out left to right")
	}
	if energy.Width <= 0 {
		t.Errorf("bar width = %v, want > 0", energy.Width)
	}
}

func TestFeatureBarsClusterFill(t *testing.T) {
	view := FeatureBars(nil, true, Size{Width: 520, Height: 360})

	if view.Fill != ClusterFill {
		t.Errorf("fill = %s, want %s", view.Fill, ClusterFill)
	}
	if len(view.Bars) != 0 {
		t.Errorf("got %d bars, want none", len(view.Bars))
	}
}

func TestClusterInfo(t *testing.T) {
	summary := aggregate.Summary{Count: 2, AvgDanceability: 0.3, AvgEnergy: 0.456, AvgValence: 1, AvgLoudness: 0}
	mood := clustering.GetMoodCategory(0.8, 0.7, 0.1)

	tests := []struct {
		name       string
		selected   *int
		title      string
		countLabel string
		showReset  bool
	}{
		{"overview", nil, "Dataset Overview", "Total Songs", false},
		{"cluster", intPtr(0), "Cluster 0 Details", "Songs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := ClusterInfo(summary, tt.selected, mood)

			if view.Title != tt.title {
				t.Errorf("Title = %q, want %q", view.Title, tt.title)
			}
			if view.Stats[0] != (Stat{tt.countLabel, "2"}) {
				t.Errorf("count stat = %+v", view.Stats[0])
			}
			if view.Stats[1].Value != "0.30" || view.Stats[2].Value != "0.46" {
				t.Errorf("averages = %+v", view.Stats[1:])
			}
			if view.ShowReset != tt.showReset {
				t.Errorf("ShowReset = %v, want %v", view.ShowReset, tt.showReset)
			}
			if view.MoodName != "Upbeat Party" {
				t.Errorf("MoodName = %q", view.MoodName)
			}
		})
	}
}

func TestTopN(t *testing.T) {
	rows := []aggregate.RankingRow{
		{Label: "pop", AvgPopularity: 100},
		{Label: "rock", AvgPopularity: 50},
	}

	view := TopN(rows, Size{Width: 50, Height: 50}, "Top Genres")

	if view.Width != 300 || view.Height != 200 {
		t.Fatalf("size = %dx%d, want fallback 300x200", view.Width, view.Height)
	}
	if view.Title != "Top Genres" {
		t.Errorf("Title = %q", view.Title)
	}
	if len(view.XTicks) != 6 || view.XTicks[5].Label != "100" {
		t.Errorf("x ticks = %+v, want 0..100 by 20", view.XTicks)
	}

	top := view.Bars[0]
	if top.Width != 220 || top.LabelX != 223 {
		t.Errorf("top bar = %+v, want width 220 labelled at 223", top)
	}
	if view.Bars[1].Width != 110 {
		t.Errorf("second bar width = %v, want 110", view.Bars[1].Width)
	}
	if view.Bars[1].Y <= top.Y {
		t.Error("rows should be laid out top to bottom")
	}
}

func TestTopNEmpty(t *testing.T) {
	view := TopN(nil, DefaultLayout().Ranking, "Top Artists")

	if len(view.Bars) != 0 {
		t.Errorf("got %d bars, want none", len(view.Bars))
	}
}

func TestFeatureBarsPNG(t *testing.T) {
	rows := make([]aggregate.FeatureAverage, 0, len(aggregate.Features))
	for i, f := range aggregate.Features {
		rows = append(rows, aggregate.FeatureAverage{Feature: f.Name, Mean: float64(i) / 10})
	}

	var buf bytes.Buffer
	if err := FeatureBarsPNG(&buf, rows, true, DefaultLayout().Bar); err != nil {
		t.Fatalf("FeatureBarsPNG() error = %v", err)
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG image")
	}
}

func TestFeatureBarsPNGEmpty(t *testing.T) {
	var buf bytes.Buffer

	err := FeatureBarsPNG(&buf, nil, false, DefaultLayout().Bar)
	if !errors.Is(err, ErrNoBars) {
		t.Errorf("FeatureBarsPNG() error = %v, want ErrNoBars", err)
	}
}
