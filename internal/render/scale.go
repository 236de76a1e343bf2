package render

import (
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
)

// Tick is one labelled axis position in pixels.
type Tick struct {
	Pos   float64
	Label string
}

// linearScale maps a data domain onto [0, size] pixels.
// Inverted scales grow upwards, as SVG y axes need.
type linearScale struct {
	r      chart.ContinuousRange
	invert bool
}

func newLinearScale(min, max float64, size int, invert bool) linearScale {
	return linearScale{
		r:      chart.ContinuousRange{Min: min, Max: max, Domain: size},
		invert: invert,
	}
}

// At returns the pixel position of v. NaN maps to the start of the range and a
// zero-width domain maps everything to the middle.
func (s linearScale) At(v float64) float64 {
	var px float64
	switch {
	case math.IsNaN(v):
		px = 0
	case s.r.Max == s.r.Min:
		px = float64(s.r.Domain) / 2
	default:
		px = float64(s.r.Translate(v))
	}
	if s.invert {
		return float64(s.r.Domain) - px
	}
	return px
}

// Ticks returns evenly stepped ticks over the domain.
func (s linearScale) Ticks(count int) []Tick {
	values, decimals := niceTicks(s.r.Min, s.r.Max, count)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{
			Pos:   s.At(v),
			Label: strconv.FormatFloat(v, 'f', decimals, 64),
		}
	}
	return ticks
}

// extent returns the min and max of the finite values, or (0, 1) if there are none.
func extent(values []float64) (float64, float64) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 1
	}
	return chart.MinMax(finite...)
}

// niceTicks picks round tick values between start and stop using steps of
// 1, 2 or 5 times a power of ten. It also returns the decimals needed to print them.
func niceTicks(start, stop float64, count int) ([]float64, int) {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil, 0
	}
	if start == stop {
		return []float64{start}, 0
	}
	if start > stop {
		start, stop = stop, start
	}

	step0 := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step0))
	errRatio := step0 / math.Pow(10, power)

	factor := 1.0
	switch {
	case errRatio >= math.Sqrt(50):
		factor = 10
	case errRatio >= math.Sqrt(10):
		factor = 5
	case errRatio >= math.Sqrt(2):
		factor = 2
	}
	step := factor * math.Pow(10, power)

	decimals := 0
	if power < 0 {
		decimals = int(-power)
		if factor == 10 {
			decimals--
		}
	}

	lo := math.Ceil(start/step - 1e-9)
	hi := math.Floor(stop/step + 1e-9)
	var ticks []float64
	for i := lo; i <= hi; i++ {
		ticks = append(ticks, i*step)
	}
	return ticks, max(decimals, 0)
}

// bandScale splits [0, size] into equal bands with inner and outer padding.
type bandScale struct {
	start     float64
	step      float64
	bandwidth float64
}

func newBandScale(n int, size float64, padding float64) bandScale {
	if n == 0 {
		return bandScale{}
	}
	step := size / math.Max(1, float64(n)-padding+2*padding)
	return bandScale{
		start:     (size - step*(float64(n)-padding)) / 2,
		step:      step,
		bandwidth: step * (1 - padding),
	}
}

// At returns the start position of band i.
func (b bandScale) At(i int) float64 {
	return b.start + b.step*float64(i)
}

// Bandwidth returns the width of every band.
func (b bandScale) Bandwidth() float64 {
	return b.bandwidth
}
