package songs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Unclustered is the cluster id given to rows whose cluster field is not a number.
const Unclustered = -1

// ErrMissingColumn is returned when a source table lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Table is a raw tabular result: a header row and string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Source provides the raw song table.
type Source interface {
	// Table fetches the whole table.
	Table(ctx context.Context) (Table, error)
	// String describes the source for logs.
	String() string
}

// Load fetches the table from src, coerces numeric fields and normalizes loudness.
// Malformed numeric cells become NaN and are kept; they are not dropped.
func Load(ctx context.Context, src Source) ([]Record, error) {
	logger := log.WithFields(log.Fields{"module": "songs", "source": src.String()})

	table, err := src.Table(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching song table: %w", err)
	}

	records, malformed, err := FromTable(table)
	if err != nil {
		return nil, err
	}
	if malformed > 0 {
		logger.Warnf("%d malformed numeric cells coerced to NaN", malformed)
	}

	NormalizeLoudness(records)

	logger.Infof("Loaded %d songs", len(records))
	return records, nil
}

// FromTable converts a raw table to records without normalizing loudness.
// It also reports how many numeric cells could not be parsed.
func FromTable(table Table) ([]Record, int, error) {
	index, err := columnIndex(table.Header)
	if err != nil {
		return nil, 0, err
	}

	records := make([]Record, 0, len(table.Rows))
	var malformed int

	for _, row := range table.Rows {
		cell := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}
		num := func(col string) float64 {
			v, ok := parseNumber(cell(col))
			if !ok {
				malformed++
			}
			return v
		}

		rec := Record{
			PCAX:             num(ColPCAX),
			PCAY:             num(ColPCAY),
			Cluster:          parseCluster(cell(ColCluster)),
			Danceability:     num(ColDanceability),
			Energy:           num(ColEnergy),
			Loudness:         num(ColLoudness),
			Liveness:         num(ColLiveness),
			Valence:          num(ColValence),
			Speechiness:      num(ColSpeechiness),
			Instrumentalness: num(ColInstrumentalness),
			Mode:             num(ColMode),
			Acousticness:     num(ColAcousticness),
			PlaylistGenre:    strings.TrimSpace(cell(ColPlaylistGenre)),
			TrackArtist:      cell(ColTrackArtist),
		}

		if pop := strings.TrimSpace(cell(ColTrackPopularity)); pop != "" {
			rec.TrackPopularity = num(ColTrackPopularity)
			rec.HasPopularity = true
		}

		records = append(records, rec)
	}

	return records, malformed, nil
}

// NormalizeLoudness rewrites every loudness to (l-min)/(max-min), with min and
// max taken once over the full set. NaN values are skipped when computing the
// range and stay NaN. A zero-width range maps every finite loudness to 0.
func NormalizeLoudness(records []Record) {
	minL, maxL := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		if math.IsNaN(r.Loudness) {
			continue
		}
		minL = math.Min(minL, r.Loudness)
		maxL = math.Max(maxL, r.Loudness)
	}

	span := maxL - minL
	for i := range records {
		l := records[i].Loudness
		switch {
		case math.IsNaN(l):
		case span == 0:
			records[i].Loudness = 0
		default:
			records[i].Loudness = (l - minL) / span
		}
	}
}

// CheckColumns reports which required columns a header lacks. The error
// wraps ErrMissingColumn.
func CheckColumns(header []string) error {
	_, err := columnIndex(header)
	return err
}

// columnIndex maps required column names to header positions.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

// parseNumber coerces a cell the way a loose numeric cast does:
// blank is 0, anything unparsable is NaN.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

func parseCluster(s string) int {
	v, ok := parseNumber(s)
	if !ok || math.IsInf(v, 0) {
		return Unclustered
	}
	return int(math.Round(v))
}
