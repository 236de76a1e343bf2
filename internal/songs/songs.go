// Package songs implements the in-memory record store for the pre-processed song table.
package songs

// Record represents one row of the song table after coercion.
// Loudness is min-max normalized over the full table at load time.
type Record struct {
	PCAX    float64
	PCAY    float64
	Cluster int

	Danceability     float64
	Energy           float64
	Loudness         float64
	Liveness         float64
	Valence          float64
	Speechiness      float64
	Instrumentalness float64
	Mode             float64
	Acousticness     float64

	PlaylistGenre string
	TrackArtist   string // possibly comma-joined, see SplitArtists

	TrackPopularity float64
	HasPopularity   bool // false when the source field was empty or NULL
}

// Artists returns the individual artist names of the record.
func (r Record) Artists() []string {
	return SplitArtists(r.TrackArtist)
}

// Source column names.
const (
	ColPCAX             = "pca_x"
	ColPCAY             = "pca_y"
	ColCluster          = "cluster"
	ColLoudness         = "loudness"
	ColEnergy           = "energy"
	ColDanceability     = "danceability"
	ColLiveness         = "liveness"
	ColValence          = "valence"
	ColSpeechiness      = "speechiness"
	ColInstrumentalness = "instrumentalness"
	ColMode             = "mode"
	ColAcousticness     = "acousticness"
	ColPlaylistGenre    = "playlist_genre"
	ColTrackArtist      = "track_artist"
	ColTrackPopularity  = "track_popularity"
)

// RequiredColumns lists every column a source table must provide.
var RequiredColumns = []string{
	ColPCAX,
	ColPCAY,
	ColCluster,
	ColLoudness,
	ColEnergy,
	ColDanceability,
	ColLiveness,
	ColValence,
	ColSpeechiness,
	ColInstrumentalness,
	ColMode,
	ColAcousticness,
	ColPlaylistGenre,
	ColTrackArtist,
	ColTrackPopularity,
}
