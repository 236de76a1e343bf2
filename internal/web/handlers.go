package web

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/justestif/go-song-cluster-explorer/internal/aggregate"
	"github.com/justestif/go-song-cluster-explorer/internal/controls"
	"github.com/justestif/go-song-cluster-explorer/internal/dashboard"
	"github.com/justestif/go-song-cluster-explorer/internal/render"
	"github.com/justestif/go-song-cluster-explorer/internal/selection"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

const pageTitle = "Song Cluster Explorer"

// Dashboard provides the loaded songs and snapshots built from them.
type Dashboard interface {
	Snapshot(state selection.State, layout render.Layout, q dashboard.Queries) dashboard.Snapshot
	Records() ([]songs.Record, dashboard.Status, error)
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	data      Dashboard
	sessions  *SessionStore
	templates *Templates
	layout    render.Layout
	logger    *log.Entry
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(data Dashboard, sessions *SessionStore, templates *Templates, layout render.Layout) *Handlers {
	return &Handlers{
		data:      data,
		sessions:  sessions,
		templates: templates,
		layout:    layout,
		logger: log.WithFields(log.Fields{
			"module": "web",
		}),
	}
}

// Home renders the full dashboard page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.FromRequest(w, r)
	state, _ := h.sessions.State(id)

	data := h.pageData(r, state)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.render(w, func(buf *bytes.Buffer) error {
		return h.templates.Render(buf, "index", data)
	})
}

// SelectCluster selects a cluster and re-renders every view (POST /cluster/{id}).
func (h *Handlers) SelectCluster(w http.ResponseWriter, r *http.Request) {
	clusterID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid cluster id", http.StatusBadRequest)
		return
	}

	h.apply(w, r, selection.SelectCluster{ID: clusterID}, "dashboard")
}

// Filters replaces the checked genres and artists (POST /filters).
// Only the views over the filtered subset are re-rendered.
func (h *Handlers) Filters(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	action := selection.SetFilters{
		Genres:  r.PostForm[string(controls.KindGenre)],
		Artists: r.PostForm[string(controls.KindArtist)],
	}
	h.apply(w, r, action, "subset-views")
}

// Reset clears the selection and re-renders every view (POST /reset).
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, selection.Reset{}, "dashboard")
}

// Controls renders one filter list for a search query (GET /controls/{kind}).
func (h *Handlers) Controls(w http.ResponseWriter, r *http.Request) {
	kind, ok := controls.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	id := h.sessions.FromRequest(w, r)
	state, _ := h.sessions.State(id)

	snap := h.data.Snapshot(state, h.layout, queries(r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.render(w, func(buf *bytes.Buffer) error {
		return h.templates.RenderPartial(buf, "filter-list", snap.Controls.Of(kind))
	})
}

// snapshotResponse is the JSON form of a dashboard snapshot.
type snapshotResponse struct {
	Status     dashboard.Status           `json:"status"`
	Error      string                     `json:"error,omitempty"`
	Selection  selectionResponse          `json:"selection"`
	Clusters   []aggregate.ClusterCount   `json:"clusters"`
	Features   []aggregate.FeatureAverage `json:"features"`
	Summary    aggregate.Summary          `json:"summary"`
	Mood       string                     `json:"mood"`
	TopGenres  []aggregate.RankingRow     `json:"topGenres"`
	TopArtists []aggregate.RankingRow     `json:"topArtists"`
	Controls   controls.Lists             `json:"controls"`
}

type selectionResponse struct {
	Cluster *int     `json:"cluster"`
	Genres  []string `json:"genres"`
	Artists []string `json:"artists"`
}

// Snapshot returns the session's aggregates as JSON (GET /api/snapshot).
func (h *Handlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.FromRequest(w, r)
	state, _ := h.sessions.State(id)

	snap := h.data.Snapshot(state, h.layout, queries(r))

	resp := snapshotResponse{
		Status: snap.Status,
		Selection: selectionResponse{
			Cluster: snap.State.Cluster,
			Genres:  snap.State.Genres.Sorted(),
			Artists: snap.State.Artists.Sorted(),
		},
		Clusters:   snap.Clusters,
		Features:   finiteFeatures(snap.Features),
		Summary:    finiteSummary(snap.Summary),
		Mood:       snap.Mood.Name,
		TopGenres:  finiteRankings(snap.TopGenres),
		TopArtists: finiteRankings(snap.TopArtists),
		Controls:   snap.Controls,
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.WithError(err).Error("Failed to encode snapshot")
	}
}

// ExportFeatures writes the feature bar chart of the session as PNG (GET /export/features.png).
func (h *Handlers) ExportFeatures(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.FromRequest(w, r)
	state, _ := h.sessions.State(id)

	snap := h.data.Snapshot(state, h.layout, dashboard.Queries{})
	if snap.Status != dashboard.StatusReady {
		http.Error(w, dashboard.ErrNotLoaded.Error(), http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := render.FeatureBarsPNG(&buf, snap.Features, state.HasCluster(), h.layout.Bar); err != nil {
		h.logger.WithError(err).Error("Failed to export feature chart")
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="features.png"`)
	_, _ = w.Write(buf.Bytes())
}

// Health reports the table load status (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	records, status, err := h.data.Records()

	code := http.StatusOK
	if status == dashboard.StatusFailed {
		code = http.StatusServiceUnavailable
	}

	body := map[string]any{"status": status, "songs": len(records)}
	if err != nil {
		body["error"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// apply reduces the session state with action and responds with the named
// fragment. Requests not made by htmx are redirected to the full page.
func (h *Handlers) apply(w http.ResponseWriter, r *http.Request, action selection.Action, fragment string) {
	id := h.sessions.FromRequest(w, r)
	state, _ := h.sessions.Update(id, action)

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := h.pageData(r, state)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.render(w, func(buf *bytes.Buffer) error {
		return h.templates.RenderPartial(buf, fragment, data)
	})
}

func (h *Handlers) pageData(r *http.Request, state selection.State) DashboardPageData {
	return DashboardPageData{
		PageData: PageData{
			Title:       pageTitle,
			CurrentPath: r.URL.Path,
		},
		Snapshot: h.data.Snapshot(state, h.layout, queries(r)),
	}
}

// render executes fn into a buffer so a template error never leaves a
// half-written response.
func (h *Handlers) render(w http.ResponseWriter, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		h.logger.WithError(err).Error("Failed to render template")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
	_, _ = buf.WriteTo(w)
}

// queries reads the filter search boxes sent by the htmx includes.
func queries(r *http.Request) dashboard.Queries {
	return dashboard.Queries{
		Genre:  r.FormValue("genre_q"),
		Artist: r.FormValue("artist_q"),
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// finiteFeatures replaces NaN means with 0 so the rows encode as JSON.
func finiteFeatures(rows []aggregate.FeatureAverage) []aggregate.FeatureAverage {
	out := make([]aggregate.FeatureAverage, len(rows))
	for i, row := range rows {
		out[i] = aggregate.FeatureAverage{Feature: row.Feature, Mean: finite(row.Mean)}
	}
	return out
}

func finiteRankings(rows []aggregate.RankingRow) []aggregate.RankingRow {
	out := make([]aggregate.RankingRow, len(rows))
	for i, row := range rows {
		out[i] = aggregate.RankingRow{Label: row.Label, AvgPopularity: finite(row.AvgPopularity)}
	}
	return out
}

func finiteSummary(s aggregate.Summary) aggregate.Summary {
	s.AvgDanceability = finite(s.AvgDanceability)
	s.AvgEnergy = finite(s.AvgEnergy)
	s.AvgValence = finite(s.AvgValence)
	s.AvgLoudness = finite(s.AvgLoudness)
	return s
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
