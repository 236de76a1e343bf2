package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/justestif/go-song-cluster-explorer/internal/clustering"
	"github.com/justestif/go-song-cluster-explorer/internal/render"
	"github.com/justestif/go-song-cluster-explorer/internal/selection"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

// Status is the state of the one-time table load.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// ErrNotLoaded is returned when data is requested before the table is ready.
var ErrNotLoaded = errors.New("song table not loaded")

// Loader loads the song table once in the background and serves it read-only.
type Loader struct {
	src       songs.Source
	recluster int
	logger    *log.Entry

	once sync.Once
	done chan struct{}

	mu      sync.RWMutex
	status  Status
	records []songs.Record
	err     error
}

// NewLoader creates a loader for src. A positive recluster value reassigns
// cluster ids with k-means using that many clusters.
func NewLoader(src songs.Source, recluster int) *Loader {
	return &Loader{
		src:       src,
		recluster: recluster,
		status:    StatusLoading,
		done:      make(chan struct{}),
		logger: log.WithFields(log.Fields{
			"module": "loader",
		}),
	}
}

// Start begins loading in a background goroutine. Later calls do nothing.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.load(ctx)
	})
}

// Wait blocks until the load finishes or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		_, _, err := l.Records()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Records returns the loaded records with the load status.
// Records are nil until the status is ready.
func (l *Loader) Records() ([]songs.Record, Status, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records, l.status, l.err
}

// Snapshot builds the dashboard for state. Before the table is ready it
// returns empty views carrying the load status and error.
func (l *Loader) Snapshot(state selection.State, layout render.Layout, q Queries) Snapshot {
	records, status, err := l.Records()

	snap := Build(records, state, layout, q)
	snap.Status = status
	snap.Err = err
	return snap
}

func (l *Loader) load(ctx context.Context) {
	defer close(l.done)

	l.logger.Infof("Loading songs from %s", l.src)

	records, err := songs.Load(ctx, l.src)
	if err != nil {
		l.logger.WithError(err).Error("Failed to load song table")
		l.finish(nil, StatusFailed, fmt.Errorf("loading songs: %w", err))
		return
	}

	if l.recluster > 0 {
		reclustered, err := clustering.Recluster(records, clustering.Config{NumClusters: l.recluster})
		if err != nil {
			l.logger.WithError(err).Warn("Re-clustering failed, keeping upstream cluster ids")
		} else {
			records = reclustered
		}
	}

	l.logger.Info(clustering.FormatOverview(records))
	l.finish(records, StatusReady, nil)
}

func (l *Loader) finish(records []songs.Record, status Status, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = records
	l.status = status
	l.err = err
}
