package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/salesboard/salesboard/internal/core/sales"
	"github.com/salesboard/salesboard/internal/source"
	"golang.org/x/sync/singleflight"
)

// ErrNoSources is returned when the loader has nothing to fetch.
var ErrNoSources = errors.New("no sources configured")

const loadKey = "table"

// Loader fetches every source once and serves the merged table thereafter.
//
// The first call to Table performs the load; concurrent first calls share it.
// A successful result is kept for the lifetime of the Loader and never
// invalidated. A failed load is not kept, so the next call retries.
type Loader struct {
	sources []source.Source
	now     func() time.Time

	mu    sync.RWMutex
	table *sales.Table
	group singleflight.Group // dedupes concurrent first loads
}

// New creates a loader over sources, concatenated in the given order.
func New(sources ...source.Source) *Loader {
	return &Loader{
		sources: sources,
		now:     time.Now,
	}
}

// Table returns the loaded table, loading it on first call.
// The context of the caller that triggers the load governs the fetch.
func (l *Loader) Table(ctx context.Context) (*sales.Table, error) {
	l.mu.RLock()
	if t := l.table; t != nil {
		l.mu.RUnlock()
		return t, nil
	}
	l.mu.RUnlock()

	result, err, _ := l.group.Do(loadKey, func() (interface{}, error) {
		// Double-check after winning the flight
		l.mu.RLock()
		if t := l.table; t != nil {
			l.mu.RUnlock()
			return t, nil
		}
		l.mu.RUnlock()

		t, err := l.load(ctx)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.table = t
		l.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*sales.Table), nil
}

// Ready reports whether a table has been loaded. It never triggers a load.
func (l *Loader) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table != nil
}

func (l *Loader) load(ctx context.Context) (*sales.Table, error) {
	if len(l.sources) == 0 {
		return nil, ErrNoSources
	}

	start := l.now()
	counts := make(map[string]int, len(l.sources))
	var rows []sales.Record

	for _, src := range l.sources {
		records, err := src.Fetch(ctx)
		if err != nil {
			slog.Error("[Loader] Source failed, aborting load", "source", src.Name(), "error", err)
			return nil, fmt.Errorf("loading %s: %w", src.Name(), err)
		}
		counts[src.Name()] += len(records)
		rows = append(rows, records...)
	}

	meta := sales.Metadata{
		LoadID:    uuid.NewString(),
		LoadedAt:  l.now(),
		RowCounts: counts,
	}

	slog.Info("[Loader] Sales table loaded",
		"load_id", meta.LoadID,
		"sources", len(l.sources),
		"rows", len(rows),
		"duration", meta.LoadedAt.Sub(start))

	return sales.NewTable(rows, meta), nil
}
