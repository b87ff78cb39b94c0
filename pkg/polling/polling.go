// Package polling refreshes the processing snapshot: it fetches every source
// concurrently, overlays what came back on the last known snapshot and
// stores the result.
package polling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/gcpath/gcpath/pkg/sources"
	"github.com/gcpath/gcpath/pkg/sources/dol"
	"github.com/gcpath/gcpath/pkg/sources/uscis"
	"github.com/gcpath/gcpath/pkg/sources/visabulletin"
	"github.com/gcpath/gcpath/pkg/storage"
	"github.com/gcpath/gcpath/pkg/whttp"
	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned when every source failed.
var ErrNoData = errors.New("no source returned data")

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Config holds everything Poll needs.
type Config struct {
	Sources     []sources.Source
	DB          *storage.DB // optional; nil = fetch and merge only
	Concurrency int         // defaults to len(Sources) if <= 0
	Log         Logger      // optional; nil = no logging
	Now         func() time.Time

	// OnSourceDone is called after each fetch, from worker goroutines.
	OnSourceDone func(name string, err error)
}

// Result holds the outcome of one poll.
type Result struct {
	Snapshot   *snapshot.Snapshot
	Record     storage.Record   // zero when DB is nil
	Changes    []storage.Change // cutoff movements since the previous stored snapshot
	IsFirstRun bool
	Fetched    []string // names of the sources that succeeded, in config order
	Errors     []error  // non-fatal per-source errors
}

// DefaultSources builds the three government sources against cfg.
func DefaultSources(cfg sources.Config, client *whttp.Client) []sources.Source {
	return []sources.Source{
		visabulletin.New(cfg.VisaBulletinURL, client),
		uscis.New(cfg.USCISURL, client),
		dol.New(cfg.DOLURL, client),
	}
}

// Poll fetches all sources. A failing source is reported in Result.Errors
// and its sections keep their previous values. Poll fails only when no
// source succeeds, when the merged snapshot is invalid or when storing it
// fails.
func Poll(ctx context.Context, cfg Config) (*Result, error) {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("polling: %w: no sources configured", ErrNoData)
	}

	result := &Result{}
	base := snapshot.Default()
	if cfg.DB != nil {
		prev, err := cfg.DB.LatestSnapshot(ctx)
		switch {
		case errors.Is(err, storage.ErrNoSnapshot):
			result.IsFirstRun = true
			log.Infof("First poll, populating database...")
		case err != nil:
			log.Warnf("Could not load previous snapshot: %v", err)
		default:
			base.Merge(prev.Snapshot)
		}
	}

	parts, errs := fetchConcurrently(ctx, cfg.Sources, cfg.Concurrency, log, cfg.OnSourceDone)
	result.Errors = errs

	merged := base
	for i, part := range parts {
		if part == nil {
			continue
		}
		merged.Merge(part)
		result.Fetched = append(result.Fetched, cfg.Sources[i].Name())
	}
	if len(result.Fetched) == 0 {
		return result, fmt.Errorf("polling: %w: %w", ErrNoData, errors.Join(errs...))
	}
	// DOL queues are measured up to AsOf, so it never lags the poll month
	// even when the bulletin could not be read.
	if month := monthOf(now()); merged.AsOf.Before(month) {
		merged.AsOf = month
	}
	if err := merged.Validate(); err != nil {
		return result, fmt.Errorf("polling: %w", err)
	}
	result.Snapshot = merged

	if cfg.DB == nil {
		return result, nil
	}
	rec, changes, err := cfg.DB.SaveSnapshot(ctx, merged, now())
	if err != nil {
		return result, fmt.Errorf("polling: store snapshot: %w", err)
	}
	result.Record = rec
	result.Changes = changes
	log.Infof("Stored snapshot %s (as of %s), %d cutoff changes", rec.ID, rec.AsOf, len(changes))
	return result, nil
}

func monthOf(t time.Time) bulletin.MonthYear {
	t = t.UTC()
	return bulletin.NewMonthYear(t.Year(), t.Month())
}

// fetchConcurrently runs every source. parts[i] is nil when source i failed.
func fetchConcurrently(
	ctx context.Context,
	srcs []sources.Source,
	concurrency int,
	log Logger,
	onDone func(string, error),
) ([]*snapshot.Snapshot, []error) {
	if concurrency <= 0 {
		concurrency = len(srcs)
	}
	parts := make([]*snapshot.Snapshot, len(srcs))

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, src := range srcs {
		g.Go(func() error {
			log.Debugf("Fetching %s", src.Name())
			part, err := src.Fetch(gctx)
			if err == nil && part == nil {
				err = errors.New("empty result")
			}
			if err != nil {
				err = fmt.Errorf("%s: %w", src.Name(), err)
				log.Warnf("Source failed: %v", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			} else {
				parts[i] = part
			}
			if onDone != nil {
				onDone(src.Name(), err)
			}
			// Per-source failures never cancel the other fetches.
			return nil
		})
	}
	_ = g.Wait()
	return parts, errs
}
