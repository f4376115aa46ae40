// Package pipeline orchestrates an aggregation run: fetch raw messages
// from every source, structure them through the language model, persist
// the survivors, and link duplicates.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ambrish/job-aggregator/internal/extract"
	"github.com/ambrish/job-aggregator/internal/identity"
	"github.com/ambrish/job-aggregator/internal/llm"
	"github.com/ambrish/job-aggregator/internal/parsing"
	"github.com/ambrish/job-aggregator/internal/source"
	"github.com/ambrish/job-aggregator/internal/store"
	"github.com/ambrish/job-aggregator/internal/types"
)

// DefaultWorkers bounds concurrent model calls per source.
const DefaultWorkers = 4

// defaultLocation fills records whose candidate carried no location.
const defaultLocation = "Not specified"

// Aggregator drives the message-to-record pipeline for a set of sources.
type Aggregator struct {
	engine  *parsing.Engine
	client  llm.Client
	store   store.Store
	workers int
	verbose bool
	now     func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWorkers sets the structuring concurrency per source.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithVerbose enables per-message progress logging.
func WithVerbose(v bool) Option {
	return func(a *Aggregator) { a.verbose = v }
}

// New creates an Aggregator over the given provider client and store.
func New(client llm.Client, st store.Store, opts ...Option) *Aggregator {
	a := &Aggregator{
		engine:  parsing.NewEngine(client),
		client:  client,
		store:   st,
		workers: DefaultWorkers,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run processes every source and returns the run summary. Source
// failures are isolated: a source that cannot fetch, or whose messages
// all fail, is reported in its stats while the other sources proceed.
// The summary is returned even alongside a non-nil error.
func (a *Aggregator) Run(ctx context.Context, sources []source.Source) (*types.RunSummary, error) {
	summary := &types.RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: a.now().UTC(),
	}

	if err := a.client.Ping(ctx); err != nil {
		summary.FinishedAt = a.now().UTC()
		return summary, fmt.Errorf("provider unavailable: %w", err)
	}

	var (
		mu    sync.Mutex
		stats = make([]types.SourceStats, len(sources))
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			st, err := a.runSource(gctx, src, &mu)
			stats[i] = st
			// Only storage failures propagate; fetch and structuring
			// failures stay in per-source stats.
			return err
		})
	}
	storeErr := g.Wait()

	for _, st := range stats {
		summary.Add(st)
	}

	var runErr error
	if storeErr != nil {
		runErr = fmt.Errorf("storage failure: %w", storeErr)
	} else if err := ctx.Err(); err != nil {
		runErr = err
	} else {
		links, err := identity.Pass(ctx, a.store)
		if err != nil {
			runErr = fmt.Errorf("dedup pass: %w", err)
		} else {
			summary.DuplicateLinks = links
		}
	}

	if total, err := a.store.CountRecords(ctx); err == nil {
		summary.TotalStored = total
	}
	summary.FinishedAt = a.now().UTC()
	return summary, runErr
}

// runSource fetches one source and structures its messages through a
// bounded worker pool. Inserts are serialized behind mu so the store
// sees a single writer. A non-nil error means the storage layer failed
// a write; everything else is absorbed into the returned stats.
func (a *Aggregator) runSource(ctx context.Context, src source.Source, mu *sync.Mutex) (types.SourceStats, error) {
	st := types.SourceStats{Source: src.Name()}

	msgs, err := src.Fetch(ctx)
	if err != nil {
		st.Err = err.Error()
		log.Printf("source %s: fetch failed: %v", src.Name(), err)
		return st, nil
	}
	st.Processed = len(msgs)
	if len(msgs) == 0 {
		return st, nil
	}

	var (
		wg      sync.WaitGroup
		statsMu sync.Mutex
		fatal   error
	)
	jobs := make(chan types.RawMessage)

	workers := a.workers
	if workers > len(msgs) {
		workers = len(msgs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range jobs {
				statsMu.Lock()
				aborted := fatal != nil
				statsMu.Unlock()
				if aborted {
					continue
				}

				out, err := a.processMessage(ctx, msg, src.Name(), mu)
				statsMu.Lock()
				if err != nil {
					if fatal == nil {
						fatal = err
					}
					statsMu.Unlock()
					continue
				}
				if out.accepted {
					st.Accepted++
					if out.inserted {
						st.Inserted++
					} else if out.duplicate {
						st.Duplicate++
					}
				} else {
					st.Rejected++
				}
				statsMu.Unlock()
			}
		}()
	}

	for _, msg := range msgs {
		select {
		case jobs <- msg:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			st.Err = ctx.Err().Error()
			return st, fatal
		}
	}
	close(jobs)
	wg.Wait()

	if fatal != nil {
		st.Err = fatal.Error()
	}
	return st, fatal
}

type messageOutcome struct {
	accepted  bool
	inserted  bool
	duplicate bool
}

// processMessage runs one message through structuring and storage. A
// non-nil error is a storage write failure and aborts the run; provider
// and validation failures come back as a rejected outcome instead.
func (a *Aggregator) processMessage(ctx context.Context, msg types.RawMessage, sourceName string, mu *sync.Mutex) (messageOutcome, error) {
	candidate, err := a.engine.Structure(ctx, msg)
	if err != nil {
		var verr *parsing.ValidationError
		if !errors.As(err, &verr) && a.verbose {
			log.Printf("source %s: structuring failed: %v", sourceName, err)
		}
		return messageOutcome{}, nil
	}

	rec := promote(candidate, msg, sourceName, a.now().UTC())

	mu.Lock()
	inserted, err := a.store.InsertRecord(ctx, rec)
	mu.Unlock()
	if err != nil {
		log.Printf("source %s: insert failed for %s: %v", sourceName, rec.PostID, err)
		return messageOutcome{}, fmt.Errorf("inserting %s: %w", rec.PostID, err)
	}
	if a.verbose {
		status := "duplicate"
		if inserted {
			status = "inserted"
		}
		log.Printf("source %s: %s at %s (%s)", sourceName, rec.Role, rec.CompanyName, status)
	}
	return messageOutcome{accepted: true, inserted: inserted, duplicate: !inserted}, nil
}

// promote turns an accepted candidate into a persistable record.
func promote(c *types.JobCandidate, msg types.RawMessage, sourceName string, now time.Time) *types.JobRecord {
	location := strings.TrimSpace(c.Location)
	if location == "" {
		location = defaultLocation
	}
	return &types.JobRecord{
		PostID:             identity.PostID(c.CompanyName, c.Role, location),
		Role:               c.Role,
		CompanyName:        c.CompanyName,
		Location:           location,
		ExperienceRequired: c.ExperienceRequired,
		JobType:            c.JobType,
		ApplicationLink:    c.ApplicationLink,
		Description:        c.Description,
		Source:             sourceName,
		DatePosted:         msg.Timestamp(),
		ExtractedAt:        now.Format(extract.ISOLayout),
	}
}
