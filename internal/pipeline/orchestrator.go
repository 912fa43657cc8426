package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/openaudit/spendscan/internal/config"
	"github.com/openaudit/spendscan/internal/fetch"
)

// Orchestrator runs extraction jobs submitted over the API. Jobs queue
// up and are drained by a small worker pool; each job fetches its URL
// sources, then hands all documents to the Runner.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	runner  *Runner
	fetcher *fetch.Fetcher
	log     *slog.Logger
	cfg     config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the job pipeline.
func NewOrchestrator(cfg config.Config, runner *Runner, fetcher *fetch.Fetcher, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		runner:  runner,
		fetcher: fetcher,
		log:     log,
		cfg:     cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.JobWorkers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.process(workerCtx, job)
				}
			}
		}()
	}

	// Job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

func (o *Orchestrator) process(ctx context.Context, job *Job) {
	var fetchErrs []DocumentError
	if len(job.SourceURLs) > 0 {
		job.SetStatus(StatusFetching, "fetching sources")
		for _, rawURL := range job.SourceURLs {
			doc, err := o.fetcher.Fetch(ctx, rawURL)
			if err != nil {
				o.log.Warn("source fetch failed", "job", job.ID, "url", rawURL, "error", err)
				fetchErrs = append(fetchErrs, DocumentError{
					SourceURL: rawURL,
					Stage:     "fetch",
					Message:   err.Error(),
				})
				continue
			}
			job.AddDocument(doc)
		}
	}

	docs := job.Documents()
	if len(docs) == 0 && len(fetchErrs) > 0 {
		job.Fail("no sources could be fetched")
		return
	}

	job.SetStatus(StatusExtracting, "extracting allocations")
	res, err := o.runner.Run(ctx, job.FiscalYear, docs)
	if err != nil {
		job.Fail(err.Error())
		return
	}
	res.Errors = append(fetchErrs, res.Errors...)
	job.SetResult(res)
}
