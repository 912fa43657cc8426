package pipeline

import (
	"sync"
	"time"

	"github.com/openaudit/spendscan/internal/document"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusFetching   JobStatus = "fetching"
	StatusExtracting JobStatus = "extracting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks one asynchronous extraction run submitted over the API.
type Job struct {
	mu sync.Mutex

	ID         string    `json:"job_id"`
	FiscalYear string    `json:"fiscal_year"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	SourceURLs []string  `json:"source_urls,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Internal: not serialized.
	docs    []*document.RawDocument
	result  *Result
	failure string
}

// NewJob creates a queued job. Uploaded documents may be attached now;
// URL-sourced documents are fetched when the job runs.
func NewJob(fiscalYear string, sourceURLs []string, docs []*document.RawDocument) *Job {
	now := time.Now()
	return &Job{
		ID:         newJobID(),
		FiscalYear: fiscalYear,
		Status:     StatusQueued,
		SourceURLs: sourceURLs,
		CreatedAt:  now,
		UpdatedAt:  now,
		docs:       docs,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with a reason.
func (j *Job) Fail(reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.failure = reason
	j.UpdatedAt = time.Now()
}

// SetResult records the run outcome and completes the job.
func (j *Job) SetResult(res *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.Status = StatusCompleted
	j.UpdatedAt = time.Now()
}

// Documents returns the documents attached at submission time.
func (j *Job) Documents() []*document.RawDocument {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.docs
}

// AddDocument attaches a fetched document.
func (j *Job) AddDocument(doc *document.RawDocument) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.docs = append(j.docs, doc)
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	FiscalYear string    `json:"fiscal_year"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase,omitempty"`
	SourceURLs []string  `json:"source_urls,omitempty"`
	Failure    string    `json:"failure,omitempty"`
	Result     *Result   `json:"result,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:         j.ID,
		FiscalYear: j.FiscalYear,
		Status:     j.Status,
		Phase:      j.Phase,
		SourceURLs: j.SourceURLs,
		Failure:    j.failure,
		Result:     j.result,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
