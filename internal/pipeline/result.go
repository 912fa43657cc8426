package pipeline

import "sync"

// DocumentError records a per-document failure. One bad document never
// aborts the run.
type DocumentError struct {
	SourceURL string `json:"source_url"`
	Stage     string `json:"stage"`
	Message   string `json:"message"`
}

// Result summarizes one extraction run.
type Result struct {
	mu sync.Mutex

	AllocationsWritten int             `json:"allocations_written"`
	DuplicatesSkipped  int             `json:"duplicates_skipped"`
	StatisticsFound    int             `json:"statistics_found"`
	SegmentsSeen       int             `json:"segments_seen"`
	Errors             []DocumentError `json:"errors"`
}

func (r *Result) addError(sourceURL, stage string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, DocumentError{
		SourceURL: sourceURL,
		Stage:     stage,
		Message:   err.Error(),
	})
}

func (r *Result) addStatistics(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StatisticsFound += n
}
