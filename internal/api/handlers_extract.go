package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/document"
	"github.com/openaudit/spendscan/internal/parser"
	"github.com/openaudit/spendscan/internal/pipeline"
)

// extractRequest is the JSON body for URL-sourced extraction runs.
type extractRequest struct {
	FiscalYear string   `json:"fiscal_year"`
	URLs       []string `json:"urls"`
}

// handleExtract accepts either a JSON body listing source URLs or a
// multipart form with uploaded documents, and queues an extraction job.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var job *pipeline.Job
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		job, err = s.jobFromUpload(w, r)
	} else {
		job, err = s.jobFromJSON(r)
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/extract/%s/status", job.ID),
	})
}

func (s *Server) jobFromJSON(r *http.Request) (*pipeline.Job, error) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if !budget.ValidFiscalYear(req.FiscalYear) {
		return nil, fmt.Errorf("fiscal_year is required in a form like 2024-25")
	}
	if len(req.URLs) == 0 {
		return nil, fmt.Errorf("urls is required")
	}
	return pipeline.NewJob(req.FiscalYear, req.URLs, nil), nil
}

func (s *Server) jobFromUpload(w http.ResponseWriter, r *http.Request) (*pipeline.Job, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	fiscalYear := r.FormValue("fiscal_year")
	if !budget.ValidFiscalYear(fiscalYear) {
		return nil, fmt.Errorf("fiscal_year is required in a form like 2024-25")
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one file is required")
	}

	var docs []*document.RawDocument
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filename, err)
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			return nil, fmt.Errorf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes)
		}

		ct, _ := document.TypeForFilename(filename)
		docs = append(docs, &document.RawDocument{
			SourceURL:   "upload://" + filename,
			Title:       strings.TrimSuffix(filename, filepath.Ext(filename)),
			ContentType: ct,
			Content:     data,
		})
	}

	return pipeline.NewJob(fiscalYear, nil, docs), nil
}

func (s *Server) handleExtractStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
