package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/webflowx/exporter/internal/job"
	"github.com/webflowx/exporter/internal/progress"
)

type progressResponse struct {
	JobID       string           `json:"job_id"`
	Status      string           `json:"status"`
	Events      []progress.Event `json:"events"`
	Error       *string          `json:"error"`
	FileReady   bool             `json:"file_ready"`
	FileName    string           `json:"file_name"`
	ArchiveSize *int64           `json:"archive_size"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	j, err := s.registry.Get(chi.URLParam(r, "job_id"))
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown job id")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load job")
		return
	}

	resp := progressResponse{
		JobID:     j.ID,
		Status:    string(j.Status),
		Events:    j.Events,
		FileReady: j.Status == job.StatusComplete && j.Archive != nil,
		FileName:  j.FileName(),
		UpdatedAt: j.UpdatedAt,
	}
	if resp.Events == nil {
		resp.Events = []progress.Event{}
	}
	if j.Error != "" {
		msg := j.Error
		resp.Error = &msg
	}
	if j.Archive != nil {
		size := j.Archive.Size
		resp.ArchiveSize = &size
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	j, err := s.registry.Get(chi.URLParam(r, "job_id"))
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown job id")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	if j.Status != job.StatusComplete || j.Archive == nil {
		writeError(w, http.StatusNotFound, "archive not ready")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename=`+j.FileName())
	http.ServeFile(w, r, j.Archive.Path)
}
