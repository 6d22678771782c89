// Package job orchestrates asynchronous export runs: one goroutine per job,
// tracked in a registry, observable through snapshot reads.
package job

import (
	"time"

	"github.com/webflowx/exporter/internal/progress"
)

// Status is the job lifecycle state. Complete and error are terminal.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Params are the request parameters an export job was created with.
type Params struct {
	URL             string
	OutputName      string
	RemoveBadge     bool
	GenerateSitemap bool
	SinglePage      bool
	Debug           bool
	Silent          bool
}

// Archive describes the finished deliverable on disk.
type Archive struct {
	Path string
	Size int64
}

// Job is one export request. It is mutated only through the registry, by the
// goroutine running its pipeline; readers get copies.
type Job struct {
	ID        string
	Params    Params
	Status    Status
	Error     string
	Events    []progress.Event
	Archive   *Archive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FileName is the attachment name the archive is served under.
func (j Job) FileName() string {
	name := j.Params.OutputName
	if name == "" {
		name = "webflow-export"
	}
	return name + ".zip"
}

// snapshot returns a copy deep enough that callers cannot reach the stored
// events or archive descriptor.
func (j *Job) snapshot() Job {
	out := *j
	out.Events = make([]progress.Event, len(j.Events))
	copy(out.Events, j.Events)
	if j.Archive != nil {
		archive := *j.Archive
		out.Archive = &archive
	}
	return out
}
