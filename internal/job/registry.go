package job

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/webflowx/exporter/internal/progress"
)

// ErrNotFound is returned when a job id is unknown.
var ErrNotFound = errors.New("job not found")

// IDGenerator mints job ids.
type IDGenerator interface {
	NewID() (string, error)
}

// Clock supplies timestamps.
type Clock interface {
	Now() time.Time
}

// Registry is the in-memory job table. Inserts and lookups may race freely;
// each job is only ever mutated by the goroutine running it. Jobs are never
// evicted; retention is left to the process lifetime.
type Registry struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	ids   IDGenerator
	clock Clock
}

func NewRegistry(ids IDGenerator, clock Clock) *Registry {
	return &Registry{
		jobs:  make(map[string]*Job),
		ids:   ids,
		clock: clock,
	}
}

// Create inserts a queued job and returns a snapshot of it.
func (r *Registry) Create(params Params) (Job, error) {
	id, err := r.ids.NewID()
	if err != nil {
		return Job{}, fmt.Errorf("create job: %w", err)
	}
	now := r.clock.Now()
	j := &Job{
		ID:        id,
		Params:    params,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.jobs[id] = j
	r.mu.Unlock()

	return j.snapshot(), nil
}

// Get returns a snapshot of the job, or ErrNotFound.
func (r *Registry) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return j.snapshot(), nil
}

// MarkRunning transitions a queued job to running.
func (r *Registry) MarkRunning(id string) {
	r.mutate(id, func(j *Job) {
		j.Status = StatusRunning
	})
}

// AppendEvent records one progress event on the job.
func (r *Registry) AppendEvent(id string, e progress.Event) {
	r.mutate(id, func(j *Job) {
		j.Events = append(j.Events, e)
	})
}

// MarkComplete transitions the job to its successful terminal state and
// attaches the archive descriptor.
func (r *Registry) MarkComplete(id string, archive Archive) {
	r.mutate(id, func(j *Job) {
		j.Status = StatusComplete
		j.Archive = &archive
	})
}

// MarkFailed transitions the job to its error terminal state.
func (r *Registry) MarkFailed(id string, msg string) {
	r.mutate(id, func(j *Job) {
		j.Status = StatusError
		j.Error = msg
	})
}

func (r *Registry) mutate(id string, fn func(*Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return
	}
	fn(j)
	j.UpdatedAt = r.clock.Now()
}
