package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a receipt extraction job.
type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobDone       JobStatus = "done"
	JobFailed     JobStatus = "failed"
)

// ReceiptJob tracks one background extraction triggered by a receipt upload.
type ReceiptJob struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	ItemCount int       `json:"itemCount"`
	Error     string    `json:"error,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type jobRegistry struct {
	mu   sync.Mutex
	jobs map[string]*ReceiptJob
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{jobs: make(map[string]*ReceiptJob)}
}

func (r *jobRegistry) create() ReceiptJob {
	job := &ReceiptJob{
		ID:        uuid.New().String(),
		Status:    JobProcessing,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()
	return *job
}

func (r *jobRegistry) get(id string) (ReceiptJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ReceiptJob{}, false
	}
	return *job, true
}

func (r *jobRegistry) setImageURL(id, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.ImageURL = url
	}
}

func (r *jobRegistry) complete(id string, itemCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Status = JobDone
		job.ItemCount = itemCount
	}
}

func (r *jobRegistry) fail(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Status = JobFailed
		job.Error = err.Error()
	}
}
